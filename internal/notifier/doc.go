// Package notifier delivers reminders and digests to the student.
//
// Messages are small, high-signal texts (a class starts in ten minutes, the
// morning digest, a task due today). Delivery is asynchronous: callers
// enqueue and a small worker pool sends through a pluggable Adapter, with
// rate limiting, bounded retry, and a short dedup window so a flapping
// reminder loop cannot spam the same message.
//
// Two adapters ship with the hub: a console adapter that writes through the
// structured logger, and a Telegram adapter for push delivery to a chat.
package notifier

package notifier

import (
	"context"
	"time"
)

// Config controls the async delivery pipeline.
type Config struct {
	Enabled       bool
	Workers       int
	QueueSize     int
	RatePerSec    int
	RetryMax      int
	RetryBase     time.Duration
	RetryMaxDelay time.Duration
	DedupWindow   time.Duration
}

// Message is one notification to deliver.
//
// Key identifies the logical event ("Calculus-9:00-10:30" for a class
// warning); messages sharing a Key inside the dedup window are suppressed.
// An empty Key disables dedup for that message.
type Message struct {
	Title string
	Body  string
	Kind  string
	Key   string
}

// Adapter is a delivery backend. Send must be safe for concurrent use and
// should honor ctx cancellation.
type Adapter interface {
	Name() string
	Send(ctx context.Context, m Message) error
}

// HistoryItem is a recently delivered message, kept for the status API.
type HistoryItem struct {
	At    time.Time `json:"at"`
	Kind  string    `json:"kind"`
	Title string    `json:"title"`
	Body  string    `json:"body"`
}

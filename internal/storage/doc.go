package storage

// Package storage is the key-value persistence layer behind the record
// repository. Each dashboard collection (courses, schedules, tasks, ...) is
// one JSON value under a stable key, mirroring the browser app this service
// replaces.
//
// Two drivers are provided:
//   - "file": snapshot + append-only JSONL journal with periodic compaction
//   - "sqlite": a single-file SQLite database

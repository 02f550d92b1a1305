package log

import (
	"strings"
	"sync"
)

// Entry is one buffered log record, shaped for the /logs endpoint and the
// "logs" telemetry channel.
type Entry struct {
	Timestamp float64 `json:"timestamp"` // epoch seconds
	Level     string  `json:"level"`     // DEBUG, INFO, WARNING, ERROR, CRITICAL
	Message   string  `json:"message"`
	Source    string  `json:"source"`
}

// levelPriority orders entry levels for minimum-level filtering.
var levelPriority = map[string]int{
	"DEBUG":    0,
	"INFO":     1,
	"WARNING":  2,
	"ERROR":    3,
	"CRITICAL": 4,
}

// LevelPriority returns the filter priority for a level name, 0 for unknown.
func LevelPriority(level string) int {
	return levelPriority[strings.ToUpper(level)]
}

// Buffer retains the most recent log entries in a fixed-size ring and feeds
// every appended entry into a bounded channel for the telemetry broadcaster.
// Emission never blocks: when the channel is full the entry is still
// buffered, only the live push is dropped.
type Buffer struct {
	mu      sync.RWMutex
	entries []Entry
	start   int // index of oldest entry
	count   int

	stream chan Entry
}

// NewBuffer creates a buffer holding up to size entries.
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		size = 2000
	}
	return &Buffer{
		entries: make([]Entry, size),
		stream:  make(chan Entry, 256),
	}
}

// Append adds an entry, evicting the oldest when full.
func (b *Buffer) Append(e Entry) {
	b.mu.Lock()
	idx := (b.start + b.count) % len(b.entries)
	b.entries[idx] = e
	if b.count < len(b.entries) {
		b.count++
	} else {
		b.start = (b.start + 1) % len(b.entries)
	}
	b.mu.Unlock()

	select {
	case b.stream <- e:
	default:
		// Stream consumer is behind; the entry stays retrievable via Page.
	}
}

// Stream returns the live entry channel consumed by the telemetry broadcaster.
func (b *Buffer) Stream() <-chan Entry {
	return b.stream
}

// Len returns the number of buffered entries.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

// Page returns up to limit entries at the given offset, newest first,
// keeping only entries at or above minLevel. The second return value is the
// total number of entries passing the filter.
func (b *Buffer) Page(limit, offset int, minLevel string) ([]Entry, int) {
	minPriority := LevelPriority(minLevel)

	b.mu.RLock()
	filtered := make([]Entry, 0, b.count)
	// Walk newest to oldest.
	for i := b.count - 1; i >= 0; i-- {
		e := b.entries[(b.start+i)%len(b.entries)]
		if levelPriority[e.Level] >= minPriority {
			filtered = append(filtered, e)
		}
	}
	b.mu.RUnlock()

	total := len(filtered)
	if offset >= total {
		return []Entry{}, total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return filtered[offset:end], total
}

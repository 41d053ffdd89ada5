// Package journal keeps a queryable record of finished recordings.
//
// The journal Listener appends one Entry per stopped interval recording and
// per instant recording to a Store. MemoryStore serves tests and short lived
// processes; SQLiteStore persists to a file:
//
//	store, err := journal.NewSQLiteStore("recordings.db")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//	rec := recorder.New(recorder.WithListener(journal.New(store)))
package journal

import (
	"errors"
	"time"

	"github.com/randalmurphal/recordkit/pkg/recordkit/tag"
)

// Store persists journal entries.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append stores an entry and assigns its sequence number.
	Append(e Entry) error

	// List returns the entries matching q, ordered by sequence.
	// Returns an empty slice (not error) if nothing matches.
	List(q Query) ([]Entry, error)

	// Count returns the number of entries matching q.
	Count(q Query) (int, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Kind tells interval entries from instant entries.
type Kind string

// Entry kinds.
const (
	KindInterval Kind = "interval"
	KindInstant  Kind = "instant"
)

// Entry is one finished recording.
type Entry struct {
	// Seq is assigned by the store on append, starting at 1.
	Seq int64

	ID          string
	Kind        Kind
	Event       string
	Name        string
	Description string

	// Time is the start of an interval recording or the time of an instant
	// recording.
	Time     time.Time
	Duration time.Duration
	Error    string
	Tags     []tag.Tag
}

// Query selects entries. Zero fields match everything.
type Query struct {
	Event string
	Kind  Kind
	Since time.Time

	// Limit caps the number of entries List returns. Count ignores it.
	Limit int
}

func (q Query) matches(e Entry) bool {
	if q.Event != "" && e.Event != q.Event {
		return false
	}
	if q.Kind != "" && e.Kind != q.Kind {
		return false
	}
	if !q.Since.IsZero() && e.Time.Before(q.Since) {
		return false
	}
	return true
}

// Sentinel errors for journal operations.
var (
	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("journal store closed")
)

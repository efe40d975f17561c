package history

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultInitialCapacity is the number of entries the log can hold before
	// it first grows.
	DefaultInitialCapacity = 5

	// EmptyCommandName is logged in place of a command name for blank lines.
	EmptyCommandName = "<empty>"

	// TimestampLayout is the layout entries are rendered with.
	TimestampLayout = time.ANSIC
)

// Entry is a single executed command.
type Entry struct {
	Name       string
	Timestamp  time.Time
	ResultCode int
}

// String renders the entry as "<timestamp> <name> <code>".
func (e Entry) String() string {
	return fmt.Sprintf("%s %s %d", e.Timestamp.Format(TimestampLayout), e.Name, e.ResultCode)
}

// LogOption changes how a Log is constructed.
type LogOption func(*Log)

// WithClock sets the time source used to stamp entries.
func WithClock(now func() time.Time) LogOption {
	return func(l *Log) {
		l.now = now
	}
}

// WithRecorder forwards every appended entry to r.
func WithRecorder(r Recorder) LogOption {
	return func(l *Log) {
		l.recorders = append(l.recorders, r)
	}
}

// WithSessionID overrides the randomly generated session ID.
func WithSessionID(id string) LogOption {
	return func(l *Log) {
		l.sessionID = id
	}
}

// Log is an append-only sequence of entries. Entries are never modified
// once appended.
type Log struct {
	entries   []Entry
	now       func() time.Time
	sessionID string
	recorders []Recorder
}

// NewLog creates an empty log able to hold initialCapacity entries before
// growing. Non-positive capacities use DefaultInitialCapacity.
func NewLog(initialCapacity int, opts ...LogOption) *Log {
	if initialCapacity <= 0 {
		initialCapacity = DefaultInitialCapacity
	}

	l := &Log{
		entries:   make([]Entry, 0, initialCapacity),
		now:       time.Now,
		sessionID: uuid.NewString(),
	}

	for _, o := range opts {
		o(l)
	}

	return l
}

// SessionID identifies this log in persisted records.
func (l *Log) SessionID() string {
	return l.sessionID
}

// Append stamps and stores a new entry then forwards it to the recorders.
// Recorder failures are logged but never fail the append.
func (l *Log) Append(name string, resultCode int) Entry {
	if len(l.entries) == cap(l.entries) {
		grown := make([]Entry, len(l.entries), 2*cap(l.entries))
		copy(grown, l.entries)
		l.entries = grown
	}

	entry := Entry{
		Name:       name,
		Timestamp:  l.now(),
		ResultCode: resultCode,
	}
	l.entries = append(l.entries, entry)

	record := NewRecord(l.sessionID, entry)
	for _, r := range l.recorders {
		if err := r.Record(record); err != nil {
			log.Printf("history: couldn't record %q: %v", name, err)
		}
	}

	return entry
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Cap returns the number of entries the log can hold before growing.
func (l *Log) Cap() int {
	return cap(l.entries)
}

// Entries returns a copy of the entries in insertion order.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Tail returns a copy of the last n entries.
func (l *Log) Tail(n int) []Entry {
	if n > len(l.entries) {
		n = len(l.entries)
	}
	if n < 0 {
		n = 0
	}
	out := make([]Entry, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// RenderAll writes one line per entry to w.
func (l *Log) RenderAll(w io.Writer) error {
	return RenderEntries(w, l.entries)
}

// RenderEntries writes one line per entry to w.
func RenderEntries(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, e.String()); err != nil {
			return err
		}
	}
	return nil
}

// Close releases every recorder that holds resources.
func (l *Log) Close() error {
	var errs []error
	for _, r := range l.recorders {
		if closer, ok := r.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	l.recorders = nil
	return errors.Join(errs...)
}

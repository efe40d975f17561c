package history

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Record is the persisted form of an Entry.
type Record struct {
	SessionID  string    `json:"session_id"`
	Name       string    `json:"name"`
	Timestamp  time.Time `json:"timestamp"`
	ResultCode int       `json:"result_code"`
}

// NewRecord creates a record for an entry logged in the given session.
func NewRecord(sessionID string, e Entry) Record {
	return Record{
		SessionID:  sessionID,
		Name:       e.Name,
		Timestamp:  e.Timestamp,
		ResultCode: e.ResultCode,
	}
}

// Entry converts the record back into a log entry.
func (r *Record) Entry() Entry {
	return Entry{
		Name:       r.Name,
		Timestamp:  r.Timestamp,
		ResultCode: r.ResultCode,
	}
}

// Recorder stores log records outside the interpreter.
type Recorder interface {
	Record(r Record) error
}

// RecorderFunc adapts a function to a Recorder.
type RecorderFunc func(r Record) error

// Record implements Recorder.
func (f RecorderFunc) Record(r Record) error {
	return f(r)
}

var _ Recorder = (RecorderFunc)(nil)

// JSONLinesRecorder exports records in newline delimited JSON object format.
type JSONLinesRecorder struct {
	w io.Writer
}

var _ Recorder = (*JSONLinesRecorder)(nil)

// NewJSONLinesRecorder creates a recorder writing one JSON object per line
// to w. If w is an io.Closer it's closed along with the recorder.
func NewJSONLinesRecorder(w io.Writer) *JSONLinesRecorder {
	return &JSONLinesRecorder{w: w}
}

// Record implements Recorder.
func (j *JSONLinesRecorder) Record(r Record) error {
	entry, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(j.w, string(entry))
	return err
}

// Close closes the underlying writer if it can be closed.
func (j *JSONLinesRecorder) Close() error {
	if closer, ok := j.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// ReadJSONLines parses a newline delimited JSON history.
func ReadJSONLines(r io.Reader, handler func(r *Record)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var record Record
		if err := decoder.Decode(&record); err != nil {
			return err
		}

		handler(&record)
	}
	return nil
}

// Package history is the interpreter's execution log: an append-only record
// of every command run, with recorders that persist entries outside the
// process and a report that summarizes persisted history.
package history

// Package report keeps records of recent script invocations so the host
// can drill into output after the notification has gone by. Records are
// held in memory only and do not survive the session.
package report

import (
	"fmt"
	"time"
)

// Record holds the observable output of one script invocation.
type Record struct {
	ID        string
	Workspace string
	Script    string
	ExitCode  int
	Stdout    string
	Stderr    string
	Truncated bool
	StartedAt time.Time
	Duration  time.Duration
}

// Failed reports whether the invocation ended with a non-zero exit code.
func (r *Record) Failed() bool {
	return r.ExitCode != 0
}

// Store persists and retrieves invocation records.
type Store interface {
	Save(rec *Record) error
	Load(runID string) (*Record, error)
	// Latest returns the most recently saved record.
	Latest() (*Record, error)
}

// NotFoundError is returned when a record is not in the store.
type NotFoundError struct {
	RunID string
}

func (e *NotFoundError) Error() string {
	if e.RunID == "" {
		return "no runs recorded yet"
	}
	return fmt.Sprintf("run %s not found (evicted or never recorded)", e.RunID)
}

package recorder

import (
	"time"

	"github.com/google/uuid"
)

// RefreshEvent describes one background refresh of the joined table.
type RefreshEvent struct {
	ID        uuid.UUID
	StartedAt time.Time
	Duration  time.Duration
	Period    string
	Requested []string
	Returned  []string // columns present in the table
	Rows      int
	Err       string // empty on success
}

// OK reports whether the refresh succeeded.
func (e *RefreshEvent) OK() bool { return e.Err == "" }

// Recorder keeps an operational log of refresh runs. It never stores price
// data.
type Recorder interface {
	RecordRefresh(evt *RefreshEvent) error
	Recent(limit int) ([]RefreshEvent, error)
	Close() error
}

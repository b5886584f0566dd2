package progress

import (
	"fmt"
	"io"
	"time"
)

// Tracker interface defines methods for tracking step progress
type Tracker interface {
	Start(operation string) *Operation
	Update(current, total int64)
	Complete()
	Error(err error)
}

// Status values of an Operation
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Operation represents a tracked step
type Operation struct {
	Name        string
	StartTime   time.Time
	Status      string
	LastUpdate  time.Time
	LastCurrent int64
	LastTotal   int64
}

// Percent returns the last reported completion in the range 0-100
func (o *Operation) Percent() int {
	if o.LastTotal <= 0 {
		return 0
	}
	return int(o.LastCurrent * 100 / o.LastTotal)
}

// ConsoleTracker implements Tracker for console output
type ConsoleTracker struct {
	out              io.Writer
	currentOperation *Operation
	lastPercent      int
	now              func() time.Time
}

// NewConsoleTracker creates a tracker that writes to w
func NewConsoleTracker(w io.Writer) *ConsoleTracker {
	return &ConsoleTracker{out: w, now: time.Now}
}

// Current returns the step being tracked, or nil
func (t *ConsoleTracker) Current() *Operation {
	return t.currentOperation
}

// Start begins tracking a new step
func (t *ConsoleTracker) Start(operation string) *Operation {
	now := t.now()
	t.currentOperation = &Operation{
		Name:       operation,
		StartTime:  now,
		LastUpdate: now,
		Status:     StatusInProgress,
	}
	t.lastPercent = -1
	fmt.Fprintf(t.out, "Starting: %s\n", operation)
	return t.currentOperation
}

// Update records progress of the current step. A line is only written when
// the whole percentage changes.
func (t *ConsoleTracker) Update(current, total int64) {
	if t.currentOperation == nil || total <= 0 {
		return
	}

	t.currentOperation.LastUpdate = t.now()
	t.currentOperation.LastCurrent = current
	t.currentOperation.LastTotal = total

	pct := t.currentOperation.Percent()
	if pct == t.lastPercent {
		return
	}
	t.lastPercent = pct
	fmt.Fprintf(t.out, "   %s: %d%% (%d/%d)\n", t.currentOperation.Name, pct, current, total)
}

// Complete marks the current step as completed
func (t *ConsoleTracker) Complete() {
	if t.currentOperation == nil {
		return
	}
	t.currentOperation.Status = StatusCompleted
	duration := t.now().Sub(t.currentOperation.StartTime).Round(time.Millisecond)
	fmt.Fprintf(t.out, "Completed: %s (took %v)\n", t.currentOperation.Name, duration)
	t.currentOperation = nil
}

// Error marks the current step as failed
func (t *ConsoleTracker) Error(err error) {
	if t.currentOperation == nil {
		return
	}
	t.currentOperation.Status = StatusFailed
	fmt.Fprintf(t.out, "Failed: %s - %v\n", t.currentOperation.Name, err)
	t.currentOperation = nil
}

// nopTracker discards all progress
type nopTracker struct{}

func (nopTracker) Start(operation string) *Operation {
	return &Operation{Name: operation, StartTime: time.Now(), Status: StatusInProgress}
}
func (nopTracker) Update(current, total int64) {}
func (nopTracker) Complete()                   {}
func (nopTracker) Error(err error)             {}

// Discard is a Tracker that reports nothing
var Discard Tracker = nopTracker{}

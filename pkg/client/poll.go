package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Operation is a long-running server-side job (indexing, importing).
// Response is kept raw: it is display data whose shape the service owns.
type Operation struct {
	Name     string          `json:"name"`
	Done     bool            `json:"done"`
	Error    *OperationError `json:"error,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`
}

// OperationError is the failure detail of a finished operation.
type OperationError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation failed (code %d): %s", e.Code, e.Message)
}

// JobState is the lifecycle of a polled indexing job.
type JobState int

const (
	StateSubmitted JobState = iota
	StateRunning
	StateSucceeded
	StateFailed
	StateTimedOut
)

// String returns a short label for display.
func (s JobState) String() string {
	switch s {
	case StateSubmitted:
		return "submitted"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateTimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further polling will change the state.
func (s JobState) Terminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateTimedOut
}

// IndexJob polls one operation to completion, one step at a time. The caller
// owns scheduling: the TUI steps it from a tick, the CLI from a sleep loop.
type IndexJob struct {
	client   *Client
	op       Operation
	state    JobState
	deadline time.Time
	failure  error
}

// NewIndexJob wraps a freshly submitted operation. A timeout of zero means
// the job never times out locally.
func (c *Client) NewIndexJob(op Operation, timeout time.Duration) *IndexJob {
	j := &IndexJob{client: c, op: op, state: StateSubmitted}
	if timeout > 0 {
		j.deadline = time.Now().Add(timeout)
	}
	j.absorb(op)
	return j
}

// State returns the current job state.
func (j *IndexJob) State() JobState { return j.state }

// Operation returns the most recently observed operation snapshot.
func (j *IndexJob) Operation() Operation { return j.op }

// Err returns the failure detail for StateFailed, nil otherwise.
func (j *IndexJob) Err() error { return j.failure }

// Step advances the job by exactly one poll. Terminal states are sticky and
// cost no further API calls. A transport error leaves the job running so the
// caller may keep stepping; the error is returned for surfacing.
func (j *IndexJob) Step(ctx context.Context) (JobState, error) {
	if j.state.Terminal() {
		return j.state, nil
	}
	if !j.deadline.IsZero() && time.Now().After(j.deadline) {
		j.state = StateTimedOut
		return j.state, nil
	}

	op, err := j.client.GetOperation(ctx, j.op.Name)
	if err != nil {
		j.state = StateRunning
		return j.state, err
	}
	j.absorb(*op)
	if !j.state.Terminal() {
		j.state = StateRunning
	}
	return j.state, nil
}

func (j *IndexJob) absorb(op Operation) {
	j.op = op
	switch {
	case op.Done && op.Error != nil:
		j.state = StateFailed
		j.failure = op.Error
	case op.Done:
		j.state = StateSucceeded
	}
}

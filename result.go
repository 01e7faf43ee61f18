package taskbatch

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Status tells whether a task produced a value or failed.
type Status int

const (
	StatusSuccess Status = iota
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	switch s {
	case StatusSuccess, StatusError:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("%w: unknown status %d", ErrValidation, int(s))
	}
}

func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "success":
		*s = StatusSuccess
	case "error":
		*s = StatusError
	default:
		return fmt.Errorf("%w: unknown status %q", ErrValidation, string(b))
	}
	return nil
}

// TaskResult is the outcome of one task, addressed by its submission index.
// Response holds the produced value when Status is StatusSuccess and the zero value
// otherwise; Err is non-nil only when Status is StatusError.
type TaskResult[R any] struct {
	Index    int
	Status   Status
	Response R
	Err      error
}

// OK reports whether the task succeeded.
func (r TaskResult[R]) OK() bool { return r.Status == StatusSuccess }

type taskResultJSON[R any] struct {
	Index          int     `json:"index"`
	ResponseStatus Status  `json:"responseStatus"`
	Response       *R      `json:"response"`
	Error          *string `json:"error"`
}

// MarshalJSON renders the result with a null response on failure and a null error on success.
func (r TaskResult[R]) MarshalJSON() ([]byte, error) {
	out := taskResultJSON[R]{Index: r.Index, ResponseStatus: r.Status}
	if r.Status == StatusSuccess {
		resp := r.Response
		out.Response = &resp
	} else if r.Err != nil {
		msg := r.Err.Error()
		out.Error = &msg
	}
	return json.Marshal(out)
}

func successResult[R any](index int, v R) TaskResult[R] {
	return TaskResult[R]{Index: index, Status: StatusSuccess, Response: v}
}

func errorResult[R any](index int, err error) TaskResult[R] {
	return TaskResult[R]{Index: index, Status: StatusError, Err: newTaskError(index, err)}
}

// Results is the immutable, index-ordered outcome of a run: At(i).Index == i.
// The zero value is an empty sequence.
type Results[R any] struct {
	items []TaskResult[R]
}

// Len returns the number of results.
func (rs Results[R]) Len() int { return len(rs.items) }

// At returns the result for submission index i. It panics if i is out of range.
func (rs Results[R]) At(i int) TaskResult[R] { return rs.items[i] }

// All returns a copy of the results in submission order.
func (rs Results[R]) All() []TaskResult[R] {
	out := make([]TaskResult[R], len(rs.items))
	copy(out, rs.items)
	return out
}

// Values returns the responses of successful tasks in submission order.
func (rs Results[R]) Values() []R {
	out := make([]R, 0, len(rs.items))
	for _, r := range rs.items {
		if r.Status == StatusSuccess {
			out = append(out, r.Response)
		}
	}
	return out
}

// Failed returns the number of failed tasks.
func (rs Results[R]) Failed() int {
	n := 0
	for _, r := range rs.items {
		if r.Status == StatusError {
			n++
		}
	}
	return n
}

// Err joins the errors of all failed tasks in submission order. It returns nil when
// every task succeeded.
func (rs Results[R]) Err() error {
	var errs []error
	for _, r := range rs.items {
		if r.Status == StatusError {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}

func (rs Results[R]) MarshalJSON() ([]byte, error) {
	if rs.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(rs.items)
}

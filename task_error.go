package taskbatch

import (
	"errors"
	"fmt"
)

// taskError is the contained failure of one task. It is stored in the task's
// TaskResult and never fails the run as a whole.
type taskError struct {
	Index int
	Err   error
}

func newTaskError(index int, err error) error {
	if err == nil {
		return nil
	}
	return &taskError{Index: index, Err: err}
}

func (e *taskError) Error() string { return e.Err.Error() }
func (e *taskError) Unwrap() error { return e.Err }

func (e *taskError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "task(index=%d): %+v", e.Index, e.Err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// ExtractTaskIndex returns the submission index of the task that produced err.
func ExtractTaskIndex(err error) (int, bool) {
	var te *taskError
	if errors.As(err, &te) {
		return te.Index, true
	}
	return 0, false
}

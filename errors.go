package taskbatch

import (
	"errors"
	"fmt"
)

const Namespace = "taskbatch"

// Error categories. Every error returned by this package matches exactly one of them
// with errors.Is.
var (
	ErrValidation    = errors.New(Namespace + ": validation error")
	ErrState         = errors.New(Namespace + ": state error")
	ErrEmptyBatch    = errors.New(Namespace + ": no tasks to process")
	ErrTaskPanicked  = errors.New(Namespace + ": task execution panicked")
	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")
)

var (
	ErrInvalidConcurrency    = fmt.Errorf("%w: Concurrency must be greater than 0", ErrValidation)
	ErrTaskNotInvocable      = fmt.Errorf("%w: task must be invocable", ErrValidation)
	ErrUnknownEventKind      = fmt.Errorf("%w: unknown event kind", ErrValidation)
	ErrNilHandler            = fmt.Errorf("%w: handler must not be nil", ErrValidation)
	ErrAddDuringProcessing   = fmt.Errorf("%w: cannot add during processing", ErrState)
	ErrAddAfterCompletion    = fmt.Errorf("%w: cannot add to a completed batch, call Reset first", ErrState)
	ErrResetDuringProcessing = fmt.Errorf("%w: cannot reset during processing", ErrState)
)

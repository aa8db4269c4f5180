package workflow

import "errors"

// Sentinel errors for every way a workflow operation can be refused. Services
// wrap these with fmt.Errorf("%w: ...") so handlers can map them to HTTP codes
// with errors.Is while the message still names the violated rule.
var (
	// ErrNotFound covers a missing order, step, or employee.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyInitialized means the order already has its workflow steps.
	ErrAlreadyInitialized = errors.New("workflow already initialized")

	// ErrOutOfSequence means a step was acted on before its predecessor completed.
	ErrOutOfSequence = errors.New("step out of sequence")

	// ErrUnassigned means a step was started without an assigned employee.
	ErrUnassigned = errors.New("step has no assigned employee")

	// ErrInvalidTransition means the requested status change is not in the
	// transition table (or rework is disabled by policy).
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrConcurrentModification means another caller changed the step between
	// this caller's read and write; the operation was not applied.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrStorageFailure means the file storage collaborator failed; step state
	// is unchanged.
	ErrStorageFailure = errors.New("file storage failure")

	// ErrEmployeeInactive means the employee exists but cannot take work.
	ErrEmployeeInactive = errors.New("employee is not active")
)

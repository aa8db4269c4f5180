package workflow

// StepStatus is the lifecycle status of a single workflow step.
type StepStatus string

const (
	StatusPending    StepStatus = "pending"
	StatusInProgress StepStatus = "in_progress"
	StatusCompleted  StepStatus = "completed"
	StatusRejected   StepStatus = "rejected"
	StatusOnHold     StepStatus = "on_hold"
)

// allowedTransitions is the full transition table. rejected -> in_progress is
// rework and is additionally gated by the engine's rework policy.
var allowedTransitions = map[StepStatus][]StepStatus{
	StatusPending:    {StatusInProgress},
	StatusInProgress: {StatusCompleted, StatusRejected, StatusOnHold},
	StatusOnHold:     {StatusInProgress},
	StatusRejected:   {StatusInProgress},
}

// IsValid reports whether s is one of the five known step statuses.
func (s StepStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusRejected, StatusOnHold:
		return true
	}
	return false
}

func (s StepStatus) String() string {
	return string(s)
}

// CanTransition reports whether the table permits from -> to. It does not
// apply the assignee, sequencing, or rework-policy checks; those belong to
// the engine because they need order and assignment state.
func CanTransition(from, to StepStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PermittedNext returns the statuses reachable from the given status.
func PermittedNext(from StepStatus) []StepStatus {
	next := allowedTransitions[from]
	out := make([]StepStatus, len(next))
	copy(out, next)
	return out
}

// IsRework reports whether from -> to re-opens a rejected step.
func IsRework(from, to StepStatus) bool {
	return from == StatusRejected && to == StatusInProgress
}

package budget

// Status represents the lifecycle status of a budget.
type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusPending    Status = "PENDING"
	StatusApproved   Status = "APPROVED"
	StatusRejected   Status = "REJECTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
	StatusOnHold     Status = "ON_HOLD"
)

// allowedTransitions is the explicit adjacency table for budget statuses.
// Transition legality is decided only by membership here, never inferred.
// REJECTED -> DRAFT is the re-open path taken by an explicit user action;
// the cascade coordinator never drives it.
var allowedTransitions = map[Status][]Status{
	StatusDraft:      {StatusPending, StatusCancelled},
	StatusPending:    {StatusApproved, StatusRejected, StatusDraft, StatusCancelled},
	StatusApproved:   {StatusInProgress, StatusOnHold, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusOnHold, StatusCancelled},
	StatusOnHold:     {StatusInProgress, StatusCancelled},
	StatusRejected:   {StatusDraft},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// IsValid checks if the status is a defined budget status.
func (s Status) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0 && s.IsValid()
}

// CanTransitionTo checks whether the status can move to the target status.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range allowedTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses reachable from the given status.
// The returned slice is a copy; callers may mutate it freely.
func AllowedTransitions(current Status) []Status {
	next := allowedTransitions[current]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// AllStatuses returns every defined budget status.
func AllStatuses() []Status {
	return []Status{
		StatusDraft,
		StatusPending,
		StatusApproved,
		StatusRejected,
		StatusInProgress,
		StatusCompleted,
		StatusCancelled,
		StatusOnHold,
	}
}

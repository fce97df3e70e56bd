package service

// Status represents the lifecycle status of a field service order.
type Status string

const (
	StatusDraft        Status = "DRAFT"
	StatusPending      Status = "PENDING"
	StatusScheduling   Status = "SCHEDULING"
	StatusPreparing    Status = "PREPARING"
	StatusInProgress   Status = "IN_PROGRESS"
	StatusOnHold       Status = "ON_HOLD"
	StatusScheduled    Status = "SCHEDULED"
	StatusCompleted    Status = "COMPLETED"
	StatusPartial      Status = "PARTIAL"
	StatusCancelled    Status = "CANCELLED"
	StatusNotPerformed Status = "NOT_PERFORMED"
	StatusExpired      Status = "EXPIRED"
)

// allowedTransitions is the explicit adjacency table for service statuses.
// Legality is decided only by membership here. The DRAFT column exists for
// the budget re-draft cascade; finished statuses have no outgoing rows.
var allowedTransitions = map[Status][]Status{
	StatusDraft:        {StatusPending, StatusCancelled},
	StatusPending:      {StatusScheduling, StatusInProgress, StatusDraft, StatusCancelled, StatusExpired},
	StatusScheduling:   {StatusScheduled, StatusPending, StatusDraft, StatusCancelled},
	StatusScheduled:    {StatusPreparing, StatusInProgress, StatusOnHold, StatusDraft, StatusCancelled},
	StatusPreparing:    {StatusInProgress, StatusOnHold, StatusNotPerformed, StatusDraft, StatusCancelled},
	StatusInProgress:   {StatusCompleted, StatusPartial, StatusOnHold, StatusDraft, StatusCancelled},
	StatusOnHold:       {StatusScheduled, StatusPreparing, StatusInProgress, StatusNotPerformed, StatusDraft, StatusCancelled},
	StatusCompleted:    {},
	StatusPartial:      {},
	StatusCancelled:    {},
	StatusNotPerformed: {},
	StatusExpired:      {},
}

// IsValid checks if the status is a defined service status.
func (s Status) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsFinished reports whether the status is a final outcome. Finished
// services are never moved by the cascade, with the single exception of
// budget cancellation turning IN_PROGRESS into PARTIAL, which fires before
// the service is finished.
func (s Status) IsFinished() bool {
	switch s {
	case StatusCompleted, StatusPartial, StatusCancelled, StatusNotPerformed, StatusExpired:
		return true
	}
	return false
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

// AllStatuses returns every defined service status.
func AllStatuses() []Status {
	return []Status{
		StatusDraft,
		StatusPending,
		StatusScheduling,
		StatusPreparing,
		StatusInProgress,
		StatusOnHold,
		StatusScheduled,
		StatusCompleted,
		StatusPartial,
		StatusCancelled,
		StatusNotPerformed,
		StatusExpired,
	}
}

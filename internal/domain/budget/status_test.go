package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"draft to pending", StatusDraft, StatusPending, true},
		{"draft to cancelled", StatusDraft, StatusCancelled, true},
		{"draft to approved", StatusDraft, StatusApproved, false},
		{"pending to approved", StatusPending, StatusApproved, true},
		{"pending to rejected", StatusPending, StatusRejected, true},
		{"pending back to draft", StatusPending, StatusDraft, true},
		{"approved to in progress", StatusApproved, StatusInProgress, true},
		{"approved to on hold", StatusApproved, StatusOnHold, true},
		{"approved to completed", StatusApproved, StatusCompleted, true},
		{"approved back to pending", StatusApproved, StatusPending, false},
		{"in progress to completed", StatusInProgress, StatusCompleted, true},
		{"on hold resumes", StatusOnHold, StatusInProgress, true},
		{"rejected reopens to draft", StatusRejected, StatusDraft, true},
		{"rejected to approved", StatusRejected, StatusApproved, false},
		{"completed is terminal", StatusCompleted, StatusDraft, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, false},
		{"self transition rejected", StatusDraft, StatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())

	for _, s := range []Status{StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusInProgress, StatusOnHold} {
		assert.False(t, s.IsTerminal(), "status %s should not be terminal", s)
	}

	assert.False(t, Status("BOGUS").IsTerminal())
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range AllStatuses() {
		assert.True(t, s.IsValid(), "status %s should be valid", s)
	}
	assert.False(t, Status("ARCHIVED").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestAllowedTransitions(t *testing.T) {
	t.Run("returns reachable statuses", func(t *testing.T) {
		next := AllowedTransitions(StatusPending)
		assert.ElementsMatch(t, []Status{StatusApproved, StatusRejected, StatusDraft, StatusCancelled}, next)
	})

	t.Run("terminal status has none", func(t *testing.T) {
		assert.Empty(t, AllowedTransitions(StatusCompleted))
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		next := AllowedTransitions(StatusDraft)
		next[0] = Status("MUTATED")
		assert.ElementsMatch(t, []Status{StatusPending, StatusCancelled}, AllowedTransitions(StatusDraft))
	})
}

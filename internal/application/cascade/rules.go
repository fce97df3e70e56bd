package cascade

import (
	"github.com/fieldops/backend/internal/domain/budget"
	"github.com/fieldops/backend/internal/domain/service"
)

// Movement source types used by the coordinator. Stock accounting is keyed
// per line item so two items of the same product on one service produce
// distinct idempotency keys.
const (
	SourceTypeServiceItem = "ServiceItem"
	SourceTypeBudgetItem  = "BudgetItem"
)

// budgetRule maps one (new budget status, current service status) cell to a
// derived service target. Rules are evaluated in order; the first match wins.
type budgetRule struct {
	budgetStatus budget.Status
	matches      func(current service.Status) bool
	target       service.Status
}

// budgetRules is the cascade table applied to each service owned by a
// budget whose status changed. Cells not covered here mean "leave the
// service alone". Finished services never match except the IN_PROGRESS row,
// which fires before the service is finished.
var budgetRules = []budgetRule{
	{
		budgetStatus: budget.StatusApproved,
		matches:      func(s service.Status) bool { return s == service.StatusPending },
		target:       service.StatusScheduling,
	},
	{
		budgetStatus: budget.StatusRejected,
		matches:      func(s service.Status) bool { return s == service.StatusPending },
		target:       service.StatusDraft,
	},
	{
		budgetStatus: budget.StatusCancelled,
		matches:      func(s service.Status) bool { return s == service.StatusInProgress },
		target:       service.StatusPartial,
	},
	{
		budgetStatus: budget.StatusCancelled,
		matches:      func(s service.Status) bool { return !s.IsFinished() },
		target:       service.StatusCancelled,
	},
	{
		budgetStatus: budget.StatusDraft,
		matches:      func(s service.Status) bool { return !s.IsFinished() && s != service.StatusDraft },
		target:       service.StatusDraft,
	},
}

// serviceTargetFor returns the derived service target for a budget status
// change, or false when no rule covers the cell.
func serviceTargetFor(budgetNew budget.Status, current service.Status) (service.Status, bool) {
	for _, rule := range budgetRules {
		if rule.budgetStatus == budgetNew && rule.matches(current) {
			return rule.target, true
		}
	}
	return "", false
}

// stockAction is what a service status change means for each
// product-bearing item.
type stockAction int

const (
	stockNone stockAction = iota
	stockReserve
	stockConsume
	stockRelease
	stockReturn
	// stockSettle gives back whatever the item's source still holds,
	// resolved against the movement trail at apply time: a live reservation
	// is released, consumed stock is returned, a clean source is left alone.
	// Used where the old status alone cannot tell what was taken.
	stockSettle
)

// stockActionFor maps a service transition to the ledger operation applied
// per item. Reservation-only states release on cancel; states where stock
// was physically taken return it. ON_HOLD is reachable from both reserved
// and consumed states, so leaving it for a terminal status settles from the
// ledger instead of guessing. NOT_PERFORMED likewise ends a service whose
// items may still hold reservations.
func stockActionFor(old, new service.Status) stockAction {
	switch new {
	case service.StatusPreparing:
		switch old {
		case service.StatusDraft, service.StatusPending, service.StatusScheduled:
			return stockReserve
		}
	case service.StatusInProgress:
		switch old {
		case service.StatusPending, service.StatusScheduled, service.StatusPreparing, service.StatusOnHold:
			return stockConsume
		}
	case service.StatusCancelled:
		switch old {
		case service.StatusPreparing:
			return stockRelease
		case service.StatusInProgress, service.StatusCompleted:
			return stockReturn
		case service.StatusOnHold:
			return stockSettle
		}
	case service.StatusNotPerformed:
		switch old {
		case service.StatusPreparing, service.StatusOnHold:
			return stockSettle
		}
	}
	return stockNone
}

package budget

import (
	"testing"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBudget(t *testing.T) *Budget {
	t.Helper()
	b, err := New(uuid.New(), "ORC-2026-001", uuid.New())
	require.NoError(t, err)
	b.ClearDomainEvents()
	return b
}

func TestNewBudget(t *testing.T) {
	t.Run("creates budget in draft", func(t *testing.T) {
		tenantID := uuid.New()
		customerID := uuid.New()

		b, err := New(tenantID, "ORC-2026-001", customerID)

		require.NoError(t, err)
		assert.Equal(t, StatusDraft, b.Status)
		assert.Equal(t, tenantID, b.TenantID)
		assert.Equal(t, customerID, b.CustomerID)
		assert.True(t, b.Total.IsZero())

		events := b.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeBudgetCreated, events[0].EventType())
	})

	t.Run("rejects empty code", func(t *testing.T) {
		_, err := New(uuid.New(), "", uuid.New())
		assert.Error(t, err)
	})

	t.Run("rejects nil customer", func(t *testing.T) {
		_, err := New(uuid.New(), "ORC-2026-002", uuid.Nil)
		assert.Error(t, err)
	})
}

func TestBudgetTransition(t *testing.T) {
	t.Run("legal transition updates status and emits event", func(t *testing.T) {
		b := newTestBudget(t)
		actorID := uuid.New()
		versionBefore := b.GetVersion()

		err := b.Transition(StatusPending, &actorID)

		require.NoError(t, err)
		assert.Equal(t, StatusPending, b.Status)
		assert.NotNil(t, b.StatusSetAt)
		assert.Equal(t, versionBefore+1, b.GetVersion())

		events := b.GetDomainEvents()
		require.Len(t, events, 1)
		evt, ok := events[0].(*StatusChangedEvent)
		require.True(t, ok)
		assert.Equal(t, StatusDraft, evt.OldStatus)
		assert.Equal(t, StatusPending, evt.NewStatus)
		require.NotNil(t, evt.ActorID)
		assert.Equal(t, actorID, *evt.ActorID)
	})

	t.Run("illegal transition leaves budget untouched", func(t *testing.T) {
		b := newTestBudget(t)
		versionBefore := b.GetVersion()

		err := b.Transition(StatusCompleted, nil)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ILLEGAL_TRANSITION", domainErr.Code)
		assert.Equal(t, StatusDraft, b.Status)
		assert.Equal(t, versionBefore, b.GetVersion())
		assert.Empty(t, b.GetDomainEvents())
	})

	t.Run("unknown target status is rejected before the table lookup", func(t *testing.T) {
		b := newTestBudget(t)

		err := b.Transition(Status("ARCHIVED"), nil)

		require.Error(t, err)
		assert.Equal(t, StatusDraft, b.Status)
	})

	t.Run("full approval path", func(t *testing.T) {
		b := newTestBudget(t)

		require.NoError(t, b.Transition(StatusPending, nil))
		require.NoError(t, b.Transition(StatusApproved, nil))
		require.NoError(t, b.Transition(StatusInProgress, nil))
		require.NoError(t, b.Transition(StatusCompleted, nil))

		assert.Equal(t, StatusCompleted, b.Status)
		assert.Error(t, b.Transition(StatusDraft, nil))
	})
}

func TestBudgetItems(t *testing.T) {
	t.Run("add item recalculates total", func(t *testing.T) {
		b := newTestBudget(t)
		productID := uuid.New()

		item, err := b.AddItem(&productID, "Hydraulic pump", decimal.NewFromInt(2), decimal.NewFromFloat(150.50))

		require.NoError(t, err)
		assert.True(t, item.Total.Equal(decimal.NewFromFloat(301.00)))
		assert.True(t, b.Total.Equal(decimal.NewFromFloat(301.00)))

		events := b.GetDomainEvents()
		require.Len(t, events, 1)
		added, ok := events[0].(*ItemAddedEvent)
		require.True(t, ok)
		assert.Equal(t, StatusDraft, added.BudgetStatus)
		require.NotNil(t, added.Item.ProductID)
		assert.Equal(t, productID, *added.Item.ProductID)
	})

	t.Run("item without product is allowed", func(t *testing.T) {
		b := newTestBudget(t)

		item, err := b.AddItem(nil, "Labor", decimal.NewFromInt(8), decimal.NewFromInt(90))

		require.NoError(t, err)
		assert.False(t, item.HasProduct())
		assert.Empty(t, b.ProductItems())
	})

	t.Run("rejects non positive quantity", func(t *testing.T) {
		b := newTestBudget(t)

		_, err := b.AddItem(nil, "Labor", decimal.Zero, decimal.NewFromInt(90))
		assert.Error(t, err)
	})

	t.Run("remove item recalculates total and emits event", func(t *testing.T) {
		b := newTestBudget(t)
		item, err := b.AddItem(nil, "Labor", decimal.NewFromInt(8), decimal.NewFromInt(90))
		require.NoError(t, err)
		_, err = b.AddItem(nil, "Parts", decimal.NewFromInt(1), decimal.NewFromInt(50))
		require.NoError(t, err)
		b.ClearDomainEvents()

		require.NoError(t, b.RemoveItem(item.ID))

		assert.True(t, b.Total.Equal(decimal.NewFromInt(50)))
		events := b.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeBudgetItemRemoved, events[0].EventType())
	})

	t.Run("remove unknown item fails", func(t *testing.T) {
		b := newTestBudget(t)
		assert.Error(t, b.RemoveItem(uuid.New()))
	})

	t.Run("update quantity recalculates totals", func(t *testing.T) {
		b := newTestBudget(t)
		item, err := b.AddItem(nil, "Labor", decimal.NewFromInt(8), decimal.NewFromInt(90))
		require.NoError(t, err)

		require.NoError(t, b.UpdateItemQuantity(item.ID, decimal.NewFromInt(10)))

		assert.True(t, b.Total.Equal(decimal.NewFromInt(900)))
	})

	t.Run("items are frozen once the budget is finished", func(t *testing.T) {
		b := newTestBudget(t)
		item, err := b.AddItem(nil, "Labor", decimal.NewFromInt(1), decimal.NewFromInt(90))
		require.NoError(t, err)
		require.NoError(t, b.Transition(StatusCancelled, nil))

		_, err = b.AddItem(nil, "Parts", decimal.NewFromInt(1), decimal.NewFromInt(10))
		assert.Error(t, err)
		assert.Error(t, b.RemoveItem(item.ID))
		assert.Error(t, b.UpdateItemQuantity(item.ID, decimal.NewFromInt(2)))
	})
}

package persistence

import (
	"context"
	"testing"
	"time"

	appinv "github.com/fieldops/backend/internal/application/inventory"
	"github.com/fieldops/backend/internal/domain/inventory"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStock(t *testing.T, tenantID, productID uuid.UUID, onHand int64) *inventory.ProductStock {
	t.Helper()
	stock, err := inventory.NewProductStock(tenantID, productID)
	require.NoError(t, err)
	require.NoError(t, stock.Receive(decimal.NewFromInt(onHand)))
	stock.ClearDomainEvents()
	return stock
}

func TestGormProductStockRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("save and find round trip", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormProductStockRepository(db)
		tenantID := uuid.New()
		productID := uuid.New()

		stock := newTestStock(t, tenantID, productID, 10)
		require.NoError(t, repo.Save(ctx, stock))

		found, err := repo.FindByProduct(ctx, tenantID, productID)
		require.NoError(t, err)
		assert.True(t, found.OnHand.Equal(decimal.NewFromInt(10)))
		assert.True(t, found.Reserved.IsZero())
	})

	t.Run("find is tenant scoped", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormProductStockRepository(db)
		productID := uuid.New()

		require.NoError(t, repo.Save(ctx, newTestStock(t, uuid.New(), productID, 10)))

		_, err := repo.FindByProduct(ctx, uuid.New(), productID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("one stock record per tenant and product", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormProductStockRepository(db)
		tenantID := uuid.New()
		productID := uuid.New()

		require.NoError(t, repo.Save(ctx, newTestStock(t, tenantID, productID, 10)))
		assert.Error(t, repo.Save(ctx, newTestStock(t, tenantID, productID, 5)))
	})

	t.Run("update persists counter changes", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormProductStockRepository(db)
		tenantID := uuid.New()
		productID := uuid.New()

		stock := newTestStock(t, tenantID, productID, 10)
		require.NoError(t, repo.Save(ctx, stock))

		require.NoError(t, stock.Reserve(decimal.NewFromInt(4)))
		stock.ClearDomainEvents()
		require.NoError(t, repo.Update(ctx, stock))

		found, err := repo.FindByProduct(ctx, tenantID, productID)
		require.NoError(t, err)
		assert.True(t, found.Reserved.Equal(decimal.NewFromInt(4)))
		assert.True(t, found.Available().Equal(decimal.NewFromInt(6)))
	})

	t.Run("list returns the tenant's stock records", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormProductStockRepository(db)
		tenantID := uuid.New()

		require.NoError(t, repo.Save(ctx, newTestStock(t, tenantID, uuid.New(), 10)))
		require.NoError(t, repo.Save(ctx, newTestStock(t, tenantID, uuid.New(), 20)))
		require.NoError(t, repo.Save(ctx, newTestStock(t, uuid.New(), uuid.New(), 30)))

		page, err := repo.List(ctx, tenantID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
		assert.Equal(t, int64(2), page.Total)
	})
}

func TestGormMovementRepository(t *testing.T) {
	ctx := context.Background()

	newMovement := func(t *testing.T, tenantID, productID uuid.UUID, kind inventory.MovementKind, sourceID uuid.UUID) *inventory.Movement {
		t.Helper()
		m, err := inventory.NewMovement(tenantID, productID, kind,
			decimal.NewFromInt(2), decimal.NewFromInt(-2), decimal.Zero,
			"ServiceItem", sourceID, "", nil)
		require.NoError(t, err)
		return m
	}

	t.Run("create and find by source", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormMovementRepository(db)
		tenantID := uuid.New()
		productID := uuid.New()
		sourceID := uuid.New()

		m := newMovement(t, tenantID, productID, inventory.MovementConsume, sourceID)
		require.NoError(t, repo.Create(ctx, m))

		found, err := repo.FindBySource(ctx, tenantID, productID, "ServiceItem", sourceID, inventory.MovementConsume)
		require.NoError(t, err)
		assert.Equal(t, m.ID, found.ID)

		_, err = repo.FindBySource(ctx, tenantID, productID, "ServiceItem", sourceID, inventory.MovementReturn)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("duplicate source key is rejected", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormMovementRepository(db)
		tenantID := uuid.New()
		productID := uuid.New()
		sourceID := uuid.New()

		require.NoError(t, repo.Create(ctx, newMovement(t, tenantID, productID, inventory.MovementConsume, sourceID)))

		err := repo.Create(ctx, newMovement(t, tenantID, productID, inventory.MovementConsume, sourceID))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("same source may record different kinds", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormMovementRepository(db)
		tenantID := uuid.New()
		productID := uuid.New()
		sourceID := uuid.New()

		require.NoError(t, repo.Create(ctx, newMovement(t, tenantID, productID, inventory.MovementConsume, sourceID)))
		require.NoError(t, repo.Create(ctx, newMovement(t, tenantID, productID, inventory.MovementReturn, sourceID)))

		trail, err := repo.ListBySource(ctx, tenantID, "ServiceItem", sourceID)
		require.NoError(t, err)
		assert.Len(t, trail, 2)
	})

	t.Run("list by product and by period", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormMovementRepository(db)
		tenantID := uuid.New()
		productID := uuid.New()

		require.NoError(t, repo.Create(ctx, newMovement(t, tenantID, productID, inventory.MovementConsume, uuid.New())))
		require.NoError(t, repo.Create(ctx, newMovement(t, tenantID, uuid.New(), inventory.MovementConsume, uuid.New())))

		byProduct, err := repo.ListByProduct(ctx, tenantID, productID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, byProduct.Items, 1)

		byPeriod, err := repo.ListByPeriod(ctx, tenantID,
			time.Now().Add(-time.Hour), time.Now().Add(time.Hour), shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, byPeriod.Items, 2)

		empty, err := repo.ListByPeriod(ctx, tenantID,
			time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour), shared.DefaultFilter())
		require.NoError(t, err)
		assert.Empty(t, empty.Items)
	})
}

func TestGormTransactionScope(t *testing.T) {
	ctx := context.Background()

	t.Run("rolls back all writes when the function fails", func(t *testing.T) {
		db := setupTestDB(t)
		scope := NewGormTransactionScope(db)
		tenantID := uuid.New()
		productID := uuid.New()

		err := scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
			if err := repos.StockRepo().Save(ctx, newTestStock(t, tenantID, productID, 10)); err != nil {
				return err
			}
			return assert.AnError
		})
		require.ErrorIs(t, err, assert.AnError)

		_, err = NewGormProductStockRepository(db).FindByProduct(ctx, tenantID, productID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("commits stock and movement together", func(t *testing.T) {
		db := setupTestDB(t)
		scope := NewGormTransactionScope(db)
		tenantID := uuid.New()
		productID := uuid.New()
		sourceID := uuid.New()

		err := scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
			stock := newTestStock(t, tenantID, productID, 10)
			if err := repos.StockRepo().Save(ctx, stock); err != nil {
				return err
			}
			m, err := inventory.NewMovement(tenantID, productID, inventory.MovementReceive,
				decimal.NewFromInt(10), decimal.NewFromInt(10), decimal.Zero,
				"GoodsReceipt", sourceID, "", nil)
			if err != nil {
				return err
			}
			return repos.MovementRepo().Create(ctx, m)
		})
		require.NoError(t, err)

		stock, err := NewGormProductStockRepository(db).FindByProduct(ctx, tenantID, productID)
		require.NoError(t, err)
		assert.True(t, stock.OnHand.Equal(decimal.NewFromInt(10)))

		trail, err := NewGormMovementRepository(db).ListBySource(ctx, tenantID, "GoodsReceipt", sourceID)
		require.NoError(t, err)
		assert.Len(t, trail, 1)
	})
}

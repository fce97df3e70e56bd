package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/fieldops/backend/internal/domain/inventory"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStockRepo is an in-memory ProductStockRepository keyed by (tenant, product).
type memStockRepo struct {
	stocks map[string]*inventory.ProductStock
	// scopeTenant controls whether lookups honor the tenant id. Disabling it
	// simulates a mis-scoped query so the service-level tenant check fires.
	scopeTenant bool
}

func newMemStockRepo() *memStockRepo {
	return &memStockRepo{stocks: make(map[string]*inventory.ProductStock), scopeTenant: true}
}

func (r *memStockRepo) key(tenantID, productID uuid.UUID) string {
	if !r.scopeTenant {
		return productID.String()
	}
	return tenantID.String() + "|" + productID.String()
}

func (r *memStockRepo) Save(_ context.Context, stock *inventory.ProductStock) error {
	r.stocks[r.key(stock.TenantID, stock.ProductID)] = stock
	return nil
}

func (r *memStockRepo) Update(_ context.Context, stock *inventory.ProductStock) error {
	r.stocks[r.key(stock.TenantID, stock.ProductID)] = stock
	return nil
}

func (r *memStockRepo) FindByProduct(_ context.Context, tenantID, productID uuid.UUID) (*inventory.ProductStock, error) {
	stock, ok := r.stocks[r.key(tenantID, productID)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return stock, nil
}

func (r *memStockRepo) FindByProductForUpdate(ctx context.Context, tenantID, productID uuid.UUID) (*inventory.ProductStock, error) {
	return r.FindByProduct(ctx, tenantID, productID)
}

func (r *memStockRepo) List(_ context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[*inventory.ProductStock], error) {
	items := make([]*inventory.ProductStock, 0)
	for _, stock := range r.stocks {
		if stock.TenantID == tenantID {
			items = append(items, stock)
		}
	}
	page := shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize)
	return &page, nil
}

// memMovementRepo is an in-memory append-only MovementRepository.
type memMovementRepo struct {
	movements []*inventory.Movement
}

func newMemMovementRepo() *memMovementRepo {
	return &memMovementRepo{}
}

func (r *memMovementRepo) Create(_ context.Context, movement *inventory.Movement) error {
	for _, m := range r.movements {
		if m.TenantID == movement.TenantID && m.ProductID == movement.ProductID &&
			m.SourceType == movement.SourceType && m.SourceID == movement.SourceID && m.Kind == movement.Kind {
			return shared.ErrAlreadyExists
		}
	}
	r.movements = append(r.movements, movement)
	return nil
}

func (r *memMovementRepo) FindBySource(_ context.Context, tenantID, productID uuid.UUID, sourceType string, sourceID uuid.UUID, kind inventory.MovementKind) (*inventory.Movement, error) {
	for _, m := range r.movements {
		if m.TenantID == tenantID && m.ProductID == productID &&
			m.SourceType == sourceType && m.SourceID == sourceID && m.Kind == kind {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memMovementRepo) ListByProduct(_ context.Context, tenantID, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[*inventory.Movement], error) {
	items := make([]*inventory.Movement, 0)
	for _, m := range r.movements {
		if m.TenantID == tenantID && m.ProductID == productID {
			items = append(items, m)
		}
	}
	page := shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize)
	return &page, nil
}

func (r *memMovementRepo) ListBySource(_ context.Context, tenantID uuid.UUID, sourceType string, sourceID uuid.UUID) ([]*inventory.Movement, error) {
	items := make([]*inventory.Movement, 0)
	for _, m := range r.movements {
		if m.TenantID == tenantID && m.SourceType == sourceType && m.SourceID == sourceID {
			items = append(items, m)
		}
	}
	return items, nil
}

func (r *memMovementRepo) ListByPeriod(_ context.Context, tenantID uuid.UUID, from, to time.Time, filter shared.Filter) (*shared.Paginated[*inventory.Movement], error) {
	items := make([]*inventory.Movement, 0)
	for _, m := range r.movements {
		if m.TenantID == tenantID && !m.CreatedAt.Before(from) && !m.CreatedAt.After(to) {
			items = append(items, m)
		}
	}
	page := shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize)
	return &page, nil
}

// capturingPublisher records published events.
type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

type ledgerFixture struct {
	svc          *Service
	stockRepo    *memStockRepo
	movementRepo *memMovementRepo
	tenantID     uuid.UUID
	productID    uuid.UUID
}

func newLedgerFixture(t *testing.T, onHand int64) *ledgerFixture {
	t.Helper()

	stockRepo := newMemStockRepo()
	movementRepo := newMemMovementRepo()
	svc := NewService(NewNoOpTransactionScope(stockRepo, movementRepo), stockRepo, movementRepo)

	f := &ledgerFixture{
		svc:          svc,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		tenantID:     uuid.New(),
		productID:    uuid.New(),
	}

	if onHand > 0 {
		_, err := svc.Receive(context.Background(), f.tenantID, ReceiveRequest{
			ProductID:  f.productID,
			Quantity:   decimal.NewFromInt(onHand),
			SourceType: "GoodsReceipt",
			SourceID:   uuid.New(),
		})
		require.NoError(t, err)
	}

	return f
}

func (f *ledgerFixture) request(qty int64, sourceID uuid.UUID) MovementRequest {
	return MovementRequest{
		ProductID:  f.productID,
		Quantity:   decimal.NewFromInt(qty),
		SourceType: "Service",
		SourceID:   sourceID,
		Reason:     "test",
	}
}

func (f *ledgerFixture) stock(t *testing.T) *StockResponse {
	t.Helper()
	stock, err := f.svc.GetStock(context.Background(), f.tenantID, f.productID)
	require.NoError(t, err)
	return stock
}

func TestServiceReserve(t *testing.T) {
	t.Run("reserves and records a movement", func(t *testing.T) {
		f := newLedgerFixture(t, 10)
		sourceID := uuid.New()

		result, err := f.svc.Reserve(context.Background(), f.tenantID, f.request(4, sourceID))

		require.NoError(t, err)
		assert.True(t, result.Applied)

		stock := f.stock(t)
		assert.True(t, stock.Reserved.Equal(decimal.NewFromInt(4)))
		assert.True(t, stock.Available.Equal(decimal.NewFromInt(6)))

		trail, err := f.svc.ListMovementsBySource(context.Background(), f.tenantID, "Service", sourceID)
		require.NoError(t, err)
		require.Len(t, trail, 1)
		assert.Equal(t, "RESERVE", trail[0].Kind)
		assert.True(t, trail[0].ReservedDelta.Equal(decimal.NewFromInt(4)))
	})

	t.Run("applying the same reserve twice is a no-op", func(t *testing.T) {
		f := newLedgerFixture(t, 10)
		req := f.request(4, uuid.New())

		first, err := f.svc.Reserve(context.Background(), f.tenantID, req)
		require.NoError(t, err)
		second, err := f.svc.Reserve(context.Background(), f.tenantID, req)
		require.NoError(t, err)

		assert.True(t, first.Applied)
		assert.False(t, second.Applied)
		assert.Equal(t, first.MovementID, second.MovementID)
		assert.True(t, f.stock(t).Reserved.Equal(decimal.NewFromInt(4)))
	})

	t.Run("insufficient stock leaves no trace", func(t *testing.T) {
		f := newLedgerFixture(t, 3)
		sourceID := uuid.New()

		_, err := f.svc.Reserve(context.Background(), f.tenantID, f.request(5, sourceID))

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)

		trail, err := f.svc.ListMovementsBySource(context.Background(), f.tenantID, "Service", sourceID)
		require.NoError(t, err)
		assert.Empty(t, trail)
		assert.True(t, f.stock(t).Reserved.IsZero())
	})

	t.Run("unknown product fails", func(t *testing.T) {
		f := newLedgerFixture(t, 10)
		req := f.request(1, uuid.New())
		req.ProductID = uuid.New()

		_, err := f.svc.Reserve(context.Background(), f.tenantID, req)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestServiceConsume(t *testing.T) {
	t.Run("settles a live reservation from the same source", func(t *testing.T) {
		f := newLedgerFixture(t, 10)
		sourceID := uuid.New()
		_, err := f.svc.Reserve(context.Background(), f.tenantID, f.request(4, sourceID))
		require.NoError(t, err)

		_, err = f.svc.Consume(context.Background(), f.tenantID, f.request(4, sourceID))

		require.NoError(t, err)
		stock := f.stock(t)
		assert.True(t, stock.OnHand.Equal(decimal.NewFromInt(6)))
		assert.True(t, stock.Reserved.IsZero())
	})

	t.Run("consumes directly without a reservation", func(t *testing.T) {
		f := newLedgerFixture(t, 10)

		_, err := f.svc.Consume(context.Background(), f.tenantID, f.request(3, uuid.New()))

		require.NoError(t, err)
		stock := f.stock(t)
		assert.True(t, stock.OnHand.Equal(decimal.NewFromInt(7)))
		assert.True(t, stock.Reserved.IsZero())
	})

	t.Run("released reservation no longer backs a consume", func(t *testing.T) {
		f := newLedgerFixture(t, 10)
		sourceID := uuid.New()
		_, err := f.svc.Reserve(context.Background(), f.tenantID, f.request(4, sourceID))
		require.NoError(t, err)
		_, err = f.svc.Release(context.Background(), f.tenantID, f.request(4, sourceID))
		require.NoError(t, err)

		_, err = f.svc.Consume(context.Background(), f.tenantID, f.request(4, sourceID))

		require.NoError(t, err)
		stock := f.stock(t)
		assert.True(t, stock.OnHand.Equal(decimal.NewFromInt(6)))
		assert.True(t, stock.Reserved.IsZero())
	})

	t.Run("cannot eat into other sources' reservations", func(t *testing.T) {
		f := newLedgerFixture(t, 10)
		_, err := f.svc.Reserve(context.Background(), f.tenantID, f.request(8, uuid.New()))
		require.NoError(t, err)

		_, err = f.svc.Consume(context.Background(), f.tenantID, f.request(5, uuid.New()))

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("duplicate consume is a no-op", func(t *testing.T) {
		f := newLedgerFixture(t, 10)
		req := f.request(3, uuid.New())

		_, err := f.svc.Consume(context.Background(), f.tenantID, req)
		require.NoError(t, err)
		second, err := f.svc.Consume(context.Background(), f.tenantID, req)
		require.NoError(t, err)

		assert.False(t, second.Applied)
		assert.True(t, f.stock(t).OnHand.Equal(decimal.NewFromInt(7)))
	})

	t.Run("publishes low stock alert after commit", func(t *testing.T) {
		f := newLedgerFixture(t, 10)
		publisher := &capturingPublisher{}
		f.svc.SetEventPublisher(publisher)
		require.NoError(t, f.svc.SetMinQuantity(context.Background(), f.tenantID, f.productID, decimal.NewFromInt(5)))

		_, err := f.svc.Consume(context.Background(), f.tenantID, f.request(6, uuid.New()))

		require.NoError(t, err)
		require.Len(t, publisher.events, 1)
		assert.Equal(t, "StockBelowThreshold", publisher.events[0].EventType())
	})
}

func TestServiceReleaseAndReturn(t *testing.T) {
	t.Run("release frees the reservation", func(t *testing.T) {
		f := newLedgerFixture(t, 10)
		sourceID := uuid.New()
		_, err := f.svc.Reserve(context.Background(), f.tenantID, f.request(4, sourceID))
		require.NoError(t, err)

		_, err = f.svc.Release(context.Background(), f.tenantID, f.request(4, sourceID))

		require.NoError(t, err)
		stock := f.stock(t)
		assert.True(t, stock.Reserved.IsZero())
		assert.True(t, stock.OnHand.Equal(decimal.NewFromInt(10)))
	})

	t.Run("release without a reservation is invalid", func(t *testing.T) {
		f := newLedgerFixture(t, 10)

		_, err := f.svc.Release(context.Background(), f.tenantID, f.request(2, uuid.New()))

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidMovement)
	})

	t.Run("return restores consumed stock", func(t *testing.T) {
		f := newLedgerFixture(t, 10)
		sourceID := uuid.New()
		_, err := f.svc.Consume(context.Background(), f.tenantID, f.request(4, sourceID))
		require.NoError(t, err)

		_, err = f.svc.Return(context.Background(), f.tenantID, f.request(4, sourceID))

		require.NoError(t, err)
		assert.True(t, f.stock(t).OnHand.Equal(decimal.NewFromInt(10)))
	})

	t.Run("return without a matching consume is invalid", func(t *testing.T) {
		f := newLedgerFixture(t, 10)

		_, err := f.svc.Return(context.Background(), f.tenantID, f.request(2, uuid.New()))

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidMovement)
		assert.True(t, f.stock(t).OnHand.Equal(decimal.NewFromInt(10)))
	})

	t.Run("duplicate return is a no-op", func(t *testing.T) {
		f := newLedgerFixture(t, 10)
		req := f.request(4, uuid.New())
		_, err := f.svc.Consume(context.Background(), f.tenantID, req)
		require.NoError(t, err)

		_, err = f.svc.Return(context.Background(), f.tenantID, req)
		require.NoError(t, err)
		second, err := f.svc.Return(context.Background(), f.tenantID, req)
		require.NoError(t, err)

		assert.False(t, second.Applied)
		assert.True(t, f.stock(t).OnHand.Equal(decimal.NewFromInt(10)))
	})
}

func TestServiceTenantBoundaries(t *testing.T) {
	t.Run("tenants do not see each other's stock", func(t *testing.T) {
		f := newLedgerFixture(t, 10)
		otherTenant := uuid.New()

		_, err := f.svc.Reserve(context.Background(), otherTenant, f.request(1, uuid.New()))

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("mis-scoped stock row is rejected", func(t *testing.T) {
		f := newLedgerFixture(t, 10)
		// Simulate a repository that ignores tenant scoping.
		f.stockRepo.scopeTenant = false
		stocks := f.stockRepo.stocks
		f.stockRepo.stocks = make(map[string]*inventory.ProductStock)
		for _, stock := range stocks {
			f.stockRepo.stocks[stock.ProductID.String()] = stock
		}

		_, err := f.svc.Reserve(context.Background(), uuid.New(), f.request(1, uuid.New()))

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrTenantMismatch)
	})
}

func TestServiceMovementQueries(t *testing.T) {
	f := newLedgerFixture(t, 10)
	sourceID := uuid.New()
	_, err := f.svc.Reserve(context.Background(), f.tenantID, f.request(4, sourceID))
	require.NoError(t, err)
	_, err = f.svc.Consume(context.Background(), f.tenantID, f.request(4, sourceID))
	require.NoError(t, err)

	t.Run("by product", func(t *testing.T) {
		page, err := f.svc.ListMovementsByProduct(context.Background(), f.tenantID, f.productID, shared.DefaultFilter())
		require.NoError(t, err)
		// receive + reserve + consume
		assert.Len(t, page.Items, 3)
	})

	t.Run("by source", func(t *testing.T) {
		trail, err := f.svc.ListMovementsBySource(context.Background(), f.tenantID, "Service", sourceID)
		require.NoError(t, err)
		assert.Len(t, trail, 2)
	})

	t.Run("by period", func(t *testing.T) {
		page, err := f.svc.ListMovementsByPeriod(context.Background(), f.tenantID,
			time.Now().Add(-time.Hour), time.Now().Add(time.Hour), shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, page.Items, 3)
	})
}

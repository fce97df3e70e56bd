package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fieldops/backend/internal/domain/inventory"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is the inventory ledger. Every stock change goes through it: the
// counter update and the movement append happen in one transaction, the
// product row is locked for the duration, and a movement that already
// exists for the same (source type, source id, kind) makes the call a
// no-op returning the original movement.
type Service struct {
	txScope        TransactionScope
	stockRepo      inventory.ProductStockRepository
	movementRepo   inventory.MovementRepository
	eventPublisher shared.EventPublisher
}

// NewService creates a new inventory ledger service. stockRepo and
// movementRepo serve reads outside a transaction; writes go through txScope.
func NewService(
	txScope TransactionScope,
	stockRepo inventory.ProductStockRepository,
	movementRepo inventory.MovementRepository,
) *Service {
	return &Service{
		txScope:      txScope,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
	}
}

// SetEventPublisher sets the publisher for domain events raised by stock
// records (low-stock alerts). Events are published after the transaction
// commits.
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Reserve earmarks available stock for a future consume by the same source.
func (s *Service) Reserve(ctx context.Context, tenantID uuid.UUID, req MovementRequest) (*MovementResult, error) {
	return s.apply(ctx, tenantID, inventory.MovementReserve, req,
		func(repos TransactionalRepositories, stock *inventory.ProductStock) (decimal.Decimal, decimal.Decimal, error) {
			if err := stock.Reserve(req.Quantity); err != nil {
				return decimal.Zero, decimal.Zero, err
			}
			return decimal.Zero, req.Quantity, nil
		})
}

// Release gives a reservation back without touching on-hand stock. The
// requesting source must hold a live reservation; releasing on behalf of a
// source that never reserved would hand out another source's hold.
func (s *Service) Release(ctx context.Context, tenantID uuid.UUID, req MovementRequest) (*MovementResult, error) {
	return s.apply(ctx, tenantID, inventory.MovementRelease, req,
		func(repos TransactionalRepositories, stock *inventory.ProductStock) (decimal.Decimal, decimal.Decimal, error) {
			held, err := s.holdsReservation(ctx, repos, tenantID, req)
			if err != nil {
				return decimal.Zero, decimal.Zero, err
			}
			if !held {
				return decimal.Zero, decimal.Zero, shared.NewDomainError("INVALID_MOVEMENT",
					fmt.Sprintf("Source %s/%s holds no reservation for product %s", req.SourceType, req.SourceID, req.ProductID))
			}
			if err := stock.Release(req.Quantity); err != nil {
				return decimal.Zero, decimal.Zero, err
			}
			return decimal.Zero, req.Quantity.Neg(), nil
		})
}

// Consume removes stock from hand. A live reservation held by the same
// source is settled; otherwise the quantity must be available beyond
// existing reservations.
func (s *Service) Consume(ctx context.Context, tenantID uuid.UUID, req MovementRequest) (*MovementResult, error) {
	return s.apply(ctx, tenantID, inventory.MovementConsume, req,
		func(repos TransactionalRepositories, stock *inventory.ProductStock) (decimal.Decimal, decimal.Decimal, error) {
			fromReservation, err := s.holdsReservation(ctx, repos, tenantID, req)
			if err != nil {
				return decimal.Zero, decimal.Zero, err
			}
			if err := stock.Consume(req.Quantity, fromReservation); err != nil {
				return decimal.Zero, decimal.Zero, err
			}
			reservedDelta := decimal.Zero
			if fromReservation {
				reservedDelta = req.Quantity.Neg()
			}
			return req.Quantity.Neg(), reservedDelta, nil
		})
}

// Return puts previously consumed stock back on hand. The requesting source
// must have consumed first; a return without a matching consume is invalid.
func (s *Service) Return(ctx context.Context, tenantID uuid.UUID, req MovementRequest) (*MovementResult, error) {
	return s.apply(ctx, tenantID, inventory.MovementReturn, req,
		func(repos TransactionalRepositories, stock *inventory.ProductStock) (decimal.Decimal, decimal.Decimal, error) {
			_, err := repos.MovementRepo().FindBySource(ctx, tenantID, req.ProductID, req.SourceType, req.SourceID, inventory.MovementConsume)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return decimal.Zero, decimal.Zero, shared.NewDomainError("INVALID_MOVEMENT",
						fmt.Sprintf("Source %s/%s has no consume to return for product %s", req.SourceType, req.SourceID, req.ProductID))
				}
				return decimal.Zero, decimal.Zero, err
			}
			if err := stock.Return(req.Quantity); err != nil {
				return decimal.Zero, decimal.Zero, err
			}
			return req.Quantity, decimal.Zero, nil
		})
}

// Receive adds newly arrived stock, creating the stock record on first use.
func (s *Service) Receive(ctx context.Context, tenantID uuid.UUID, req ReceiveRequest) (*MovementResult, error) {
	mreq := MovementRequest{
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		SourceType: req.SourceType,
		SourceID:   req.SourceID,
		Reason:     req.Reason,
		ActorID:    req.ActorID,
	}
	return s.applyWithStock(ctx, tenantID, inventory.MovementReceive, mreq, true,
		func(repos TransactionalRepositories, stock *inventory.ProductStock) (decimal.Decimal, decimal.Decimal, error) {
			if err := stock.Receive(req.Quantity); err != nil {
				return decimal.Zero, decimal.Zero, err
			}
			return req.Quantity, decimal.Zero, nil
		})
}

// SourceState is what the ledger currently holds on behalf of one source.
type SourceState struct {
	// HoldsReservation is true when a RESERVE movement exists that no
	// RELEASE or CONSUME has settled yet.
	HoldsReservation bool
	// HasConsumed is true when a CONSUME movement exists that no RETURN
	// has undone yet.
	HasConsumed bool
}

// StateOfSource reads the movement trail for one (source type, source id,
// product) and reports what the source still holds. Callers that need to
// unwind a source without knowing its history decide between Release and
// Return from this.
func (s *Service) StateOfSource(ctx context.Context, tenantID, productID uuid.UUID, sourceType string, sourceID uuid.UUID) (SourceState, error) {
	var state SourceState

	kinds := map[inventory.MovementKind]bool{}
	for _, kind := range []inventory.MovementKind{
		inventory.MovementReserve,
		inventory.MovementRelease,
		inventory.MovementConsume,
		inventory.MovementReturn,
	} {
		_, err := s.movementRepo.FindBySource(ctx, tenantID, productID, sourceType, sourceID, kind)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return state, err
		}
		kinds[kind] = true
	}

	state.HoldsReservation = kinds[inventory.MovementReserve] &&
		!kinds[inventory.MovementRelease] && !kinds[inventory.MovementConsume]
	state.HasConsumed = kinds[inventory.MovementConsume] && !kinds[inventory.MovementReturn]
	return state, nil
}

// holdsReservation reports whether the requesting source still holds a live
// reservation for the product: a RESERVE movement exists and no RELEASE has
// settled it yet. The CONSUME case is excluded upstream by the idempotency
// lookup.
func (s *Service) holdsReservation(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, req MovementRequest) (bool, error) {
	_, err := repos.MovementRepo().FindBySource(ctx, tenantID, req.ProductID, req.SourceType, req.SourceID, inventory.MovementReserve)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	_, err = repos.MovementRepo().FindBySource(ctx, tenantID, req.ProductID, req.SourceType, req.SourceID, inventory.MovementRelease)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

type mutateFunc func(repos TransactionalRepositories, stock *inventory.ProductStock) (onHandDelta, reservedDelta decimal.Decimal, err error)

func (s *Service) apply(ctx context.Context, tenantID uuid.UUID, kind inventory.MovementKind, req MovementRequest, mutate mutateFunc) (*MovementResult, error) {
	return s.applyWithStock(ctx, tenantID, kind, req, false, mutate)
}

// applyWithStock is the single write path of the ledger. It runs inside one
// transaction: idempotency lookup, locked stock load, counter mutation,
// movement append, stock update. Domain events raised by the stock record
// are published only after the transaction commits.
func (s *Service) applyWithStock(ctx context.Context, tenantID uuid.UUID, kind inventory.MovementKind, req MovementRequest, createIfMissing bool, mutate mutateFunc) (*MovementResult, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}

	var result *MovementResult
	var pendingEvents []shared.DomainEvent

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.MovementRepo().FindBySource(ctx, tenantID, req.ProductID, req.SourceType, req.SourceID, kind)
		if err == nil {
			result = &MovementResult{MovementID: existing.ID, Applied: false}
			return nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("idempotency lookup failed: %w", err)
		}

		stock, err := repos.StockRepo().FindByProductForUpdate(ctx, tenantID, req.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) && createIfMissing {
				stock, err = inventory.NewProductStock(tenantID, req.ProductID)
				if err != nil {
					return err
				}
				if err := repos.StockRepo().Save(ctx, stock); err != nil {
					return fmt.Errorf("failed to create stock record: %w", err)
				}
			} else {
				return err
			}
		}

		if stock.TenantID != tenantID {
			return shared.NewDomainError("TENANT_MISMATCH",
				fmt.Sprintf("Stock for product %s belongs to another tenant", req.ProductID))
		}

		onHandDelta, reservedDelta, err := mutate(repos, stock)
		if err != nil {
			return err
		}

		movement, err := inventory.NewMovement(tenantID, req.ProductID, kind,
			req.Quantity, onHandDelta, reservedDelta,
			req.SourceType, req.SourceID, req.Reason, req.ActorID)
		if err != nil {
			return err
		}
		if err := repos.MovementRepo().Create(ctx, movement); err != nil {
			return fmt.Errorf("failed to append movement: %w", err)
		}
		if err := repos.StockRepo().Update(ctx, stock); err != nil {
			return fmt.Errorf("failed to update stock counters: %w", err)
		}

		pendingEvents = stock.GetDomainEvents()
		stock.ClearDomainEvents()
		result = &MovementResult{MovementID: movement.ID, Applied: true}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil && len(pendingEvents) > 0 {
		// Alerting is best-effort; the committed ledger write stands either way.
		_ = s.eventPublisher.Publish(ctx, pendingEvents...)
	}

	return result, nil
}

// SetMinQuantity sets the low-stock threshold for a product, creating the
// stock record if it does not exist yet.
func (s *Service) SetMinQuantity(ctx context.Context, tenantID, productID uuid.UUID, min decimal.Decimal) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		stock, err := repos.StockRepo().FindByProductForUpdate(ctx, tenantID, productID)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return err
			}
			stock, err = inventory.NewProductStock(tenantID, productID)
			if err != nil {
				return err
			}
			if err := stock.SetMinQuantity(min); err != nil {
				return err
			}
			return repos.StockRepo().Save(ctx, stock)
		}
		if err := stock.SetMinQuantity(min); err != nil {
			return err
		}
		return repos.StockRepo().Update(ctx, stock)
	})
}

// GetStock returns the stock record for a product.
func (s *Service) GetStock(ctx context.Context, tenantID, productID uuid.UUID) (*StockResponse, error) {
	stock, err := s.stockRepo.FindByProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	return NewStockResponse(stock), nil
}

// ListStock returns stock records for a tenant.
func (s *Service) ListStock(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[*StockResponse], error) {
	page, err := s.stockRepo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]*StockResponse, 0, len(page.Items))
	for _, stock := range page.Items {
		responses = append(responses, NewStockResponse(stock))
	}
	out := shared.NewPaginated(responses, page.Total, page.Page, page.PageSize)
	return &out, nil
}

// ListMovementsByProduct returns the movement history for a product.
func (s *Service) ListMovementsByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[*MovementResponse], error) {
	page, err := s.movementRepo.ListByProduct(ctx, tenantID, productID, filter)
	if err != nil {
		return nil, err
	}
	return movementPage(page), nil
}

// ListMovementsBySource returns every movement caused by one business fact,
// the inspectable trail for a single service or budget item.
func (s *Service) ListMovementsBySource(ctx context.Context, tenantID uuid.UUID, sourceType string, sourceID uuid.UUID) ([]*MovementResponse, error) {
	movements, err := s.movementRepo.ListBySource(ctx, tenantID, sourceType, sourceID)
	if err != nil {
		return nil, err
	}
	responses := make([]*MovementResponse, 0, len(movements))
	for _, m := range movements {
		responses = append(responses, NewMovementResponse(m))
	}
	return responses, nil
}

// ListMovementsByPeriod returns movements within a time range.
func (s *Service) ListMovementsByPeriod(ctx context.Context, tenantID uuid.UUID, from, to time.Time, filter shared.Filter) (*shared.Paginated[*MovementResponse], error) {
	page, err := s.movementRepo.ListByPeriod(ctx, tenantID, from, to, filter)
	if err != nil {
		return nil, err
	}
	return movementPage(page), nil
}

func movementPage(page *shared.Paginated[*inventory.Movement]) *shared.Paginated[*MovementResponse] {
	responses := make([]*MovementResponse, 0, len(page.Items))
	for _, m := range page.Items {
		responses = append(responses, NewMovementResponse(m))
	}
	out := shared.NewPaginated(responses, page.Total, page.Page, page.PageSize)
	return &out
}

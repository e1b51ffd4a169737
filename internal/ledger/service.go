package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/workhive/workhive/internal/apperr"
)

// Store is the persistence surface for the ledger. Append is the atomic
// unit: entry insert and balance adjustment commit together or not at
// all, so the cached balance always equals the sum of signed entries.
type Store interface {
	// Append inserts the transaction and applies delta to the user's
	// balance in one database transaction. When the entry is a payment
	// referencing an order, the order's freelancer is credited
	// (total_earned, completed_jobs) in the same unit.
	Append(ctx context.Context, t *Transaction, delta decimal.Decimal) error

	Get(ctx context.Context, id string) (*Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]Transaction, error)
	Balance(ctx context.Context, userID string) (*BalanceInfo, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create appends a ledger entry and moves the user's cached balance by
// the signed delta. Entries are immutable once written.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Transaction, error) {
	if in.UserID == "" {
		return nil, apperr.BadRequest("user_id is required")
	}
	if !in.Amount.IsPositive() {
		return nil, apperr.BadRequest("amount must be positive")
	}
	delta, ok := Delta(in.Type, in.Amount)
	if !ok {
		return nil, apperr.BadRequest("unknown transaction type")
	}

	t := &Transaction{
		ID:          uuid.New().String(),
		UserID:      in.UserID,
		OrderID:     in.OrderID,
		Amount:      in.Amount,
		Type:        in.Type,
		Status:      "completed",
		Description: in.Description,
		CreatedAt:   time.Now(),
	}
	if err := s.store.Append(ctx, t, delta); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Transaction, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Transaction, error) {
	return s.store.ListByUser(ctx, userID)
}

// GetBalance reads the cached balance and total_earned. It never
// recomputes; the Append path keeps the cache exact.
func (s *Service) GetBalance(ctx context.Context, userID string) (*BalanceInfo, error) {
	return s.store.Balance(ctx, userID)
}

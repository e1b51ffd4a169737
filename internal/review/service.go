package review

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/workhive/workhive/internal/apperr"
	"github.com/workhive/workhive/internal/order"
)

// Store is the persistence surface for reviews. InsertAndRecompute is
// the atomic unit: review insert plus the reviewee's cached rating
// refresh happen in one transaction with the reviewee row locked, so
// concurrent reviews for the same reviewee cannot lose updates.
type Store interface {
	// OrderParties returns the client, freelancer and status of an order,
	// or NotFound.
	OrderParties(ctx context.Context, orderID string) (clientID, freelancerID, status string, err error)

	// InsertAndRecompute persists the review and refreshes the reviewee's
	// rating to round(avg*10)/10. A duplicate (order_id, reviewer_id)
	// yields Conflict.
	InsertAndRecompute(ctx context.Context, r *Review) error

	Get(ctx context.Context, id string) (*ReviewDetail, error)
	ListByReviewee(ctx context.Context, userID string) ([]ReviewDetail, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create files feedback on a completed order. The reviewee is always
// the caller's counterpart on the order, never caller-supplied.
func (s *Service) Create(ctx context.Context, reviewerID string, in CreateInput) (*Review, error) {
	if in.OrderID == "" {
		return nil, apperr.BadRequest("order_id is required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apperr.BadRequest("rating must be between 1 and 5")
	}
	if len(in.Comment) > 1000 {
		return nil, apperr.BadRequest("comment too long (max 1000 characters)")
	}

	clientID, freelancerID, status, err := s.store.OrderParties(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if status != order.StatusCompleted {
		return nil, apperr.BadRequest("can only review completed orders")
	}

	var revieweeID string
	switch reviewerID {
	case clientID:
		revieweeID = freelancerID
	case freelancerID:
		revieweeID = clientID
	default:
		return nil, apperr.BadRequest("you can only review orders you are part of")
	}

	r := &Review{
		ID:         uuid.New().String(),
		OrderID:    in.OrderID,
		ReviewerID: reviewerID,
		RevieweeID: revieweeID,
		Rating:     in.Rating,
		Comment:    in.Comment,
		CreatedAt:  time.Now(),
	}
	if err := s.store.InsertAndRecompute(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) Get(ctx context.Context, id string) (*ReviewDetail, error) {
	return s.store.Get(ctx, id)
}

// ListByUser returns all reviews where the user is the reviewee.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]ReviewDetail, error) {
	return s.store.ListByReviewee(ctx, userID)
}

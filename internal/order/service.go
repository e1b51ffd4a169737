package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/workhive/workhive/internal/apperr"
)

// Store is the persistence surface for orders. Transition re-validates
// the move under a row lock so concurrent updates serialize per order.
type Store interface {
	Insert(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	GetDetail(ctx context.Context, id string) (*OrderDetail, error)
	ListByClient(ctx context.Context, clientID string) ([]OrderDetail, error)
	ListByFreelancer(ctx context.Context, freelancerID string) ([]OrderDetail, error)

	// UpdateFields changes requirements and/or delivery date only.
	UpdateFields(ctx context.Context, id string, in UpdateInput) error

	// Transition moves the order to newStatus if the move is legal from
	// the current status, checked again under the lock.
	Transition(ctx context.Context, id, newStatus string) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create opens an order between a buyer and a seller. Exactly one of
// gig_id/project_id must be set and the parties must differ.
func (s *Service) Create(ctx context.Context, clientID string, in CreateInput) (*Order, error) {
	if (in.GigID == nil) == (in.ProjectID == nil) {
		return nil, apperr.BadRequest("exactly one of gig_id or project_id must be provided")
	}
	if in.FreelancerID == "" {
		return nil, apperr.BadRequest("freelancer_id is required")
	}
	if clientID == in.FreelancerID {
		return nil, apperr.BadRequest("cannot create an order with yourself")
	}
	if !in.Amount.IsPositive() {
		return nil, apperr.BadRequest("amount must be positive")
	}

	now := time.Now()
	o := &Order{
		ID:           uuid.New().String(),
		GigID:        in.GigID,
		ProjectID:    in.ProjectID,
		ClientID:     clientID,
		FreelancerID: in.FreelancerID,
		Amount:       in.Amount,
		Requirements: in.Requirements,
		DeliveryDate: in.DeliveryDate,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Insert(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Get returns the order detail for one of its two parties.
func (s *Service) Get(ctx context.Context, id, callerID string) (*OrderDetail, error) {
	d, err := s.store.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.IsParty(callerID) {
		return nil, apperr.Forbidden("you are not a party to this order")
	}
	return d, nil
}

func (s *Service) ListByClient(ctx context.Context, clientID string) ([]OrderDetail, error) {
	return s.store.ListByClient(ctx, clientID)
}

func (s *Service) ListByFreelancer(ctx context.Context, freelancerID string) ([]OrderDetail, error) {
	return s.store.ListByFreelancer(ctx, freelancerID)
}

// Update lets either party change requirements, delivery date, or move
// the status forward along the graph. Illegal jumps are rejected.
func (s *Service) Update(ctx context.Context, id, callerID string, in UpdateInput) (*Order, error) {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.IsParty(callerID) {
		return nil, apperr.Forbidden("you can only update your own orders")
	}

	// Status is validated before any field write so a bad transition
	// rejects the whole request, not half of it.
	if in.Status != nil {
		if !ValidStatus(*in.Status) {
			return nil, apperr.BadRequest("unknown order status")
		}
		if !CanTransition(o.Status, *in.Status) {
			return nil, apperr.BadRequest("illegal status transition from " + o.Status + " to " + *in.Status)
		}
	}

	if in.Requirements != nil || in.DeliveryDate != nil {
		fields := UpdateInput{Requirements: in.Requirements, DeliveryDate: in.DeliveryDate}
		if err := s.store.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	if in.Status != nil {
		if err := s.store.Transition(ctx, id, *in.Status); err != nil {
			return nil, err
		}
	}

	return s.store.Get(ctx, id)
}

// Cancel is allowed to either party, from pending only. Once work has
// started the order must run through the dispute path instead.
func (s *Service) Cancel(ctx context.Context, id, callerID string) (*Order, error) {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.IsParty(callerID) {
		return nil, apperr.Forbidden("you can only cancel your own orders")
	}
	if o.Status != StatusPending {
		return nil, apperr.BadRequest("can only cancel pending orders")
	}

	if err := s.store.Transition(ctx, id, StatusCancelled); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

package proposal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/workhive/workhive/internal/apperr"
	"github.com/workhive/workhive/internal/listing"
)

// Store is the persistence surface for proposals. AcceptCascade and
// RejectPending re-validate state under a row lock so concurrent
// transitions serialize at the storage layer.
type Store interface {
	// ProjectOwnerStatus returns the owning client and current status of
	// a project, or NotFound.
	ProjectOwnerStatus(ctx context.Context, projectID string) (ownerID, status string, err error)

	// Insert persists a new proposal; a duplicate
	// (project_id, freelancer_id) pair yields Conflict.
	Insert(ctx context.Context, p *Proposal) error

	Get(ctx context.Context, id string) (*Proposal, error)
	GetDetail(ctx context.Context, id string) (*ProposalDetail, error)
	Update(ctx context.Context, id string, in UpdateInput) error
	ListByProject(ctx context.Context, projectID string) ([]Proposal, error)
	ListByFreelancer(ctx context.Context, freelancerID string) ([]Proposal, error)
	Delete(ctx context.Context, id string) error

	// AcceptCascade atomically accepts the proposal, moves its project to
	// in_progress, and rejects all sibling pending proposals.
	AcceptCascade(ctx context.Context, id string) error

	// RejectPending atomically rejects the proposal if still pending.
	RejectPending(ctx context.Context, id string) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Submit creates a bid against an open project. The storage-level unique
// constraint is the real duplicate guard; the pre-checks only shape the
// error messages.
func (s *Service) Submit(ctx context.Context, freelancerID string, in SubmitInput) (*Proposal, error) {
	if in.ProjectID == "" {
		return nil, apperr.BadRequest("project_id is required")
	}
	if !in.ProposedAmount.IsPositive() {
		return nil, apperr.BadRequest("proposed_amount must be positive")
	}

	ownerID, status, err := s.store.ProjectOwnerStatus(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if ownerID == freelancerID {
		return nil, apperr.BadRequest("you cannot bid on your own project")
	}
	if status != listing.ProjectOpen {
		return nil, apperr.BadRequest("project is not accepting proposals")
	}

	now := time.Now()
	p := &Proposal{
		ID:             uuid.New().String(),
		ProjectID:      in.ProjectID,
		FreelancerID:   freelancerID,
		CoverLetter:    in.CoverLetter,
		ProposedAmount: in.ProposedAmount,
		DeliveryDays:   in.DeliveryDays,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*ProposalDetail, error) {
	return s.store.GetDetail(ctx, id)
}

// ListByProject is restricted to the project's owning client.
func (s *Service) ListByProject(ctx context.Context, projectID, callerID string) ([]Proposal, error) {
	ownerID, _, err := s.store.ProjectOwnerStatus(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if ownerID != callerID {
		return nil, apperr.Forbidden("only the project owner may list its proposals")
	}
	return s.store.ListByProject(ctx, projectID)
}

func (s *Service) ListByFreelancer(ctx context.Context, freelancerID string) ([]Proposal, error) {
	return s.store.ListByFreelancer(ctx, freelancerID)
}

// Update revises cover letter, amount or delivery estimate. Only the
// submitting freelancer may revise, and only while pending.
func (s *Service) Update(ctx context.Context, id, callerID string, in UpdateInput) (*Proposal, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.FreelancerID != callerID {
		return nil, apperr.Forbidden("you can only update your own proposals")
	}
	if p.Status != StatusPending {
		return nil, apperr.BadRequest("only pending proposals can be updated")
	}
	if in.ProposedAmount != nil && !in.ProposedAmount.IsPositive() {
		return nil, apperr.BadRequest("proposed_amount must be positive")
	}

	if err := s.store.Update(ctx, id, in); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

// Accept is restricted to the project's owning client and cascades:
// the project moves to in_progress and sibling pending bids are
// rejected, all in one storage transaction.
func (s *Service) Accept(ctx context.Context, id, callerID string) (*Proposal, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ownerID, _, err := s.store.ProjectOwnerStatus(ctx, p.ProjectID)
	if err != nil {
		return nil, err
	}
	if ownerID != callerID {
		return nil, apperr.Forbidden("only the project owner may accept proposals")
	}

	if err := s.store.AcceptCascade(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

// Reject is restricted to the project's owning client.
func (s *Service) Reject(ctx context.Context, id, callerID string) (*Proposal, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ownerID, _, err := s.store.ProjectOwnerStatus(ctx, p.ProjectID)
	if err != nil {
		return nil, err
	}
	if ownerID != callerID {
		return nil, apperr.Forbidden("only the project owner may reject proposals")
	}

	if err := s.store.RejectPending(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

// Delete withdraws a pending proposal. Only the submitting freelancer
// may withdraw; a reviewed proposal stays on record.
func (s *Service) Delete(ctx context.Context, id, callerID string) error {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.FreelancerID != callerID {
		return apperr.BadRequest("you can only delete your own proposals")
	}
	if p.Status != StatusPending {
		return apperr.BadRequest("cannot delete a proposal that has been reviewed")
	}
	return s.store.Delete(ctx, id)
}

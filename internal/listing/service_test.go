package listing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/workhive/workhive/internal/apperr"
)

type fakeStore struct {
	gigs      map[string]*Gig
	projects  map[string]*Project
	searchErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		gigs:     map[string]*Gig{},
		projects: map[string]*Project{},
	}
}

func (f *fakeStore) InsertGig(_ context.Context, g *Gig) error {
	cp := *g
	f.gigs[g.ID] = &cp
	return nil
}

func (f *fakeStore) GetGig(_ context.Context, id string) (*Gig, error) {
	g, ok := f.gigs[id]
	if !ok {
		return nil, apperr.NotFound("gig not found")
	}
	cp := *g
	return &cp, nil
}

func (f *fakeStore) GetGigDetail(_ context.Context, id string) (*GigDetail, error) {
	g, err := f.GetGig(nil, id)
	if err != nil {
		return nil, err
	}
	return &GigDetail{Gig: *g}, nil
}

func (f *fakeStore) UpdateGig(_ context.Context, id string, in UpdateGigInput) error {
	g, ok := f.gigs[id]
	if !ok {
		return apperr.NotFound("gig not found")
	}
	if in.Title != nil {
		g.Title = *in.Title
	}
	if in.Description != nil {
		g.Description = *in.Description
	}
	if in.Category != nil {
		g.Category = *in.Category
	}
	if in.Price != nil {
		g.Price = *in.Price
	}
	if in.DeliveryDays != nil {
		g.DeliveryDays = *in.DeliveryDays
	}
	if in.Status != nil {
		g.Status = *in.Status
	}
	g.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) ListGigsByFreelancer(_ context.Context, freelancerID string) ([]Gig, error) {
	var out []Gig
	for _, g := range f.gigs {
		if g.FreelancerID == freelancerID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeStore) SearchGigs(_ context.Context, fl GigFilter) ([]Gig, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var out []Gig
	for _, g := range f.gigs {
		if g.Status == GigActive {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertProject(_ context.Context, p *Project) error {
	cp := *p
	f.projects[p.ID] = &cp
	return nil
}

func (f *fakeStore) GetProject(_ context.Context, id string) (*Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, apperr.NotFound("project not found")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) GetProjectDetail(_ context.Context, id string) (*ProjectDetail, error) {
	p, err := f.GetProject(nil, id)
	if err != nil {
		return nil, err
	}
	return &ProjectDetail{Project: *p}, nil
}

func (f *fakeStore) UpdateProject(_ context.Context, id string, in UpdateProjectInput) error {
	p, ok := f.projects[id]
	if !ok {
		return apperr.NotFound("project not found")
	}
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) ListProjectsByClient(_ context.Context, clientID string) ([]Project, error) {
	var out []Project
	for _, p := range f.projects {
		if p.ClientID == clientID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) SearchProjects(_ context.Context, fl ProjectFilter) ([]Project, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var out []Project
	for _, p := range f.projects {
		out = append(out, *p)
	}
	return out, nil
}

func TestCreateGigValidation(t *testing.T) {
	s := NewService(newFakeStore())

	_, err := s.CreateGig(context.Background(), "f1", CreateGigInput{Price: decimal.NewFromInt(10)})
	require.Error(t, err)

	_, err = s.CreateGig(context.Background(), "f1", CreateGigInput{Title: "Logo design", Price: decimal.Zero})
	require.Error(t, err)
}

func TestCreateGigStartsActive(t *testing.T) {
	s := NewService(newFakeStore())

	g, err := s.CreateGig(context.Background(), "f1", CreateGigInput{
		Title: "Logo design",
		Price: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	require.Equal(t, GigActive, g.Status)
	require.Equal(t, "f1", g.FreelancerID)
	require.NotEmpty(t, g.ID)
}

func TestUpdateGigOwnerOnly(t *testing.T) {
	store := newFakeStore()
	s := NewService(store)

	g, err := s.CreateGig(context.Background(), "f1", CreateGigInput{
		Title: "Logo design", Price: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	newTitle := "Brand identity"
	_, err = s.UpdateGig(context.Background(), g.ID, "someone-else", UpdateGigInput{Title: &newTitle})
	require.Error(t, err)

	updated, err := s.UpdateGig(context.Background(), g.ID, "f1", UpdateGigInput{Title: &newTitle})
	require.NoError(t, err)
	require.Equal(t, "Brand identity", updated.Title)
}

func TestUpdateGigRejectsInvalidStatus(t *testing.T) {
	s := NewService(newFakeStore())

	g, err := s.CreateGig(context.Background(), "f1", CreateGigInput{
		Title: "Logo design", Price: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	bogus := "archived"
	_, err = s.UpdateGig(context.Background(), g.ID, "f1", UpdateGigInput{Status: &bogus})
	require.Error(t, err)
}

func TestDeleteGigIsSoft(t *testing.T) {
	store := newFakeStore()
	s := NewService(store)

	g, err := s.CreateGig(context.Background(), "f1", CreateGigInput{
		Title: "Logo design", Price: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteGig(context.Background(), g.ID, "f1"))

	kept, err := store.GetGig(context.Background(), g.ID)
	require.NoError(t, err)
	require.Equal(t, GigDeleted, kept.Status)
}

func TestSearchGigsDegradesToEmpty(t *testing.T) {
	store := newFakeStore()
	store.searchErr = errors.New("connection refused")
	s := NewService(store)

	gigs := s.SearchGigs(context.Background(), GigFilter{Query: "logo"})
	require.NotNil(t, gigs)
	require.Empty(t, gigs)
}

func TestSearchGigsEmptyFilterIsValid(t *testing.T) {
	store := newFakeStore()
	s := NewService(store)

	_, err := s.CreateGig(context.Background(), "f1", CreateGigInput{
		Title: "Logo design", Price: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	gigs := s.SearchGigs(context.Background(), GigFilter{})
	require.Len(t, gigs, 1)
}

func TestCreateProjectBudgetValidation(t *testing.T) {
	s := NewService(newFakeStore())

	_, err := s.CreateProject(context.Background(), "c1", CreateProjectInput{
		Title:     "Build a landing page",
		BudgetMin: decimal.NewFromInt(500),
		BudgetMax: decimal.NewFromInt(100),
	})
	require.Error(t, err)

	p, err := s.CreateProject(context.Background(), "c1", CreateProjectInput{
		Title:     "Build a landing page",
		BudgetMin: decimal.NewFromInt(100),
		BudgetMax: decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	require.Equal(t, ProjectOpen, p.Status)
}

func TestDeleteProjectCancels(t *testing.T) {
	store := newFakeStore()
	s := NewService(store)

	p, err := s.CreateProject(context.Background(), "c1", CreateProjectInput{
		Title: "Build a landing page",
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteProject(context.Background(), p.ID, "c1"))

	kept, err := store.GetProject(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, ProjectCancelled, kept.Status)
}

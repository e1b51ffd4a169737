package proposal

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/workhive/workhive/internal/apperr"
	"github.com/workhive/workhive/internal/listing"
)

type fakeProject struct {
	ownerID string
	status  string
}

type fakeStore struct {
	projects  map[string]*fakeProject
	proposals map[string]*Proposal
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects:  map[string]*fakeProject{},
		proposals: map[string]*Proposal{},
	}
}

func (f *fakeStore) ProjectOwnerStatus(_ context.Context, projectID string) (string, string, error) {
	p, ok := f.projects[projectID]
	if !ok {
		return "", "", apperr.NotFound("project not found")
	}
	return p.ownerID, p.status, nil
}

func (f *fakeStore) Insert(_ context.Context, p *Proposal) error {
	for _, existing := range f.proposals {
		if existing.ProjectID == p.ProjectID && existing.FreelancerID == p.FreelancerID {
			return apperr.Conflict("you already submitted a proposal for this project")
		}
	}
	cp := *p
	f.proposals[p.ID] = &cp
	return nil
}

func (f *fakeStore) Get(_ context.Context, id string) (*Proposal, error) {
	p, ok := f.proposals[id]
	if !ok {
		return nil, apperr.NotFound("proposal not found")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) GetDetail(_ context.Context, id string) (*ProposalDetail, error) {
	p, err := f.Get(nil, id)
	if err != nil {
		return nil, err
	}
	return &ProposalDetail{Proposal: *p}, nil
}

func (f *fakeStore) Update(_ context.Context, id string, in UpdateInput) error {
	p, ok := f.proposals[id]
	if !ok {
		return apperr.NotFound("proposal not found")
	}
	if in.CoverLetter != nil {
		p.CoverLetter = *in.CoverLetter
	}
	if in.ProposedAmount != nil {
		p.ProposedAmount = *in.ProposedAmount
	}
	if in.DeliveryDays != nil {
		p.DeliveryDays = *in.DeliveryDays
	}
	return nil
}

func (f *fakeStore) ListByProject(_ context.Context, projectID string) ([]Proposal, error) {
	var out []Proposal
	for _, p := range f.proposals {
		if p.ProjectID == projectID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByFreelancer(_ context.Context, freelancerID string) ([]Proposal, error) {
	var out []Proposal
	for _, p := range f.proposals {
		if p.FreelancerID == freelancerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	delete(f.proposals, id)
	return nil
}

func (f *fakeStore) AcceptCascade(_ context.Context, id string) error {
	winner, ok := f.proposals[id]
	if !ok {
		return apperr.NotFound("proposal not found")
	}
	if winner.Status != StatusPending {
		return apperr.BadRequest("proposal has already been reviewed")
	}
	winner.Status = StatusAccepted
	f.projects[winner.ProjectID].status = listing.ProjectInProgress
	for _, sibling := range f.proposals {
		if sibling.ProjectID == winner.ProjectID && sibling.ID != id && sibling.Status == StatusPending {
			sibling.Status = StatusRejected
		}
	}
	return nil
}

func (f *fakeStore) RejectPending(_ context.Context, id string) error {
	p, ok := f.proposals[id]
	if !ok {
		return apperr.NotFound("proposal not found")
	}
	if p.Status != StatusPending {
		return apperr.BadRequest("proposal has already been reviewed")
	}
	p.Status = StatusRejected
	return nil
}

func openProject(store *fakeStore, projectID, ownerID string) {
	store.projects[projectID] = &fakeProject{ownerID: ownerID, status: listing.ProjectOpen}
}

func submit(t *testing.T, s *Service, freelancerID, projectID string) *Proposal {
	t.Helper()
	p, err := s.Submit(context.Background(), freelancerID, SubmitInput{
		ProjectID:      projectID,
		CoverLetter:    "I can do this",
		ProposedAmount: decimal.NewFromInt(300),
		DeliveryDays:   7,
	})
	require.NoError(t, err)
	return p
}

func TestSubmitToOpenProject(t *testing.T) {
	store := newFakeStore()
	openProject(store, "p1", "client1")
	s := NewService(store)

	p := submit(t, s, "free1", "p1")
	require.Equal(t, StatusPending, p.Status)
	require.Equal(t, "free1", p.FreelancerID)
}

func TestSubmitUnknownProject(t *testing.T) {
	s := NewService(newFakeStore())

	_, err := s.Submit(context.Background(), "free1", SubmitInput{
		ProjectID:      "ghost",
		ProposedAmount: decimal.NewFromInt(100),
	})
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSubmitNonOpenProjectRejected(t *testing.T) {
	store := newFakeStore()
	store.projects["p1"] = &fakeProject{ownerID: "client1", status: listing.ProjectInProgress}
	s := NewService(store)

	_, err := s.Submit(context.Background(), "free1", SubmitInput{
		ProjectID:      "p1",
		ProposedAmount: decimal.NewFromInt(100),
	})
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestSubmitOwnProjectRejected(t *testing.T) {
	store := newFakeStore()
	openProject(store, "p1", "client1")
	s := NewService(store)

	_, err := s.Submit(context.Background(), "client1", SubmitInput{
		ProjectID:      "p1",
		ProposedAmount: decimal.NewFromInt(100),
	})
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestSubmitDuplicateConflict(t *testing.T) {
	store := newFakeStore()
	openProject(store, "p1", "client1")
	s := NewService(store)

	submit(t, s, "free1", "p1")
	_, err := s.Submit(context.Background(), "free1", SubmitInput{
		ProjectID:      "p1",
		ProposedAmount: decimal.NewFromInt(250),
	})
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestAcceptCascades(t *testing.T) {
	store := newFakeStore()
	openProject(store, "p1", "client1")
	s := NewService(store)

	winner := submit(t, s, "free1", "p1")
	loser := submit(t, s, "free2", "p1")

	accepted, err := s.Accept(context.Background(), winner.ID, "client1")
	require.NoError(t, err)
	require.Equal(t, StatusAccepted, accepted.Status)

	require.Equal(t, listing.ProjectInProgress, store.projects["p1"].status)
	require.Equal(t, StatusRejected, store.proposals[loser.ID].Status)
}

func TestAcceptByNonOwnerForbidden(t *testing.T) {
	store := newFakeStore()
	openProject(store, "p1", "client1")
	s := NewService(store)

	p := submit(t, s, "free1", "p1")

	_, err := s.Accept(context.Background(), p.ID, "client2")
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	require.Equal(t, StatusPending, store.proposals[p.ID].Status)
}

func TestRejectByNonOwnerForbidden(t *testing.T) {
	store := newFakeStore()
	openProject(store, "p1", "client1")
	s := NewService(store)

	p := submit(t, s, "free1", "p1")

	_, err := s.Reject(context.Background(), p.ID, "free1")
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestAcceptTwiceRejected(t *testing.T) {
	store := newFakeStore()
	openProject(store, "p1", "client1")
	s := NewService(store)

	p := submit(t, s, "free1", "p1")

	_, err := s.Accept(context.Background(), p.ID, "client1")
	require.NoError(t, err)

	_, err = s.Accept(context.Background(), p.ID, "client1")
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestUpdateOnlyWhilePending(t *testing.T) {
	store := newFakeStore()
	openProject(store, "p1", "client1")
	s := NewService(store)

	p := submit(t, s, "free1", "p1")

	_, err := s.Accept(context.Background(), p.ID, "client1")
	require.NoError(t, err)

	letter := "revised pitch"
	_, err = s.Update(context.Background(), p.ID, "free1", UpdateInput{CoverLetter: &letter})
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestListByProjectOwnerOnly(t *testing.T) {
	store := newFakeStore()
	openProject(store, "p1", "client1")
	s := NewService(store)

	submit(t, s, "free1", "p1")

	_, err := s.ListByProject(context.Background(), "p1", "free1")
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	list, err := s.ListByProject(context.Background(), "p1", "client1")
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestDeletePendingByOwnerOnly(t *testing.T) {
	store := newFakeStore()
	openProject(store, "p1", "client1")
	s := NewService(store)

	p := submit(t, s, "free1", "p1")

	err := s.Delete(context.Background(), p.ID, "free2")
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	require.NoError(t, s.Delete(context.Background(), p.ID, "free1"))
	_, err = store.Get(context.Background(), p.ID)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteReviewedProposalRejected(t *testing.T) {
	store := newFakeStore()
	openProject(store, "p1", "client1")
	s := NewService(store)

	p := submit(t, s, "free1", "p1")
	_, err := s.Reject(context.Background(), p.ID, "client1")
	require.NoError(t, err)

	err = s.Delete(context.Background(), p.ID, "free1")
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

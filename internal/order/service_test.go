package order

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/workhive/workhive/internal/apperr"
)

type fakeStore struct {
	orders map[string]*Order
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: map[string]*Order{}}
}

func (f *fakeStore) Insert(_ context.Context, o *Order) error {
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeStore) Get(_ context.Context, id string) (*Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, apperr.NotFound("order not found")
	}
	cp := *o
	return &cp, nil
}

func (f *fakeStore) GetDetail(_ context.Context, id string) (*OrderDetail, error) {
	o, err := f.Get(nil, id)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{Order: *o}, nil
}

func (f *fakeStore) ListByClient(_ context.Context, clientID string) ([]OrderDetail, error) {
	var out []OrderDetail
	for _, o := range f.orders {
		if o.ClientID == clientID {
			out = append(out, OrderDetail{Order: *o})
		}
	}
	return out, nil
}

func (f *fakeStore) ListByFreelancer(_ context.Context, freelancerID string) ([]OrderDetail, error) {
	var out []OrderDetail
	for _, o := range f.orders {
		if o.FreelancerID == freelancerID {
			out = append(out, OrderDetail{Order: *o})
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateFields(_ context.Context, id string, in UpdateInput) error {
	o, ok := f.orders[id]
	if !ok {
		return apperr.NotFound("order not found")
	}
	if in.Requirements != nil {
		o.Requirements = *in.Requirements
	}
	if in.DeliveryDate != nil {
		o.DeliveryDate = in.DeliveryDate
	}
	o.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) Transition(_ context.Context, id, newStatus string) error {
	o, ok := f.orders[id]
	if !ok {
		return apperr.NotFound("order not found")
	}
	if !CanTransition(o.Status, newStatus) {
		return apperr.BadRequest("illegal status transition from " + o.Status + " to " + newStatus)
	}
	o.Status = newStatus
	o.UpdatedAt = time.Now()
	return nil
}

func strptr(s string) *string { return &s }

func createOrder(t *testing.T, s *Service) *Order {
	t.Helper()
	o, err := s.Create(context.Background(), "client1", CreateInput{
		GigID:        strptr("g1"),
		FreelancerID: "free1",
		Amount:       decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	return o
}

func TestCreateRequiresExactlyOneListing(t *testing.T) {
	s := NewService(newFakeStore())

	_, err := s.Create(context.Background(), "client1", CreateInput{
		FreelancerID: "free1",
		Amount:       decimal.NewFromInt(100),
	})
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	_, err = s.Create(context.Background(), "client1", CreateInput{
		GigID:        strptr("g1"),
		ProjectID:    strptr("p1"),
		FreelancerID: "free1",
		Amount:       decimal.NewFromInt(100),
	})
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestCreateSelfDealingRejected(t *testing.T) {
	s := NewService(newFakeStore())

	_, err := s.Create(context.Background(), "u1", CreateInput{
		GigID:        strptr("g1"),
		FreelancerID: "u1",
		Amount:       decimal.NewFromInt(100),
	})
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestCreateStartsPending(t *testing.T) {
	s := NewService(newFakeStore())

	o := createOrder(t, s)
	require.Equal(t, StatusPending, o.Status)
	require.True(t, decimal.NewFromInt(100).Equal(o.Amount))
}

func TestFullLifecycle(t *testing.T) {
	store := newFakeStore()
	s := NewService(store)

	o := createOrder(t, s)

	for _, next := range []string{StatusInProgress, StatusDelivered, StatusCompleted} {
		updated, err := s.Update(context.Background(), o.ID, "free1", UpdateInput{Status: &next})
		require.NoError(t, err)
		require.Equal(t, next, updated.Status)
	}
}

func TestIllegalJumpRejected(t *testing.T) {
	store := newFakeStore()
	s := NewService(store)

	o := createOrder(t, s)

	completed := StatusCompleted
	_, err := s.Update(context.Background(), o.ID, "client1", UpdateInput{Status: &completed})
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	require.Equal(t, StatusPending, store.orders[o.ID].Status)
}

func TestCompletedIsTerminal(t *testing.T) {
	store := newFakeStore()
	s := NewService(store)

	o := createOrder(t, s)
	store.orders[o.ID].Status = StatusCompleted

	for _, next := range []string{StatusPending, StatusInProgress, StatusDisputed, StatusCancelled} {
		_, err := s.Update(context.Background(), o.ID, "client1", UpdateInput{Status: &next})
		require.Error(t, err)
	}
}

func TestDisputedReachableMidFlight(t *testing.T) {
	store := newFakeStore()
	s := NewService(store)

	o := createOrder(t, s)
	store.orders[o.ID].Status = StatusDelivered

	disputed := StatusDisputed
	updated, err := s.Update(context.Background(), o.ID, "client1", UpdateInput{Status: &disputed})
	require.NoError(t, err)
	require.Equal(t, StatusDisputed, updated.Status)
}

func TestUpdateByStrangerForbidden(t *testing.T) {
	s := NewService(newFakeStore())

	o := createOrder(t, s)

	inProgress := StatusInProgress
	_, err := s.Update(context.Background(), o.ID, "stranger", UpdateInput{Status: &inProgress})
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestCancelPendingOnly(t *testing.T) {
	store := newFakeStore()
	s := NewService(store)

	o := createOrder(t, s)

	cancelled, err := s.Cancel(context.Background(), o.ID, "client1")
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, cancelled.Status)

	o2 := createOrder(t, s)
	store.orders[o2.ID].Status = StatusInProgress

	_, err = s.Cancel(context.Background(), o2.ID, "free1")
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestGetPartyOnly(t *testing.T) {
	s := NewService(newFakeStore())

	o := createOrder(t, s)

	_, err := s.Get(context.Background(), o.ID, "stranger")
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	d, err := s.Get(context.Background(), o.ID, "free1")
	require.NoError(t, err)
	require.Equal(t, o.ID, d.ID)
}

func TestIllegalStatusLeavesFieldsUntouched(t *testing.T) {
	store := newFakeStore()
	s := NewService(store)

	o := createOrder(t, s)

	completed := StatusCompleted
	reqs := "two revisions included"
	_, err := s.Update(context.Background(), o.ID, "client1", UpdateInput{
		Status:       &completed,
		Requirements: &reqs,
	})
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	require.Empty(t, store.orders[o.ID].Requirements)
	require.Equal(t, StatusPending, store.orders[o.ID].Status)
}

func TestMilestoneOnlyOnStatusChange(t *testing.T) {
	reqs := "updated brief"
	require.Empty(t, milestone(UpdateInput{Requirements: &reqs}))

	delivered := StatusDelivered
	require.Equal(t, StatusDelivered, milestone(UpdateInput{Status: &delivered}))

	inProgress := StatusInProgress
	require.Equal(t, StatusInProgress, milestone(UpdateInput{Status: &inProgress}))
}

func TestUnknownStatusRejected(t *testing.T) {
	s := NewService(newFakeStore())

	o := createOrder(t, s)

	bogus := "archived"
	_, err := s.Update(context.Background(), o.ID, "client1", UpdateInput{Status: &bogus})
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

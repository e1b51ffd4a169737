package review

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/workhive/workhive/internal/apperr"
	"github.com/workhive/workhive/internal/order"
)

type fakeOrder struct {
	clientID     string
	freelancerID string
	status       string
}

type fakeStore struct {
	orders  map[string]*fakeOrder
	reviews map[string]*Review
	ratings map[string]float64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:  map[string]*fakeOrder{},
		reviews: map[string]*Review{},
		ratings: map[string]float64{},
	}
}

func (f *fakeStore) OrderParties(_ context.Context, orderID string) (string, string, string, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return "", "", "", apperr.NotFound("order not found")
	}
	return o.clientID, o.freelancerID, o.status, nil
}

func (f *fakeStore) InsertAndRecompute(_ context.Context, r *Review) error {
	for _, existing := range f.reviews {
		if existing.OrderID == r.OrderID && existing.ReviewerID == r.ReviewerID {
			return apperr.Conflict("you already reviewed this order")
		}
	}
	cp := *r
	f.reviews[r.ID] = &cp

	sum, n := 0, 0
	for _, rv := range f.reviews {
		if rv.RevieweeID == r.RevieweeID {
			sum += rv.Rating
			n++
		}
	}
	f.ratings[r.RevieweeID] = math.Round(float64(sum)/float64(n)*10) / 10
	return nil
}

func (f *fakeStore) Get(_ context.Context, id string) (*ReviewDetail, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, apperr.NotFound("review not found")
	}
	return &ReviewDetail{Review: *r}, nil
}

func (f *fakeStore) ListByReviewee(_ context.Context, userID string) ([]ReviewDetail, error) {
	var out []ReviewDetail
	for _, r := range f.reviews {
		if r.RevieweeID == userID {
			out = append(out, ReviewDetail{Review: *r})
		}
	}
	return out, nil
}

func completedOrder(store *fakeStore, orderID string) {
	store.orders[orderID] = &fakeOrder{
		clientID:     "client1",
		freelancerID: "free1",
		status:       order.StatusCompleted,
	}
}

func TestBothPartiesReviewOnce(t *testing.T) {
	store := newFakeStore()
	completedOrder(store, "o1")
	s := NewService(store)

	fromClient, err := s.Create(context.Background(), "client1", CreateInput{OrderID: "o1", Rating: 5})
	require.NoError(t, err)
	require.Equal(t, "free1", fromClient.RevieweeID)

	fromFreelancer, err := s.Create(context.Background(), "free1", CreateInput{OrderID: "o1", Rating: 4})
	require.NoError(t, err)
	require.Equal(t, "client1", fromFreelancer.RevieweeID)

	_, err = s.Create(context.Background(), "client1", CreateInput{OrderID: "o1", Rating: 1})
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestNonPartyRejected(t *testing.T) {
	store := newFakeStore()
	completedOrder(store, "o1")
	s := NewService(store)

	_, err := s.Create(context.Background(), "stranger", CreateInput{OrderID: "o1", Rating: 5})
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestNonCompletedOrderRejected(t *testing.T) {
	store := newFakeStore()
	store.orders["o1"] = &fakeOrder{clientID: "client1", freelancerID: "free1", status: order.StatusDelivered}
	s := NewService(store)

	_, err := s.Create(context.Background(), "client1", CreateInput{OrderID: "o1", Rating: 5})
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestUnknownOrderNotFound(t *testing.T) {
	s := NewService(newFakeStore())

	_, err := s.Create(context.Background(), "client1", CreateInput{OrderID: "ghost", Rating: 5})
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestRatingBounds(t *testing.T) {
	store := newFakeStore()
	completedOrder(store, "o1")
	s := NewService(store)

	for _, bad := range []int{0, 6, -1} {
		_, err := s.Create(context.Background(), "client1", CreateInput{OrderID: "o1", Rating: bad})
		require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	}
}

func TestRatingRoundsToOneDecimal(t *testing.T) {
	store := newFakeStore()
	s := NewService(store)

	// Three completed orders against the same freelancer with ratings
	// 3, 4, 4: the mean 3.666... lands at 3.7.
	for i, rating := range []int{3, 4, 4} {
		orderID := string(rune('a' + i))
		store.orders[orderID] = &fakeOrder{
			clientID:     "client" + orderID,
			freelancerID: "free1",
			status:       order.StatusCompleted,
		}
		_, err := s.Create(context.Background(), "client"+orderID, CreateInput{OrderID: orderID, Rating: rating})
		require.NoError(t, err)
	}

	require.InDelta(t, 3.7, store.ratings["free1"], 1e-9)
}

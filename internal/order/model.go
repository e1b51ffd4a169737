package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. The graph only moves forward:
//
//	pending -> in_progress -> delivered -> completed
//
// cancelled is reachable from pending only; disputed from in_progress
// or delivered.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusDelivered  = "delivered"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusDisputed   = "disputed"
)

var transitions = map[string][]string{
	StatusPending:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusDelivered, StatusDisputed},
	StatusDelivered:  {StatusCompleted, StatusDisputed},
}

// CanTransition reports whether moving from -> to is legal.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDelivered, StatusCompleted, StatusCancelled, StatusDisputed:
		return true
	}
	return false
}

// Order binds a client and a freelancer to a specific amount and
// deliverable. Exactly one of GigID/ProjectID is set. Amount is
// immutable after creation.
type Order struct {
	ID           string          `json:"id"`
	GigID        *string         `json:"gig_id"`
	ProjectID    *string         `json:"project_id"`
	ClientID     string          `json:"client_id"`
	FreelancerID string          `json:"freelancer_id"`
	Amount       decimal.Decimal `json:"amount"`
	Requirements string          `json:"requirements,omitempty"`
	DeliveryDate *time.Time      `json:"delivery_date,omitempty"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// OrderDetail adds the joined listing title and counterpart names.
type OrderDetail struct {
	Order
	ListingTitle   string `json:"listing_title,omitempty"`
	ClientName     string `json:"client_name"`
	FreelancerName string `json:"freelancer_name"`
}

// IsParty reports whether userID is the order's client or freelancer.
func (o *Order) IsParty(userID string) bool {
	return o.ClientID == userID || o.FreelancerID == userID
}

type CreateInput struct {
	GigID        *string         `json:"gig_id"`
	ProjectID    *string         `json:"project_id"`
	FreelancerID string          `json:"freelancer_id"`
	Amount       decimal.Decimal `json:"amount"`
	Requirements string          `json:"requirements"`
	DeliveryDate *time.Time      `json:"delivery_date"`
}

// UpdateInput has partial-update semantics. Amount is deliberately
// absent: it can never change after creation.
type UpdateInput struct {
	Status       *string    `json:"status"`
	Requirements *string    `json:"requirements"`
	DeliveryDate *time.Time `json:"delivery_date"`
}

package proposal

import (
	"time"

	"github.com/shopspring/decimal"
)

// Proposal statuses. pending is the only non-terminal state.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Proposal is a freelancer's bid against an open project.
type Proposal struct {
	ID             string          `json:"id"`
	ProjectID      string          `json:"project_id"`
	FreelancerID   string          `json:"freelancer_id"`
	CoverLetter    string          `json:"cover_letter,omitempty"`
	ProposedAmount decimal.Decimal `json:"proposed_amount"`
	DeliveryDays   int             `json:"delivery_days,omitempty"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProposalDetail adds the display fields joined for detail views.
type ProposalDetail struct {
	Proposal
	FreelancerName   string  `json:"freelancer_name"`
	FreelancerRating float64 `json:"freelancer_rating"`
	ProjectTitle     string  `json:"project_title"`
}

type SubmitInput struct {
	ProjectID      string          `json:"project_id"`
	CoverLetter    string          `json:"cover_letter"`
	ProposedAmount decimal.Decimal `json:"proposed_amount"`
	DeliveryDays   int             `json:"delivery_days"`
}

// UpdateInput covers the content fields a freelancer may revise while
// the proposal is still pending. Status transitions go through
// Accept/Reject, not here.
type UpdateInput struct {
	CoverLetter    *string          `json:"cover_letter"`
	ProposedAmount *decimal.Decimal `json:"proposed_amount"`
	DeliveryDays   *int             `json:"delivery_days"`
}

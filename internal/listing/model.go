package listing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Gig statuses. Gigs are soft-deleted only; the row survives for order
// history.
const (
	GigActive  = "active"
	GigPaused  = "paused"
	GigDeleted = "deleted"
)

// Project statuses.
const (
	ProjectOpen       = "open"
	ProjectInProgress = "in_progress"
	ProjectCompleted  = "completed"
	ProjectCancelled  = "cancelled"
)

// Gig is a service offered by a freelancer.
type Gig struct {
	ID           string          `json:"id"`
	FreelancerID string          `json:"freelancer_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category,omitempty"`
	Price        decimal.Decimal `json:"price"`
	DeliveryDays int             `json:"delivery_days,omitempty"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// GigDetail carries the aggregates shown on a gig page.
type GigDetail struct {
	Gig
	FreelancerName   string  `json:"freelancer_name"`
	FreelancerRating float64 `json:"freelancer_rating"`
	ReviewsCount     int     `json:"reviews_count"`
	AverageRating    float64 `json:"average_rating"`
}

// Project is a job posted by a client.
type Project struct {
	ID           string          `json:"id"`
	ClientID     string          `json:"client_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category,omitempty"`
	BudgetMin    decimal.Decimal `json:"budget_min"`
	BudgetMax    decimal.Decimal `json:"budget_max"`
	DurationDays int             `json:"duration_days,omitempty"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProjectDetail carries the aggregates shown on a project page.
type ProjectDetail struct {
	Project
	ClientName     string `json:"client_name"`
	ProposalsCount int    `json:"proposals_count"`
}

type CreateGigInput struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	DeliveryDays int             `json:"delivery_days"`
}

// UpdateGigInput has partial-update semantics: only non-nil fields change.
type UpdateGigInput struct {
	Title        *string          `json:"title"`
	Description  *string          `json:"description"`
	Category     *string          `json:"category"`
	Price        *decimal.Decimal `json:"price"`
	DeliveryDays *int             `json:"delivery_days"`
	Status       *string          `json:"status"`
}

type CreateProjectInput struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	BudgetMin    decimal.Decimal `json:"budget_min"`
	BudgetMax    decimal.Decimal `json:"budget_max"`
	DurationDays int             `json:"duration_days"`
}

type UpdateProjectInput struct {
	Title        *string          `json:"title"`
	Description  *string          `json:"description"`
	Category     *string          `json:"category"`
	BudgetMin    *decimal.Decimal `json:"budget_min"`
	BudgetMax    *decimal.Decimal `json:"budget_max"`
	DurationDays *int             `json:"duration_days"`
	Status       *string          `json:"status"`
}

// GigFilter narrows a gig search. Zero values mean "no constraint"; an
// entirely empty filter is a valid search returning everything active.
type GigFilter struct {
	Query    string
	Category string
	Status   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	SortBy   string // price | rating | "" (newest first)
	Limit    int
	Offset   int
}

// ProjectFilter narrows a project search.
type ProjectFilter struct {
	Query     string
	Category  string
	Status    string
	MinBudget *decimal.Decimal
	MaxBudget *decimal.Decimal
	SortBy    string // budget | "" (newest first)
	Limit     int
	Offset    int
}

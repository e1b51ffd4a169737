package user

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the account entity. The cached aggregate fields (Balance,
// TotalEarned, Rating, CompletedJobs) are mutated only by the ledger and
// review services, never by profile updates.
type User struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Role          string          `json:"role"` // client | freelancer | admin
	Balance       decimal.Decimal `json:"balance"`
	TotalEarned   decimal.Decimal `json:"total_earned"`
	Rating        float64         `json:"rating"`
	CompletedJobs int             `json:"completed_jobs"`
	AvatarURL     string          `json:"avatar_url,omitempty"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
}

// PublicProfile is the subset exposed to other users.
type PublicProfile struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	Rating        float64   `json:"rating"`
	CompletedJobs int       `json:"completed_jobs"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

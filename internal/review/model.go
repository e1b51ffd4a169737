package review

import "time"

// Review is post-completion feedback from one order party about the
// other. Unique per (order, reviewer): each side gets one say.
type Review struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"order_id"`
	ReviewerID string    `json:"reviewer_id"`
	RevieweeID string    `json:"reviewee_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReviewDetail adds reviewer display fields for listings.
type ReviewDetail struct {
	Review
	ReviewerName string `json:"reviewer_name"`
	RevieweeName string `json:"reviewee_name"`
}

type CreateInput struct {
	OrderID string `json:"order_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

package alerts

import "time"

// Task type constants
const (
	TaskProposalAccepted = "notify:proposal_accepted"
	TaskOrderDelivered   = "notify:order_delivered"
	TaskOrderCompleted   = "notify:order_completed"
	TaskOrderCancelled   = "notify:order_cancelled"
	TaskReviewReceived   = "notify:review_received"
)

// Proposal accepted payload (sent to the winning freelancer)
type ProposalAcceptedPayload struct {
	ProposalID   string    `json:"proposal_id"`
	ProjectID    string    `json:"project_id"`
	FreelancerID string    `json:"freelancer_id"`
	SentAt       time.Time `json:"sent_at"`
}

// Order event payload, shared by the delivered/completed/cancelled tasks
type OrderEventPayload struct {
	OrderID      string    `json:"order_id"`
	ClientID     string    `json:"client_id"`
	FreelancerID string    `json:"freelancer_id"`
	SentAt       time.Time `json:"sent_at"`
}

// Review received payload (sent to the reviewee)
type ReviewReceivedPayload struct {
	ReviewID   string    `json:"review_id"`
	OrderID    string    `json:"order_id"`
	RevieweeID string    `json:"reviewee_id"`
	SentAt     time.Time `json:"sent_at"`
}

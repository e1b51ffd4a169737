package alerts

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/workhive/workhive/internal/logger"
)

// ensureClient returns a usable client instance
func ensureClient() *asynq.Client {
	if client == nil {
		Init()
	}
	return client
}

// enqueue is best-effort: a failed enqueue is logged and swallowed so a
// notification hiccup never fails the request that triggered it.
func enqueue(taskType string, payload any) {
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(taskType, b)
	if _, err := ensureClient().Enqueue(task, asynq.Queue("alerts")); err != nil {
		logger.Log.Warn("alert enqueue failed", zap.String("task", taskType), zap.Error(err))
	}
}

// NotifyProposalAccepted tells the freelancer their bid won.
func NotifyProposalAccepted(proposalID, projectID, freelancerID string) {
	enqueue(TaskProposalAccepted, ProposalAcceptedPayload{
		ProposalID:   proposalID,
		ProjectID:    projectID,
		FreelancerID: freelancerID,
		SentAt:       time.Now(),
	})
}

// NotifyOrderDelivered tells the client the work is ready for review.
func NotifyOrderDelivered(orderID, clientID, freelancerID string) {
	enqueue(TaskOrderDelivered, OrderEventPayload{
		OrderID: orderID, ClientID: clientID, FreelancerID: freelancerID, SentAt: time.Now(),
	})
}

// NotifyOrderCompleted tells the freelancer the client accepted the work.
func NotifyOrderCompleted(orderID, clientID, freelancerID string) {
	enqueue(TaskOrderCompleted, OrderEventPayload{
		OrderID: orderID, ClientID: clientID, FreelancerID: freelancerID, SentAt: time.Now(),
	})
}

// NotifyOrderCancelled tells both parties the order was withdrawn.
func NotifyOrderCancelled(orderID, clientID, freelancerID string) {
	enqueue(TaskOrderCancelled, OrderEventPayload{
		OrderID: orderID, ClientID: clientID, FreelancerID: freelancerID, SentAt: time.Now(),
	})
}

// NotifyReviewReceived tells the reviewee new feedback landed.
func NotifyReviewReceived(reviewID, orderID, revieweeID string) {
	enqueue(TaskReviewReceived, ReviewReceivedPayload{
		ReviewID:   reviewID,
		OrderID:    orderID,
		RevieweeID: revieweeID,
		SentAt:     time.Now(),
	})
}

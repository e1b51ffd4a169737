package alerts

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/workhive/workhive/internal/config"
	"github.com/workhive/workhive/internal/logger"
)

var (
	client *asynq.Client
	server *asynq.Server
)

// Init starts the asynq server and initializes a shared client.
func Init() {
	opts := asynq.RedisClientOpt{Addr: config.App.RedisAddr}
	client = asynq.NewClient(opts)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskProposalAccepted, handleProposalAccepted)
	mux.HandleFunc(TaskOrderDelivered, handleOrderEvent("order delivered"))
	mux.HandleFunc(TaskOrderCompleted, handleOrderEvent("order completed"))
	mux.HandleFunc(TaskOrderCancelled, handleOrderEvent("order cancelled"))
	mux.HandleFunc(TaskReviewReceived, handleReviewReceived)

	server = asynq.NewServer(opts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"alerts": 10,
		},
	})
	go func() {
		if err := server.Run(mux); err != nil {
			logger.Log.Warn("asynq server stopped", zap.Error(err))
		}
	}()

	logger.Log.Info("asynq initialized", zap.String("addr", config.App.RedisAddr))
}

// Close releases the client and stops the server.
func Close() {
	if client != nil {
		_ = client.Close()
	}
	if server != nil {
		server.Shutdown()
	}
}

// Handlers log the delivered envelope. Actual delivery channels (email,
// push) hang off these hooks.

func handleProposalAccepted(_ context.Context, t *asynq.Task) error {
	var p ProposalAcceptedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	logger.Log.Info("notify: proposal accepted",
		zap.String("proposal_id", p.ProposalID),
		zap.String("project_id", p.ProjectID),
		zap.String("freelancer_id", p.FreelancerID))
	return nil
}

func handleOrderEvent(event string) asynq.HandlerFunc {
	return func(_ context.Context, t *asynq.Task) error {
		var p OrderEventPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return err
		}
		logger.Log.Info("notify: "+event,
			zap.String("order_id", p.OrderID),
			zap.String("client_id", p.ClientID),
			zap.String("freelancer_id", p.FreelancerID))
		return nil
	}
}

func handleReviewReceived(_ context.Context, t *asynq.Task) error {
	var p ReviewReceivedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	logger.Log.Info("notify: review received",
		zap.String("review_id", p.ReviewID),
		zap.String("order_id", p.OrderID),
		zap.String("reviewee_id", p.RevieweeID))
	return nil
}

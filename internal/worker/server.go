package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"account-service/internal/consumers"
	"account-service/internal/services"

	"github.com/hibiken/asynq"
)

type Worker struct {
	Processor *consumers.ReferralProcessor
}

func NewWorker(processor *consumers.ReferralProcessor) *Worker {
	return &Worker{
		Processor: processor,
	}
}

func (w *Worker) HandleReferralSignup(ctx context.Context, t *asynq.Task) error {
	var p services.SignupPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	return w.Processor.ProcessSignup(p)
}

func (w *Worker) HandleReferralPayment(ctx context.Context, t *asynq.Task) error {
	var p services.PaymentPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	return w.Processor.ProcessPayment(p)
}

func (w *Worker) HandleSendInvitation(ctx context.Context, t *asynq.Task) error {
	var p services.InvitationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	return w.Processor.ProcessInvitation(p)
}

func StartWorker(redisOpt asynq.RedisClientOpt, processor *consumers.ReferralProcessor) {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	worker := NewWorker(processor)
	mux := asynq.NewServeMux()

	mux.HandleFunc(TypeReferralSignup, worker.HandleReferralSignup)
	mux.HandleFunc(TypeReferralPayment, worker.HandleReferralPayment)
	mux.HandleFunc(TypeSendInvitation, worker.HandleSendInvitation)

	log.Println("Starting Asynq Worker...")
	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run asynq server: %v", err)
	}
}

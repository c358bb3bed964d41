package worker

import (
	"encoding/json"

	"account-service/internal/services"

	"github.com/hibiken/asynq"
)

// Task Types
const (
	TypeReferralSignup  = "referral-signup"
	TypeReferralPayment = "referral-payment"
	TypeSendInvitation  = "send-invitation"
)

// Task Creators

func NewReferralSignupTask(payload services.SignupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeReferralSignup, data), nil
}

func NewReferralPaymentTask(payload services.PaymentPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeReferralPayment, data), nil
}

func NewInvitationTask(payload services.InvitationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSendInvitation, data), nil
}

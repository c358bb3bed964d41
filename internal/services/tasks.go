package services

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task types (mirrored in worker/tasks.go to avoid an import cycle).
const (
	TypeReferralSignup  = "referral-signup"
	TypeReferralPayment = "referral-payment"
	TypeSendInvitation  = "send-invitation"
)

func NewReferralSignupTask(payload SignupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeReferralSignup, data), nil
}

func NewReferralPaymentTask(payload PaymentPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeReferralPayment, data), nil
}

func NewInvitationTask(payload InvitationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSendInvitation, data), nil
}

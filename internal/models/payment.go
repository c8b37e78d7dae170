package models

import (
	"time"
)

type PaymentMethod string

const (
	MethodWalletCredit PaymentMethod = "wallet_credit"
	MethodExternalCash PaymentMethod = "external_cash"
)

// PaymentStatus is the verification workflow state. Allowed transitions:
//
//	pending -> submitted -> verified | rejected
//	submitted -> submitted              (proof replaced before review)
//	rejected -> submitted               (resubmission, bounded)
//	verified -> refunded
//	pending -> waived                   (fee waiver or free event, terminal)
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSubmitted PaymentStatus = "submitted"
	PaymentVerified  PaymentStatus = "verified"
	PaymentRejected  PaymentStatus = "rejected"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentWaived    PaymentStatus = "waived"
)

// Payment is the single payment record attached to a registration. The row is
// created with the registration and reused across resubmissions, so the
// one-active-payment rule is structural.
type Payment struct {
	ID                string        `json:"id" db:"id"`
	RegistrationID    string        `json:"registration_id" db:"registration_id"`
	Method            PaymentMethod `json:"method,omitempty" db:"method"`
	Amount            int64         `json:"amount" db:"amount"` // fee owed, fixed at creation
	DeclaredAmount    *int64        `json:"declared_amount,omitempty" db:"declared_amount"`
	ProofRef          string        `json:"proof_ref,omitempty" db:"proof_ref"`
	Status            PaymentStatus `json:"status" db:"status"`
	VerifierID        string        `json:"verifier_id,omitempty" db:"verifier_id"`
	VerifiedAt        *time.Time    `json:"verified_at,omitempty" db:"verified_at"`
	RejectionReason   string        `json:"rejection_reason,omitempty" db:"rejection_reason"`
	ResubmissionCount int           `json:"resubmission_count" db:"resubmission_count"`
	CreatedAt         time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at" db:"updated_at"`
}

// ProofSubmission represents a participant submitting payment evidence.
type ProofSubmission struct {
	Method         PaymentMethod `json:"method" validate:"required,oneof=wallet_credit external_cash"`
	DeclaredAmount int64         `json:"declared_amount" validate:"gte=0"`
	ProofRef       string        `json:"proof_ref" validate:"max=200"` // required for external_cash
}

// VerifyRequest represents a staff verification decision.
type VerifyRequest struct {
	Notes string `json:"notes" validate:"max=500"`
}

// RejectRequest represents a staff rejection. The reason travels back to the
// participant, so it is mandatory.
type RejectRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// RefundRequest reverses a verified payment and cancels the registration.
type RefundRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

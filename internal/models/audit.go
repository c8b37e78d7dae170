package models

import (
	"time"
)

// Audit entity types.
const (
	AuditEntityRegistration = "registration"
	AuditEntityPayment      = "payment"
	AuditEntityWallet       = "wallet"
	AuditEntityEvent        = "event"
)

// Audit actions. One per state transition or decision; reads are not audited.
const (
	AuditActionSubmit     = "registration.submit"
	AuditActionWaitlist   = "registration.waitlist"
	AuditActionPromote    = "registration.promote"
	AuditActionExpire     = "registration.promotion_expired"
	AuditActionConfirm    = "registration.confirm"
	AuditActionCancel     = "registration.cancel"
	AuditActionReject     = "registration.reject"
	AuditActionCheckIn    = "registration.check_in"
	AuditActionNoShow     = "registration.no_show"
	AuditActionProof      = "payment.proof_submitted"
	AuditActionVerify     = "payment.verify"
	AuditActionDecline    = "payment.reject"
	AuditActionRefund     = "payment.refund"
	AuditActionWaive      = "payment.waive"
	AuditActionAdjust     = "wallet.adjust"
	AuditActionAward      = "wallet.award"
	AuditActionRecompute  = "wallet.recompute"
	AuditActionEventOpen  = "event.create"
	AuditActionEventClose = "event.archive"
)

// AuditRecord is one immutable line in the audit trail. Records are written
// in the same transaction as the transition they describe, so a transition
// without its record can never be observed.
type AuditRecord struct {
	ID         string    `json:"id" db:"id"`
	EntityType string    `json:"entity_type" db:"entity_type"`
	EntityID   string    `json:"entity_id" db:"entity_id"`
	EventID    string    `json:"event_id,omitempty" db:"event_id"` // tournament event, when applicable
	Action     string    `json:"action" db:"action"`
	FromStatus string    `json:"from_status,omitempty" db:"from_status"`
	ToStatus   string    `json:"to_status,omitempty" db:"to_status"`
	ActorID    string    `json:"actor_id" db:"actor_id"` // "system" for scheduled transitions
	Details    Metadata  `json:"details,omitempty" db:"details"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// AuditFilter narrows audit queries. Zero values mean "any".
type AuditFilter struct {
	EntityType string
	EntityID   string
	EventID    string
	Action     string
	Limit      int
}

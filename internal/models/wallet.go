package models

import (
	"time"
)

// LedgerReason classifies why DeltaCoin moved.
type LedgerReason string

const (
	ReasonParticipation LedgerReason = "participation"
	ReasonWinner        LedgerReason = "winner"
	ReasonEntryFee      LedgerReason = "entry_fee"
	ReasonRefund        LedgerReason = "refund"
	ReasonAdjustment    LedgerReason = "adjustment"
	ReasonWaiver        LedgerReason = "waiver" // goodwill credit granted alongside a fee waiver
)

// LedgerEntry is one immutable line in a wallet's ledger. Entries are never
// updated or deleted; corrections are follow-up entries.
type LedgerEntry struct {
	ID             string       `json:"id" db:"id"`
	WalletID       string       `json:"wallet_id" db:"wallet_id"`
	Seq            int64        `json:"seq" db:"seq"`       // per-wallet, monotonic
	Amount         int64        `json:"amount" db:"amount"` // DeltaCoin minor units, negative = debit
	Reason         LedgerReason `json:"reason" db:"reason"`
	IdempotencyKey string       `json:"idempotency_key" db:"idempotency_key"`
	ReferenceID    string       `json:"reference_id,omitempty" db:"reference_id"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
}

type Wallet struct {
	ID             string    `json:"id" db:"id"`
	OwnerRef       string    `json:"owner_ref" db:"owner_ref"` // "user:<id>" or "team:<id>"
	Balance        int64     `json:"balance" db:"balance"`     // cached, derived from entries
	LifetimeCredit int64     `json:"lifetime_credit" db:"lifetime_credit"`
	AllowOverdraft bool      `json:"allow_overdraft" db:"allow_overdraft"` // staff wallets only
	Version        int       `json:"version" db:"version"`                 // for optimistic locking
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// AdjustmentRequest is a staff-initiated manual credit or debit. Kind
// "waiver" marks goodwill credits so they stay distinguishable from plain
// corrections in the ledger.
type AdjustmentRequest struct {
	Amount      int64    `json:"amount" validate:"required"`
	Kind        string   `json:"kind" validate:"omitempty,oneof=adjustment waiver"`
	Reason      string   `json:"reason" validate:"required,min=3,max=200"`
	ReferenceID string   `json:"reference_id" validate:"max=100"`
	Metadata    Metadata `json:"metadata"`
}

// AwardRequest credits participation or winner bonuses after an event.
type AwardRequest struct {
	EventID     string `json:"event_id" validate:"required"`
	Participant string `json:"participant" validate:"required"` // owner ref
	Kind        string `json:"kind" validate:"required,oneof=participation winner"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
}

package models

import (
	"strings"
	"time"
)

// RegistrationStatus is the registration state machine. Allowed transitions:
//
//	pending -> payment_submitted -> confirmed
//	pending -> confirmed                        (fee waived or free event)
//	payment_submitted -> pending                (proof rejected)
//	waitlisted -> pending                       (promotion)
//	pending -> waitlisted                       (promotion window expired)
//	any non-terminal -> rejected | cancelled
//	confirmed -> no_show                        (after event end, never checked in)
type RegistrationStatus string

const (
	RegistrationPending          RegistrationStatus = "pending"
	RegistrationPaymentSubmitted RegistrationStatus = "payment_submitted"
	RegistrationConfirmed        RegistrationStatus = "confirmed"
	RegistrationWaitlisted       RegistrationStatus = "waitlisted"
	RegistrationRejected         RegistrationStatus = "rejected"
	RegistrationCancelled        RegistrationStatus = "cancelled"
	RegistrationNoShow           RegistrationStatus = "no_show"
)

// Terminal reports whether no further transitions are allowed.
func (s RegistrationStatus) Terminal() bool {
	switch s {
	case RegistrationRejected, RegistrationCancelled, RegistrationNoShow:
		return true
	}
	return false
}

// HoldsSlot reports whether a registration in this status occupies one of the
// event's capacity slots.
func (s RegistrationStatus) HoldsSlot() bool {
	switch s {
	case RegistrationPending, RegistrationPaymentSubmitted, RegistrationConfirmed:
		return true
	}
	return false
}

// Lifecycle is the coarse record state shared by events and registrations.
type Lifecycle string

const (
	LifecycleActive    Lifecycle = "active"
	LifecycleCancelled Lifecycle = "cancelled"
	LifecycleArchived  Lifecycle = "archived"
)

type Registration struct {
	ID                 string             `json:"id" db:"id"`
	EventID            string             `json:"event_id" db:"event_id"`
	UserRef            string             `json:"user_ref,omitempty" db:"user_ref"`
	TeamRef            string             `json:"team_ref,omitempty" db:"team_ref"`
	Status             RegistrationStatus `json:"status" db:"status"`
	SlotNumber         *int               `json:"slot_number,omitempty" db:"slot_number"`
	WaitlistPosition   *int               `json:"waitlist_position,omitempty" db:"waitlist_position"`
	FeeWaived          bool               `json:"fee_waived" db:"fee_waived"`
	PromotionExpiresAt *time.Time         `json:"promotion_expires_at,omitempty" db:"promotion_expires_at"`
	CheckedInAt        *time.Time         `json:"checked_in_at,omitempty" db:"checked_in_at"`
	CustomData         Metadata           `json:"custom_data,omitempty" db:"custom_data"`
	CreatedAt          time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" db:"updated_at"`
	CancelledAt        *time.Time         `json:"cancelled_at,omitempty" db:"cancelled_at"`
}

// Participant rebuilds the reference from the stored columns, which carry the
// full "user:<id>" / "team:<id>" form.
func (r *Registration) Participant() ParticipantRef {
	if r.TeamRef != "" {
		return ParticipantRef{TeamID: strings.TrimPrefix(r.TeamRef, "team:")}
	}
	return ParticipantRef{UserID: strings.TrimPrefix(r.UserRef, "user:")}
}

func (r *Registration) Lifecycle() Lifecycle {
	if r.CancelledAt != nil {
		return LifecycleCancelled
	}
	return LifecycleActive
}

// RegistrationRequest represents a direct (non-draft) registration submission.
type RegistrationRequest struct {
	EventID     string         `json:"event_id" validate:"required"`
	Participant ParticipantRef `json:"participant"`
	CustomData  Metadata       `json:"custom_data"`
}

// RegistrationDraft is the multi-step form state held in Redis until the
// participant submits. Drafts expire on their own and never touch capacity.
type RegistrationDraft struct {
	ID          string         `json:"id"`
	OwnerID     string         `json:"owner_id"` // actor who opened the draft
	EventID     string         `json:"event_id,omitempty"`
	Participant ParticipantRef `json:"participant"`
	CustomData  Metadata       `json:"custom_data,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// DraftPatch is one step's worth of form input. Nil fields leave the draft
// untouched; CustomData keys merge over existing ones.
type DraftPatch struct {
	EventID    *string  `json:"event_id"`
	UserID     *string  `json:"user_id"`
	TeamID     *string  `json:"team_id"`
	CustomData Metadata `json:"custom_data"`
}

// Apply merges a step into the draft.
func (d *RegistrationDraft) Apply(p DraftPatch) {
	if p.EventID != nil {
		d.EventID = *p.EventID
	}
	if p.UserID != nil {
		d.Participant.UserID = *p.UserID
		if *p.UserID != "" {
			d.Participant.TeamID = ""
		}
	}
	if p.TeamID != nil {
		d.Participant.TeamID = *p.TeamID
		if *p.TeamID != "" {
			d.Participant.UserID = ""
		}
	}
	if len(p.CustomData) > 0 {
		if d.CustomData == nil {
			d.CustomData = Metadata{}
		}
		for k, v := range p.CustomData {
			d.CustomData[k] = v
		}
	}
}

// ReadyToSubmit reports whether the draft carries everything a real
// registration needs.
func (d *RegistrationDraft) ReadyToSubmit() error {
	if d.EventID == "" {
		return ErrEventNotFound
	}
	return d.Participant.Validate()
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Event is a tournament or bracket participants register into.
type Event struct {
	ID                  string     `json:"id" db:"id"`
	Name                string     `json:"name" db:"name"`
	Category            string     `json:"category" db:"category"` // ranking category, e.g. "blitz"
	Capacity            int        `json:"capacity" db:"capacity"`
	SlotsTaken          int        `json:"slots_taken" db:"slots_taken"`
	SlotSeq             int        `json:"-" db:"slot_seq"` // last slot number handed out, never reused
	WaitlistSeq         int        `json:"-" db:"waitlist_seq"`
	EntryFee            int64      `json:"entry_fee" db:"entry_fee"` // DeltaCoin minor units, 0 = free
	Currency            string     `json:"currency" db:"currency"`
	WaiverRankThreshold int        `json:"waiver_rank_threshold" db:"waiver_rank_threshold"` // 0 disables waivers
	StartsAt            *time.Time `json:"starts_at,omitempty" db:"starts_at"`
	EndsAt              *time.Time `json:"ends_at,omitempty" db:"ends_at"`
	ArchivedAt          *time.Time `json:"archived_at,omitempty" db:"archived_at"`
	Metadata            Metadata   `json:"metadata,omitempty" db:"metadata"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

// SlotsFree reports remaining direct-entry capacity.
func (e *Event) SlotsFree() int {
	free := e.Capacity - e.SlotsTaken
	if free < 0 {
		return 0
	}
	return free
}

// Lifecycle of an event. Archived events reject all mutations.
func (e *Event) Lifecycle() Lifecycle {
	if e.ArchivedAt != nil {
		return LifecycleArchived
	}
	return LifecycleActive
}

// EventCreateRequest represents new event creation by an organizer.
type EventCreateRequest struct {
	Name                string     `json:"name" validate:"required,min=3,max=120"`
	Category            string     `json:"category" validate:"required,max=60"`
	Capacity            int        `json:"capacity" validate:"required,gt=0,lte=100000"`
	EntryFee            int64      `json:"entry_fee" validate:"gte=0"`
	Currency            string     `json:"currency" validate:"omitempty,len=3"`
	WaiverRankThreshold int        `json:"waiver_rank_threshold" validate:"gte=0"`
	StartsAt            *time.Time `json:"starts_at"`
	EndsAt              *time.Time `json:"ends_at"`
	Metadata            Metadata   `json:"metadata"`
}

// Metadata type for JSONB fields
type Metadata map[string]any

// Value implements driver.Valuer for Metadata
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for Metadata
func (m *Metadata) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(b, m)
}

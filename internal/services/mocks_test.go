package services

import (
	"context"
	"sync"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/mock"

	"github.com/deltaarena/backend/internal/config"
	"github.com/deltaarena/backend/internal/models"
	"github.com/deltaarena/backend/internal/notify"
)

type MockRankSource struct {
	mock.Mock
}

func (m *MockRankSource) GetRank(ref models.ParticipantRef, category string) (int, error) {
	args := m.Called(ref, category)
	return args.Int(0), args.Error(1)
}

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Put(key string, data []byte) error {
	args := m.Called(key, data)
	return args.Error(0)
}

func (m *MockBlobStore) Get(key string) ([]byte, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockBlobStore) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// captureSink records published notifications. Publishing happens on
// goroutines after commit, so access is guarded.
type captureSink struct {
	mu       sync.Mutex
	messages []notify.Message
}

func (s *captureSink) Publish(_ context.Context, msg notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

func (s *captureSink) Messages() []notify.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notify.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// testWorkflowConfig disables retries and backoff so conflict paths fail fast
// under sqlmock's ordered expectations.
func testWorkflowConfig() *config.WorkflowConfig {
	cfg := config.LoadWorkflowConfig()
	cfg.RetryAttempts = 1
	cfg.RetryBackoff = time.Millisecond
	return cfg
}

// intVal and timeVal unwrap optional columns; drivers hand back values, not
// pointers.
func intVal(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func timeVal(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func eventRow(ev *models.Event) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "category", "capacity", "slots_taken", "slot_seq", "waitlist_seq",
		"entry_fee", "currency", "waiver_rank_threshold", "starts_at", "ends_at", "archived_at", "metadata",
		"created_at", "updated_at"}).
		AddRow(ev.ID, ev.Name, ev.Category, ev.Capacity, ev.SlotsTaken, ev.SlotSeq, ev.WaitlistSeq,
			ev.EntryFee, ev.Currency, ev.WaiverRankThreshold, timeVal(ev.StartsAt), timeVal(ev.EndsAt),
			timeVal(ev.ArchivedAt), nil, ev.CreatedAt, ev.UpdatedAt)
}

func registrationRow(reg *models.Registration) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "event_id", "user_ref", "team_ref", "status", "slot_number",
		"waitlist_position", "fee_waived", "promotion_expires_at", "checked_in_at", "custom_data",
		"created_at", "updated_at", "cancelled_at"}).
		AddRow(reg.ID, reg.EventID, reg.UserRef, reg.TeamRef, string(reg.Status), intVal(reg.SlotNumber),
			intVal(reg.WaitlistPosition), reg.FeeWaived, timeVal(reg.PromotionExpiresAt), timeVal(reg.CheckedInAt), nil,
			reg.CreatedAt, reg.UpdatedAt, timeVal(reg.CancelledAt))
}

func paymentRow(p *models.Payment) *sqlmock.Rows {
	var declared interface{}
	if p.DeclaredAmount != nil {
		declared = *p.DeclaredAmount
	}
	return sqlmock.NewRows([]string{"id", "registration_id", "method", "amount", "declared_amount", "proof_ref",
		"status", "verifier_id", "verified_at", "rejection_reason", "resubmission_count", "created_at", "updated_at"}).
		AddRow(p.ID, p.RegistrationID, string(p.Method), p.Amount, declared, p.ProofRef,
			string(p.Status), p.VerifierID, timeVal(p.VerifiedAt), p.RejectionReason, p.ResubmissionCount, p.CreatedAt, p.UpdatedAt)
}

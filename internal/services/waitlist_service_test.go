package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/deltaarena/backend/internal/models"
	"github.com/deltaarena/backend/internal/notify"
)

func newWaitlistFixture(t *testing.T) (*WaitlistService, sqlmock.Sqlmock, *captureSink, func()) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	sink := &captureSink{}
	service := NewWaitlistService(db, testWorkflowConfig(), NewAuditService(db), sink)
	return service, mock, sink, func() { db.Close() }
}

func TestWaitlistService_ExpireIfUnactioned(t *testing.T) {
	t.Run("requeues a lapsed promotion and promotes the next entry", func(t *testing.T) {
		service, mock, sink, cleanup := newWaitlistFixture(t)
		defer cleanup()

		ev := &models.Event{ID: "evt-1", Capacity: 4, SlotsTaken: 4, EntryFee: 2500}
		lapsed := time.Now().Add(-time.Hour)
		slot := 2
		reg := &models.Registration{ID: "reg-1", EventID: "evt-1", UserRef: "user:u-1",
			Status: models.RegistrationPending, SlotNumber: &slot, PromotionExpiresAt: &lapsed}
		pos := 4
		queued := &models.Registration{ID: "reg-8", EventID: "evt-1", UserRef: "user:u-8",
			Status: models.RegistrationWaitlisted, WaitlistPosition: &pos}

		mock.ExpectQuery("SELECT (.+) FROM registrations\\s+WHERE id = \\$1").
			WithArgs("reg-1").
			WillReturnRows(registrationRow(reg))
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM events (.+) FOR UPDATE").
			WithArgs("evt-1").
			WillReturnRows(eventRow(ev))
		mock.ExpectQuery("SELECT (.+) FROM registrations\\s+WHERE id = \\$1\\s+FOR UPDATE").
			WithArgs("reg-1").
			WillReturnRows(registrationRow(reg))
		mock.ExpectQuery("UPDATE events\\s+SET waitlist_seq = waitlist_seq \\+ 1").
			WillReturnRows(sqlmock.NewRows([]string{"waitlist_seq"}).AddRow(7))
		mock.ExpectExec("UPDATE registrations\\s+SET status = \\$1, slot_number = NULL, waitlist_position = \\$2").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO audit_records").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE events\\s+SET slots_taken = slots_taken - 1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("SELECT (.+) FROM registrations\\s+WHERE event_id = \\$1 AND status = \\$2").
			WithArgs("evt-1", "waitlisted").
			WillReturnRows(registrationRow(queued))
		mock.ExpectQuery("UPDATE events\\s+SET slots_taken = slots_taken \\+ 1").
			WillReturnRows(sqlmock.NewRows([]string{"slot_seq"}).AddRow(9))
		mock.ExpectExec("UPDATE registrations\\s+SET status = \\$1, slot_number = \\$2, waitlist_position = NULL").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO audit_records").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("SELECT (.+) FROM payments\\s+WHERE registration_id = \\$1\\s+FOR UPDATE").
			WithArgs("reg-8").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectExec("INSERT INTO payments").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		requeued, err := service.ExpireIfUnactioned("reg-1")
		assert.NoError(t, err)
		assert.Equal(t, models.RegistrationWaitlisted, requeued.Status)
		assert.Equal(t, 7, *requeued.WaitlistPosition)
		assert.Nil(t, requeued.SlotNumber)
		assert.NoError(t, mock.ExpectationsWereMet())

		// Both parties get notified; publishing happens on goroutines
		// after the transaction commits.
		assert.Eventually(t, func() bool {
			seen := make(map[string]bool)
			for _, msg := range sink.Messages() {
				seen[msg.Type] = true
			}
			return seen[notify.TypeRegistrationExpired] && seen[notify.TypeRegistrationPromoted]
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("leaves promotions inside their window alone", func(t *testing.T) {
		service, mock, _, cleanup := newWaitlistFixture(t)
		defer cleanup()

		ev := &models.Event{ID: "evt-1", Capacity: 4, SlotsTaken: 4, EntryFee: 2500}
		deadline := time.Now().Add(time.Hour)
		slot := 2
		reg := &models.Registration{ID: "reg-1", EventID: "evt-1", UserRef: "user:u-1",
			Status: models.RegistrationPending, SlotNumber: &slot, PromotionExpiresAt: &deadline}

		mock.ExpectQuery("SELECT (.+) FROM registrations\\s+WHERE id = \\$1").
			WithArgs("reg-1").
			WillReturnRows(registrationRow(reg))
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM events (.+) FOR UPDATE").
			WillReturnRows(eventRow(ev))
		mock.ExpectQuery("SELECT (.+) FROM registrations\\s+WHERE id = \\$1\\s+FOR UPDATE").
			WillReturnRows(registrationRow(reg))
		mock.ExpectRollback()

		requeued, err := service.ExpireIfUnactioned("reg-1")
		assert.NoError(t, err)
		assert.Nil(t, requeued)
	})

	t.Run("confirmed registrations are not swept", func(t *testing.T) {
		service, mock, _, cleanup := newWaitlistFixture(t)
		defer cleanup()

		ev := &models.Event{ID: "evt-1", Capacity: 4, SlotsTaken: 4, EntryFee: 2500}
		slot := 2
		reg := &models.Registration{ID: "reg-1", EventID: "evt-1", UserRef: "user:u-1",
			Status: models.RegistrationConfirmed, SlotNumber: &slot}

		mock.ExpectQuery("SELECT (.+) FROM registrations\\s+WHERE id = \\$1").
			WithArgs("reg-1").
			WillReturnRows(registrationRow(reg))
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM events (.+) FOR UPDATE").
			WillReturnRows(eventRow(ev))
		mock.ExpectQuery("SELECT (.+) FROM registrations\\s+WHERE id = \\$1\\s+FOR UPDATE").
			WillReturnRows(registrationRow(reg))
		mock.ExpectRollback()

		requeued, err := service.ExpireIfUnactioned("reg-1")
		assert.NoError(t, err)
		assert.Nil(t, requeued)
	})
}

func TestWaitlistService_Entries(t *testing.T) {
	service, mock, _, cleanup := newWaitlistFixture(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_ref", "team_ref", "fee_waived", "waitlist_position", "created_at"}).
		AddRow("reg-a", "user:u-1", "", false, 2, now).
		AddRow("reg-b", "", "team:t-4", true, 5, now).
		AddRow("reg-c", "user:u-9", "", false, 9, now)

	mock.ExpectQuery("SELECT id, user_ref, team_ref, fee_waived, waitlist_position, created_at\\s+FROM registrations").
		WithArgs("evt-1", "waitlisted").
		WillReturnRows(rows)

	entries, err := service.Entries("evt-1")
	assert.NoError(t, err)
	assert.Len(t, entries, 3)

	// Stored positions have gaps; the view renumbers from 1.
	assert.Equal(t, 1, entries[0].Position)
	assert.Equal(t, 2, entries[1].Position)
	assert.Equal(t, 3, entries[2].Position)
	assert.Equal(t, "team:t-4", entries[1].Participant)
	assert.True(t, entries[1].FeeWaived)
}

func TestWaitlistService_ExpiredPromotions(t *testing.T) {
	service, mock, _, cleanup := newWaitlistFixture(t)
	defer cleanup()

	mock.ExpectQuery("SELECT id\\s+FROM registrations\\s+WHERE status = \\$1 AND promotion_expires_at IS NOT NULL").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("reg-1").AddRow("reg-2"))

	ids, err := service.ExpiredPromotions(10)
	assert.NoError(t, err)
	assert.Equal(t, []string{"reg-1", "reg-2"}, ids)
}

func TestGetEventWaitlistHandler(t *testing.T) {
	service, mock, _, cleanup := newWaitlistFixture(t)
	defer cleanup()

	r := chi.NewRouter()
	r.Get("/events/{eventId}/waitlist", service.GetEventWaitlist)

	t.Run("returns the queue with depth", func(t *testing.T) {
		mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM events WHERE id = \\$1\\)").
			WithArgs("evt-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery("SELECT id, user_ref, team_ref, fee_waived, waitlist_position, created_at\\s+FROM registrations").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_ref", "team_ref", "fee_waived", "waitlist_position", "created_at"}).
				AddRow("reg-a", "user:u-1", "", false, 3, time.Now()))

		req := httptest.NewRequest("GET", "/events/evt-1/waitlist", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, float64(1), resp["depth"])
		assert.Equal(t, "evt-1", resp["event_id"])
	})

	t.Run("unknown event is a 404", func(t *testing.T) {
		mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM events WHERE id = \\$1\\)").
			WithArgs("evt-missing").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		req := httptest.NewRequest("GET", "/events/evt-missing/waitlist", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

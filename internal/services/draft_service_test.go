package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"

	"github.com/deltaarena/backend/internal/models"
)

func newDraftFixture(t *testing.T) (*DraftService, sqlmock.Sqlmock, redismock.ClientMock, func()) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	cfg := testWorkflowConfig()
	audit := NewAuditService(db)
	waitlist := NewWaitlistService(db, cfg, audit, nil)
	registrations := NewRegistrationService(db, cfg, audit, NewWaiverService(nil), waitlist, nil)
	redisClient, redisMock := redismock.NewClientMock()
	service := NewDraftService(redisClient, cfg, registrations)
	return service, mock, redisMock, func() { db.Close() }
}

// storeDraft queues the Redis read that hands back a draft, marshalled the
// way the service persists it.
func storeDraft(redisMock redismock.ClientMock, draft *models.RegistrationDraft) {
	data, _ := json.Marshal(draft)
	redisMock.ExpectGet("draft:" + draft.ID).SetVal(string(data))
}

func TestDraftService_Create(t *testing.T) {
	actor := models.Actor{ID: "u-1"}

	t.Run("opens a draft seeded with the first step", func(t *testing.T) {
		service, _, redisMock, cleanup := newDraftFixture(t)
		defer cleanup()

		redisMock.ExpectGet("draft:ratelimit:u-1").RedisNil()
		// The draft ID is a fresh UUID, so the key is matched by shape only.
		redisMock.Regexp().ExpectSet(`draft:.+`, `.+`, 24*time.Hour).SetVal("OK")
		redisMock.ExpectIncr("draft:ratelimit:u-1").SetVal(1)
		redisMock.ExpectExpire("draft:ratelimit:u-1", time.Hour).SetVal(true)

		eventID := "evt-1"
		draft, err := service.Create(context.Background(), actor, models.DraftPatch{EventID: &eventID})

		assert.NoError(t, err)
		assert.NotEmpty(t, draft.ID)
		assert.Equal(t, "u-1", draft.OwnerID)
		assert.Equal(t, "evt-1", draft.EventID)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("refuses once the actor hits the creation limit", func(t *testing.T) {
		service, _, redisMock, cleanup := newDraftFixture(t)
		defer cleanup()

		redisMock.ExpectGet("draft:ratelimit:u-1").SetVal("20")

		_, err := service.Create(context.Background(), actor, models.DraftPatch{})

		assert.ErrorIs(t, err, models.ErrDraftRateLimited)
	})

	t.Run("a redis error is surfaced, not mistaken for the limit", func(t *testing.T) {
		service, _, redisMock, cleanup := newDraftFixture(t)
		defer cleanup()

		redisMock.ExpectGet("draft:ratelimit:u-1").SetErr(errors.New("connection refused"))

		_, err := service.Create(context.Background(), actor, models.DraftPatch{})

		assert.Error(t, err)
		assert.NotErrorIs(t, err, models.ErrDraftRateLimited)
	})
}

func TestDraftService_Get(t *testing.T) {
	draft := &models.RegistrationDraft{
		ID:          "d-1",
		OwnerID:     "u-1",
		EventID:     "evt-1",
		Participant: models.ParticipantRef{UserID: "u-1"},
	}

	t.Run("owner reads the draft back", func(t *testing.T) {
		service, _, redisMock, cleanup := newDraftFixture(t)
		defer cleanup()

		storeDraft(redisMock, draft)

		got, err := service.Get(context.Background(), "d-1", models.Actor{ID: "u-1"})

		assert.NoError(t, err)
		assert.Equal(t, "evt-1", got.EventID)
		assert.Equal(t, "u-1", got.Participant.UserID)
	})

	t.Run("expired drafts look like they never existed", func(t *testing.T) {
		service, _, redisMock, cleanup := newDraftFixture(t)
		defer cleanup()

		redisMock.ExpectGet("draft:d-1").RedisNil()

		_, err := service.Get(context.Background(), "d-1", models.Actor{ID: "u-1"})

		assert.ErrorIs(t, err, models.ErrDraftNotFound)
	})

	t.Run("drafts are hidden from strangers", func(t *testing.T) {
		service, _, redisMock, cleanup := newDraftFixture(t)
		defer cleanup()

		storeDraft(redisMock, draft)

		_, err := service.Get(context.Background(), "d-1", models.Actor{ID: "u-2"})

		assert.ErrorIs(t, err, models.ErrDraftNotFound)
	})

	t.Run("staff can inspect any draft", func(t *testing.T) {
		service, _, redisMock, cleanup := newDraftFixture(t)
		defer cleanup()

		storeDraft(redisMock, draft)

		got, err := service.Get(context.Background(), "d-1", models.Actor{ID: "staff-1", Staff: true})

		assert.NoError(t, err)
		assert.Equal(t, "u-1", got.OwnerID)
	})
}

func TestDraftService_Patch(t *testing.T) {
	t.Run("merges a step and refreshes the clock", func(t *testing.T) {
		service, _, redisMock, cleanup := newDraftFixture(t)
		defer cleanup()

		opened := time.Now().Add(-10 * time.Minute)
		storeDraft(redisMock, &models.RegistrationDraft{
			ID: "d-1", OwnerID: "u-1", CreatedAt: opened, UpdatedAt: opened,
		})
		redisMock.Regexp().ExpectSet(`draft:d-1`, `.+`, 24*time.Hour).SetVal("OK")

		eventID := "evt-1"
		userID := "u-1"
		got, err := service.Patch(context.Background(), "d-1", models.DraftPatch{
			EventID:    &eventID,
			UserID:     &userID,
			CustomData: models.Metadata{"gamertag": "delta77"},
		}, models.Actor{ID: "u-1"})

		assert.NoError(t, err)
		assert.Equal(t, "evt-1", got.EventID)
		assert.Equal(t, "u-1", got.Participant.UserID)
		assert.Equal(t, "delta77", got.CustomData["gamertag"])
		assert.True(t, got.UpdatedAt.After(opened))
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})
}

func TestDraftService_Submit(t *testing.T) {
	actor := models.Actor{ID: "u-1"}

	t.Run("a complete draft becomes a registration", func(t *testing.T) {
		service, mock, redisMock, cleanup := newDraftFixture(t)
		defer cleanup()

		storeDraft(redisMock, &models.RegistrationDraft{
			ID: "d-1", OwnerID: "u-1", EventID: "evt-1",
			Participant: models.ParticipantRef{UserID: "u-1"},
		})

		ev := &models.Event{ID: "evt-1", Name: "Summer Open", Capacity: 8, EntryFee: 2500, Currency: "DTC"}
		mock.ExpectQuery("SELECT (.+) FROM events\\s+WHERE id = \\$1").
			WithArgs("evt-1").
			WillReturnRows(eventRow(ev))
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM events (.+) FOR UPDATE").
			WithArgs("evt-1").
			WillReturnRows(eventRow(ev))
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery("UPDATE events\\s+SET slots_taken = slots_taken \\+ 1").
			WillReturnRows(sqlmock.NewRows([]string{"slot_seq"}).AddRow(1))
		mock.ExpectExec("INSERT INTO registrations").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO audit_records").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("SELECT (.+) FROM payments\\s+WHERE registration_id = \\$1\\s+FOR UPDATE").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectExec("INSERT INTO payments").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		redisMock.ExpectDel("draft:d-1").SetVal(1)

		reg, err := service.Submit(context.Background(), "d-1", actor)

		assert.NoError(t, err)
		assert.Equal(t, models.RegistrationPending, reg.Status)
		assert.Equal(t, 1, *reg.SlotNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("incomplete drafts never touch capacity", func(t *testing.T) {
		service, mock, redisMock, cleanup := newDraftFixture(t)
		defer cleanup()

		storeDraft(redisMock, &models.RegistrationDraft{
			ID: "d-1", OwnerID: "u-1", EventID: "evt-1",
		})

		_, err := service.Submit(context.Background(), "d-1", actor)

		assert.ErrorIs(t, err, models.ErrInvalidParticipantRef)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDraftService_Discard(t *testing.T) {
	t.Run("drops the draft", func(t *testing.T) {
		service, _, redisMock, cleanup := newDraftFixture(t)
		defer cleanup()

		storeDraft(redisMock, &models.RegistrationDraft{ID: "d-1", OwnerID: "u-1"})
		redisMock.ExpectDel("draft:d-1").SetVal(1)

		err := service.Discard(context.Background(), "d-1", models.Actor{ID: "u-1"})

		assert.NoError(t, err)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("dropping a missing draft is a no-op", func(t *testing.T) {
		service, _, redisMock, cleanup := newDraftFixture(t)
		defer cleanup()

		redisMock.ExpectGet("draft:d-1").RedisNil()

		err := service.Discard(context.Background(), "d-1", models.Actor{ID: "u-1"})

		assert.NoError(t, err)
	})
}

package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/deltaarena/backend/internal/models"
)

func newRegistrationFixture(t *testing.T) (*RegistrationService, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	cfg := testWorkflowConfig()
	audit := NewAuditService(db)
	waitlist := NewWaitlistService(db, cfg, audit, nil)
	service := NewRegistrationService(db, cfg, audit, NewWaiverService(nil), waitlist, nil)
	return service, mock, func() { db.Close() }
}

func TestRegistrationService_Submit(t *testing.T) {
	actor := models.Actor{ID: "u-1"}

	t.Run("takes a slot while capacity remains", func(t *testing.T) {
		service, mock, cleanup := newRegistrationFixture(t)
		defer cleanup()

		ev := &models.Event{ID: "evt-1", Name: "Summer Open", Capacity: 8, EntryFee: 2500, Currency: "DTC"}

		mock.ExpectQuery("SELECT (.+) FROM events\\s+WHERE id = \\$1").
			WithArgs("evt-1").
			WillReturnRows(eventRow(ev))
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM events (.+) FOR UPDATE").
			WithArgs("evt-1").
			WillReturnRows(eventRow(ev))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("evt-1", "user:u-1", "pending", "payment_submitted", "confirmed", "waitlisted").
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

		reg, err := service.Submit(&models.RegistrationRequest{
			EventID:     "evt-1",
			Participant: models.ParticipantRef{UserID: "u-1"},
		}, actor)

		assert.NoError(t, err)
		assert.Equal(t, models.RegistrationPending, reg.Status)
		assert.Equal(t, 1, *reg.SlotNumber)
		assert.Equal(t, "user:u-1", reg.UserRef)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("waitlists once the event is full", func(t *testing.T) {
		service, mock, cleanup := newRegistrationFixture(t)
		defer cleanup()

		ev := &models.Event{ID: "evt-1", Capacity: 2, SlotsTaken: 2, EntryFee: 2500}

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
			WillReturnRows(sqlmock.NewRows([]string{"slot_seq"}))
		mock.ExpectQuery("UPDATE events\\s+SET waitlist_seq = waitlist_seq \\+ 1").
			WillReturnRows(sqlmock.NewRows([]string{"waitlist_seq"}).AddRow(3))
		mock.ExpectExec("INSERT INTO registrations").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO audit_records").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		reg, err := service.Submit(&models.RegistrationRequest{
			EventID:     "evt-1",
			Participant: models.ParticipantRef{UserID: "u-1"},
		}, actor)

		assert.NoError(t, err)
		assert.Equal(t, models.RegistrationWaitlisted, reg.Status)
		assert.Equal(t, 3, *reg.WaitlistPosition)
		assert.Nil(t, reg.SlotNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("free event confirms immediately", func(t *testing.T) {
		service, mock, cleanup := newRegistrationFixture(t)
		defer cleanup()

		ev := &models.Event{ID: "evt-2", Capacity: 16, EntryFee: 0}

		mock.ExpectQuery("SELECT (.+) FROM events\\s+WHERE id = \\$1").
			WithArgs("evt-2").
			WillReturnRows(eventRow(ev))
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM events (.+) FOR UPDATE").
			WithArgs("evt-2").
			WillReturnRows(eventRow(ev))
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery("UPDATE events\\s+SET slots_taken = slots_taken \\+ 1").
			WillReturnRows(sqlmock.NewRows([]string{"slot_seq"}).AddRow(4))
		mock.ExpectExec("INSERT INTO registrations").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO audit_records").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("SELECT (.+) FROM payments\\s+WHERE registration_id = \\$1\\s+FOR UPDATE").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectExec("INSERT INTO payments").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO audit_records").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE registrations\\s+SET status = \\$1, promotion_expires_at = NULL").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO audit_records").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		reg, err := service.Submit(&models.RegistrationRequest{
			EventID:     "evt-2",
			Participant: models.ParticipantRef{UserID: "u-1"},
		}, actor)

		assert.NoError(t, err)
		assert.Equal(t, models.RegistrationConfirmed, reg.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("one active registration per participant", func(t *testing.T) {
		service, mock, cleanup := newRegistrationFixture(t)
		defer cleanup()

		ev := &models.Event{ID: "evt-1", Capacity: 8, EntryFee: 2500}

		mock.ExpectQuery("SELECT (.+) FROM events\\s+WHERE id = \\$1").
			WithArgs("evt-1").
			WillReturnRows(eventRow(ev))
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM events (.+) FOR UPDATE").
			WithArgs("evt-1").
			WillReturnRows(eventRow(ev))
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		_, err := service.Submit(&models.RegistrationRequest{
			EventID:     "evt-1",
			Participant: models.ParticipantRef{UserID: "u-1"},
		}, actor)

		assert.ErrorIs(t, err, models.ErrDuplicateRegistration)
	})

	t.Run("archived event refuses submissions", func(t *testing.T) {
		service, mock, cleanup := newRegistrationFixture(t)
		defer cleanup()

		archived := time.Now().Add(-time.Hour)
		ev := &models.Event{ID: "evt-old", Capacity: 8, EntryFee: 2500, ArchivedAt: &archived}

		mock.ExpectQuery("SELECT (.+) FROM events\\s+WHERE id = \\$1").
			WithArgs("evt-old").
			WillReturnRows(eventRow(ev))

		_, err := service.Submit(&models.RegistrationRequest{
			EventID:     "evt-old",
			Participant: models.ParticipantRef{UserID: "u-1"},
		}, actor)

		assert.ErrorIs(t, err, models.ErrEventNotOpen)
	})

	t.Run("participant ref must name exactly one of user or team", func(t *testing.T) {
		service, _, cleanup := newRegistrationFixture(t)
		defer cleanup()

		_, err := service.Submit(&models.RegistrationRequest{
			EventID:     "evt-1",
			Participant: models.ParticipantRef{UserID: "u-1", TeamID: "t-1"},
		}, actor)

		assert.ErrorIs(t, err, models.ErrInvalidParticipantRef)
	})
}

func TestRegistrationService_Cancel(t *testing.T) {
	actor := models.Actor{ID: "u-1"}

	t.Run("releases the slot and promotes from the waitlist", func(t *testing.T) {
		service, mock, cleanup := newRegistrationFixture(t)
		defer cleanup()

		ev := &models.Event{ID: "evt-1", Capacity: 2, SlotsTaken: 2, EntryFee: 2500}
		slot := 1
		reg := &models.Registration{ID: "reg-1", EventID: "evt-1", UserRef: "user:u-1",
			Status: models.RegistrationConfirmed, SlotNumber: &slot}
		pos := 5
		queued := &models.Registration{ID: "reg-9", EventID: "evt-1", UserRef: "user:u-9",
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
		mock.ExpectExec("UPDATE registrations\\s+SET status = \\$1, waitlist_position = NULL").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO audit_records").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE events\\s+SET slots_taken = slots_taken - 1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		// waitlist head is promoted into the freed slot
		mock.ExpectQuery("SELECT (.+) FROM registrations\\s+WHERE event_id = \\$1 AND status = \\$2\\s+ORDER BY waitlist_position ASC").
			WillReturnRows(registrationRow(queued))
		mock.ExpectQuery("UPDATE events\\s+SET slots_taken = slots_taken \\+ 1").
			WillReturnRows(sqlmock.NewRows([]string{"slot_seq"}).AddRow(3))
		mock.ExpectExec("UPDATE registrations\\s+SET status = \\$1, slot_number = \\$2").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO audit_records").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("SELECT (.+) FROM payments\\s+WHERE registration_id = \\$1\\s+FOR UPDATE").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectExec("INSERT INTO payments").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		cancelled, err := service.Cancel("reg-1", actor, "conflict")
		assert.NoError(t, err)
		assert.Equal(t, models.RegistrationCancelled, cancelled.Status)
		assert.NotNil(t, cancelled.CancelledAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("waitlisted cancellation frees no slot", func(t *testing.T) {
		service, mock, cleanup := newRegistrationFixture(t)
		defer cleanup()

		ev := &models.Event{ID: "evt-1", Capacity: 2, SlotsTaken: 2, EntryFee: 2500}
		pos := 2
		reg := &models.Registration{ID: "reg-3", EventID: "evt-1", UserRef: "user:u-3",
			Status: models.RegistrationWaitlisted, WaitlistPosition: &pos}

		mock.ExpectQuery("SELECT (.+) FROM registrations\\s+WHERE id = \\$1").
			WithArgs("reg-3").
			WillReturnRows(registrationRow(reg))
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM events (.+) FOR UPDATE").
			WithArgs("evt-1").
			WillReturnRows(eventRow(ev))
		mock.ExpectQuery("SELECT (.+) FROM registrations\\s+WHERE id = \\$1\\s+FOR UPDATE").
			WithArgs("reg-3").
			WillReturnRows(registrationRow(reg))
		mock.ExpectExec("UPDATE registrations\\s+SET status = \\$1, waitlist_position = NULL").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO audit_records").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		cancelled, err := service.Cancel("reg-3", actor, "")
		assert.NoError(t, err)
		assert.Equal(t, models.RegistrationCancelled, cancelled.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("terminal registrations stay terminal", func(t *testing.T) {
		service, mock, cleanup := newRegistrationFixture(t)
		defer cleanup()

		ev := &models.Event{ID: "evt-1", Capacity: 2, EntryFee: 2500}
		reg := &models.Registration{ID: "reg-4", EventID: "evt-1", UserRef: "user:u-4",
			Status: models.RegistrationCancelled}

		mock.ExpectQuery("SELECT (.+) FROM registrations\\s+WHERE id = \\$1").
			WithArgs("reg-4").
			WillReturnRows(registrationRow(reg))
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM events (.+) FOR UPDATE").
			WillReturnRows(eventRow(ev))
		mock.ExpectQuery("SELECT (.+) FROM registrations\\s+WHERE id = \\$1\\s+FOR UPDATE").
			WillReturnRows(registrationRow(reg))
		mock.ExpectRollback()

		_, err := service.Cancel("reg-4", actor, "")
		assert.ErrorIs(t, err, models.ErrInvalidStateTransition)
	})

	t.Run("checked-in registrations cannot cancel", func(t *testing.T) {
		service, mock, cleanup := newRegistrationFixture(t)
		defer cleanup()

		ev := &models.Event{ID: "evt-1", Capacity: 2, EntryFee: 2500}
		checkedIn := time.Now().Add(-time.Hour)
		slot := 1
		reg := &models.Registration{ID: "reg-5", EventID: "evt-1", UserRef: "user:u-5",
			Status: models.RegistrationConfirmed, SlotNumber: &slot, CheckedInAt: &checkedIn}

		mock.ExpectQuery("SELECT (.+) FROM registrations\\s+WHERE id = \\$1").
			WithArgs("reg-5").
			WillReturnRows(registrationRow(reg))
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM events (.+) FOR UPDATE").
			WillReturnRows(eventRow(ev))
		mock.ExpectQuery("SELECT (.+) FROM registrations\\s+WHERE id = \\$1\\s+FOR UPDATE").
			WillReturnRows(registrationRow(reg))
		mock.ExpectRollback()

		_, err := service.Cancel("reg-5", actor, "")
		assert.ErrorIs(t, err, models.ErrInvalidStateTransition)
	})
}

func TestRegistrationService_Reject(t *testing.T) {
	service, _, cleanup := newRegistrationFixture(t)
	defer cleanup()

	_, err := service.Reject("reg-1", models.Actor{ID: "staff-1", Staff: true}, "  ")
	assert.ErrorIs(t, err, models.ErrReasonRequired)
}

func TestRegistrationService_CheckIn(t *testing.T) {
	actor := models.Actor{ID: "staff-1", Staff: true}

	t.Run("records arrival", func(t *testing.T) {
		service, mock, cleanup := newRegistrationFixture(t)
		defer cleanup()

		slot := 1
		reg := &models.Registration{ID: "reg-1", EventID: "evt-1", UserRef: "user:u-1",
			Status: models.RegistrationConfirmed, SlotNumber: &slot}

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM registrations\\s+WHERE id = \\$1\\s+FOR UPDATE").
			WithArgs("reg-1").
			WillReturnRows(registrationRow(reg))
		mock.ExpectExec("UPDATE registrations SET checked_in_at = \\$1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO audit_records").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		got, err := service.CheckIn("reg-1", actor)
		assert.NoError(t, err)
		assert.NotNil(t, got.CheckedInAt)
	})

	t.Run("second check-in is a no-op", func(t *testing.T) {
		service, mock, cleanup := newRegistrationFixture(t)
		defer cleanup()

		earlier := time.Now().Add(-time.Minute)
		slot := 1
		reg := &models.Registration{ID: "reg-1", EventID: "evt-1", UserRef: "user:u-1",
			Status: models.RegistrationConfirmed, SlotNumber: &slot, CheckedInAt: &earlier}

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM registrations\\s+WHERE id = \\$1\\s+FOR UPDATE").
			WithArgs("reg-1").
			WillReturnRows(registrationRow(reg))
		mock.ExpectRollback()

		got, err := service.CheckIn("reg-1", actor)
		assert.NoError(t, err)
		assert.WithinDuration(t, earlier, *got.CheckedInAt, time.Second)
	})

	t.Run("pending registrations cannot check in", func(t *testing.T) {
		service, mock, cleanup := newRegistrationFixture(t)
		defer cleanup()

		slot := 1
		reg := &models.Registration{ID: "reg-2", EventID: "evt-1", UserRef: "user:u-2",
			Status: models.RegistrationPending, SlotNumber: &slot}

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM registrations\\s+WHERE id = \\$1\\s+FOR UPDATE").
			WithArgs("reg-2").
			WillReturnRows(registrationRow(reg))
		mock.ExpectRollback()

		_, err := service.CheckIn("reg-2", actor)
		assert.ErrorIs(t, err, models.ErrInvalidStateTransition)
	})
}

func TestRegistrationService_MarkNoShow(t *testing.T) {
	actor := models.Actor{ID: "staff-1", Staff: true}

	t.Run("flags an absent participant after the event ends", func(t *testing.T) {
		service, mock, cleanup := newRegistrationFixture(t)
		defer cleanup()

		slot := 1
		reg := &models.Registration{ID: "reg-1", EventID: "evt-1", UserRef: "user:u-1",
			Status: models.RegistrationConfirmed, SlotNumber: &slot}
		ended := time.Now().Add(-2 * time.Hour)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM registrations\\s+WHERE id = \\$1\\s+FOR UPDATE").
			WithArgs("reg-1").
			WillReturnRows(registrationRow(reg))
		mock.ExpectQuery("SELECT ends_at FROM events WHERE id = \\$1").
			WithArgs("evt-1").
			WillReturnRows(sqlmock.NewRows([]string{"ends_at"}).AddRow(ended))
		mock.ExpectExec("UPDATE registrations SET status = \\$1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO audit_records").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		got, err := service.MarkNoShow("reg-1", actor)
		assert.NoError(t, err)
		assert.Equal(t, models.RegistrationNoShow, got.Status)
	})

	t.Run("refused while the event is still running", func(t *testing.T) {
		service, mock, cleanup := newRegistrationFixture(t)
		defer cleanup()

		slot := 1
		reg := &models.Registration{ID: "reg-1", EventID: "evt-1", UserRef: "user:u-1",
			Status: models.RegistrationConfirmed, SlotNumber: &slot}
		endsLater := time.Now().Add(2 * time.Hour)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM registrations\\s+WHERE id = \\$1\\s+FOR UPDATE").
			WithArgs("reg-1").
			WillReturnRows(registrationRow(reg))
		mock.ExpectQuery("SELECT ends_at FROM events WHERE id = \\$1").
			WithArgs("evt-1").
			WillReturnRows(sqlmock.NewRows([]string{"ends_at"}).AddRow(endsLater))
		mock.ExpectRollback()

		_, err := service.MarkNoShow("reg-1", actor)
		assert.ErrorIs(t, err, models.ErrInvalidStateTransition)
	})
}

func TestRegistrationService_ListByEvent(t *testing.T) {
	service, mock, cleanup := newRegistrationFixture(t)
	defer cleanup()

	slot := 1
	first := &models.Registration{ID: "reg-1", EventID: "evt-1", UserRef: "user:u-1",
		Status: models.RegistrationConfirmed, SlotNumber: &slot}

	rows := registrationRow(first)
	pos := 1
	rows.AddRow("reg-2", "evt-1", "user:u-2", "", string(models.RegistrationWaitlisted), nil,
		pos, false, nil, nil, nil, time.Now(), time.Now(), nil)

	mock.ExpectQuery("SELECT (.+) FROM registrations\\s+WHERE event_id = \\$1").
		WithArgs("evt-1", "", 200).
		WillReturnRows(rows)

	regs, err := service.ListByEvent("evt-1", "", 0)
	assert.NoError(t, err)
	assert.Len(t, regs, 2)
	assert.Equal(t, "reg-1", regs[0].ID)
}

func TestRegistrationParticipant(t *testing.T) {
	reg := &models.Registration{UserRef: "user:u-1"}
	assert.Equal(t, "user:u-1", reg.Participant().String())

	team := &models.Registration{TeamRef: "team:t-4"}
	assert.Equal(t, "team:t-4", team.Participant().String())
}

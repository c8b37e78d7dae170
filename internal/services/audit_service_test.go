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
)

func TestAuditService_RecordTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewAuditService(db)

	t.Run("fills in identity, actor and timestamp", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO audit_records").
			WithArgs(sqlmock.AnyArg(), "registration", "reg-1", "evt-1", "registration.submit",
				"", "pending", "system", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		rec := &models.AuditRecord{
			EntityType: models.AuditEntityRegistration,
			EntityID:   "reg-1",
			EventID:    "evt-1",
			Action:     models.AuditActionSubmit,
			ToStatus:   "pending",
		}
		assert.NoError(t, service.Record(rec))
		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, "system", rec.ActorID)
		assert.False(t, rec.CreatedAt.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("keeps an explicit actor", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO audit_records").
			WithArgs(sqlmock.AnyArg(), "payment", "pay-1", "evt-1", "payment.verify",
				"submitted", "verified", "staff-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		rec := &models.AuditRecord{
			EntityType: models.AuditEntityPayment,
			EntityID:   "pay-1",
			EventID:    "evt-1",
			Action:     models.AuditActionVerify,
			FromStatus: "submitted",
			ToStatus:   "verified",
			ActorID:    "staff-1",
		}
		assert.NoError(t, service.Record(rec))
		assert.Equal(t, "staff-1", rec.ActorID)
	})
}

func TestAuditService_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewAuditService(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "entity_type", "entity_id", "event_id", "action",
		"from_status", "to_status", "actor_id", "details", "created_at"}).
		AddRow("aud-2", "payment", "pay-1", "evt-1", "payment.verify", "submitted", "verified",
			"staff-1", []byte(`{"amount": 2500}`), now).
		AddRow("aud-1", "payment", "pay-1", "evt-1", "payment.proof_submitted", "pending", "submitted",
			"u-1", nil, now.Add(-time.Minute))

	mock.ExpectQuery("SELECT (.+) FROM audit_records").
		WithArgs("payment", "pay-1", "", "", 100).
		WillReturnRows(rows)

	records, err := service.List(models.AuditFilter{EntityType: "payment", EntityID: "pay-1"})
	assert.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "aud-2", records[0].ID)
	assert.Equal(t, float64(2500), records[0].Details["amount"])
}

func TestListAuditRecordsHandler(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewAuditService(db)

	r := chi.NewRouter()
	r.Get("/audit", service.ListAuditRecords)

	mock.ExpectQuery("SELECT (.+) FROM audit_records").
		WithArgs("registration", "", "evt-1", "", 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "entity_type", "entity_id", "event_id", "action",
			"from_status", "to_status", "actor_id", "details", "created_at"}).
			AddRow("aud-1", "registration", "reg-1", "evt-1", "registration.submit", "", "pending",
				"u-1", nil, time.Now()))

	req := httptest.NewRequest("GET", "/audit?entity_type=registration&event_id=evt-1&limit=5", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["count"])
}

package services

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/deltaarena/backend/internal/models"
)

// AuditService writes the append-only audit trail. Records belonging to a
// state transition are written through RecordTx inside the transition's own
// transaction, so a transition either commits together with its record or
// not at all. Records are never updated or deleted.
type AuditService struct {
	db *sql.DB
}

func NewAuditService(db *sql.DB) *AuditService {
	return &AuditService{db: db}
}

// RecordTx appends an audit record inside the caller's transaction.
func (a *AuditService) RecordTx(tx *sql.Tx, rec *models.AuditRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.ActorID == "" {
		rec.ActorID = "system"
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := tx.Exec(`
		INSERT INTO audit_records (id, entity_type, entity_id, event_id, action, from_status, to_status, actor_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.EntityType, rec.EntityID, rec.EventID, rec.Action,
		rec.FromStatus, rec.ToStatus, rec.ActorID, rec.Details, rec.CreatedAt)
	if err != nil {
		return err
	}

	a.echo(rec)
	return nil
}

// Record appends a standalone audit record in its own transaction. Only for
// actions that are not themselves state transitions, such as recompute runs.
func (a *AuditService) Record(rec *models.AuditRecord) error {
	tx, err := a.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := a.RecordTx(tx, rec); err != nil {
		return err
	}
	return tx.Commit()
}

// List returns audit records matching the filter, newest first.
func (a *AuditService) List(filter models.AuditFilter) ([]*models.AuditRecord, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}

	query := `
		SELECT id, entity_type, entity_id, event_id, action, from_status, to_status, actor_id, details, created_at
		FROM audit_records
		WHERE ($1 = '' OR entity_type = $1)
		  AND ($2 = '' OR entity_id = $2)
		  AND ($3 = '' OR event_id = $3)
		  AND ($4 = '' OR action = $4)
		ORDER BY created_at DESC
		LIMIT $5`

	rows, err := a.db.Query(query, filter.EntityType, filter.EntityID, filter.EventID, filter.Action, filter.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.AuditRecord
	for rows.Next() {
		var rec models.AuditRecord
		if err := rows.Scan(&rec.ID, &rec.EntityType, &rec.EntityID, &rec.EventID, &rec.Action,
			&rec.FromStatus, &rec.ToStatus, &rec.ActorID, &rec.Details, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

func (a *AuditService) echo(rec *models.AuditRecord) {
	data, _ := json.Marshal(rec)
	log.Printf("AUDIT: %s", string(data))
}

// ListAuditRecords handles audit trail queries
// @Summary Query audit trail
// @Description List audit records, newest first, filtered by entity, event, or action
// @Tags audit
// @Produce json
// @Param entity_type query string false "Entity type (registration, payment, wallet, event)"
// @Param entity_id query string false "Entity ID"
// @Param event_id query string false "Event ID"
// @Param action query string false "Action"
// @Param limit query int false "Maximum records to return"
// @Success 200 {object} object{records=[]models.AuditRecord}
// @Router /audit [get]
func (a *AuditService) ListAuditRecords(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	filter := models.AuditFilter{
		EntityType: r.URL.Query().Get("entity_type"),
		EntityID:   r.URL.Query().Get("entity_id"),
		EventID:    r.URL.Query().Get("event_id"),
		Action:     r.URL.Query().Get("action"),
		Limit:      limit,
	}

	records, err := a.List(filter)
	if err != nil {
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}

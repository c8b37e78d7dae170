package services

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/deltaarena/backend/internal/models"
)

// EventService owns event records and their capacity counters. The counters
// (slots_taken, slot_seq, waitlist_seq) are mutated only under the event row
// lock taken by lockEventTx, never by ad hoc writes elsewhere.
type EventService struct {
	db        *sql.DB
	audit     *AuditService
	validator *ValidationHelper
}

func NewEventService(db *sql.DB, audit *AuditService) *EventService {
	return &EventService{
		db:        db,
		audit:     audit,
		validator: NewValidationHelper(),
	}
}

const eventColumns = `id, name, category, capacity, slots_taken, slot_seq, waitlist_seq, entry_fee, currency,
	waiver_rank_threshold, starts_at, ends_at, archived_at, metadata, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*models.Event, error) {
	var ev models.Event
	err := row.Scan(&ev.ID, &ev.Name, &ev.Category, &ev.Capacity, &ev.SlotsTaken, &ev.SlotSeq, &ev.WaitlistSeq,
		&ev.EntryFee, &ev.Currency, &ev.WaiverRankThreshold, &ev.StartsAt, &ev.EndsAt, &ev.ArchivedAt,
		&ev.Metadata, &ev.CreatedAt, &ev.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// lockEventTx locks the event row for the rest of the transaction. The event
// lock is always taken before payment, registration, or wallet locks so
// competing flows acquire in a consistent order and cannot deadlock.
func lockEventTx(tx *sql.Tx, eventID string) (*models.Event, error) {
	return scanEvent(tx.QueryRow(`
		SELECT `+eventColumns+`
		FROM events
		WHERE id = $1
		FOR UPDATE`, eventID))
}

// tryReserveSlotTx atomically claims one capacity slot and hands out the next
// slot number. The compare happens inside the UPDATE itself, so two competing
// reservations can never both squeeze past the ceiling. Slot numbers come
// from a dedicated sequence and are never reused, even after cancellations.
func tryReserveSlotTx(tx *sql.Tx, eventID string) (int, error) {
	var slot int
	err := tx.QueryRow(`
		UPDATE events
		SET slots_taken = slots_taken + 1, slot_seq = slot_seq + 1, updated_at = $2
		WHERE id = $1 AND slots_taken < capacity
		RETURNING slot_seq`, eventID, time.Now()).Scan(&slot)
	if err == sql.ErrNoRows {
		return 0, models.ErrCapacityExceeded
	}
	if err != nil {
		return 0, err
	}
	return slot, nil
}

// releaseSlotTx frees one capacity slot after a slot-holding registration
// leaves. Callers promote from the waitlist in the same transaction.
func releaseSlotTx(tx *sql.Tx, eventID string) error {
	_, err := tx.Exec(`
		UPDATE events
		SET slots_taken = slots_taken - 1, updated_at = $2
		WHERE id = $1 AND slots_taken > 0`, eventID, time.Now())
	return err
}

// Create persists a new event.
func (es *EventService) Create(req *models.EventCreateRequest, actor string) (*models.Event, error) {
	if req.StartsAt != nil && req.EndsAt != nil && !req.EndsAt.After(*req.StartsAt) {
		return nil, models.ErrEventNotOpen
	}

	currency := req.Currency
	if currency == "" {
		currency = "DTC"
	}

	now := time.Now()
	ev := &models.Event{
		ID:                  uuid.New().String(),
		Name:                req.Name,
		Category:            req.Category,
		Capacity:            req.Capacity,
		EntryFee:            req.EntryFee,
		Currency:            currency,
		WaiverRankThreshold: req.WaiverRankThreshold,
		StartsAt:            req.StartsAt,
		EndsAt:              req.EndsAt,
		Metadata:            req.Metadata,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	tx, err := es.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO events (id, name, category, capacity, slots_taken, slot_seq, waitlist_seq, entry_fee, currency,
			waiver_rank_threshold, starts_at, ends_at, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, 0, 0, $5, $6, $7, $8, $9, $10, $11, $12)`,
		ev.ID, ev.Name, ev.Category, ev.Capacity, ev.EntryFee, ev.Currency,
		ev.WaiverRankThreshold, ev.StartsAt, ev.EndsAt, ev.Metadata, ev.CreatedAt, ev.UpdatedAt); err != nil {
		return nil, err
	}

	if err := es.audit.RecordTx(tx, &models.AuditRecord{
		EntityType: models.AuditEntityEvent,
		EntityID:   ev.ID,
		EventID:    ev.ID,
		Action:     models.AuditActionEventOpen,
		ToStatus:   string(models.LifecycleActive),
		ActorID:    actor,
		Details:    models.Metadata{"name": ev.Name, "capacity": ev.Capacity, "entry_fee": ev.EntryFee},
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Printf("[EVENT] Created event %s (%s), capacity %d, fee %d", ev.ID, ev.Name, ev.Capacity, ev.EntryFee)
	return ev, nil
}

// Get resolves an event by id.
func (es *EventService) Get(eventID string) (*models.Event, error) {
	return scanEvent(es.db.QueryRow(`
		SELECT `+eventColumns+`
		FROM events
		WHERE id = $1`, eventID))
}

// List returns events, newest first. Archived events are excluded unless
// requested.
func (es *EventService) List(includeArchived bool, limit int) ([]*models.Event, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := es.db.Query(`
		SELECT `+eventColumns+`
		FROM events
		WHERE $1 OR archived_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2`, includeArchived, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Archive closes an event to new registrations. Existing registrations stay
// actionable so verification and refunds can finish after the event closes.
func (es *EventService) Archive(eventID, actor string) (*models.Event, error) {
	tx, err := es.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ev, err := lockEventTx(tx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.ArchivedAt != nil {
		return ev, nil
	}

	now := time.Now()
	if _, err := tx.Exec(`
		UPDATE events SET archived_at = $1, updated_at = $1 WHERE id = $2`, now, eventID); err != nil {
		return nil, err
	}
	ev.ArchivedAt = &now
	ev.UpdatedAt = now

	if err := es.audit.RecordTx(tx, &models.AuditRecord{
		EntityType: models.AuditEntityEvent,
		EntityID:   ev.ID,
		EventID:    ev.ID,
		Action:     models.AuditActionEventClose,
		FromStatus: string(models.LifecycleActive),
		ToStatus:   string(models.LifecycleArchived),
		ActorID:    actor,
	}); err != nil {
		return nil, err
	}

	return ev, tx.Commit()
}

// WaitlistDepth counts registrations currently queued for an event.
func (es *EventService) WaitlistDepth(eventID string) (int, error) {
	var depth int
	err := es.db.QueryRow(`
		SELECT COUNT(*) FROM registrations
		WHERE event_id = $1 AND status = $2 AND cancelled_at IS NULL`,
		eventID, models.RegistrationWaitlisted).Scan(&depth)
	return depth, err
}

// CreateEvent handles event creation
// @Summary Create event
// @Description Create a new event with capacity and entry fee configuration
// @Tags events
// @Accept json
// @Produce json
// @Param event body models.EventCreateRequest true "Event definition"
// @Success 201 {object} models.Event
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /events [post]
func (es *EventService) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.EventCreateRequest

	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	if err := es.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	actor := actorFromContext(r.Context())
	ev, err := es.Create(&req, actor.ID)
	if err != nil {
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ev)
}

// GetEvent handles event lookup
// @Summary Get event
// @Description Retrieve one event by id
// @Tags events
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {object} models.Event
// @Failure 404 {object} ErrorResponse
// @Router /events/{eventId} [get]
func (es *EventService) GetEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := es.Get(chi.URLParam(r, "eventId"))
	if err != nil {
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ev)
}

// ListEvents handles event listing
// @Summary List events
// @Description List events, newest first
// @Tags events
// @Produce json
// @Param include_archived query bool false "Include archived events"
// @Success 200 {object} object{events=[]models.Event}
// @Router /events [get]
func (es *EventService) ListEvents(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("include_archived") == "true"

	events, err := es.List(includeArchived, 0)
	if err != nil {
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"events": events,
		"count":  len(events),
	})
}

// ArchiveEvent handles event archival
// @Summary Archive event
// @Description Close an event to new registrations
// @Tags events
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {object} models.Event
// @Failure 404 {object} ErrorResponse
// @Router /events/{eventId}/archive [post]
func (es *EventService) ArchiveEvent(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	ev, err := es.Archive(chi.URLParam(r, "eventId"), actor.ID)
	if err != nil {
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ev)
}

// GetEventCapacity handles capacity enquiry
// @Summary Get event capacity
// @Description Report slot usage and waitlist depth for an event
// @Tags events
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {object} object{capacity=int,slots_taken=int,slots_free=int,waitlist_depth=int}
// @Failure 404 {object} ErrorResponse
// @Router /events/{eventId}/capacity [get]
func (es *EventService) GetEventCapacity(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	ev, err := es.Get(eventID)
	if err != nil {
		SendDomainError(w, err)
		return
	}

	depth, err := es.WaitlistDepth(eventID)
	if err != nil {
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"event_id":       ev.ID,
		"capacity":       ev.Capacity,
		"slots_taken":    ev.SlotsTaken,
		"slots_free":     ev.SlotsFree(),
		"waitlist_depth": depth,
	})
}

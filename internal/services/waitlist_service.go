package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/deltaarena/backend/internal/config"
	"github.com/deltaarena/backend/internal/metrics"
	"github.com/deltaarena/backend/internal/models"
	"github.com/deltaarena/backend/internal/notify"
)

// WaitlistService manages the per-event overflow queue. Positions are
// assigned from a monotonic per-event sequence and never reassigned, so the
// stored values can have gaps; reads normalize them to 1..n.
type WaitlistService struct {
	db    *sql.DB
	cfg   *config.WorkflowConfig
	audit *AuditService
	sink  notify.Sink
}

func NewWaitlistService(db *sql.DB, cfg *config.WorkflowConfig, audit *AuditService, sink notify.Sink) *WaitlistService {
	if cfg == nil {
		cfg = config.LoadWorkflowConfig()
	}
	return &WaitlistService{db: db, cfg: cfg, audit: audit, sink: sink}
}

// nextWaitlistPositionTx draws the next position from the event's waitlist
// sequence. Requires the event row to be locked.
func nextWaitlistPositionTx(tx *sql.Tx, eventID string) (int, error) {
	var position int
	err := tx.QueryRow(`
		UPDATE events
		SET waitlist_seq = waitlist_seq + 1, updated_at = $2
		WHERE id = $1
		RETURNING waitlist_seq`, eventID, time.Now()).Scan(&position)
	if err == sql.ErrNoRows {
		return 0, models.ErrEventNotFound
	}
	return position, err
}

// WaitlistEntry is one row in the normalized waitlist view.
type WaitlistEntry struct {
	Position       int       `json:"position"`
	RegistrationID string    `json:"registration_id"`
	Participant    string    `json:"participant"`
	FeeWaived      bool      `json:"fee_waived"`
	JoinedAt       time.Time `json:"joined_at"`
}

// Entries returns an event's waitlist in promotion order with dense
// positions. Cancellations leave holes in the stored positions; the order is
// what matters and the view renumbers from 1.
func (ws *WaitlistService) Entries(eventID string) ([]WaitlistEntry, error) {
	rows, err := ws.db.Query(`
		SELECT id, user_ref, team_ref, fee_waived, waitlist_position, created_at
		FROM registrations
		WHERE event_id = $1 AND status = $2
		ORDER BY waitlist_position ASC`, eventID, models.RegistrationWaitlisted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []WaitlistEntry{}
	for rows.Next() {
		var e WaitlistEntry
		var userRef, teamRef string
		var stored *int
		if err := rows.Scan(&e.RegistrationID, &userRef, &teamRef, &e.FeeWaived, &stored, &e.JoinedAt); err != nil {
			return nil, err
		}
		if userRef != "" {
			e.Participant = userRef
		} else {
			e.Participant = teamRef
		}
		e.Position = len(entries) + 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PromoteNextTx moves the head of the waitlist into a freed slot. Returns
// (nil, nil) when the waitlist is empty. Requires the event row to be locked;
// the caller must have released or never taken the slot being handed over.
//
// Promoted registrations that still owe the entry fee get a payment deadline;
// fee-waived and free-event promotions confirm immediately.
func (ws *WaitlistService) PromoteNextTx(tx *sql.Tx, ev *models.Event) (*models.Registration, error) {
	reg, err := scanRegistration(tx.QueryRow(`
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE event_id = $1 AND status = $2
		ORDER BY waitlist_position ASC
		LIMIT 1
		FOR UPDATE`, ev.ID, models.RegistrationWaitlisted))
	if err == models.ErrRegistrationNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	slot, err := tryReserveSlotTx(tx, ev.ID)
	if err != nil {
		// Freed slot already taken again; leave the entry queued.
		if err == models.ErrCapacityExceeded {
			return nil, nil
		}
		return nil, err
	}

	now := time.Now()
	expiresAt := now.Add(ws.cfg.PromotionWindow)
	if _, err := tx.Exec(`
		UPDATE registrations
		SET status = $1, slot_number = $2, waitlist_position = NULL, promotion_expires_at = $3, updated_at = $4
		WHERE id = $5`,
		models.RegistrationPending, slot, expiresAt, now, reg.ID); err != nil {
		return nil, err
	}

	reg.Status = models.RegistrationPending
	reg.SlotNumber = &slot
	reg.WaitlistPosition = nil
	reg.PromotionExpiresAt = &expiresAt
	reg.UpdatedAt = now

	if err := ws.audit.RecordTx(tx, &models.AuditRecord{
		EntityType: models.AuditEntityRegistration,
		EntityID:   reg.ID,
		EventID:    reg.EventID,
		Action:     models.AuditActionPromote,
		FromStatus: string(models.RegistrationWaitlisted),
		ToStatus:   string(models.RegistrationPending),
		ActorID:    "system",
		Details:    models.Metadata{"slot": slot, "respond_by": expiresAt},
	}); err != nil {
		return nil, err
	}

	payment, err := ensurePaymentRowTx(tx, ws.audit, reg, ev, reg.FeeWaived, "system")
	if err != nil {
		return nil, err
	}
	if payment.Status == models.PaymentWaived {
		if err := confirmRegistrationTx(tx, ws.audit, reg, "system"); err != nil {
			return nil, err
		}
	}

	log.Printf("[WAITLIST] Promoted registration %s to slot %d for event %s", reg.ID, slot, ev.ID)
	return reg, nil
}

// ExpireIfUnactioned requeues a promoted registration whose payment deadline
// passed without a proof. Idempotent: registrations in any other shape are
// left alone. The freed slot goes to the next entry, so one sweep can cascade
// down the queue.
func (ws *WaitlistService) ExpireIfUnactioned(registrationID string) (*models.Registration, error) {
	peek, err := scanRegistration(ws.db.QueryRow(`
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE id = $1`, registrationID))
	if err != nil {
		return nil, err
	}

	tx, err := ws.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ev, err := lockEventTx(tx, peek.EventID)
	if err != nil {
		return nil, err
	}
	reg, err := lockRegistrationTx(tx, registrationID)
	if err != nil {
		return nil, err
	}

	if reg.Status != models.RegistrationPending || reg.PromotionExpiresAt == nil || time.Now().Before(*reg.PromotionExpiresAt) {
		return nil, nil
	}

	position, err := nextWaitlistPositionTx(tx, ev.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if _, err := tx.Exec(`
		UPDATE registrations
		SET status = $1, slot_number = NULL, waitlist_position = $2, promotion_expires_at = NULL, updated_at = $3
		WHERE id = $4`,
		models.RegistrationWaitlisted, position, now, reg.ID); err != nil {
		return nil, err
	}

	from := reg.Status
	reg.Status = models.RegistrationWaitlisted
	reg.SlotNumber = nil
	reg.WaitlistPosition = &position
	reg.PromotionExpiresAt = nil
	reg.UpdatedAt = now

	if err := ws.audit.RecordTx(tx, &models.AuditRecord{
		EntityType: models.AuditEntityRegistration,
		EntityID:   reg.ID,
		EventID:    reg.EventID,
		Action:     models.AuditActionExpire,
		FromStatus: string(from),
		ToStatus:   string(models.RegistrationWaitlisted),
		ActorID:    "system",
		Details:    models.Metadata{"requeued_position": position},
	}); err != nil {
		return nil, err
	}

	if err := releaseSlotTx(tx, ev.ID); err != nil {
		return nil, err
	}
	promoted, err := ws.PromoteNextTx(tx, ev)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	metrics.Default().IncPromotionExpiry()
	ws.publish(notify.TypeRegistrationExpired, reg, map[string]any{"requeued_position": position})
	if promoted != nil {
		metrics.Default().IncPromotion()
		ws.publish(notify.TypeRegistrationPromoted, promoted, map[string]any{"respond_by": promoted.PromotionExpiresAt})
	}

	log.Printf("[WAITLIST] Promotion expired for registration %s, requeued at position %d", reg.ID, position)
	return reg, nil
}

// ExpiredPromotions lists registrations whose promotion window has lapsed,
// for the sweep job.
func (ws *WaitlistService) ExpiredPromotions(limit int) ([]string, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := ws.db.Query(`
		SELECT id
		FROM registrations
		WHERE status = $1 AND promotion_expires_at IS NOT NULL AND promotion_expires_at <= $2
		ORDER BY promotion_expires_at ASC
		LIMIT $3`, models.RegistrationPending, time.Now(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SweepExpiredPromotions is the cron entry point. Each expiry runs in its own
// transaction so one failure does not stall the rest.
func (ws *WaitlistService) SweepExpiredPromotions() {
	ids, err := ws.ExpiredPromotions(0)
	if err != nil {
		log.Errorf("[WAITLIST] Sweep query failed: %v", err)
		return
	}
	for _, id := range ids {
		if _, err := ws.ExpireIfUnactioned(id); err != nil {
			log.Errorf("[WAITLIST] Failed to expire promotion for %s: %v", id, err)
		}
	}
	if len(ids) > 0 {
		log.Printf("[WAITLIST] Sweep processed %d lapsed promotions", len(ids))
	}
}

func (ws *WaitlistService) publish(msgType string, reg *models.Registration, data map[string]any) {
	if ws.sink == nil {
		return
	}
	msg := notify.Message{
		Type:      msgType,
		EntityID:  reg.ID,
		EventID:   reg.EventID,
		Recipient: reg.Participant().String(),
		Data:      data,
	}
	go func() {
		if err := ws.sink.Publish(context.Background(), msg); err != nil {
			log.Printf("[NOTIFY] Failed to publish %s for %s: %v", msgType, msg.EntityID, err)
		}
	}()
}

// GetEventWaitlist handles the waitlist view
// @Summary Get event waitlist
// @Description List an event's waitlist in promotion order with dense positions
// @Tags waitlist
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {object} object{waitlist=[]WaitlistEntry}
// @Failure 404 {object} ErrorResponse
// @Router /events/{eventId}/waitlist [get]
func (ws *WaitlistService) GetEventWaitlist(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	var exists bool
	if err := ws.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists); err != nil {
		SendDomainError(w, err)
		return
	}
	if !exists {
		SendDomainError(w, models.ErrEventNotFound)
		return
	}

	entries, err := ws.Entries(eventID)
	if err != nil {
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"event_id": eventID,
		"waitlist": entries,
		"depth":    len(entries),
	})
}

// ExpirePromotion handles manual promotion expiry
// @Summary Expire a lapsed promotion
// @Description Requeue a promoted registration whose payment deadline passed; no-op otherwise
// @Tags waitlist
// @Produce json
// @Param registrationId path string true "Registration ID"
// @Success 200 {object} models.Registration
// @Failure 404 {object} ErrorResponse
// @Router /registrations/{registrationId}/expire-promotion [post]
func (ws *WaitlistService) ExpirePromotion(w http.ResponseWriter, r *http.Request) {
	reg, err := ws.ExpireIfUnactioned(chi.URLParam(r, "registrationId"))
	if err != nil {
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if reg == nil {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"expired": false,
			"message": fmt.Sprintf("Registration %s has no lapsed promotion", chi.URLParam(r, "registrationId")),
		})
		return
	}
	json.NewEncoder(w).Encode(reg)
}

package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"

	"github.com/deltaarena/backend/internal/config"
	"github.com/deltaarena/backend/internal/metrics"
	"github.com/deltaarena/backend/internal/models"
	"github.com/deltaarena/backend/internal/notify"
	"github.com/deltaarena/backend/internal/policy"
)

// RegistrationService owns the registration state machine. All transitions
// write their audit record in the same transaction as the state change, so an
// audit failure rolls the transition back.
type RegistrationService struct {
	db        *sql.DB
	cfg       *config.WorkflowConfig
	audit     *AuditService
	waiver    *WaiverService
	waitlist  *WaitlistService
	sink      notify.Sink
	validator *ValidationHelper
}

func NewRegistrationService(db *sql.DB, cfg *config.WorkflowConfig, audit *AuditService,
	waiver *WaiverService, waitlist *WaitlistService, sink notify.Sink) *RegistrationService {
	if cfg == nil {
		cfg = config.LoadWorkflowConfig()
	}
	return &RegistrationService{
		db:        db,
		cfg:       cfg,
		audit:     audit,
		waiver:    waiver,
		waitlist:  waitlist,
		sink:      sink,
		validator: NewValidationHelper(),
	}
}

const registrationColumns = `id, event_id, user_ref, team_ref, status, slot_number, waitlist_position, fee_waived,
	promotion_expires_at, checked_in_at, custom_data, created_at, updated_at, cancelled_at`

func scanRegistration(row interface{ Scan(...any) error }) (*models.Registration, error) {
	var reg models.Registration
	err := row.Scan(&reg.ID, &reg.EventID, &reg.UserRef, &reg.TeamRef, &reg.Status, &reg.SlotNumber,
		&reg.WaitlistPosition, &reg.FeeWaived, &reg.PromotionExpiresAt, &reg.CheckedInAt, &reg.CustomData,
		&reg.CreatedAt, &reg.UpdatedAt, &reg.CancelledAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrRegistrationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// lockRegistrationTx locks a registration row. Acquired after the event and
// payment locks, never before them.
func lockRegistrationTx(tx *sql.Tx, registrationID string) (*models.Registration, error) {
	return scanRegistration(tx.QueryRow(`
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE id = $1
		FOR UPDATE`, registrationID))
}

// confirmRegistrationTx flips a registration into confirmed. Only the payment
// workflow and the fee-waiver path go through here.
func confirmRegistrationTx(tx *sql.Tx, audit *AuditService, reg *models.Registration, actorID string) error {
	if reg.Status != models.RegistrationPending && reg.Status != models.RegistrationPaymentSubmitted {
		return fmt.Errorf("%w: %s -> %s", models.ErrInvalidStateTransition, reg.Status, models.RegistrationConfirmed)
	}

	now := time.Now()
	result, err := tx.Exec(`
		UPDATE registrations
		SET status = $1, promotion_expires_at = NULL, updated_at = $2
		WHERE id = $3 AND status = $4`,
		models.RegistrationConfirmed, now, reg.ID, reg.Status)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("%w: registration %s", models.ErrConcurrentModification, reg.ID)
	}

	from := reg.Status
	reg.Status = models.RegistrationConfirmed
	reg.PromotionExpiresAt = nil
	reg.UpdatedAt = now

	return audit.RecordTx(tx, &models.AuditRecord{
		EntityType: models.AuditEntityRegistration,
		EntityID:   reg.ID,
		EventID:    reg.EventID,
		Action:     models.AuditActionConfirm,
		FromStatus: string(from),
		ToStatus:   string(models.RegistrationConfirmed),
		ActorID:    actorID,
	})
}

// Submit registers a participant for an event. When the event is full the
// registration lands on the waitlist instead of failing. The fee waiver is
// evaluated here, once, and the result travels with the registration.
func (rs *RegistrationService) Submit(req *models.RegistrationRequest, actor models.Actor) (*models.Registration, error) {
	if err := req.Participant.Validate(); err != nil {
		return nil, err
	}

	ev, err := scanEvent(rs.db.QueryRow(`
		SELECT `+eventColumns+`
		FROM events
		WHERE id = $1`, req.EventID))
	if err != nil {
		return nil, err
	}
	if err := registrationOpen(ev); err != nil {
		return nil, err
	}

	// Rank lookup happens before the transaction so no lock is held across
	// the network call.
	waived := rs.waiver.QualifiesForWaiver(ev, req.Participant)

	var reg *models.Registration
	err = retryConflicts(rs.cfg.RetryAttempts, rs.cfg.RetryBackoff, func() error {
		var opErr error
		reg, opErr = rs.submitOnce(req, waived, actor)
		return opErr
	})
	if err != nil {
		return nil, err
	}

	switch reg.Status {
	case models.RegistrationWaitlisted:
		metrics.Default().IncRegistration("waitlisted")
		rs.notifyAsync(notify.TypeRegistrationWaitlist, reg, map[string]any{"position": reg.WaitlistPosition})
	case models.RegistrationConfirmed:
		metrics.Default().IncRegistration("confirmed")
		rs.notifyAsync(notify.TypeRegistrationConfirmed, reg, map[string]any{"fee_waived": reg.FeeWaived})
	default:
		metrics.Default().IncRegistration("pending")
	}

	log.Printf("[REGISTRATION] %s submitted for event %s by %s, status %s",
		reg.ID, reg.EventID, req.Participant.String(), reg.Status)
	return reg, nil
}

func (rs *RegistrationService) submitOnce(req *models.RegistrationRequest, waived bool, actor models.Actor) (*models.Registration, error) {
	tx, err := rs.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ev, err := lockEventTx(tx, req.EventID)
	if err != nil {
		return nil, err
	}
	if err := registrationOpen(ev); err != nil {
		return nil, err
	}

	taken, err := rs.hasActiveRegistrationTx(tx, ev.ID, req.Participant)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.ErrDuplicateRegistration
	}

	now := time.Now()
	reg := &models.Registration{
		ID:         uuid.New().String(),
		EventID:    ev.ID,
		UserRef:    req.Participant.UserID,
		TeamRef:    req.Participant.TeamID,
		FeeWaived:  waived,
		CustomData: req.CustomData,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if reg.UserRef != "" {
		reg.UserRef = "user:" + reg.UserRef
	}
	if reg.TeamRef != "" {
		reg.TeamRef = "team:" + reg.TeamRef
	}

	slot, err := tryReserveSlotTx(tx, ev.ID)
	switch {
	case err == nil:
		reg.Status = models.RegistrationPending
		reg.SlotNumber = &slot
	case errors.Is(err, models.ErrCapacityExceeded):
		position, posErr := nextWaitlistPositionTx(tx, ev.ID)
		if posErr != nil {
			return nil, posErr
		}
		reg.Status = models.RegistrationWaitlisted
		reg.WaitlistPosition = &position
	default:
		return nil, err
	}

	if err := rs.insertRegistrationTx(tx, reg); err != nil {
		return nil, err
	}

	action := models.AuditActionSubmit
	if reg.Status == models.RegistrationWaitlisted {
		action = models.AuditActionWaitlist
	}
	if err := rs.audit.RecordTx(tx, &models.AuditRecord{
		EntityType: models.AuditEntityRegistration,
		EntityID:   reg.ID,
		EventID:    reg.EventID,
		Action:     action,
		ToStatus:   string(reg.Status),
		ActorID:    actor.ID,
		Details:    models.Metadata{"participant": reg.Participant().String(), "fee_waived": waived},
	}); err != nil {
		return nil, err
	}

	if reg.Status == models.RegistrationPending {
		payment, err := ensurePaymentRowTx(tx, rs.audit, reg, ev, waived, actor.ID)
		if err != nil {
			return nil, err
		}
		if payment.Status == models.PaymentWaived {
			if err := confirmRegistrationTx(tx, rs.audit, reg, actor.ID); err != nil {
				return nil, err
			}
		}
	}

	return reg, tx.Commit()
}

// registrationOpen rejects submissions against archived or finished events.
func registrationOpen(ev *models.Event) error {
	if ev.Lifecycle() == models.LifecycleArchived {
		return fmt.Errorf("%w: event is archived", models.ErrEventNotOpen)
	}
	if ev.EndsAt != nil && time.Now().After(*ev.EndsAt) {
		return fmt.Errorf("%w: event has ended", models.ErrEventNotOpen)
	}
	return nil
}

func (rs *RegistrationService) hasActiveRegistrationTx(tx *sql.Tx, eventID string, ref models.ParticipantRef) (bool, error) {
	column := "user_ref"
	if ref.IsTeam() {
		column = "team_ref"
	}

	var exists bool
	err := tx.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM registrations
			WHERE event_id = $1 AND `+column+` = $2
			  AND status IN ($3, $4, $5, $6)
		)`, eventID, ref.String(),
		models.RegistrationPending, models.RegistrationPaymentSubmitted,
		models.RegistrationConfirmed, models.RegistrationWaitlisted).Scan(&exists)
	return exists, err
}

func (rs *RegistrationService) insertRegistrationTx(tx *sql.Tx, reg *models.Registration) error {
	_, err := tx.Exec(`
		INSERT INTO registrations (id, event_id, user_ref, team_ref, status, slot_number, waitlist_position,
			fee_waived, promotion_expires_at, checked_in_at, custom_data, created_at, updated_at, cancelled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		reg.ID, reg.EventID, reg.UserRef, reg.TeamRef, reg.Status, reg.SlotNumber, reg.WaitlistPosition,
		reg.FeeWaived, reg.PromotionExpiresAt, reg.CheckedInAt, reg.CustomData, reg.CreatedAt, reg.UpdatedAt, reg.CancelledAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			// The per-event unique slot index losing a race is retryable;
			// the active-registration-per-participant index is not.
			if strings.Contains(pqErr.Constraint, "slot") {
				return fmt.Errorf("%w: slot assignment", models.ErrConcurrentModification)
			}
			return models.ErrDuplicateRegistration
		}
		return err
	}
	return nil
}

// Cancel soft-deletes a registration. When the registration held a capacity
// slot, the slot is released and the next waitlisted registration is promoted
// inside the same transaction.
func (rs *RegistrationService) Cancel(registrationID string, actor models.Actor, reason string) (*models.Registration, error) {
	return rs.terminate(registrationID, actor, reason, models.RegistrationCancelled)
}

// Reject moves a registration into the rejected terminal state, for entries
// staff deem ineligible. Requires a reason; frees the slot like Cancel.
func (rs *RegistrationService) Reject(registrationID string, actor models.Actor, reason string) (*models.Registration, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, models.ErrReasonRequired
	}
	return rs.terminate(registrationID, actor, reason, models.RegistrationRejected)
}

func (rs *RegistrationService) terminate(registrationID string, actor models.Actor, reason string, target models.RegistrationStatus) (*models.Registration, error) {
	peek, err := scanRegistration(rs.db.QueryRow(`
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE id = $1`, registrationID))
	if err != nil {
		return nil, err
	}

	var reg *models.Registration
	var promoted *models.Registration
	err = retryConflicts(rs.cfg.RetryAttempts, rs.cfg.RetryBackoff, func() error {
		tx, txErr := rs.db.Begin()
		if txErr != nil {
			return txErr
		}
		defer tx.Rollback()

		ev, txErr := lockEventTx(tx, peek.EventID)
		if txErr != nil {
			return txErr
		}
		reg, txErr = lockRegistrationTx(tx, registrationID)
		if txErr != nil {
			return txErr
		}

		if reg.Status.Terminal() {
			return fmt.Errorf("%w: %s -> %s", models.ErrInvalidStateTransition, reg.Status, target)
		}
		if target == models.RegistrationCancelled && reg.CheckedInAt != nil {
			return fmt.Errorf("%w: checked-in registration cannot be cancelled", models.ErrInvalidStateTransition)
		}

		promoted, txErr = rs.terminateLockedTx(tx, ev, reg, actor.ID, reason, target)
		if txErr != nil {
			return txErr
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}

	outcome := "cancelled"
	msgType := notify.TypeRegistrationCancelled
	if target == models.RegistrationRejected {
		outcome = "rejected"
		msgType = notify.TypeRegistrationRejected
	}
	metrics.Default().IncRegistration(outcome)
	rs.notifyAsync(msgType, reg, map[string]any{"reason": reason})
	if promoted != nil {
		metrics.Default().IncPromotion()
		rs.notifyAsync(notify.TypeRegistrationPromoted, promoted, map[string]any{
			"respond_by": promoted.PromotionExpiresAt,
		})
	}

	log.Printf("[REGISTRATION] %s %s by %s", registrationID, outcome, actor.ID)
	return reg, nil
}

// terminateLockedTx performs the terminal transition on an already locked
// registration and frees its slot. Shared by Cancel, Reject, and the refund
// path in the payment workflow.
func (rs *RegistrationService) terminateLockedTx(tx *sql.Tx, ev *models.Event, reg *models.Registration,
	actorID, reason string, target models.RegistrationStatus) (*models.Registration, error) {

	now := time.Now()
	from := reg.Status
	hadSlot := reg.Status.HoldsSlot()

	var cancelledAt *time.Time
	if target == models.RegistrationCancelled {
		cancelledAt = &now
	}

	if _, err := tx.Exec(`
		UPDATE registrations
		SET status = $1, waitlist_position = NULL, promotion_expires_at = NULL, cancelled_at = $2, updated_at = $3
		WHERE id = $4`,
		target, cancelledAt, now, reg.ID); err != nil {
		return nil, err
	}

	reg.Status = target
	reg.WaitlistPosition = nil
	reg.PromotionExpiresAt = nil
	reg.CancelledAt = cancelledAt
	reg.UpdatedAt = now

	action := models.AuditActionCancel
	if target == models.RegistrationRejected {
		action = models.AuditActionReject
	}
	if err := rs.audit.RecordTx(tx, &models.AuditRecord{
		EntityType: models.AuditEntityRegistration,
		EntityID:   reg.ID,
		EventID:    reg.EventID,
		Action:     action,
		FromStatus: string(from),
		ToStatus:   string(target),
		ActorID:    actorID,
		Details:    models.Metadata{"reason": reason},
	}); err != nil {
		return nil, err
	}

	if !hadSlot {
		return nil, nil
	}
	if err := releaseSlotTx(tx, ev.ID); err != nil {
		return nil, err
	}
	return rs.waitlist.PromoteNextTx(tx, ev)
}

// CheckIn records that a confirmed participant showed up. Idempotent: a
// second check-in is a no-op.
func (rs *RegistrationService) CheckIn(registrationID string, actor models.Actor) (*models.Registration, error) {
	tx, err := rs.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	reg, err := lockRegistrationTx(tx, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.Status != models.RegistrationConfirmed {
		return nil, fmt.Errorf("%w: only confirmed registrations can check in", models.ErrInvalidStateTransition)
	}
	if reg.CheckedInAt != nil {
		return reg, nil
	}

	now := time.Now()
	if _, err := tx.Exec(`
		UPDATE registrations SET checked_in_at = $1, updated_at = $1 WHERE id = $2`, now, reg.ID); err != nil {
		return nil, err
	}
	reg.CheckedInAt = &now
	reg.UpdatedAt = now

	if err := rs.audit.RecordTx(tx, &models.AuditRecord{
		EntityType: models.AuditEntityRegistration,
		EntityID:   reg.ID,
		EventID:    reg.EventID,
		Action:     models.AuditActionCheckIn,
		FromStatus: string(models.RegistrationConfirmed),
		ToStatus:   string(models.RegistrationConfirmed),
		ActorID:    actor.ID,
	}); err != nil {
		return nil, err
	}

	return reg, tx.Commit()
}

// MarkNoShow flags a confirmed registration whose participant never checked
// in. Only legal once the event has ended.
func (rs *RegistrationService) MarkNoShow(registrationID string, actor models.Actor) (*models.Registration, error) {
	tx, err := rs.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	reg, err := lockRegistrationTx(tx, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.Status != models.RegistrationConfirmed {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidStateTransition, reg.Status, models.RegistrationNoShow)
	}
	if reg.CheckedInAt != nil {
		return nil, fmt.Errorf("%w: participant checked in", models.ErrInvalidStateTransition)
	}

	var endsAt *time.Time
	if err := tx.QueryRow(`SELECT ends_at FROM events WHERE id = $1`, reg.EventID).Scan(&endsAt); err != nil {
		return nil, err
	}
	if endsAt == nil || time.Now().Before(*endsAt) {
		return nil, fmt.Errorf("%w: event has not ended", models.ErrInvalidStateTransition)
	}

	now := time.Now()
	if _, err := tx.Exec(`
		UPDATE registrations SET status = $1, updated_at = $2 WHERE id = $3`,
		models.RegistrationNoShow, now, reg.ID); err != nil {
		return nil, err
	}
	reg.Status = models.RegistrationNoShow
	reg.UpdatedAt = now

	if err := rs.audit.RecordTx(tx, &models.AuditRecord{
		EntityType: models.AuditEntityRegistration,
		EntityID:   reg.ID,
		EventID:    reg.EventID,
		Action:     models.AuditActionNoShow,
		FromStatus: string(models.RegistrationConfirmed),
		ToStatus:   string(models.RegistrationNoShow),
		ActorID:    actor.ID,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	metrics.Default().IncRegistration("no_show")
	return reg, nil
}

// Get resolves a registration by id.
func (rs *RegistrationService) Get(registrationID string) (*models.Registration, error) {
	return scanRegistration(rs.db.QueryRow(`
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE id = $1`, registrationID))
}

// ListByEvent returns an event's registrations, oldest first, optionally
// filtered by status.
func (rs *RegistrationService) ListByEvent(eventID string, status models.RegistrationStatus, limit int) ([]*models.Registration, error) {
	if limit <= 0 || limit > 1000 {
		limit = 200
	}

	rows, err := rs.db.Query(`
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE event_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at ASC
		LIMIT $3`, eventID, string(status), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []*models.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (rs *RegistrationService) notifyAsync(msgType string, reg *models.Registration, data map[string]any) {
	if rs.sink == nil {
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
		if err := rs.sink.Publish(context.Background(), msg); err != nil {
			log.Printf("[NOTIFY] Failed to publish %s for %s: %v", msgType, msg.EntityID, err)
		}
	}()
}

// SubmitRegistration handles registration submission
// @Summary Submit registration
// @Description Register a user or team for an event; full events waitlist the registration
// @Tags registrations
// @Accept json
// @Produce json
// @Param registration body models.RegistrationRequest true "Registration"
// @Success 201 {object} models.Registration
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /registrations [post]
func (rs *RegistrationService) SubmitRegistration(w http.ResponseWriter, r *http.Request) {
	var req models.RegistrationRequest

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

	if err := rs.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	actor := actorFromContext(r.Context())
	reg, err := rs.Submit(&req, actor)
	if err != nil {
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(reg)
}

// GetRegistration handles registration lookup
// @Summary Get registration
// @Description Retrieve one registration; custom data is visible to its owner and staff only
// @Tags registrations
// @Produce json
// @Param registrationId path string true "Registration ID"
// @Success 200 {object} models.Registration
// @Failure 404 {object} ErrorResponse
// @Router /registrations/{registrationId} [get]
func (rs *RegistrationService) GetRegistration(w http.ResponseWriter, r *http.Request) {
	reg, err := rs.Get(chi.URLParam(r, "registrationId"))
	if err != nil {
		SendDomainError(w, err)
		return
	}

	actor := actorFromContext(r.Context())
	owner := reg.Participant().String()
	if !policy.CanView(actor, owner, policy.FieldRegistration) {
		SendDomainError(w, models.ErrRegistrationNotFound)
		return
	}
	if !policy.CanView(actor, owner, policy.FieldCustomData) {
		reg.CustomData = nil
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reg)
}

type registrationActionRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// CancelRegistration handles cancellation
// @Summary Cancel registration
// @Description Cancel a registration; a held slot is released and the waitlist promotes
// @Tags registrations
// @Accept json
// @Produce json
// @Param registrationId path string true "Registration ID"
// @Param body body registrationActionRequest false "Cancellation reason"
// @Success 200 {object} models.Registration
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /registrations/{registrationId}/cancel [post]
func (rs *RegistrationService) CancelRegistration(w http.ResponseWriter, r *http.Request) {
	registrationID := chi.URLParam(r, "registrationId")
	actor := actorFromContext(r.Context())

	var req registrationActionRequest
	if r.Body != nil && r.ContentLength != 0 {
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 65_536))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
			return
		}
	}

	reg, err := rs.Get(registrationID)
	if err != nil {
		SendDomainError(w, err)
		return
	}
	if !policy.CanManage(actor, reg.Participant().String()) {
		SendDomainError(w, models.ErrRegistrationNotFound)
		return
	}

	cancelled, err := rs.Cancel(registrationID, actor, req.Reason)
	if err != nil {
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cancelled)
}

// RejectRegistration handles staff rejection of a registration
// @Summary Reject registration
// @Description Reject an ineligible registration; requires a reason
// @Tags registrations
// @Accept json
// @Produce json
// @Param registrationId path string true "Registration ID"
// @Param body body registrationActionRequest true "Rejection reason"
// @Success 200 {object} models.Registration
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /registrations/{registrationId}/reject [post]
func (rs *RegistrationService) RejectRegistration(w http.ResponseWriter, r *http.Request) {
	var req registrationActionRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 65_536))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	actor := actorFromContext(r.Context())
	reg, err := rs.Reject(chi.URLParam(r, "registrationId"), actor, req.Reason)
	if err != nil {
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reg)
}

// CheckInRegistration handles participant check-in
// @Summary Check in
// @Description Record that a confirmed participant arrived; idempotent
// @Tags registrations
// @Produce json
// @Param registrationId path string true "Registration ID"
// @Success 200 {object} models.Registration
// @Failure 422 {object} ErrorResponse
// @Router /registrations/{registrationId}/check-in [post]
func (rs *RegistrationService) CheckInRegistration(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	reg, err := rs.CheckIn(chi.URLParam(r, "registrationId"), actor)
	if err != nil {
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reg)
}

// MarkRegistrationNoShow handles post-event no-show marking
// @Summary Mark no-show
// @Description Flag a confirmed registration whose participant never checked in
// @Tags registrations
// @Produce json
// @Param registrationId path string true "Registration ID"
// @Success 200 {object} models.Registration
// @Failure 422 {object} ErrorResponse
// @Router /registrations/{registrationId}/no-show [post]
func (rs *RegistrationService) MarkRegistrationNoShow(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	reg, err := rs.MarkNoShow(chi.URLParam(r, "registrationId"), actor)
	if err != nil {
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reg)
}

// ListEventRegistrations handles listing an event's registrations
// @Summary List event registrations
// @Description List registrations for an event, oldest first
// @Tags registrations
// @Produce json
// @Param eventId path string true "Event ID"
// @Param status query string false "Filter by status"
// @Success 200 {object} object{registrations=[]models.Registration}
// @Router /events/{eventId}/registrations [get]
func (rs *RegistrationService) ListEventRegistrations(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	status := models.RegistrationStatus(r.URL.Query().Get("status"))

	regs, err := rs.ListByEvent(eventID, status, 0)
	if err != nil {
		SendDomainError(w, err)
		return
	}

	actor := actorFromContext(r.Context())
	for _, reg := range regs {
		if !policy.CanView(actor, reg.Participant().String(), policy.FieldCustomData) {
			reg.CustomData = nil
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"registrations": regs,
		"count":         len(regs),
	})
}

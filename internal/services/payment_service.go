package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/deltaarena/backend/internal/config"
	"github.com/deltaarena/backend/internal/metrics"
	"github.com/deltaarena/backend/internal/models"
	"github.com/deltaarena/backend/internal/notify"
	"github.com/deltaarena/backend/internal/policy"
)

// PaymentService runs the entry-fee verification workflow. Every payment
// transition locks the event row first, then the payment, then the
// registration, so concurrent decisions on the same event serialize instead
// of deadlocking.
type PaymentService struct {
	db            *sql.DB
	cfg           *config.WorkflowConfig
	audit         *AuditService
	ledger        *LedgerService
	registrations *RegistrationService
	sink          notify.Sink
	validator     *ValidationHelper
}

func NewPaymentService(db *sql.DB, cfg *config.WorkflowConfig, audit *AuditService,
	ledger *LedgerService, registrations *RegistrationService, sink notify.Sink) *PaymentService {
	if cfg == nil {
		cfg = config.LoadWorkflowConfig()
	}
	return &PaymentService{
		db:            db,
		cfg:           cfg,
		audit:         audit,
		ledger:        ledger,
		registrations: registrations,
		sink:          sink,
		validator:     NewValidationHelper(),
	}
}

const paymentColumns = `id, registration_id, method, amount, declared_amount, proof_ref, status,
	verifier_id, verified_at, rejection_reason, resubmission_count, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(&p.ID, &p.RegistrationID, &p.Method, &p.Amount, &p.DeclaredAmount, &p.ProofRef,
		&p.Status, &p.VerifierID, &p.VerifiedAt, &p.RejectionReason, &p.ResubmissionCount,
		&p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// lockPaymentTx locks a payment row. Acquired after the event lock and before
// the registration lock.
func lockPaymentTx(tx *sql.Tx, paymentID string) (*models.Payment, error) {
	return scanPayment(tx.QueryRow(`
		SELECT `+paymentColumns+`
		FROM payments
		WHERE id = $1
		FOR UPDATE`, paymentID))
}

// ensurePaymentRowTx attaches the payment record to a slotted registration,
// reusing the existing row when a requeued registration is promoted again so
// its resubmission count survives. Fee-waived and free-event rows are born
// waived, with the waiver audited here.
func ensurePaymentRowTx(tx *sql.Tx, audit *AuditService, reg *models.Registration, ev *models.Event,
	waived bool, actorID string) (*models.Payment, error) {

	payment, err := scanPayment(tx.QueryRow(`
		SELECT `+paymentColumns+`
		FROM payments
		WHERE registration_id = $1
		FOR UPDATE`, reg.ID))
	if err == nil {
		return payment, nil
	}
	if err != models.ErrPaymentNotFound {
		return nil, err
	}

	now := time.Now()
	payment = &models.Payment{
		ID:             uuid.New().String(),
		RegistrationID: reg.ID,
		Amount:         ev.EntryFee,
		Status:         models.PaymentPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if waived || ev.EntryFee <= 0 {
		payment.Status = models.PaymentWaived
	}

	if _, err := tx.Exec(`
		INSERT INTO payments (id, registration_id, method, amount, declared_amount, proof_ref, status,
			verifier_id, verified_at, rejection_reason, resubmission_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		payment.ID, payment.RegistrationID, payment.Method, payment.Amount, payment.DeclaredAmount,
		payment.ProofRef, payment.Status, payment.VerifierID, payment.VerifiedAt, payment.RejectionReason,
		payment.ResubmissionCount, payment.CreatedAt, payment.UpdatedAt); err != nil {
		return nil, err
	}

	if payment.Status == models.PaymentWaived {
		if err := audit.RecordTx(tx, &models.AuditRecord{
			EntityType: models.AuditEntityPayment,
			EntityID:   payment.ID,
			EventID:    reg.EventID,
			Action:     models.AuditActionWaive,
			FromStatus: string(models.PaymentPending),
			ToStatus:   string(models.PaymentWaived),
			ActorID:    actorID,
			Details:    models.Metadata{"fee": ev.EntryFee, "rank_waiver": waived},
		}); err != nil {
			return nil, err
		}
	}
	return payment, nil
}

// Get resolves a payment by id.
func (ps *PaymentService) Get(paymentID string) (*models.Payment, error) {
	return scanPayment(ps.db.QueryRow(`
		SELECT `+paymentColumns+`
		FROM payments
		WHERE id = $1`, paymentID))
}

// GetByRegistration resolves the payment attached to a registration.
func (ps *PaymentService) GetByRegistration(registrationID string) (*models.Payment, error) {
	return scanPayment(ps.db.QueryRow(`
		SELECT `+paymentColumns+`
		FROM payments
		WHERE registration_id = $1`, registrationID))
}

// begin loads the payment and its registration without locks, opens a
// transaction, and reacquires both in lock order. Callers re-validate status
// after the locks are held.
func (ps *PaymentService) begin(paymentID string) (*sql.Tx, *models.Payment, *models.Registration, *models.Event, error) {
	peek, err := ps.Get(paymentID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	regPeek, err := ps.registrations.Get(peek.RegistrationID)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	tx, err := ps.db.Begin()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	ev, err := lockEventTx(tx, regPeek.EventID)
	if err != nil {
		tx.Rollback()
		return nil, nil, nil, nil, err
	}
	payment, err := lockPaymentTx(tx, paymentID)
	if err != nil {
		tx.Rollback()
		return nil, nil, nil, nil, err
	}
	reg, err := lockRegistrationTx(tx, payment.RegistrationID)
	if err != nil {
		tx.Rollback()
		return nil, nil, nil, nil, err
	}
	return tx, payment, reg, ev, nil
}

// SubmitProof records payment evidence against a pending, submitted, or
// rejected payment. Replacing an unreviewed proof is allowed; resubmitting
// after rejection is bounded.
func (ps *PaymentService) SubmitProof(paymentID string, sub *models.ProofSubmission, actor models.Actor) (*models.Payment, error) {
	if sub.Method == models.MethodExternalCash && strings.TrimSpace(sub.ProofRef) == "" {
		return nil, models.ErrProofRequired
	}

	tx, payment, reg, _, err := ps.begin(paymentID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	switch payment.Status {
	case models.PaymentPending, models.PaymentSubmitted:
	case models.PaymentRejected:
		if payment.ResubmissionCount >= ps.cfg.MaxResubmissions {
			return nil, fmt.Errorf("%w: %d attempts used", models.ErrMaxResubmissionsExceeded, payment.ResubmissionCount)
		}
	default:
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidStateTransition, payment.Status, models.PaymentSubmitted)
	}

	if sub.DeclaredAmount != payment.Amount {
		return nil, fmt.Errorf("%w: declared %d, fee is %d", models.ErrAmountMismatch, sub.DeclaredAmount, payment.Amount)
	}
	if reg.Status != models.RegistrationPending && reg.Status != models.RegistrationPaymentSubmitted {
		return nil, fmt.Errorf("%w: registration is %s", models.ErrInvalidStateTransition, reg.Status)
	}

	now := time.Now()
	from := payment.Status
	if _, err := tx.Exec(`
		UPDATE payments
		SET method = $1, declared_amount = $2, proof_ref = $3, status = $4, rejection_reason = '', updated_at = $5
		WHERE id = $6`,
		sub.Method, sub.DeclaredAmount, sub.ProofRef, models.PaymentSubmitted, now, payment.ID); err != nil {
		return nil, err
	}
	payment.Method = sub.Method
	payment.DeclaredAmount = &sub.DeclaredAmount
	payment.ProofRef = sub.ProofRef
	payment.Status = models.PaymentSubmitted
	payment.RejectionReason = ""
	payment.UpdatedAt = now

	if reg.Status == models.RegistrationPending {
		// Acting before the promotion deadline stops the expiry clock.
		if _, err := tx.Exec(`
			UPDATE registrations SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
			models.RegistrationPaymentSubmitted, now, reg.ID, models.RegistrationPending); err != nil {
			return nil, err
		}
		reg.Status = models.RegistrationPaymentSubmitted
	}

	if err := ps.audit.RecordTx(tx, &models.AuditRecord{
		EntityType: models.AuditEntityPayment,
		EntityID:   payment.ID,
		EventID:    reg.EventID,
		Action:     models.AuditActionProof,
		FromStatus: string(from),
		ToStatus:   string(models.PaymentSubmitted),
		ActorID:    actor.ID,
		Details:    models.Metadata{"method": sub.Method, "declared_amount": sub.DeclaredAmount, "proof_ref": sub.ProofRef},
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	metrics.Default().IncPaymentDecision("submitted")
	ps.publish(notify.TypePaymentSubmitted, payment, reg, map[string]any{"method": sub.Method})
	log.Printf("[PAYMENT] Proof submitted for payment %s via %s", payment.ID, sub.Method)
	return payment, nil
}

// Verify approves a submitted payment and confirms its registration. For
// wallet payments the entry fee is debited here, in the same transaction, so
// an insufficient balance leaves both payment and registration untouched.
func (ps *PaymentService) Verify(paymentID string, actor models.Actor, notes string) (*models.Payment, error) {
	tx, payment, reg, _, err := ps.begin(paymentID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if payment.Status != models.PaymentSubmitted {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidStateTransition, payment.Status, models.PaymentVerified)
	}

	owner := reg.Participant().String()
	if payment.Method == models.MethodWalletCredit {
		if _, err := ps.ledger.EnsureWalletTx(tx, owner); err != nil {
			return nil, err
		}
		if _, err := ps.ledger.AppendEntryTx(tx, owner, -payment.Amount, models.ReasonEntryFee,
			"payment:"+payment.ID, payment.ID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	if _, err := tx.Exec(`
		UPDATE payments
		SET status = $1, verifier_id = $2, verified_at = $3, updated_at = $3
		WHERE id = $4`,
		models.PaymentVerified, actor.ID, now, payment.ID); err != nil {
		return nil, err
	}
	payment.Status = models.PaymentVerified
	payment.VerifierID = actor.ID
	payment.VerifiedAt = &now
	payment.UpdatedAt = now

	if err := ps.audit.RecordTx(tx, &models.AuditRecord{
		EntityType: models.AuditEntityPayment,
		EntityID:   payment.ID,
		EventID:    reg.EventID,
		Action:     models.AuditActionVerify,
		FromStatus: string(models.PaymentSubmitted),
		ToStatus:   string(models.PaymentVerified),
		ActorID:    actor.ID,
		Details:    models.Metadata{"method": payment.Method, "amount": payment.Amount, "notes": notes},
	}); err != nil {
		return nil, err
	}

	if err := confirmRegistrationTx(tx, ps.audit, reg, actor.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	metrics.Default().IncPaymentDecision("verified")
	if payment.Method == models.MethodWalletCredit {
		metrics.Default().IncLedgerEntry(string(models.ReasonEntryFee))
	}
	metrics.Default().IncRegistration("confirmed")
	ps.publish(notify.TypePaymentVerified, payment, reg, map[string]any{"amount": payment.Amount})
	ps.registrations.notifyAsync(notify.TypeRegistrationConfirmed, reg, nil)
	log.Printf("[PAYMENT] Payment %s verified by %s, registration %s confirmed", payment.ID, actor.ID, reg.ID)
	return payment, nil
}

// Reject declines a submitted proof with a mandatory reason and hands the
// registration back to pending so the participant can try again. Promoted
// registrations get a fresh payment window.
func (ps *PaymentService) Reject(paymentID string, actor models.Actor, reason string) (*models.Payment, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, models.ErrReasonRequired
	}

	tx, payment, reg, _, err := ps.begin(paymentID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if payment.Status != models.PaymentSubmitted {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidStateTransition, payment.Status, models.PaymentRejected)
	}

	now := time.Now()
	if _, err := tx.Exec(`
		UPDATE payments
		SET status = $1, rejection_reason = $2, resubmission_count = resubmission_count + 1, updated_at = $3
		WHERE id = $4`,
		models.PaymentRejected, reason, now, payment.ID); err != nil {
		return nil, err
	}
	payment.Status = models.PaymentRejected
	payment.RejectionReason = reason
	payment.ResubmissionCount++
	payment.UpdatedAt = now

	if reg.Status == models.RegistrationPaymentSubmitted {
		var expiresAt *time.Time
		if reg.PromotionExpiresAt != nil {
			fresh := now.Add(ps.cfg.PromotionWindow)
			expiresAt = &fresh
		}
		if _, err := tx.Exec(`
			UPDATE registrations SET status = $1, promotion_expires_at = $2, updated_at = $3 WHERE id = $4`,
			models.RegistrationPending, expiresAt, now, reg.ID); err != nil {
			return nil, err
		}
		reg.Status = models.RegistrationPending
		reg.PromotionExpiresAt = expiresAt
	}

	if err := ps.audit.RecordTx(tx, &models.AuditRecord{
		EntityType: models.AuditEntityPayment,
		EntityID:   payment.ID,
		EventID:    reg.EventID,
		Action:     models.AuditActionDecline,
		FromStatus: string(models.PaymentSubmitted),
		ToStatus:   string(models.PaymentRejected),
		ActorID:    actor.ID,
		Details:    models.Metadata{"reason": reason, "resubmissions_used": payment.ResubmissionCount},
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	metrics.Default().IncPaymentDecision("rejected")
	remaining := ps.cfg.MaxResubmissions - payment.ResubmissionCount
	if remaining < 0 {
		remaining = 0
	}
	ps.publish(notify.TypePaymentRejected, payment, reg, map[string]any{
		"reason":                reason,
		"resubmissions_allowed": remaining,
	})
	log.Printf("[PAYMENT] Payment %s rejected by %s: %s", payment.ID, actor.ID, reason)
	return payment, nil
}

// Refund reverses a verified payment and cancels the registration, releasing
// its slot to the waitlist. Wallet payments get a compensating credit entry;
// cash refunds are handed back outside the system and only recorded here.
func (ps *PaymentService) Refund(paymentID string, actor models.Actor, reason string) (*models.Payment, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, models.ErrReasonRequired
	}

	tx, payment, reg, ev, err := ps.begin(paymentID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if payment.Status != models.PaymentVerified {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidStateTransition, payment.Status, models.PaymentRefunded)
	}
	if reg.CheckedInAt != nil {
		return nil, fmt.Errorf("%w: checked-in registration cannot be refunded", models.ErrInvalidStateTransition)
	}

	owner := reg.Participant().String()
	if payment.Method == models.MethodWalletCredit {
		if _, err := ps.ledger.AppendEntryTx(tx, owner, payment.Amount, models.ReasonRefund,
			"payment:"+payment.ID+":refund", payment.ID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	if _, err := tx.Exec(`
		UPDATE payments SET status = $1, updated_at = $2 WHERE id = $3`,
		models.PaymentRefunded, now, payment.ID); err != nil {
		return nil, err
	}
	payment.Status = models.PaymentRefunded
	payment.UpdatedAt = now

	if err := ps.audit.RecordTx(tx, &models.AuditRecord{
		EntityType: models.AuditEntityPayment,
		EntityID:   payment.ID,
		EventID:    reg.EventID,
		Action:     models.AuditActionRefund,
		FromStatus: string(models.PaymentVerified),
		ToStatus:   string(models.PaymentRefunded),
		ActorID:    actor.ID,
		Details:    models.Metadata{"reason": reason, "method": payment.Method, "amount": payment.Amount},
	}); err != nil {
		return nil, err
	}

	var promoted *models.Registration
	if !reg.Status.Terminal() {
		promoted, err = ps.registrations.terminateLockedTx(tx, ev, reg, actor.ID, reason, models.RegistrationCancelled)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	metrics.Default().IncPaymentDecision("refunded")
	if payment.Method == models.MethodWalletCredit {
		metrics.Default().IncLedgerEntry(string(models.ReasonRefund))
	}
	ps.publish(notify.TypePaymentRefunded, payment, reg, map[string]any{"reason": reason, "amount": payment.Amount})
	if promoted != nil {
		metrics.Default().IncPromotion()
		ps.registrations.notifyAsync(notify.TypeRegistrationPromoted, promoted, map[string]any{"respond_by": promoted.PromotionExpiresAt})
	}
	log.Printf("[PAYMENT] Payment %s refunded by %s: %s", payment.ID, actor.ID, reason)
	return payment, nil
}

// Waive forgives an unpaid entry fee and confirms the registration. Used by
// staff for comps and make-goods; the rank-based waiver never comes through
// here, it is applied at submission.
func (ps *PaymentService) Waive(paymentID string, actor models.Actor, reason string) (*models.Payment, error) {
	tx, payment, reg, _, err := ps.begin(paymentID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Waiving is only valid before proof enters the pipeline. A submitted
	// proof has to be verified or rejected first.
	if payment.Status != models.PaymentPending {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidStateTransition, payment.Status, models.PaymentWaived)
	}

	now := time.Now()
	from := payment.Status
	if _, err := tx.Exec(`
		UPDATE payments SET status = $1, updated_at = $2 WHERE id = $3`,
		models.PaymentWaived, now, payment.ID); err != nil {
		return nil, err
	}
	payment.Status = models.PaymentWaived
	payment.UpdatedAt = now

	if err := ps.audit.RecordTx(tx, &models.AuditRecord{
		EntityType: models.AuditEntityPayment,
		EntityID:   payment.ID,
		EventID:    reg.EventID,
		Action:     models.AuditActionWaive,
		FromStatus: string(from),
		ToStatus:   string(models.PaymentWaived),
		ActorID:    actor.ID,
		Details:    models.Metadata{"reason": reason},
	}); err != nil {
		return nil, err
	}

	if err := confirmRegistrationTx(tx, ps.audit, reg, actor.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	metrics.Default().IncPaymentDecision("waived")
	metrics.Default().IncRegistration("confirmed")
	ps.registrations.notifyAsync(notify.TypeRegistrationConfirmed, reg, map[string]any{"fee_waived": true})
	log.Printf("[PAYMENT] Payment %s waived by %s", payment.ID, actor.ID)
	return payment, nil
}

func (ps *PaymentService) publish(msgType string, payment *models.Payment, reg *models.Registration, data map[string]any) {
	if ps.sink == nil {
		return
	}
	msg := notify.Message{
		Type:      msgType,
		EntityID:  payment.ID,
		EventID:   reg.EventID,
		Recipient: reg.Participant().String(),
		Data:      data,
	}
	go func() {
		if err := ps.sink.Publish(context.Background(), msg); err != nil {
			log.Printf("[NOTIFY] Failed to publish %s for %s: %v", msgType, msg.EntityID, err)
		}
	}()
}

func (ps *PaymentService) canSee(r *http.Request, payment *models.Payment) bool {
	reg, err := ps.registrations.Get(payment.RegistrationID)
	if err != nil {
		return false
	}
	return policy.CanView(actorFromContext(r.Context()), reg.Participant().String(), policy.FieldPayment)
}

// GetPayment handles payment lookup
// @Summary Get payment
// @Description Retrieve one payment record; visible to the registration owner and staff
// @Tags payments
// @Produce json
// @Param paymentId path string true "Payment ID"
// @Success 200 {object} models.Payment
// @Failure 404 {object} ErrorResponse
// @Router /payments/{paymentId} [get]
func (ps *PaymentService) GetPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := ps.Get(chi.URLParam(r, "paymentId"))
	if err != nil {
		SendDomainError(w, err)
		return
	}
	if !ps.canSee(r, payment) {
		SendDomainError(w, models.ErrPaymentNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payment)
}

// GetRegistrationPayment handles payment lookup by registration
// @Summary Get a registration's payment
// @Description Retrieve the payment attached to a registration
// @Tags payments
// @Produce json
// @Param registrationId path string true "Registration ID"
// @Success 200 {object} models.Payment
// @Failure 404 {object} ErrorResponse
// @Router /registrations/{registrationId}/payment [get]
func (ps *PaymentService) GetRegistrationPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := ps.GetByRegistration(chi.URLParam(r, "registrationId"))
	if err != nil {
		SendDomainError(w, err)
		return
	}
	if !ps.canSee(r, payment) {
		SendDomainError(w, models.ErrPaymentNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payment)
}

// SubmitPaymentProof handles proof submission
// @Summary Submit payment proof
// @Description Attach payment evidence to a pending or rejected payment
// @Tags payments
// @Accept json
// @Produce json
// @Param paymentId path string true "Payment ID"
// @Param proof body models.ProofSubmission true "Proof"
// @Success 200 {object} models.Payment
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /payments/{paymentId}/proof [post]
func (ps *PaymentService) SubmitPaymentProof(w http.ResponseWriter, r *http.Request) {
	var req models.ProofSubmission

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

	if err := ps.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	actor := actorFromContext(r.Context())
	payment, err := ps.SubmitProof(chi.URLParam(r, "paymentId"), &req, actor)
	if err != nil {
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payment)
}

// VerifyPayment handles staff verification
// @Summary Verify payment
// @Description Approve a submitted payment; wallet payments are debited and the registration confirms
// @Tags payments
// @Accept json
// @Produce json
// @Param paymentId path string true "Payment ID"
// @Param body body models.VerifyRequest false "Verification notes"
// @Success 200 {object} models.Payment
// @Failure 402 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /payments/{paymentId}/verify [post]
func (ps *PaymentService) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyRequest
	if r.Body != nil && r.ContentLength != 0 {
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 65_536))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
			return
		}
	}

	actor := actorFromContext(r.Context())
	payment, err := ps.Verify(chi.URLParam(r, "paymentId"), actor, req.Notes)
	if err != nil {
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payment)
}

// RejectPayment handles staff rejection
// @Summary Reject payment
// @Description Decline a submitted proof with a reason; the participant may resubmit within the limit
// @Tags payments
// @Accept json
// @Produce json
// @Param paymentId path string true "Payment ID"
// @Param body body models.RejectRequest true "Rejection"
// @Success 200 {object} models.Payment
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /payments/{paymentId}/reject [post]
func (ps *PaymentService) RejectPayment(w http.ResponseWriter, r *http.Request) {
	var req models.RejectRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 65_536))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if err := ps.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	actor := actorFromContext(r.Context())
	payment, err := ps.Reject(chi.URLParam(r, "paymentId"), actor, req.Reason)
	if err != nil {
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payment)
}

// RefundPayment handles refunds
// @Summary Refund payment
// @Description Reverse a verified payment and cancel its registration
// @Tags payments
// @Accept json
// @Produce json
// @Param paymentId path string true "Payment ID"
// @Param body body models.RefundRequest true "Refund"
// @Success 200 {object} models.Payment
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /payments/{paymentId}/refund [post]
func (ps *PaymentService) RefundPayment(w http.ResponseWriter, r *http.Request) {
	var req models.RefundRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 65_536))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if err := ps.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	actor := actorFromContext(r.Context())
	payment, err := ps.Refund(chi.URLParam(r, "paymentId"), actor, req.Reason)
	if err != nil {
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payment)
}

// WaivePayment handles staff fee waivers
// @Summary Waive payment
// @Description Forgive an unpaid entry fee and confirm the registration
// @Tags payments
// @Accept json
// @Produce json
// @Param paymentId path string true "Payment ID"
// @Param body body registrationActionRequest false "Waive reason"
// @Success 200 {object} models.Payment
// @Failure 422 {object} ErrorResponse
// @Router /payments/{paymentId}/waive [post]
func (ps *PaymentService) WaivePayment(w http.ResponseWriter, r *http.Request) {
	var req registrationActionRequest
	if r.Body != nil && r.ContentLength != 0 {
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 65_536))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
			return
		}
	}

	actor := actorFromContext(r.Context())
	payment, err := ps.Waive(chi.URLParam(r, "paymentId"), actor, req.Reason)
	if err != nil {
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payment)
}

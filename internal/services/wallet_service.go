package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/deltaarena/backend/internal/config"
	"github.com/deltaarena/backend/internal/metrics"
	"github.com/deltaarena/backend/internal/models"
	"github.com/deltaarena/backend/internal/policy"
)

// WalletService is the HTTP and staff-operation surface over the ledger. All
// balance movement goes through LedgerService; nothing here writes balances
// directly.
type WalletService struct {
	db        *sql.DB
	cfg       *config.WorkflowConfig
	audit     *AuditService
	ledger    *LedgerService
	validator *ValidationHelper
}

func NewWalletService(db *sql.DB, cfg *config.WorkflowConfig, audit *AuditService, ledger *LedgerService) *WalletService {
	if cfg == nil {
		cfg = config.LoadWorkflowConfig()
	}
	return &WalletService{
		db:        db,
		cfg:       cfg,
		audit:     audit,
		ledger:    ledger,
		validator: NewValidationHelper(),
	}
}

// Provision creates an empty wallet for an owner, or returns the existing
// one. Wallets also auto-create on first credit, so this is optional.
func (ws *WalletService) Provision(ownerRef string) (*models.Wallet, error) {
	if _, err := models.ParseParticipantRef(ownerRef); err != nil {
		return nil, err
	}

	tx, err := ws.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	wallet, err := ws.ledger.EnsureWalletTx(tx, ownerRef)
	if err != nil {
		return nil, err
	}
	return wallet, tx.Commit()
}

// Adjust applies a staff-initiated manual credit or debit, with the kind
// recorded on the ledger entry so waiver goodwill stays separable from plain
// corrections.
func (ws *WalletService) Adjust(ownerRef string, req *models.AdjustmentRequest, actor models.Actor) (*models.LedgerEntry, error) {
	if _, err := models.ParseParticipantRef(ownerRef); err != nil {
		return nil, err
	}

	reason := models.ReasonAdjustment
	if req.Kind == "waiver" {
		reason = models.ReasonWaiver
	}
	idempotencyKey := "adjust:" + uuid.New().String()
	if req.ReferenceID != "" {
		idempotencyKey = "adjust:" + req.ReferenceID
	}

	var entry *models.LedgerEntry
	err := retryConflicts(ws.cfg.RetryAttempts, ws.cfg.RetryBackoff, func() error {
		tx, txErr := ws.db.Begin()
		if txErr != nil {
			return txErr
		}
		defer tx.Rollback()

		if _, txErr = ws.ledger.EnsureWalletTx(tx, ownerRef); txErr != nil {
			return txErr
		}
		entry, txErr = ws.ledger.AppendEntryTx(tx, ownerRef, req.Amount, reason, idempotencyKey, req.ReferenceID)
		if txErr != nil {
			return txErr
		}

		if txErr = ws.audit.RecordTx(tx, &models.AuditRecord{
			EntityType: models.AuditEntityWallet,
			EntityID:   entry.WalletID,
			Action:     models.AuditActionAdjust,
			ActorID:    actor.ID,
			Details: models.Metadata{
				"amount": req.Amount, "kind": string(reason), "reason": req.Reason, "entry_id": entry.ID,
			},
		}); txErr != nil {
			return txErr
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}

	metrics.Default().IncLedgerEntry(string(reason))
	log.Printf("[WALLET] Adjusted %s by %d (%s) per %s", ownerRef, req.Amount, reason, actor.ID)
	return entry, nil
}

// Award credits a participation or winner bonus after an event. The
// idempotency key is derived from the event and kind, so replays of the same
// award are absorbed instead of double-crediting.
func (ws *WalletService) Award(req *models.AwardRequest, actor models.Actor) (*models.LedgerEntry, error) {
	if _, err := models.ParseParticipantRef(req.Participant); err != nil {
		return nil, err
	}
	if req.Amount <= 0 {
		return nil, models.ErrInvalidAmount
	}
	if _, err := scanEvent(ws.db.QueryRow(`
		SELECT `+eventColumns+`
		FROM events
		WHERE id = $1`, req.EventID)); err != nil {
		return nil, err
	}

	reason := models.ReasonParticipation
	if req.Kind == "winner" {
		reason = models.ReasonWinner
	}
	idempotencyKey := fmt.Sprintf("award:%s:%s", req.EventID, req.Kind)

	var entry *models.LedgerEntry
	err := retryConflicts(ws.cfg.RetryAttempts, ws.cfg.RetryBackoff, func() error {
		tx, txErr := ws.db.Begin()
		if txErr != nil {
			return txErr
		}
		defer tx.Rollback()

		if _, txErr = ws.ledger.EnsureWalletTx(tx, req.Participant); txErr != nil {
			return txErr
		}
		entry, txErr = ws.ledger.AppendEntryTx(tx, req.Participant, req.Amount, reason, idempotencyKey, req.EventID)
		if txErr != nil {
			return txErr
		}

		if txErr = ws.audit.RecordTx(tx, &models.AuditRecord{
			EntityType: models.AuditEntityWallet,
			EntityID:   entry.WalletID,
			EventID:    req.EventID,
			Action:     models.AuditActionAward,
			ActorID:    actor.ID,
			Details: models.Metadata{
				"participant": req.Participant, "kind": req.Kind, "amount": req.Amount, "entry_id": entry.ID,
			},
		}); txErr != nil {
			return txErr
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}

	metrics.Default().IncLedgerEntry(string(reason))
	log.Printf("[WALLET] Awarded %d to %s for event %s (%s)", req.Amount, req.Participant, req.EventID, req.Kind)
	return entry, nil
}

// Reconcile re-derives the cached balance from the entries and reports any
// drift. Drift means a bug, so it is logged loudly and audited.
func (ws *WalletService) Reconcile(ownerRef string, actor models.Actor) (*models.Wallet, error) {
	before, err := ws.ledger.Wallet(ownerRef)
	if err != nil {
		return nil, err
	}

	recomputed, err := ws.ledger.RecomputeBalance(ownerRef)
	if err != nil {
		return nil, err
	}

	if drift := recomputed - before.Balance; drift != 0 {
		log.Warnf("[WALLET] Balance drift on %s: cached %d, recomputed %d", ownerRef, before.Balance, recomputed)
		if err := ws.audit.Record(&models.AuditRecord{
			EntityType: models.AuditEntityWallet,
			EntityID:   before.ID,
			Action:     models.AuditActionRecompute,
			ActorID:    actor.ID,
			Details:    models.Metadata{"cached": before.Balance, "recomputed": recomputed, "drift": drift},
		}); err != nil {
			log.Errorf("[WALLET] Failed to audit balance drift on %s: %v", ownerRef, err)
		}
	}

	return ws.ledger.Wallet(ownerRef)
}

type provisionWalletRequest struct {
	OwnerRef string `json:"owner_ref" validate:"required"`
}

// ProvisionWallet handles wallet creation
// @Summary Provision wallet
// @Description Create an empty wallet for a user or team; idempotent
// @Tags wallets
// @Accept json
// @Produce json
// @Param wallet body provisionWalletRequest true "Owner reference"
// @Success 201 {object} models.Wallet
// @Failure 400 {object} ErrorResponse
// @Router /wallets [post]
func (ws *WalletService) ProvisionWallet(w http.ResponseWriter, r *http.Request) {
	var req provisionWalletRequest

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

	if err := ws.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	wallet, err := ws.Provision(req.OwnerRef)
	if err != nil {
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(wallet)
}

// GetWallet handles wallet lookup
// @Summary Get wallet
// @Description Retrieve a wallet; pass reconcile=true to re-derive the balance from the ledger first
// @Tags wallets
// @Produce json
// @Param ownerRef path string true "Owner reference (user:<id> or team:<id>)"
// @Param reconcile query bool false "Recompute the balance before returning"
// @Success 200 {object} models.Wallet
// @Failure 404 {object} ErrorResponse
// @Router /wallets/{ownerRef} [get]
func (ws *WalletService) GetWallet(w http.ResponseWriter, r *http.Request) {
	ownerRef := chi.URLParam(r, "ownerRef")
	actor := actorFromContext(r.Context())

	if !policy.CanView(actor, ownerRef, policy.FieldWallet) {
		SendDomainError(w, models.ErrWalletNotFound)
		return
	}

	var wallet *models.Wallet
	var err error
	if reconcile, _ := strconv.ParseBool(r.URL.Query().Get("reconcile")); reconcile {
		wallet, err = ws.Reconcile(ownerRef, actor)
	} else {
		wallet, err = ws.ledger.Wallet(ownerRef)
	}
	if err != nil {
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wallet)
}

// GetWalletEntries handles ledger history lookup
// @Summary List ledger entries
// @Description List a wallet's ledger entries, newest first
// @Tags wallets
// @Produce json
// @Param ownerRef path string true "Owner reference"
// @Param limit query int false "Maximum entries to return"
// @Success 200 {object} object{entries=[]models.LedgerEntry}
// @Failure 404 {object} ErrorResponse
// @Router /wallets/{ownerRef}/entries [get]
func (ws *WalletService) GetWalletEntries(w http.ResponseWriter, r *http.Request) {
	ownerRef := chi.URLParam(r, "ownerRef")
	actor := actorFromContext(r.Context())

	if !policy.CanView(actor, ownerRef, policy.FieldWallet) {
		SendDomainError(w, models.ErrWalletNotFound)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := ws.ledger.Entries(ownerRef, limit)
	if err != nil {
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"owner_ref": ownerRef,
		"entries":   entries,
		"count":     len(entries),
	})
}

// AdjustWallet handles staff balance adjustments
// @Summary Adjust wallet
// @Description Apply a manual credit or debit to a wallet
// @Tags wallets
// @Accept json
// @Produce json
// @Param ownerRef path string true "Owner reference"
// @Param adjustment body models.AdjustmentRequest true "Adjustment"
// @Success 200 {object} object{entry=models.LedgerEntry,balance=int64}
// @Failure 400 {object} ErrorResponse
// @Failure 402 {object} ErrorResponse
// @Router /wallets/{ownerRef}/adjust [post]
func (ws *WalletService) AdjustWallet(w http.ResponseWriter, r *http.Request) {
	var req models.AdjustmentRequest

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

	if err := ws.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	ownerRef := chi.URLParam(r, "ownerRef")
	actor := actorFromContext(r.Context())

	entry, err := ws.Adjust(ownerRef, &req, actor)
	if err != nil {
		SendDomainError(w, err)
		return
	}

	wallet, err := ws.ledger.Wallet(ownerRef)
	if err != nil {
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"entry":   entry,
		"balance": wallet.Balance,
	})
}

// AwardBonus handles post-event bonus credits
// @Summary Award bonus
// @Description Credit a participation or winner bonus; idempotent per event and kind
// @Tags wallets
// @Accept json
// @Produce json
// @Param award body models.AwardRequest true "Award"
// @Success 200 {object} models.LedgerEntry
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /wallets/awards [post]
func (ws *WalletService) AwardBonus(w http.ResponseWriter, r *http.Request) {
	var req models.AwardRequest

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

	if err := ws.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	actor := actorFromContext(r.Context())
	entry, err := ws.Award(&req, actor)
	if err != nil {
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entry)
}

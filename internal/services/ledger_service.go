package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/deltaarena/backend/internal/models"
)

// LedgerService owns the DeltaCoin economy. The ledger is append-only: every
// balance is derived from the sum of a wallet's entries, and the cached
// balance column is only ever written by recomputeBalanceTx.
type LedgerService struct {
	db *sql.DB
}

func NewLedgerService(db *sql.DB) *LedgerService {
	return &LedgerService{db: db}
}

// AppendEntry appends a single ledger entry in its own transaction.
func (s *LedgerService) AppendEntry(walletRef string, amount int64, reason models.LedgerReason, idempotencyKey, referenceID string) (*models.LedgerEntry, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	entry, err := s.AppendEntryTx(tx, walletRef, amount, reason, idempotencyKey, referenceID)
	if err != nil {
		return nil, err
	}

	return entry, tx.Commit()
}

// AppendEntryTx appends a ledger entry inside the caller's transaction. The
// wallet row is locked for the duration, which serializes all appends to the
// same wallet. Replaying the same idempotency key with an identical amount
// and reason returns the original entry; replaying it with a different
// payload fails.
func (s *LedgerService) AppendEntryTx(tx *sql.Tx, walletRef string, amount int64, reason models.LedgerReason, idempotencyKey, referenceID string) (*models.LedgerEntry, error) {
	if amount == 0 {
		return nil, fmt.Errorf("%w: zero", models.ErrInvalidAmount)
	}
	if idempotencyKey == "" {
		return nil, fmt.Errorf("idempotency key is required")
	}
	if reason == "" {
		return nil, fmt.Errorf("ledger reason is required")
	}

	wallet, err := s.lockWallet(tx, walletRef)
	if err != nil {
		return nil, err
	}

	existing, err := s.findEntryByKey(tx, wallet.ID, idempotencyKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Amount != amount || existing.Reason != reason {
			return nil, fmt.Errorf("%w: key %s", models.ErrIdempotencyKeyConflict, idempotencyKey)
		}
		return existing, nil
	}

	if amount < 0 && !wallet.AllowOverdraft && wallet.Balance+amount < 0 {
		return nil, fmt.Errorf("%w: have %d, need %d", models.ErrInsufficientBalance, wallet.Balance, -amount)
	}

	entry := &models.LedgerEntry{
		ID:             uuid.New().String(),
		WalletID:       wallet.ID,
		Amount:         amount,
		Reason:         reason,
		IdempotencyKey: idempotencyKey,
		ReferenceID:    referenceID,
		CreatedAt:      time.Now(),
	}

	if err := tx.QueryRow(`
		SELECT COALESCE(MAX(seq), 0) + 1 FROM ledger_entries WHERE wallet_id = $1`,
		wallet.ID).Scan(&entry.Seq); err != nil {
		return nil, err
	}

	if err := s.insertEntry(tx, entry); err != nil {
		return nil, err
	}

	if amount > 0 {
		if _, err := tx.Exec(`
			UPDATE wallets SET lifetime_credit = lifetime_credit + $1 WHERE id = $2`,
			amount, wallet.ID); err != nil {
			return nil, err
		}
	}

	if _, err := s.recomputeBalanceTx(tx, wallet.ID, wallet.Version); err != nil {
		return nil, err
	}

	return entry, nil
}

// RecomputeBalance rebuilds a wallet's cached balance from its entries and
// returns the authoritative value. Used after manual interventions and by the
// reconciliation sweep.
func (s *LedgerService) RecomputeBalance(walletRef string) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	wallet, err := s.lockWallet(tx, walletRef)
	if err != nil {
		return 0, err
	}

	balance, err := s.recomputeBalanceTx(tx, wallet.ID, wallet.Version)
	if err != nil {
		return 0, err
	}

	return balance, tx.Commit()
}

// Wallet resolves a wallet by id or owner ref without locking it.
func (s *LedgerService) Wallet(walletRef string) (*models.Wallet, error) {
	var w models.Wallet
	err := s.db.QueryRow(`
		SELECT id, owner_ref, balance, lifetime_credit, allow_overdraft, version, created_at, updated_at
		FROM wallets
		WHERE id = $1 OR owner_ref = $1
		LIMIT 1`, walletRef).
		Scan(&w.ID, &w.OwnerRef, &w.Balance, &w.LifetimeCredit, &w.AllowOverdraft, &w.Version, &w.CreatedAt, &w.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Entries returns the most recent ledger entries for a wallet, newest first.
func (s *LedgerService) Entries(walletRef string, limit int) ([]*models.LedgerEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	wallet, err := s.Wallet(walletRef)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, wallet_id, seq, amount, reason, idempotency_key, reference_id, created_at
		FROM ledger_entries
		WHERE wallet_id = $1
		ORDER BY seq DESC
		LIMIT $2`, wallet.ID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(&e.ID, &e.WalletID, &e.Seq, &e.Amount, &e.Reason, &e.IdempotencyKey, &e.ReferenceID, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// EnsureWalletTx locks the owner's wallet, creating it first if this is the
// owner's first credit. A create race surfaces as a unique violation, which
// the caller's retry loop resolves.
func (s *LedgerService) EnsureWalletTx(tx *sql.Tx, ownerRef string) (*models.Wallet, error) {
	wallet, err := s.lockWallet(tx, ownerRef)
	if err == nil {
		return wallet, nil
	}
	if err != models.ErrWalletNotFound {
		return nil, err
	}

	now := time.Now()
	w := &models.Wallet{
		ID:        uuid.New().String(),
		OwnerRef:  ownerRef,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := tx.Exec(`
		INSERT INTO wallets (id, owner_ref, balance, lifetime_credit, allow_overdraft, version, created_at, updated_at)
		VALUES ($1, $2, 0, 0, false, 1, $3, $4)`,
		w.ID, w.OwnerRef, w.CreatedAt, w.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: wallet %s", models.ErrConcurrentModification, ownerRef)
		}
		return nil, err
	}
	return w, nil
}

func (s *LedgerService) lockWallet(tx *sql.Tx, walletRef string) (*models.Wallet, error) {
	var w models.Wallet
	err := tx.QueryRow(`
		SELECT id, owner_ref, balance, lifetime_credit, allow_overdraft, version, created_at, updated_at
		FROM wallets
		WHERE id = $1 OR owner_ref = $1
		LIMIT 1
		FOR UPDATE`, walletRef).
		Scan(&w.ID, &w.OwnerRef, &w.Balance, &w.LifetimeCredit, &w.AllowOverdraft, &w.Version, &w.CreatedAt, &w.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *LedgerService) findEntryByKey(tx *sql.Tx, walletID, idempotencyKey string) (*models.LedgerEntry, error) {
	var e models.LedgerEntry
	err := tx.QueryRow(`
		SELECT id, wallet_id, seq, amount, reason, idempotency_key, reference_id, created_at
		FROM ledger_entries
		WHERE wallet_id = $1 AND idempotency_key = $2`, walletID, idempotencyKey).
		Scan(&e.ID, &e.WalletID, &e.Seq, &e.Amount, &e.Reason, &e.IdempotencyKey, &e.ReferenceID, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *LedgerService) insertEntry(tx *sql.Tx, entry *models.LedgerEntry) error {
	_, err := tx.Exec(`
		INSERT INTO ledger_entries (id, wallet_id, seq, amount, reason, idempotency_key, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, entry.WalletID, entry.Seq, entry.Amount, entry.Reason, entry.IdempotencyKey, entry.ReferenceID, entry.CreatedAt)
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("%w: entry %s", models.ErrConcurrentModification, entry.IdempotencyKey)
	}
	return err
}

// recomputeBalanceTx is the only writer of the cached balance column. The
// version check is a backstop on top of the row lock; a miss means the wallet
// changed under us.
func (s *LedgerService) recomputeBalanceTx(tx *sql.Tx, walletID string, version int) (int64, error) {
	var balance int64
	err := tx.QueryRow(`
		UPDATE wallets
		SET balance = (SELECT COALESCE(SUM(amount), 0) FROM ledger_entries WHERE wallet_id = $1),
		    version = version + 1, updated_at = $2
		WHERE id = $1 AND version = $3
		RETURNING balance`,
		walletID, time.Now(), version).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%w: wallet %s", models.ErrConcurrentModification, walletID)
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}

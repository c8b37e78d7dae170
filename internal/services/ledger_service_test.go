package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/deltaarena/backend/internal/models"
)

func walletRow(id, ownerRef string, balance int64, overdraft bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "owner_ref", "balance", "lifetime_credit", "allow_overdraft", "version", "created_at", "updated_at"}).
		AddRow(id, ownerRef, balance, int64(0), overdraft, 1, now, now)
}

func TestLedgerService_AppendEntry(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewLedgerService(db)

	t.Run("credit appends and recomputes balance", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM wallets (.+) FOR UPDATE").
			WithArgs("user:u-1").
			WillReturnRows(walletRow("w-1", "user:u-1", 0, false))
		mock.ExpectQuery("SELECT (.+) FROM ledger_entries WHERE wallet_id = \\$1 AND idempotency_key = \\$2").
			WithArgs("w-1", "award:evt-1:winner").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery("SELECT COALESCE\\(MAX\\(seq\\), 0\\) \\+ 1 FROM ledger_entries").
			WithArgs("w-1").
			WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(1))
		mock.ExpectExec("INSERT INTO ledger_entries").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE wallets SET lifetime_credit = lifetime_credit \\+ \\$1").
			WithArgs(int64(500), "w-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("UPDATE wallets\\s+SET balance =").
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(int64(500)))
		mock.ExpectCommit()

		entry, err := service.AppendEntry("user:u-1", 500, models.ReasonWinner, "award:evt-1:winner", "evt-1")
		assert.NoError(t, err)
		assert.Equal(t, int64(500), entry.Amount)
		assert.Equal(t, models.ReasonWinner, entry.Reason)
		assert.Equal(t, int64(1), entry.Seq)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("debit beyond balance is refused", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM wallets (.+) FOR UPDATE").
			WithArgs("user:u-1").
			WillReturnRows(walletRow("w-1", "user:u-1", 100, false))
		mock.ExpectQuery("SELECT (.+) FROM ledger_entries WHERE wallet_id = \\$1 AND idempotency_key = \\$2").
			WithArgs("w-1", "payment:p-1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		_, err := service.AppendEntry("user:u-1", -500, models.ReasonEntryFee, "payment:p-1", "p-1")
		assert.ErrorIs(t, err, models.ErrInsufficientBalance)
	})

	t.Run("overdraft wallet may go negative", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM wallets (.+) FOR UPDATE").
			WithArgs("user:u-2").
			WillReturnRows(walletRow("w-2", "user:u-2", 100, true))
		mock.ExpectQuery("SELECT (.+) FROM ledger_entries WHERE wallet_id = \\$1 AND idempotency_key = \\$2").
			WithArgs("w-2", "payment:p-2").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery("SELECT COALESCE\\(MAX\\(seq\\), 0\\) \\+ 1 FROM ledger_entries").
			WithArgs("w-2").
			WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(7))
		mock.ExpectExec("INSERT INTO ledger_entries").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("UPDATE wallets\\s+SET balance =").
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(int64(-400)))
		mock.ExpectCommit()

		entry, err := service.AppendEntry("user:u-2", -500, models.ReasonEntryFee, "payment:p-2", "p-2")
		assert.NoError(t, err)
		assert.Equal(t, int64(7), entry.Seq)
	})

	t.Run("replaying an idempotency key returns the original entry", func(t *testing.T) {
		created := time.Now().Add(-time.Hour)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM wallets (.+) FOR UPDATE").
			WithArgs("user:u-1").
			WillReturnRows(walletRow("w-1", "user:u-1", 500, false))
		mock.ExpectQuery("SELECT (.+) FROM ledger_entries WHERE wallet_id = \\$1 AND idempotency_key = \\$2").
			WithArgs("w-1", "award:evt-1:winner").
			WillReturnRows(sqlmock.NewRows([]string{"id", "wallet_id", "seq", "amount", "reason", "idempotency_key", "reference_id", "created_at"}).
				AddRow("entry-1", "w-1", 1, int64(500), "winner", "award:evt-1:winner", "evt-1", created))
		mock.ExpectCommit()

		entry, err := service.AppendEntry("user:u-1", 500, models.ReasonWinner, "award:evt-1:winner", "evt-1")
		assert.NoError(t, err)
		assert.Equal(t, "entry-1", entry.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replaying a key with a different amount fails", func(t *testing.T) {
		created := time.Now().Add(-time.Hour)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM wallets (.+) FOR UPDATE").
			WithArgs("user:u-1").
			WillReturnRows(walletRow("w-1", "user:u-1", 500, false))
		mock.ExpectQuery("SELECT (.+) FROM ledger_entries WHERE wallet_id = \\$1 AND idempotency_key = \\$2").
			WithArgs("w-1", "award:evt-1:winner").
			WillReturnRows(sqlmock.NewRows([]string{"id", "wallet_id", "seq", "amount", "reason", "idempotency_key", "reference_id", "created_at"}).
				AddRow("entry-1", "w-1", 1, int64(500), "winner", "award:evt-1:winner", "evt-1", created))
		mock.ExpectRollback()

		_, err := service.AppendEntry("user:u-1", 900, models.ReasonWinner, "award:evt-1:winner", "evt-1")
		assert.ErrorIs(t, err, models.ErrIdempotencyKeyConflict)
	})

	t.Run("zero amount is rejected before touching the database", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := service.AppendEntry("user:u-1", 0, models.ReasonAdjustment, "adjust:x", "")
		assert.ErrorIs(t, err, models.ErrInvalidAmount)
	})

	t.Run("missing idempotency key is rejected", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := service.AppendEntry("user:u-1", 100, models.ReasonAdjustment, "", "")
		assert.Error(t, err)
	})

	t.Run("unknown wallet", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM wallets (.+) FOR UPDATE").
			WithArgs("user:ghost").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		_, err := service.AppendEntry("user:ghost", 100, models.ReasonAdjustment, "adjust:y", "")
		assert.ErrorIs(t, err, models.ErrWalletNotFound)
	})
}

func TestLedgerService_RecomputeBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewLedgerService(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM wallets (.+) FOR UPDATE").
		WithArgs("user:u-1").
		WillReturnRows(walletRow("w-1", "user:u-1", 250, false))
	mock.ExpectQuery("UPDATE wallets\\s+SET balance =").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(int64(300)))
	mock.ExpectCommit()

	balance, err := service.RecomputeBalance("user:u-1")
	assert.NoError(t, err)
	assert.Equal(t, int64(300), balance)
}

func TestLedgerService_Wallet(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewLedgerService(db)

	t.Run("found by owner ref", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM wallets").
			WithArgs("team:t-9").
			WillReturnRows(walletRow("w-9", "team:t-9", 1200, false))

		w, err := service.Wallet("team:t-9")
		assert.NoError(t, err)
		assert.Equal(t, int64(1200), w.Balance)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM wallets").
			WithArgs("user:ghost").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := service.Wallet("user:ghost")
		assert.ErrorIs(t, err, models.ErrWalletNotFound)
	})
}

func TestLedgerService_Entries(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewLedgerService(db)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM wallets").
		WithArgs("user:u-1").
		WillReturnRows(walletRow("w-1", "user:u-1", 400, false))
	mock.ExpectQuery("SELECT (.+) FROM ledger_entries\\s+WHERE wallet_id = \\$1\\s+ORDER BY seq DESC").
		WithArgs("w-1", 100).
		WillReturnRows(sqlmock.NewRows([]string{"id", "wallet_id", "seq", "amount", "reason", "idempotency_key", "reference_id", "created_at"}).
			AddRow("e-2", "w-1", 2, int64(-100), "entry_fee", "payment:p-1", "p-1", now).
			AddRow("e-1", "w-1", 1, int64(500), "participation", "award:evt-1:participation", "evt-1", now.Add(-time.Hour)))

	entries, err := service.Entries("user:u-1", 0)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, int64(2), entries[0].Seq)
}

func TestLedgerService_EnsureWalletTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewLedgerService(db)

	t.Run("creates a wallet on first use", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM wallets (.+) FOR UPDATE").
			WithArgs("user:new").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectExec("INSERT INTO wallets").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := db.Begin()
		assert.NoError(t, err)

		w, err := service.EnsureWalletTx(tx, "user:new")
		assert.NoError(t, err)
		assert.Equal(t, "user:new", w.OwnerRef)
		assert.Equal(t, int64(0), w.Balance)
		assert.NoError(t, tx.Commit())
	})

	t.Run("returns the locked wallet when it exists", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM wallets (.+) FOR UPDATE").
			WithArgs("user:u-1").
			WillReturnRows(walletRow("w-1", "user:u-1", 750, false))
		mock.ExpectRollback()

		tx, err := db.Begin()
		assert.NoError(t, err)
		defer tx.Rollback()

		w, err := service.EnsureWalletTx(tx, "user:u-1")
		assert.NoError(t, err)
		assert.Equal(t, "w-1", w.ID)
	})
}

package services

import (
	"context"
	"testing"

	"isave/internal/models"
	"isave/internal/pagination"
	"isave/internal/testutil"
)

func TestGetWallet(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db, 100)
		user, wallet := testutil.CreateTestUserWithWallet(t, db, 5000)

		got, err := svc.GetWallet(ctx, user.ID)
		testutil.AssertNoError(t, err)
		if got.ID != wallet.ID {
			t.Errorf("expected wallet %s, got %s", wallet.ID, got.ID)
		}
		if got.AvailableBalance != 5000 {
			t.Errorf("expected balance 5000, got %d", got.AvailableBalance)
		}
	})

	t.Run("missing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db, 100)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetWallet(ctx, user.ID)
		testutil.AssertAppError(t, err, "WALLET_NOT_FOUND")
	})
}

func TestFundWallet(t *testing.T) {
	ctx := context.Background()

	t.Run("credits_and_records_deposit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db, 100)
		user, wallet := testutil.CreateTestUserWithWallet(t, db, 1000)

		entry, err := svc.FundWallet(ctx, user.ID, 2500, "")
		testutil.AssertNoError(t, err)

		if entry.Type != models.TransactionTypeDeposit {
			t.Errorf("expected DEPOSIT, got %s", entry.Type)
		}
		if entry.Amount != 2500 {
			t.Errorf("expected amount 2500, got %d", entry.Amount)
		}
		if entry.Status != models.TransactionStatusCompleted {
			t.Errorf("expected COMPLETED, got %s", entry.Status)
		}
		if entry.Description != "Wallet funding" {
			t.Errorf("expected default description, got %q", entry.Description)
		}
		if got := testutil.ReloadWallet(t, db, wallet.ID).AvailableBalance; got != 3500 {
			t.Errorf("expected balance 3500, got %d", got)
		}
	})

	t.Run("below_minimum", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db, 100)
		user, wallet := testutil.CreateTestUserWithWallet(t, db, 0)

		_, err := svc.FundWallet(ctx, user.ID, 99, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		if n := testutil.CountTransactions(t, db, wallet.ID, nil); n != 0 {
			t.Errorf("expected no ledger rows, got %d", n)
		}
	})

	t.Run("no_wallet", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db, 100)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.FundWallet(ctx, user.ID, 500, "")
		testutil.AssertAppError(t, err, "WALLET_NOT_FOUND")
	})
}

func TestApplyEntry(t *testing.T) {
	t.Run("debit_within_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db, 100)
		_, wallet := testutil.CreateTestUserWithWallet(t, db, 1000)

		entry := &models.Transaction{Type: models.TransactionTypeServiceFee, Amount: -400}
		testutil.AssertNoError(t, svc.ApplyEntry(db, wallet, entry))

		if wallet.AvailableBalance != 600 {
			t.Errorf("expected in-memory balance 600, got %d", wallet.AvailableBalance)
		}
		if got := testutil.ReloadWallet(t, db, wallet.ID).AvailableBalance; got != 600 {
			t.Errorf("expected stored balance 600, got %d", got)
		}
		if entry.WalletID != wallet.ID {
			t.Errorf("expected entry bound to wallet %s, got %s", wallet.ID, entry.WalletID)
		}
		if entry.Status != models.TransactionStatusCompleted {
			t.Errorf("expected default status COMPLETED, got %s", entry.Status)
		}
	})

	t.Run("debit_exceeding_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db, 100)
		_, wallet := testutil.CreateTestUserWithWallet(t, db, 1000)

		err := svc.ApplyEntry(db, wallet, &models.Transaction{Type: models.TransactionTypeServiceFee, Amount: -1001})
		testutil.AssertAppError(t, err, "INSUFFICIENT_BALANCE")

		if n := testutil.CountTransactions(t, db, wallet.ID, nil); n != 0 {
			t.Errorf("expected no ledger rows, got %d", n)
		}
	})

	t.Run("stale_balance_rejected_by_conditional_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db, 100)
		_, wallet := testutil.CreateTestUserWithWallet(t, db, 1000)

		// Another request spends most of the balance after this one read the wallet.
		db.Model(&models.Wallet{}).Where("id = ?", wallet.ID).UpdateColumn("available_balance", 100)

		err := svc.ApplyEntry(db, wallet, &models.Transaction{Type: models.TransactionTypeISaveDeposit, Amount: -800})
		testutil.AssertAppError(t, err, "INSUFFICIENT_BALANCE")

		if got := testutil.ReloadWallet(t, db, wallet.ID).AvailableBalance; got != 100 {
			t.Errorf("expected balance to stay 100, got %d", got)
		}
	})

	t.Run("zero_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db, 100)
		_, wallet := testutil.CreateTestUserWithWallet(t, db, 1000)

		err := svc.ApplyEntry(db, wallet, &models.Transaction{Type: models.TransactionTypeRefund})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetWalletTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("paginated_newest_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db, 100)
		user, wallet := testutil.CreateTestUserWithWallet(t, db, 0)

		var last *models.Transaction
		for i := 0; i < 5; i++ {
			last = testutil.CreateTestTransaction(t, db, wallet.ID, models.TransactionTypeDeposit, int64(100*(i+1)))
		}

		result, err := svc.GetWalletTransactions(ctx, user.ID, pagination.PageRequest{Page: 1, PageSize: 2}, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 5 {
			t.Errorf("expected 5 total items, got %d", result.TotalItems)
		}
		if result.TotalPages != 3 {
			t.Errorf("expected 3 pages, got %d", result.TotalPages)
		}
		if len(result.Data) != 2 {
			t.Fatalf("expected 2 items on page, got %d", len(result.Data))
		}
		if result.Data[0].ID != last.ID {
			t.Errorf("expected newest entry first")
		}
	})

	t.Run("filters", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db, 100)
		user, wallet := testutil.CreateTestUserWithWallet(t, db, 0)
		plan := testutil.CreateTestSavePlan(t, db, user.ID)

		testutil.CreateTestTransaction(t, db, wallet.ID, models.TransactionTypeDeposit, 500)
		saved := testutil.CreateTestTransaction(t, db, wallet.ID, models.TransactionTypeISaveDeposit, -200)
		db.Model(saved).Update("save_plan_id", plan.ID)

		txType := models.TransactionTypeDeposit
		result, err := svc.GetWalletTransactions(ctx, user.ID, pagination.PageRequest{}, TransactionFilter{Type: &txType})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 || result.Data[0].Type != models.TransactionTypeDeposit {
			t.Errorf("expected only the DEPOSIT entry, got %+v", result.Data)
		}

		result, err = svc.GetWalletTransactions(ctx, user.ID, pagination.PageRequest{}, TransactionFilter{SavePlanID: &plan.ID})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 || result.Data[0].ID != saved.ID {
			t.Errorf("expected only the plan entry, got %+v", result.Data)
		}

		status := models.TransactionStatusPending
		result, err = svc.GetWalletTransactions(ctx, user.ID, pagination.PageRequest{}, TransactionFilter{Status: &status})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 0 {
			t.Errorf("expected no pending entries, got %d", result.TotalItems)
		}
	})

	t.Run("other_users_entries_hidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db, 100)
		user, _ := testutil.CreateTestUserWithWallet(t, db, 0)
		_, otherWallet := testutil.CreateTestUserWithWallet(t, db, 0)
		testutil.CreateTestTransaction(t, db, otherWallet.ID, models.TransactionTypeDeposit, 500)

		result, err := svc.GetWalletTransactions(ctx, user.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 0 {
			t.Errorf("expected no entries, got %d", result.TotalItems)
		}
	})
}

package testutil_test

import (
	"testing"

	"isave/internal/errors"
	"isave/internal/models"
	"isave/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "wallets", "transactions", "save_plans", "notifications", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	testutil.CreateTestUser(t, first)

	var count int64
	second.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("expected second database to be empty, found %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user, wallet := testutil.CreateTestUserWithWallet(t, db, 5000)
	if user.ID == "" {
		t.Fatal("user should have a generated ID")
	}
	if wallet.AvailableBalance != 5000 {
		t.Errorf("expected balance 5000, got %d", wallet.AvailableBalance)
	}
	if wallet.Currency != models.DefaultCurrency {
		t.Errorf("expected currency %s, got %s", models.DefaultCurrency, wallet.Currency)
	}

	plan := testutil.CreateTestSavePlan(t, db, user.ID, testutil.WithCurrentAmount(2500))
	if plan.Status != models.SavePlanStatusActive {
		t.Errorf("expected ACTIVE plan, got %s", plan.Status)
	}
	if plan.CurrentAmount != 2500 {
		t.Errorf("expected current amount 2500, got %d", plan.CurrentAmount)
	}

	entry := testutil.CreateTestTransaction(t, db, wallet.ID, models.TransactionTypeDeposit, 1000)
	if entry.Amount != 1000 {
		t.Errorf("expected amount 1000, got %d", entry.Amount)
	}
	if n := testutil.CountTransactions(t, db, wallet.ID, nil); n != 1 {
		t.Errorf("expected 1 transaction, got %d", n)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrSavePlanNotFound, "custom message")
	testutil.AssertAppError(t, err, "SAVE_PLAN_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}

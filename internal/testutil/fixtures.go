package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"isave/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestWallet creates an empty NGN wallet for the user.
func CreateTestWallet(t *testing.T, db *gorm.DB, userID string) *models.Wallet {
	t.Helper()
	return CreateTestWalletWithBalance(t, db, userID, 0)
}

// CreateTestWalletWithBalance creates a wallet with the given balance (in minor units).
func CreateTestWalletWithBalance(t *testing.T, db *gorm.DB, userID string, balance int64) *models.Wallet {
	t.Helper()

	wallet := &models.Wallet{
		UserID:           userID,
		AvailableBalance: balance,
		Currency:         models.DefaultCurrency,
	}
	if err := db.Create(wallet).Error; err != nil {
		t.Fatalf("failed to create test wallet: %v", err)
	}
	return wallet
}

// CreateTestUserWithWallet creates a user together with a funded wallet.
func CreateTestUserWithWallet(t *testing.T, db *gorm.DB, balance int64) (*models.User, *models.Wallet) {
	t.Helper()
	user := CreateTestUser(t, db)
	return user, CreateTestWalletWithBalance(t, db, user.ID, balance)
}

// SavePlanOption customizes a fixture plan before it is inserted.
type SavePlanOption func(*models.SavePlan)

// WithCurrentAmount sets the saved amount.
func WithCurrentAmount(amount int64) SavePlanOption {
	return func(p *models.SavePlan) { p.CurrentAmount = amount }
}

// WithTargetDate sets the target date, including dates in the past that the
// service itself would refuse.
func WithTargetDate(date time.Time) SavePlanOption {
	return func(p *models.SavePlan) { p.TargetDate = date }
}

// WithStatus sets the plan status.
func WithStatus(status models.SavePlanStatus) SavePlanOption {
	return func(p *models.SavePlan) { p.Status = status }
}

// WithAutoSave makes the plan automatic with the given frequency, amount and
// next deduction date.
func WithAutoSave(freq models.SaveFrequency, amount int64, next time.Time) SavePlanOption {
	return func(p *models.SavePlan) {
		p.Frequency = freq
		p.AutoSaveAmount = &amount
		p.NextDeductionDate = &next
	}
}

// CreateTestSavePlan creates an ACTIVE manual plan with a 10000 target that
// matures in 30 days.
func CreateTestSavePlan(t *testing.T, db *gorm.DB, userID string, opts ...SavePlanOption) *models.SavePlan {
	t.Helper()

	plan := &models.SavePlan{
		UserID:       userID,
		Title:        fmt.Sprintf("Test Plan %d", nextID()),
		TargetAmount: 10000,
		Frequency:    models.SaveFrequencyManual,
		TargetDate:   time.Now().Add(30 * 24 * time.Hour),
		Status:       models.SavePlanStatusActive,
	}
	for _, opt := range opts {
		opt(plan)
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("failed to create test save plan: %v", err)
	}
	return plan
}

// CreateTestTransaction records a completed ledger entry without touching the balance.
func CreateTestTransaction(t *testing.T, db *gorm.DB, walletID string, txType models.TransactionType, amount int64) *models.Transaction {
	t.Helper()

	entry := &models.Transaction{
		WalletID:    walletID,
		Type:        txType,
		Amount:      amount,
		Status:      models.TransactionStatusCompleted,
		Description: fmt.Sprintf("Test transaction %d", nextID()),
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return entry
}

// ReloadWallet fetches the current state of a wallet.
func ReloadWallet(t *testing.T, db *gorm.DB, walletID string) *models.Wallet {
	t.Helper()

	var wallet models.Wallet
	if err := db.Where("id = ?", walletID).First(&wallet).Error; err != nil {
		t.Fatalf("failed to reload wallet: %v", err)
	}
	return &wallet
}

// ReloadSavePlan fetches the current state of a plan, including soft-deleted rows.
func ReloadSavePlan(t *testing.T, db *gorm.DB, planID string) *models.SavePlan {
	t.Helper()

	var plan models.SavePlan
	if err := db.Unscoped().Where("id = ?", planID).First(&plan).Error; err != nil {
		t.Fatalf("failed to reload save plan: %v", err)
	}
	return &plan
}

// CountTransactions counts ledger rows for a wallet, optionally narrowed to a plan.
func CountTransactions(t *testing.T, db *gorm.DB, walletID string, planID *string) int64 {
	t.Helper()

	q := db.Model(&models.Transaction{}).Where("wallet_id = ?", walletID)
	if planID != nil {
		q = q.Where("save_plan_id = ?", *planID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		t.Fatalf("failed to count transactions: %v", err)
	}
	return count
}

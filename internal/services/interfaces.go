package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"isave/internal/models"
	"isave/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	AttemptLogin(ctx context.Context, email, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// RegisterInput carries the fields needed to onboard a new user.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Currency  string
}

// TransactionFilter holds optional filter parameters for listing ledger entries.
type TransactionFilter struct {
	Type       *models.TransactionType
	Status     *models.TransactionStatus
	SavePlanID *string
}

// WalletServicer defines the contract for wallet and ledger business logic.
// The tx-scoped methods let other services move money inside their own
// database transaction.
type WalletServicer interface {
	GetWallet(ctx context.Context, userID string) (*models.Wallet, error)
	FundWallet(ctx context.Context, userID string, amount int64, description string) (*models.Transaction, error)
	GetWalletTransactions(ctx context.Context, userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	CreateWallet(tx *gorm.DB, userID, currency string) (*models.Wallet, error)
	LoadWallet(tx *gorm.DB, userID string) (*models.Wallet, error)
	ApplyEntry(tx *gorm.DB, wallet *models.Wallet, entry *models.Transaction) error
}

// CreateSavePlanInput carries the fields of a new savings plan.
type CreateSavePlanInput struct {
	Title          string
	Description    string
	TargetAmount   int64
	Frequency      models.SaveFrequency
	AutoSaveAmount *int64
	TargetDate     time.Time
	InitialDeposit *int64
}

// SavePlanDetail is a plan together with its most recent ledger activity.
type SavePlanDetail struct {
	models.SavePlan
	Progress     decimal.Decimal      `json:"progress"`
	Transactions []models.Transaction `json:"transactions"`
}

// BreakPlanResult reports the outcome of breaking a plan.
type BreakPlanResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SavePlanServicer defines the contract for savings plan business logic.
type SavePlanServicer interface {
	CreateSavePlan(ctx context.Context, userID string, input CreateSavePlanInput) (*models.SavePlan, error)
	GetUserSavePlans(ctx context.Context, userID string) ([]models.SavePlan, error)
	GetSavePlanByID(ctx context.Context, userID, planID string) (*SavePlanDetail, error)
	Deposit(ctx context.Context, userID, planID string, amount int64) (*models.SavePlan, error)
	DepositScheduled(ctx context.Context, plan *models.SavePlan, next time.Time) (*models.SavePlan, error)
	BreakPlan(ctx context.Context, userID, planID string) (*BreakPlanResult, error)
	WithdrawCompletedPlan(ctx context.Context, userID, planID string) error
}

// NotificationServicer defines the contract for in-app notifications.
type NotificationServicer interface {
	NotifyTargetReached(ctx context.Context, plan *models.SavePlan)
	GetUserNotifications(ctx context.Context, userID string, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error)
	MarkAsRead(ctx context.Context, userID, notificationID string) (*models.Notification, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}

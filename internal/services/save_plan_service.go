package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "isave/internal/errors"
	"isave/internal/models"
)

// recentTransactionLimit caps the ledger entries returned with a plan.
const recentTransactionLimit = 10

// savePlanService handles savings plan business logic.
type savePlanService struct {
	db                  *gorm.DB
	walletService       WalletServicer
	notificationService NotificationServicer
	minDeposit          int64
}

// NewSavePlanService creates a new SavePlanServicer. minDeposit is the floor
// for both manual and scheduled deposits.
func NewSavePlanService(db *gorm.DB, walletService WalletServicer, notificationService NotificationServicer, minDeposit int64) SavePlanServicer {
	return &savePlanService{
		db:                  db,
		walletService:       walletService,
		notificationService: notificationService,
		minDeposit:          minDeposit,
	}
}

// CreateSavePlan creates an ACTIVE plan for the user, optionally moving an
// initial deposit from the wallet in the same transaction.
func (s *savePlanService) CreateSavePlan(ctx context.Context, userID string, input CreateSavePlanInput) (*models.SavePlan, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}
	if input.TargetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}
	if !input.Frequency.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "frequency must be one of MANUAL, DAILY, WEEKLY, MONTHLY")
	}

	var autoSaveAmount *int64
	if input.Frequency.IsAutomatic() {
		if input.AutoSaveAmount == nil || *input.AutoSaveAmount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "auto-save amount is required for automatic plans")
		}
		if *input.AutoSaveAmount < s.minDeposit {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
				fmt.Sprintf("auto-save amount must be at least %s", formatAmount(s.minDeposit)))
		}
		amount := *input.AutoSaveAmount
		autoSaveAmount = &amount
	}

	now := time.Now()
	if !input.TargetDate.After(now) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target date must be in the future")
	}

	var initialDeposit int64
	if input.InitialDeposit != nil {
		if *input.InitialDeposit < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "initial deposit cannot be negative")
		}
		initialDeposit = *input.InitialDeposit
	}

	plan := &models.SavePlan{
		UserID:         userID,
		Title:          title,
		Description:    strings.TrimSpace(input.Description),
		TargetAmount:   input.TargetAmount,
		Frequency:      input.Frequency,
		AutoSaveAmount: autoSaveAmount,
		TargetDate:     input.TargetDate,
		Status:         models.SavePlanStatusActive,
	}
	if next, ok := input.Frequency.Next(now); ok {
		plan.NextDeductionDate = &next
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(plan).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if initialDeposit > 0 {
			return s.moveIntoPlan(tx, plan, initialDeposit)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return plan, nil
}

// GetUserSavePlans retrieves every plan the user owns, newest first.
func (s *savePlanService) GetUserSavePlans(ctx context.Context, userID string) ([]models.SavePlan, error) {
	plans := []models.SavePlan{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&plans).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return plans, nil
}

// GetSavePlanByID retrieves a plan with its most recent ledger entries.
// Unlike the mutating operations it distinguishes a missing plan from one
// owned by someone else.
func (s *savePlanService) GetSavePlanByID(ctx context.Context, userID, planID string) (*SavePlanDetail, error) {
	db := s.db.WithContext(ctx)

	var plan models.SavePlan
	if err := db.Where("id = ?", planID).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSavePlanNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if plan.UserID != userID {
		return nil, apperrors.WithMessage(apperrors.ErrForbidden, "you do not have access to this savings plan")
	}

	entries := []models.Transaction{}
	if err := db.Where("save_plan_id = ?", plan.ID).
		Order("created_at DESC, id DESC").
		Limit(recentTransactionLimit).
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &SavePlanDetail{
		SavePlan:     plan,
		Progress:     progressPercent(plan.CurrentAmount, plan.TargetAmount),
		Transactions: entries,
	}, nil
}

// Deposit moves amount from the user's wallet into an ACTIVE plan. Reaching
// the target only triggers a notification; the plan stays ACTIVE until it is
// withdrawn after its target date.
func (s *savePlanService) Deposit(ctx context.Context, userID, planID string, amount int64) (*models.SavePlan, error) {
	if amount < s.minDeposit {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("minimum deposit amount is %s", formatAmount(s.minDeposit)))
	}

	var plan *models.SavePlan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		plan, err = s.findOwnedPlan(tx, userID, planID)
		if err != nil {
			return err
		}
		if !plan.IsActive() {
			return apperrors.ErrSavePlanNotActive
		}
		return s.moveIntoPlan(tx, plan, amount)
	})
	if err != nil {
		return nil, err
	}

	if plan.TargetReached() {
		s.notificationService.NotifyTargetReached(ctx, plan)
	}

	return plan, nil
}

// DepositScheduled takes one scheduled deduction from an automatic plan. The
// period is claimed first by moving next_deduction_date from the value loaded
// into plan to next; if another run already moved it, the wallet is left
// alone and ErrDeductionAlreadyTaken is returned. The claim commits even when
// the deposit fails, so a plan that could not be funded waits for next.
func (s *savePlanService) DepositScheduled(ctx context.Context, plan *models.SavePlan, next time.Time) (*models.SavePlan, error) {
	if plan.NextDeductionDate == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "plan has no scheduled deduction")
	}
	due := *plan.NextDeductionDate

	var depositErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.SavePlan{}).
			Where("id = ? AND status = ? AND next_deduction_date = ?", plan.ID, models.SavePlanStatusActive, due).
			UpdateColumn("next_deduction_date", next)
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrDeductionAlreadyTaken
		}

		// Savepoint: a failed deposit rolls back to here and keeps the claim.
		depositErr = tx.Transaction(func(inner *gorm.DB) error {
			return s.takeDeduction(inner, plan)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	plan.NextDeductionDate = &next
	if depositErr != nil {
		return nil, depositErr
	}

	if plan.TargetReached() {
		s.notificationService.NotifyTargetReached(ctx, plan)
	}

	return plan, nil
}

// takeDeduction moves the plan's auto-save amount out of the owner's wallet.
func (s *savePlanService) takeDeduction(tx *gorm.DB, plan *models.SavePlan) error {
	if plan.AutoSaveAmount == nil || *plan.AutoSaveAmount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "plan has no auto-save amount")
	}
	amount := *plan.AutoSaveAmount
	if amount < s.minDeposit {
		return apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("minimum deposit amount is %s", formatAmount(s.minDeposit)))
	}
	return s.moveIntoPlan(tx, plan, amount)
}

// BreakPlan cancels an ACTIVE plan early and returns its balance to the
// wallet. A plan with nothing saved is removed outright.
func (s *savePlanService) BreakPlan(ctx context.Context, userID, planID string) (*BreakPlanResult, error) {
	result := &BreakPlanResult{Success: true}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := s.findOwnedPlan(tx, userID, planID)
		if err != nil {
			return err
		}
		if !plan.IsActive() {
			return apperrors.ErrSavePlanNotActive
		}

		if plan.CurrentAmount == 0 {
			if err := tx.Unscoped().Delete(plan).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			result.Message = "Savings plan deleted"
			return nil
		}

		returned := plan.CurrentAmount
		if err := s.moveOutOfPlan(tx, plan, models.SavePlanStatusCancelled,
			fmt.Sprintf("Break plan: %s", plan.Title)); err != nil {
			return err
		}
		result.Message = fmt.Sprintf("Savings plan broken. %s returned to your wallet", formatAmount(returned))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// WithdrawCompletedPlan pays out a matured plan and closes it as COMPLETED.
func (s *savePlanService) WithdrawCompletedPlan(ctx context.Context, userID, planID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := s.findOwnedPlan(tx, userID, planID)
		if err != nil {
			return err
		}
		if plan.TargetDate.After(time.Now()) {
			return apperrors.ErrSavePlanNotMatured
		}
		if !plan.IsActive() {
			return apperrors.ErrSavePlanNotActive
		}
		if plan.CurrentAmount <= 0 {
			return apperrors.ErrSavePlanEmpty
		}

		return s.moveOutOfPlan(tx, plan, models.SavePlanStatusCompleted,
			fmt.Sprintf("Withdrawal from completed plan: %s", plan.Title))
	})
}

// findOwnedPlan loads a plan owned by userID. A plan owned by someone else is
// reported as not found.
func (s *savePlanService) findOwnedPlan(tx *gorm.DB, userID, planID string) (*models.SavePlan, error) {
	var plan models.SavePlan
	if err := tx.Where("id = ? AND user_id = ?", planID, userID).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSavePlanNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &plan, nil
}

// moveIntoPlan debits the owner's wallet and credits the plan by amount.
func (s *savePlanService) moveIntoPlan(tx *gorm.DB, plan *models.SavePlan, amount int64) error {
	wallet, err := s.walletService.LoadWallet(tx, plan.UserID)
	if err != nil {
		return err
	}

	planID := plan.ID
	entry := &models.Transaction{
		Type:        models.TransactionTypeISaveDeposit,
		Amount:      -amount,
		Status:      models.TransactionStatusCompleted,
		Description: fmt.Sprintf("Deposit to savings plan: %s", plan.Title),
		SavePlanID:  &planID,
	}
	if err := s.walletService.ApplyEntry(tx, wallet, entry); err != nil {
		return err
	}

	result := tx.Model(&models.SavePlan{}).
		Where("id = ? AND status = ?", plan.ID, models.SavePlanStatusActive).
		UpdateColumn("current_amount", gorm.Expr("current_amount + ?", amount))
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrSavePlanNotActive
	}
	plan.CurrentAmount += amount
	return nil
}

// moveOutOfPlan returns the plan's whole balance to the wallet and moves the
// plan into a terminal status.
func (s *savePlanService) moveOutOfPlan(tx *gorm.DB, plan *models.SavePlan, status models.SavePlanStatus, description string) error {
	amount := plan.CurrentAmount

	result := tx.Model(&models.SavePlan{}).
		Where("id = ? AND status = ? AND current_amount = ?", plan.ID, models.SavePlanStatusActive, amount).
		UpdateColumns(map[string]interface{}{
			"status":              status,
			"current_amount":      0,
			"next_deduction_date": nil,
		})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrSavePlanNotActive
	}

	wallet, err := s.walletService.LoadWallet(tx, plan.UserID)
	if err != nil {
		return err
	}

	planID := plan.ID
	entry := &models.Transaction{
		Type:        models.TransactionTypeISaveWithdrawal,
		Amount:      amount,
		Status:      models.TransactionStatusCompleted,
		Description: description,
		SavePlanID:  &planID,
	}
	if err := s.walletService.ApplyEntry(tx, wallet, entry); err != nil {
		return err
	}

	plan.Status = status
	plan.CurrentAmount = 0
	plan.NextDeductionDate = nil
	return nil
}

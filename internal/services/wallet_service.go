package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "isave/internal/errors"
	"isave/internal/models"
	"isave/internal/pagination"
)

// walletService handles wallet balances and the ledger behind them.
type walletService struct {
	db         *gorm.DB
	minDeposit int64
}

// NewWalletService creates a new WalletServicer. minDeposit is the smallest
// amount FundWallet accepts.
func NewWalletService(db *gorm.DB, minDeposit int64) WalletServicer {
	return &walletService{db: db, minDeposit: minDeposit}
}

// GetWallet retrieves the wallet owned by a user.
func (s *walletService) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	return s.LoadWallet(s.db.WithContext(ctx), userID)
}

// FundWallet credits the user's wallet and records a completed DEPOSIT.
// It stands in for a settled payment-gateway callback.
func (s *walletService) FundWallet(ctx context.Context, userID string, amount int64, description string) (*models.Transaction, error) {
	if amount < s.minDeposit {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("minimum deposit amount is %s", formatAmount(s.minDeposit)))
	}
	if description == "" {
		description = "Wallet funding"
	}

	var entry *models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wallet, err := s.LoadWallet(tx, userID)
		if err != nil {
			return err
		}

		entry = &models.Transaction{
			Type:        models.TransactionTypeDeposit,
			Amount:      amount,
			Status:      models.TransactionStatusCompleted,
			Description: description,
		}
		return s.ApplyEntry(tx, wallet, entry)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// GetWalletTransactions retrieves a paginated list of ledger entries for the
// user's wallet, newest first.
func (s *walletService) GetWalletTransactions(ctx context.Context, userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("wallet_id = ?", wallet.ID)
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.SavePlanID != nil {
		query = query.Where("save_plan_id = ?", *filter.SavePlanID)
	}

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.Transaction
	if err := query.Order("created_at DESC, id DESC").Scopes(pagination.Paginate(page)).Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// CreateWallet opens an empty wallet for a newly registered user.
func (s *walletService) CreateWallet(tx *gorm.DB, userID, currency string) (*models.Wallet, error) {
	if currency == "" {
		currency = models.DefaultCurrency
	}

	wallet := &models.Wallet{
		UserID:   userID,
		Currency: currency,
	}
	if err := tx.Create(wallet).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return wallet, nil
}

// LoadWallet reads the user's wallet through the given handle so callers
// inside a transaction see the balance as of that transaction.
func (s *walletService) LoadWallet(tx *gorm.DB, userID string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := tx.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &wallet, nil
}

// ApplyEntry moves entry.Amount into (positive) or out of (negative) the
// wallet and appends the entry to the ledger. Must be called inside a
// transaction. Debits are conditional on the stored balance, so a concurrent
// spend that got there first makes this one fail with INSUFFICIENT_BALANCE.
func (s *walletService) ApplyEntry(tx *gorm.DB, wallet *models.Wallet, entry *models.Transaction) error {
	if entry.Amount == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be zero")
	}

	if entry.Amount < 0 {
		debit := -entry.Amount
		if wallet.AvailableBalance < debit {
			return apperrors.ErrInsufficientBalance
		}

		result := tx.Model(&models.Wallet{}).
			Where("id = ? AND available_balance >= ?", wallet.ID, debit).
			UpdateColumn("available_balance", gorm.Expr("available_balance - ?", debit))
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrInsufficientBalance
		}
	} else {
		result := tx.Model(&models.Wallet{}).
			Where("id = ?", wallet.ID).
			UpdateColumn("available_balance", gorm.Expr("available_balance + ?", entry.Amount))
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrWalletNotFound
		}
	}
	wallet.AvailableBalance += entry.Amount

	entry.WalletID = wallet.ID
	if entry.Status == "" {
		entry.Status = models.TransactionStatusCompleted
	}
	if err := tx.Create(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"isave/internal/models"
)

// supportedCurrencies lists the wallet currencies the marketplace settles in.
var supportedCurrencies = map[string]bool{
	"NGN": true, "GHS": true, "KES": true, "ZAR": true,
	"USD": true, "GBP": true, "EUR": true,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("wallet_currency", validateWalletCurrency)
		_ = v.RegisterValidation("save_frequency", validateSaveFrequency)
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("transaction_status", validateTransactionStatus)
	}
}

func validateWalletCurrency(fl validator.FieldLevel) bool {
	return supportedCurrencies[fl.Field().String()]
}

func validateSaveFrequency(fl validator.FieldLevel) bool {
	return models.SaveFrequency(fl.Field().String()).IsValid()
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return models.TransactionType(fl.Field().String()).IsValid()
}

func validateTransactionStatus(fl validator.FieldLevel) bool {
	return models.TransactionStatus(fl.Field().String()).IsValid()
}

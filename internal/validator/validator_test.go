package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type sample struct {
	Currency  string `binding:"omitempty,wallet_currency"`
	Frequency string `binding:"omitempty,save_frequency"`
	Type      string `binding:"omitempty,transaction_type"`
	Status    string `binding:"omitempty,transaction_status"`
}

func TestRegister(t *testing.T) {
	Register()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		t.Fatal("expected go-playground validator engine")
	}

	tests := []struct {
		name    string
		input   sample
		wantErr bool
	}{
		{"empty passes", sample{}, false},
		{"valid values", sample{Currency: "KES", Frequency: "WEEKLY", Type: "ISAVE_WITHDRAWAL", Status: "COMPLETED"}, false},
		{"unknown currency", sample{Currency: "XYZ"}, true},
		{"lowercase currency", sample{Currency: "ngn"}, true},
		{"unknown frequency", sample{Frequency: "YEARLY"}, true},
		{"unknown type", sample{Type: "TRANSFER"}, true},
		{"unknown status", sample{Status: "DONE"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

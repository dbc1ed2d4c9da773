package service

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

type CreateUserInput struct {
	Name  string `validate:"required,max=100"`
	Email string `validate:"omitempty,email"`
}

type CreateGroupInput struct {
	Name     string   `validate:"required,max=100"`
	Currency string   `validate:"required,currency"`
	Members  []string `validate:"required,min=1,unique,dive,required"`
}

// CreateExpenseInput describes a new expense. Values carries the exact amounts
// or percentages for the exact and percentage policies and is ignored for equal.
type CreateExpenseInput struct {
	GroupID      string `validate:"required"`
	Description  string `validate:"max=500"`
	Amount       money.Money
	PaidBy       string             `validate:"required"`
	Policy       models.SplitPolicy `validate:"required,oneof=equal exact percentage"`
	Participants []string           `validate:"required,min=1,unique,dive,required"`
	Values       map[string]decimal.Decimal
	CreatedAt    int64 `validate:"gte=0"`
}

// RecordSettlementInput describes a payment. An empty Method means simplified.
type RecordSettlementInput struct {
	GroupID string `validate:"required"`
	PayerID string `validate:"required"`
	PayeeID string `validate:"required"`
	Amount  money.Money
	Method  models.SettlementMethod `validate:"omitempty,oneof=simplified detailed"`
	Notes   string                  `validate:"max=500"`
}

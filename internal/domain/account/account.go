package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Type classifies an account for the assets/liabilities split in summaries.
type Type string

const (
	TypeChecking   Type = "checking"
	TypeSavings    Type = "savings"
	TypeCreditCard Type = "credit_card"
	TypeLoan       Type = "loan"
	TypeInvestment Type = "investment"
)

// IsLiability reports whether balances of this type count against net worth.
// Checking, savings and investment accounts are assets.
func (t Type) IsLiability() bool {
	return t == TypeCreditCard || t == TypeLoan
}

type Account struct {
	ID             string    `json:"id"`
	UserEmail      string    `json:"user_email"`
	Type           Type      `json:"account_type"`
	Name           string    `json:"account_name"`
	Institution    string    `json:"institution"`
	Balance        float64   `json:"balance"`
	CreditLimit    *float64  `json:"credit_limit"`
	InterestRate   *float64  `json:"interest_rate"`
	MinimumPayment *float64  `json:"minimum_payment"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

var ErrNotFound = errors.New("account not found")

type CreateAccountRequest struct {
	Type           Type     `json:"account_type" binding:"required,oneof=checking savings credit_card loan investment"`
	Name           string   `json:"account_name" binding:"required"`
	Institution    string   `json:"institution" binding:"required"`
	Balance        float64  `json:"balance"`
	CreditLimit    *float64 `json:"credit_limit"`
	InterestRate   *float64 `json:"interest_rate"`
	MinimumPayment *float64 `json:"minimum_payment"`
}

// UpdateAccountRequest is a patch: a nil field means "leave the stored value
// alone". There is no way to clear an optional field back to null.
type UpdateAccountRequest struct {
	Type           *Type    `json:"account_type" binding:"omitempty,oneof=checking savings credit_card loan investment"`
	Name           *string  `json:"account_name"`
	Institution    *string  `json:"institution"`
	Balance        *float64 `json:"balance"`
	CreditLimit    *float64 `json:"credit_limit"`
	InterestRate   *float64 `json:"interest_rate"`
	MinimumPayment *float64 `json:"minimum_payment"`
}

// NewFromCreateRequest builds the stored record for an owner.
func NewFromCreateRequest(ownerEmail string, req CreateAccountRequest) Account {
	now := time.Now().UTC()

	return Account{
		ID:             uuid.NewString(),
		UserEmail:      ownerEmail,
		Type:           req.Type,
		Name:           req.Name,
		Institution:    req.Institution,
		Balance:        req.Balance,
		CreditLimit:    req.CreditLimit,
		InterestRate:   req.InterestRate,
		MinimumPayment: req.MinimumPayment,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ApplyUpdate overwrites only the fields present in the patch and refreshes
// UpdatedAt regardless of which fields changed.
func (a *Account) ApplyUpdate(req UpdateAccountRequest) {
	if req.Type != nil {
		a.Type = *req.Type
	}
	if req.Name != nil {
		a.Name = *req.Name
	}
	if req.Institution != nil {
		a.Institution = *req.Institution
	}
	if req.Balance != nil {
		a.Balance = *req.Balance
	}
	if req.CreditLimit != nil {
		a.CreditLimit = req.CreditLimit
	}
	if req.InterestRate != nil {
		a.InterestRate = req.InterestRate
	}
	if req.MinimumPayment != nil {
		a.MinimumPayment = req.MinimumPayment
	}
	a.UpdatedAt = time.Now().UTC()
}

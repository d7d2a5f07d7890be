package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks/ledger-engine/internal/core/domain"
)

// CreateAccountRequest creates a node in the chart of accounts.
type CreateAccountRequest struct {
	Code            string `json:"code" binding:"required,numeric"`
	Name            string `json:"name" binding:"required"`
	AccountType     string `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentAccountID string `json:"parentAccountID"`
	Description     string `json:"description"`
}

// UpdateAccountRequest updates mutable account details. The account type is
// deliberately absent: it must never change once the account has posted lines.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string          `json:"accountID"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	AccountType     string          `json:"accountType"`
	ParentAccountID string          `json:"parentAccountID,omitempty"`
	Description     string          `json:"description,omitempty"`
	IsActive        bool            `json:"isActive"`
	Balance         decimal.Decimal `json:"balance"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       a.AccountID,
		Code:            a.Code,
		Name:            a.Name,
		AccountType:     string(a.AccountType),
		ParentAccountID: a.ParentAccountID,
		Description:     a.Description,
		IsActive:        a.IsActive,
		Balance:         a.Balance,
		CreatedAt:       a.CreatedAt,
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}

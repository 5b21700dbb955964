package dto

import "github.com/ledgertriage/ledgertriage/internal/domain/entity"

// BankAccountRequest creates a bank account, or updates it when ID is set
type BankAccountRequest struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name" binding:"required"`
	Slug     string `json:"slug"`
	Currency string `json:"currency"`
}

// ToEntity converts the request to a domain bank account
func (r *BankAccountRequest) ToEntity() *entity.BankAccount {
	return &entity.BankAccount{ID: r.ID, Name: r.Name, Slug: r.Slug, Currency: r.Currency}
}

// BankAccountResponse represents a stored bank account
type BankAccountResponse struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Currency string `json:"currency"`
}

// NewBankAccountResponse converts a domain bank account
func NewBankAccountResponse(account *entity.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		ID:       account.ID,
		Name:     account.Name,
		Slug:     account.Slug,
		Currency: account.Currency,
	}
}

// HealthResponse reports liveness of the service and its store
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Store   string `json:"store"`
}

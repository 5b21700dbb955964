package handler

import (
	"net/http"

	coreport "github.com/ledgertriage/ledgertriage/internal/domain/port/core"
	"github.com/ledgertriage/ledgertriage/internal/domain/port/usecase"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// BankAccountHandler handles bank account HTTP requests
type BankAccountHandler struct {
	accounts usecase.AccountUseCase
	logger   coreport.Logger
}

// NewBankAccountHandler creates a new bank account handler instance
func NewBankAccountHandler(accounts usecase.AccountUseCase, logger coreport.Logger) *BankAccountHandler {
	return &BankAccountHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// List handles GET /bank-accounts
func (h *BankAccountHandler) List(c *gin.Context) {
	accounts, err := h.accounts.ListBankAccounts(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Error listing bank accounts", err)
		return
	}

	out := make([]dto.BankAccountResponse, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, dto.NewBankAccountResponse(account))
	}
	c.JSON(http.StatusOK, out)
}

// Save handles POST /bank-accounts
func (h *BankAccountHandler) Save(c *gin.Context) {
	var req dto.BankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, "Invalid request format: "+err.Error())
		return
	}

	account, err := h.accounts.SaveBankAccount(c.Request.Context(), req.ToEntity())
	if err != nil {
		respondError(c, h.logger, "Error saving bank account", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBankAccountResponse(account))
}

package entity

import (
	"fmt"
	"regexp"
	"strings"

	errs "github.com/ledgertriage/ledgertriage/internal/domain/error"
)

// BankAccount owns operations. The core never interprets it beyond its id.
type BankAccount struct {
	ID       uint64
	Name     string
	Slug     string
	Currency string
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// Validate checks required fields and derives a slug from the name when absent
func (b *BankAccount) Validate() error {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return fmt.Errorf("%w: name is required", errs.ErrInvalidBankAccount)
	}

	if strings.TrimSpace(b.Slug) == "" {
		b.Slug = strings.Trim(slugCleaner.ReplaceAllString(strings.ToLower(b.Name), "-"), "-")
	}
	b.Currency = strings.ToUpper(strings.TrimSpace(b.Currency))
	if b.Currency == "" {
		b.Currency = DefaultCurrency
	}
	if len(b.Currency) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter code", errs.ErrInvalidBankAccount)
	}
	return nil
}

// DefaultCurrency is used when a bank account is saved without one
const DefaultCurrency = "EUR"

package model

import (
	"time"
)

// BankAccount represents the database model for bank accounts
type BankAccount struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"size:255;not null"`
	Slug      string    `gorm:"size:255;not null;uniqueIndex"`
	Currency  string    `gorm:"size:3;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for BankAccount
func (BankAccount) TableName() string {
	return "bank_accounts"
}

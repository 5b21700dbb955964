package model

import (
	"time"
)

// Operation represents the database model for operations.
// State holds the v1 textual encoding of the triage state.
type Operation struct {
	ID                uint64    `gorm:"primaryKey;autoIncrement"`
	OperationDate     string    `gorm:"column:operation_date;size:32;not null"`
	Type              string    `gorm:"column:op_type;size:64;not null"`
	TypeDisplay       string    `gorm:"size:255"`
	Details           string    `gorm:"type:text"`
	AmountInCents     int64     `gorm:"not null"`
	Hash              string    `gorm:"size:255;not null;index:idx_operations_hash"`
	State             string    `gorm:"size:32;not null;default:Ok;index:idx_operations_state"`
	IgnoredFromCharts bool      `gorm:"not null;default:false"`
	BankAccountID     uint64    `gorm:"not null;index"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}

// TableName specifies the table name for Operation
func (Operation) TableName() string {
	return "operations"
}

// OperationTag associates a tag with an operation
type OperationTag struct {
	OperationID uint64    `gorm:"primaryKey;autoIncrement:false"`
	TagID       uint64    `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName specifies the table name for OperationTag
func (OperationTag) TableName() string {
	return "operation_tags"
}

package model

import (
	"time"
)

// Tag represents the database model for tags
type Tag struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"size:255;not null;uniqueIndex"`
	Color     string    `gorm:"size:32"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for Tag
func (Tag) TableName() string {
	return "tags"
}

// TagRule represents the database model for tag rules
type TagRule struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	TagID     uint64 `gorm:"not null;index"`
	Kind      string `gorm:"size:32;not null"`
	Value     string `gorm:"type:text"`
	AmountMin *int64
	AmountMax *int64
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for TagRule
func (TagRule) TableName() string {
	return "tag_rules"
}

package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ContactStatusNew      = "new"
	ContactStatusRead     = "read"
	ContactStatusResolved = "resolved"
)

type ContactRequest struct {
	ID        string `gorm:"size:36;not null;uniqueIndex;primary_key"`
	Name      string `gorm:"size:100;not null"`
	Email     string `gorm:"size:100;not null"`
	Phone     string `gorm:"size:20"`
	Message   string `gorm:"type:text;not null"`
	Status    string `gorm:"size:20;not null;default:'new'"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
}

// CycleStatus advances new -> read -> resolved -> new.
func (c *ContactRequest) CycleStatus() {
	switch c.Status {
	case ContactStatusNew:
		c.Status = ContactStatusRead
	case ContactStatusRead:
		c.Status = ContactStatusResolved
	default:
		c.Status = ContactStatusNew
	}
}

package models

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID          string    `gorm:"size:36;not null;uniqueIndex;primary_key"`
	Name        string    `gorm:"size:100;not null;index"`
	Slug        string    `gorm:"size:100;not null;uniqueIndex"`
	Description string    `gorm:"type:text"`
	Image       string    `gorm:"size:255"`
	ParentID    *string   `gorm:"size:36;index"`
	Parent      *Category `gorm:"foreignKey:ParentID"`
	Children    []Category `gorm:"foreignKey:ParentID"`
	Products    []Product  `gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

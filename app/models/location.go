package models

import (
	"time"

	"gorm.io/gorm"
)

type Region struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key"`
	Name      string    `gorm:"size:100;not null;index"`
	ParentID  *string   `gorm:"size:36;index"`
	Parent    *Region   `gorm:"foreignKey:ParentID"`
	Children  []Region  `gorm:"foreignKey:ParentID"`
	Cities    []City    `gorm:"foreignKey:RegionID"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type City struct {
	ID        string `gorm:"size:36;not null;uniqueIndex;primary_key"`
	Name      string `gorm:"size:100;not null;index"`
	RegionID  string `gorm:"size:36;not null;index"`
	Region    Region `gorm:"foreignKey:RegionID"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

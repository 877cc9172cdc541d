package models

import (
	"time"

	"gorm.io/gorm"
)

type Review struct {
	ID          string   `gorm:"size:36;not null;uniqueIndex;primary_key"`
	SellerID    string   `gorm:"size:36;not null;index"`
	Seller      User     `gorm:"foreignKey:SellerID"`
	BuyerID     string   `gorm:"size:36;not null;index"`
	Buyer       User     `gorm:"foreignKey:BuyerID"`
	ProductID   *string  `gorm:"size:36;index"`
	Product     *Product `gorm:"foreignKey:ProductID"`
	Rating      int      `gorm:"not null"`
	Comment     string   `gorm:"type:text"`
	IsPublished bool     `gorm:"default:true;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

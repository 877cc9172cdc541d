package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID            string `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Email         string `gorm:"size:100;not null;uniqueIndex"`
	Password      string `gorm:"size:255;not null"`
	CompanyName   string `gorm:"size:200;not null"`
	INN           string `gorm:"size:12"`
	LegalAddress  string `gorm:"type:text"`
	ContactPerson string `gorm:"size:100"`
	Position      string `gorm:"size:100"`
	Phone         string `gorm:"size:20"`
	Industry      string `gorm:"size:100"`
	About         string `gorm:"type:text"`
	Role          string `gorm:"size:20;default:'user';not null"`
	IsActive      bool   `gorm:"default:true;not null"`
	Products      []Product `gorm:"foreignKey:UserID"`
	Favorites     []Product `gorm:"many2many:user_favorites;"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

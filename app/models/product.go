package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusPublished           = "published"
	StatusUnderReview         = "under_review"
	StatusReadyForPublication = "ready_for_publication"
	StatusUnpublished         = "unpublished"
)

// PublicationPeriod is how long a listing stays published before it expires.
const PublicationPeriod = 30 * 24 * time.Hour

const imageSeparator = ";"

type Product struct {
	ID          string          `gorm:"size:36;not null;uniqueIndex;primary_key"`
	UserID      string          `gorm:"size:36;not null;index"`
	User        User            `gorm:"foreignKey:UserID"`
	CategoryID  string          `gorm:"size:36;not null;index"`
	Category    Category        `gorm:"foreignKey:CategoryID"`
	Title       string          `gorm:"size:200;not null"`
	Slug        string          `gorm:"size:255;not null;uniqueIndex"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(16,2);not null"`
	Quantity    int             `gorm:"not null;default:1"`
	Images      string          `gorm:"type:text"`
	Status      string          `gorm:"size:30;not null;default:'published';index"`
	RegionID    *string         `gorm:"size:36;index"`
	Region      *Region         `gorm:"foreignKey:RegionID"`
	CityID      *string         `gorm:"size:36;index"`
	City        *City           `gorm:"foreignKey:CityID"`
	// Snapshot names survive deletion of the referenced Region/City row.
	RegionName string `gorm:"size:100"`
	CityName   string `gorm:"size:100"`
	ExpiresAt  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.Status == "" {
		p.Status = StatusPublished
	}
	if p.ExpiresAt.IsZero() {
		p.ExpiresAt = time.Now().Add(PublicationPeriod)
	}
	return nil
}

// UpdateStatus applies the lazy expiry transition. It reports whether the
// status changed so callers know the row needs saving.
func (p *Product) UpdateStatus(now time.Time) bool {
	if p.Status == StatusPublished && now.After(p.ExpiresAt) {
		p.Status = StatusReadyForPublication
		return true
	}
	return false
}

func (p *Product) RenewPublication(now time.Time) {
	p.Status = StatusPublished
	p.ExpiresAt = now.Add(PublicationPeriod)
}

func (p *Product) Unpublish() {
	p.Status = StatusUnpublished
}

func (p *Product) IsPublished() bool {
	return p.Status == StatusPublished
}

func (p *Product) IsExpired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

func (p *Product) DaysRemaining(now time.Time) int {
	if p.Status != StatusPublished {
		return 0
	}
	remaining := int(p.ExpiresAt.Sub(now).Hours() / 24)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// VisibleTo implements the visibility rule: published listings are public,
// everything else is owner/admin only.
func (p *Product) VisibleTo(userID string, isAdmin bool) bool {
	if p.IsPublished() {
		return true
	}
	return isAdmin || (userID != "" && userID == p.UserID)
}

func (p *Product) StatusText() string {
	switch p.Status {
	case StatusPublished:
		return "Published"
	case StatusUnderReview:
		return "Under review"
	case StatusReadyForPublication:
		return "Ready for publication"
	case StatusUnpublished:
		return "Unpublished"
	}
	return "Unknown"
}

func (p *Product) ImageList() []string {
	if p.Images == "" {
		return nil
	}
	parts := strings.Split(p.Images, imageSeparator)
	images := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			images = append(images, part)
		}
	}
	return images
}

func (p *Product) SetImageList(images []string) {
	p.Images = strings.Join(images, imageSeparator)
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUpdateStatusExpiresPublished(t *testing.T) {
	now := time.Now()
	product := &Product{
		Status:    StatusPublished,
		ExpiresAt: now.Add(-time.Hour),
	}

	changed := product.UpdateStatus(now)

	assert.True(t, changed)
	assert.Equal(t, StatusReadyForPublication, product.Status)
}

func TestUpdateStatusLeavesCurrentListings(t *testing.T) {
	now := time.Now()
	product := &Product{
		Status:    StatusPublished,
		ExpiresAt: now.Add(time.Hour),
	}

	assert.False(t, product.UpdateStatus(now))
	assert.Equal(t, StatusPublished, product.Status)
}

func TestUpdateStatusIgnoresUnpublished(t *testing.T) {
	now := time.Now()
	product := &Product{
		Status:    StatusUnpublished,
		ExpiresAt: now.Add(-time.Hour),
	}

	assert.False(t, product.UpdateStatus(now))
	assert.Equal(t, StatusUnpublished, product.Status)
}

func TestRenewPublication(t *testing.T) {
	now := time.Now()
	product := &Product{
		Status:    StatusReadyForPublication,
		ExpiresAt: now.Add(-48 * time.Hour),
	}

	product.RenewPublication(now)

	assert.Equal(t, StatusPublished, product.Status)
	assert.WithinDuration(t, now.Add(PublicationPeriod), product.ExpiresAt, time.Second)
}

func TestUnpublish(t *testing.T) {
	product := &Product{Status: StatusPublished}
	product.Unpublish()
	assert.Equal(t, StatusUnpublished, product.Status)
}

func TestVisibleTo(t *testing.T) {
	published := &Product{UserID: "owner", Status: StatusPublished}
	hidden := &Product{UserID: "owner", Status: StatusUnpublished}

	assert.True(t, published.VisibleTo("", false), "published listings are public")
	assert.True(t, published.VisibleTo("stranger", false))

	assert.False(t, hidden.VisibleTo("", false), "anonymous visitors never see hidden listings")
	assert.False(t, hidden.VisibleTo("stranger", false))
	assert.True(t, hidden.VisibleTo("owner", false))
	assert.True(t, hidden.VisibleTo("stranger", true), "admins see everything")
}

func TestDaysRemaining(t *testing.T) {
	now := time.Now()

	product := &Product{Status: StatusPublished, ExpiresAt: now.Add(10*24*time.Hour + time.Hour)}
	assert.Equal(t, 10, product.DaysRemaining(now))

	expired := &Product{Status: StatusPublished, ExpiresAt: now.Add(-time.Hour)}
	assert.Equal(t, 0, expired.DaysRemaining(now))

	unpublished := &Product{Status: StatusUnpublished, ExpiresAt: now.Add(10 * 24 * time.Hour)}
	assert.Equal(t, 0, unpublished.DaysRemaining(now))
}

func TestImageListRoundTrip(t *testing.T) {
	product := &Product{}
	product.SetImageList([]string{"a.jpg", "b.png"})

	assert.Equal(t, "a.jpg;b.png", product.Images)
	assert.Equal(t, []string{"a.jpg", "b.png"}, product.ImageList())

	empty := &Product{}
	assert.Nil(t, empty.ImageList())
}

package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryDeleteBlockedByChildren(t *testing.T) {
	db := testDB(t)
	repo := NewCategoryRepository(db)

	parent := createTestCategory(t, db, "Parent", nil)
	createTestCategory(t, db, "Child", &parent.ID)

	err := repo.Delete(ctx(), parent.ID)
	assert.ErrorIs(t, err, ErrNodeInUse)

	found, err := repo.GetByID(ctx(), parent.ID)
	require.NoError(t, err)
	assert.NotNil(t, found, "blocked delete must leave the row in place")
}

func TestCategoryDeleteBlockedByProducts(t *testing.T) {
	db := testDB(t)
	repo := NewCategoryRepository(db)

	category := createTestCategory(t, db, "Equipment", nil)
	user := createTestUser(t, db)
	createTestProduct(t, db, user.ID, category.ID, "published", time.Now().Add(time.Hour))

	assert.ErrorIs(t, repo.Delete(ctx(), category.ID), ErrNodeInUse)
}

func TestCategoryDeleteLeafSucceeds(t *testing.T) {
	db := testDB(t)
	repo := NewCategoryRepository(db)

	category := createTestCategory(t, db, "Empty", nil)
	require.NoError(t, repo.Delete(ctx(), category.ID))

	found, err := repo.GetByID(ctx(), category.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestCategoryCreateRejectsDuplicateNamePerParent(t *testing.T) {
	db := testDB(t)
	repo := NewCategoryRepository(db)

	parent := createTestCategory(t, db, "Parent", nil)

	first := createTestCategory(t, db, "Tools", &parent.ID)
	_ = first

	duplicate := createCategoryModel("Tools", &parent.ID)
	assert.ErrorIs(t, repo.Create(ctx(), duplicate), ErrDuplicateName)

	// Same name under a different parent is fine.
	elsewhere := createCategoryModel("Tools", nil)
	assert.NoError(t, repo.Create(ctx(), elsewhere))
}

func TestCategoryUpdateRejectsSelfParent(t *testing.T) {
	db := testDB(t)
	repo := NewCategoryRepository(db)

	category := createTestCategory(t, db, "Loop", nil)
	category.ParentID = &category.ID

	assert.ErrorIs(t, repo.Update(ctx(), category), ErrSelfParent)
}

func TestCategoryDeleteEmptyRemovesEmptiedParents(t *testing.T) {
	db := testDB(t)
	repo := NewCategoryRepository(db)

	parent := createTestCategory(t, db, "Parent", nil)
	createTestCategory(t, db, "Child", &parent.ID)

	used := createTestCategory(t, db, "Used", nil)
	user := createTestUser(t, db)
	createTestProduct(t, db, user.ID, used.ID, "published", time.Now().Add(time.Hour))

	removed, err := repo.DeleteEmpty(ctx())
	require.NoError(t, err)
	assert.Equal(t, 2, removed, "child and then the emptied parent should go")

	remaining, err := repo.GetAll(ctx())
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, used.ID, remaining[0].ID)
}

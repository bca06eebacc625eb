package data_test

import (
	"context"
	"testing"

	"go-blog-cms/internal/data"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository_CreateAndGetBySlug(t *testing.T) {
	ctx := context.Background()
	_, _, categories := setupRepos(t)

	description := "The React framework"
	category := &data.Category{Name: "Next.js", Description: &description, Slug: "nextjs"}
	require.NoError(t, categories.Create(ctx, category))
	assert.NotZero(t, category.ID)

	got, err := categories.GetBySlug(ctx, "nextjs")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, category, got)
}

func TestCategoryRepository_GetBySlug_NotFound(t *testing.T) {
	_, _, categories := setupRepos(t)

	got, err := categories.GetBySlug(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCategoryRepository_Create_DuplicateSlug(t *testing.T) {
	ctx := context.Background()
	_, _, categories := setupRepos(t)
	createCategory(t, categories, "Go", "go")

	err := categories.Create(ctx, &data.Category{Name: "GO", Slug: "go"})
	require.Error(t, err)
	assert.True(t, data.IsUniqueViolation(err), "expected unique violation, got %v", err)
}

func TestCategoryRepository_Update(t *testing.T) {
	ctx := context.Background()
	_, _, categories := setupRepos(t)
	id := createCategory(t, categories, "Golang", "golang")

	updated, err := categories.Update(ctx, &data.Category{ID: id, Name: "Go", Slug: "go"})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Go", updated.Name)
	assert.Equal(t, "go", updated.Slug)
	assert.Nil(t, updated.Description)

	missing, err := categories.Update(ctx, &data.Category{ID: id + 100, Name: "X", Slug: "x"})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCategoryRepository_GetAll_OrderedByName(t *testing.T) {
	_, _, categories := setupRepos(t)
	createCategory(t, categories, "Zig", "zig")
	createCategory(t, categories, "Ada", "ada")
	createCategory(t, categories, "Go", "go")

	all, err := categories.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Ada", all[0].Name)
	assert.Equal(t, "Go", all[1].Name)
	assert.Equal(t, "Zig", all[2].Name)
}

func TestCategoryRepository_Delete(t *testing.T) {
	ctx := context.Background()
	db, posts, categories := setupRepos(t)
	aID := createCategory(t, categories, "A", "a")
	bID := createCategory(t, categories, "B", "b")
	createPost(t, posts, "Tagged", "tagged", true, aID, bID)

	require.NoError(t, categories.Delete(ctx, aID))

	got, err := categories.GetBySlug(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got)

	post, err := posts.GetBySlug(ctx, "tagged")
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, []data.CategoryRef{{ID: bID, Name: "B"}}, post.Categories)

	var links int
	require.NoError(t, db.Get(&links, `SELECT COUNT(*) FROM post_categories WHERE category_id = ?`, aID))
	assert.Zero(t, links)

	assert.NoError(t, categories.Delete(ctx, aID), "delete must be idempotent")
}

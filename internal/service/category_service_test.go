package service

import (
	"context"
	"errors"
	"testing"

	"go-blog-cms/internal/data"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCategoryRepository is a mock implementation of the CategoryRepository interface.
type mockCategoryRepository struct {
	errToReturn        error
	categoryToReturn   *data.Category
	categoriesToReturn []*data.Category
	createCalled       bool
	updateCalled       bool
	lastCategoryPassed *data.Category
	lastSlugPassed     string
	deletedID          int64
}

var _ CategoryRepository = (*mockCategoryRepository)(nil)

func (m *mockCategoryRepository) Create(ctx context.Context, category *data.Category) error {
	m.createCalled = true
	m.lastCategoryPassed = category
	if m.errToReturn != nil {
		return m.errToReturn
	}
	category.ID = 1
	return nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *data.Category) (*data.Category, error) {
	m.updateCalled = true
	m.lastCategoryPassed = category
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	return m.categoryToReturn, nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id int64) error {
	m.deletedID = id
	return m.errToReturn
}

func (m *mockCategoryRepository) GetAll(ctx context.Context) ([]*data.Category, error) {
	return m.categoriesToReturn, m.errToReturn
}

func (m *mockCategoryRepository) GetBySlug(ctx context.Context, slug string) (*data.Category, error) {
	m.lastSlugPassed = slug
	return m.categoryToReturn, m.errToReturn
}

func TestCategoryService_CreateCategory(t *testing.T) {
	repo := &mockCategoryRepository{}
	svc := NewCategoryService(repo)

	category, err := svc.CreateCategory(context.Background(), CreateCategoryInput{
		Name:        "Next.js",
		Description: strPtr("React framework"),
	})

	require.NoError(t, err)
	assert.True(t, repo.createCalled)
	assert.Equal(t, int64(1), category.ID)
	assert.Equal(t, "Next.js", category.Name)
	assert.Equal(t, "nextjs", category.Slug)
	require.NotNil(t, category.Description)
	assert.Equal(t, "React framework", *category.Description)
}

func TestCategoryService_CreateCategory_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   CreateCategoryInput
	}{
		{"empty name", CreateCategoryInput{Name: ""}},
		{"name without letters or digits", CreateCategoryInput{Name: "!!!"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockCategoryRepository{}
			svc := NewCategoryService(repo)

			_, err := svc.CreateCategory(context.Background(), tt.in)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Fields, "name")
			assert.False(t, repo.createCalled, "repository must not be called on invalid input")
		})
	}
}

func TestCategoryService_CreateCategory_RepositoryError(t *testing.T) {
	dbErr := errors.New("duplicate slug")
	svc := NewCategoryService(&mockCategoryRepository{errToReturn: dbErr})

	_, err := svc.CreateCategory(context.Background(), CreateCategoryInput{Name: "Tech"})
	assert.ErrorIs(t, err, dbErr)
}

func TestCategoryService_UpdateCategory(t *testing.T) {
	updated := &data.Category{ID: 7, Name: "Go Lang", Slug: "go-lang"}
	repo := &mockCategoryRepository{categoryToReturn: updated}
	svc := NewCategoryService(repo)

	got, err := svc.UpdateCategory(context.Background(), UpdateCategoryInput{
		ID:                  7,
		CreateCategoryInput: CreateCategoryInput{Name: "Go Lang"},
	})

	require.NoError(t, err)
	assert.Same(t, updated, got)
	require.NotNil(t, repo.lastCategoryPassed)
	assert.Equal(t, int64(7), repo.lastCategoryPassed.ID)
	assert.Equal(t, "go-lang", repo.lastCategoryPassed.Slug)
}

func TestCategoryService_UpdateCategory_NotFound(t *testing.T) {
	repo := &mockCategoryRepository{}
	svc := NewCategoryService(repo)

	got, err := svc.UpdateCategory(context.Background(), UpdateCategoryInput{
		ID:                  42,
		CreateCategoryInput: CreateCategoryInput{Name: "Missing"},
	})

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.True(t, repo.updateCalled)
}

func TestCategoryService_UpdateCategory_Invalid(t *testing.T) {
	repo := &mockCategoryRepository{}
	svc := NewCategoryService(repo)

	_, err := svc.UpdateCategory(context.Background(), UpdateCategoryInput{ID: 1})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "is required", validationErr.Fields["name"])
	assert.False(t, repo.updateCalled)
}

func TestCategoryService_DeleteCategory(t *testing.T) {
	repo := &mockCategoryRepository{}
	svc := NewCategoryService(repo)

	require.NoError(t, svc.DeleteCategory(context.Background(), 3))
	assert.Equal(t, int64(3), repo.deletedID)
}

func TestCategoryService_Reads(t *testing.T) {
	tech := &data.Category{ID: 1, Name: "Tech", Slug: "tech"}
	repo := &mockCategoryRepository{categoryToReturn: tech, categoriesToReturn: []*data.Category{tech}}
	svc := NewCategoryService(repo)

	all, err := svc.GetAllCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []*data.Category{tech}, all)

	got, err := svc.GetCategoryBySlug(context.Background(), "tech")
	require.NoError(t, err)
	assert.Same(t, tech, got)
	assert.Equal(t, "tech", repo.lastSlugPassed)
}

package service

import (
	"context"

	"go-blog-cms/internal/data"
	"go-blog-cms/internal/slug"
)

// CategoryRepository defines the interface for database operations on categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *data.Category) error
	Update(ctx context.Context, category *data.Category) (*data.Category, error)
	Delete(ctx context.Context, id int64) error
	GetAll(ctx context.Context) ([]*data.Category, error)
	GetBySlug(ctx context.Context, slug string) (*data.Category, error)
}

// CategoryServicer defines the interface for interacting with categories.
type CategoryServicer interface {
	CreateCategory(ctx context.Context, in CreateCategoryInput) (*data.Category, error)
	UpdateCategory(ctx context.Context, in UpdateCategoryInput) (*data.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	GetAllCategories(ctx context.Context) ([]*data.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*data.Category, error)
}

// CreateCategoryInput is the input of CreateCategory.
type CreateCategoryInput struct {
	Name        string  `json:"name" validate:"required,min=1"`
	Description *string `json:"description"`
}

// UpdateCategoryInput is the input of UpdateCategory.
type UpdateCategoryInput struct {
	ID int64 `json:"id"`
	CreateCategoryInput
}

// CategoryService provides business logic for managing categories.
type CategoryService struct {
	repo      CategoryRepository
	validator *inputValidator
}

// NewCategoryService creates a new CategoryService with the given repository.
func NewCategoryService(repo CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo, validator: newInputValidator()}
}

// CreateCategory stores a new category whose slug is derived from its name.
func (s *CategoryService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*data.Category, error) {
	category, err := s.buildCategory(in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory renames the category with in.ID and re-derives its slug.
// It returns nil, nil when the category does not exist.
func (s *CategoryService) UpdateCategory(ctx context.Context, in UpdateCategoryInput) (*data.Category, error) {
	category, err := s.buildCategory(in.CreateCategoryInput)
	if err != nil {
		return nil, err
	}
	category.ID = in.ID
	return s.repo.Update(ctx, category)
}

func (s *CategoryService) buildCategory(in CreateCategoryInput) (*data.Category, error) {
	if err := s.validator.validate(in); err != nil {
		return nil, err
	}
	categorySlug := slug.Make(in.Name)
	if categorySlug == "" {
		return nil, fieldError("name", "must contain at least one letter or digit")
	}
	return &data.Category{Name: in.Name, Description: in.Description, Slug: categorySlug}, nil
}

// DeleteCategory removes a category; its posts lose the association.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// GetAllCategories retrieves all categories ordered by name.
func (s *CategoryService) GetAllCategories(ctx context.Context) ([]*data.Category, error) {
	return s.repo.GetAll(ctx)
}

// GetCategoryBySlug retrieves a category, or nil if none matches.
func (s *CategoryService) GetCategoryBySlug(ctx context.Context, slug string) (*data.Category, error) {
	return s.repo.GetBySlug(ctx, slug)
}

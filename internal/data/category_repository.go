package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CategoryRepository handles database operations for categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts a new category and sets its ID.
func (r *CategoryRepository) Create(ctx context.Context, category *Category) error {
	id, err := insertID(ctx, r.db,
		`INSERT INTO categories (name, description, slug) VALUES (?, ?, ?)`,
		category.Name, category.Description, category.Slug)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	category.ID = id
	return nil
}

// Update overwrites the category with category.ID.
// It returns nil, nil when no category has the id.
func (r *CategoryRepository) Update(ctx context.Context, category *Category) (*Category, error) {
	var updated *Category
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE categories SET name = ?, description = ?, slug = ? WHERE id = ?`),
			category.Name, category.Description, category.Slug, category.ID)
		if err != nil {
			return fmt.Errorf("failed to update category: %w", err)
		}
		updated, err = getCategory(ctx, tx, `id = ?`, category.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a category and its post associations. Deleting an id that
// does not exist is not an error.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM post_categories WHERE category_id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete category posts: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM categories WHERE id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
}

// GetAll retrieves all categories ordered by name.
func (r *CategoryRepository) GetAll(ctx context.Context) ([]*Category, error) {
	categories := make([]*Category, 0)
	err := r.db.SelectContext(ctx, &categories, `SELECT id, name, description, slug FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all categories: %w", err)
	}
	return categories, nil
}

// GetBySlug finds a category by its slug.
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	return getCategory(ctx, r.db, `slug = ?`, slug)
}

func getCategory(ctx context.Context, q sqlx.ExtContext, cond string, arg interface{}) (*Category, error) {
	var category Category
	query := q.Rebind(`SELECT id, name, description, slug FROM categories WHERE ` + cond)
	if err := sqlx.GetContext(ctx, q, &category, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found is not an error
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

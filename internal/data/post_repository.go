package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

const postColumns = `id, title, content, slug, image_url, published, created_at, updated_at`

// PostRepository runs post queries and mutations against the store.
type PostRepository struct {
	db *sqlx.DB
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

// now returns the timestamp stored for created_at and updated_at. MySQL and
// PostgreSQL keep microseconds, so anything finer would not round-trip.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Create inserts post and one join row per category id in a single
// transaction. On success post carries its new id and timestamps.
func (r *PostRepository) Create(ctx context.Context, post *Post, categoryIDs []int64) error {
	ts := now()
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		id, err := insertID(ctx, tx,
			`INSERT INTO posts (title, content, slug, image_url, published, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			post.Title, post.Content, post.Slug, post.ImageURL, post.Published, ts, ts)
		if err != nil {
			return fmt.Errorf("failed to insert post: %w", err)
		}
		if err := insertPostCategories(ctx, tx, id, categoryIDs); err != nil {
			return err
		}
		post.ID = id
		return nil
	})
	if err != nil {
		return err
	}
	post.CreatedAt = ts
	post.UpdatedAt = ts
	return nil
}

// Update overwrites every column of the post with post.ID and bumps
// updated_at. A nil categoryIDs leaves the associations alone; any other value,
// empty included, replaces them. It returns nil, nil when no post has the id.
func (r *PostRepository) Update(ctx context.Context, post *Post, categoryIDs []int64) (*Post, error) {
	var updated *Post
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(
			`UPDATE posts SET title = ?, content = ?, slug = ?, image_url = ?, published = ?, updated_at = ? WHERE id = ?`),
			post.Title, post.Content, post.Slug, post.ImageURL, post.Published, now(), post.ID)
		if err != nil {
			return fmt.Errorf("failed to update post: %w", err)
		}

		// RowsAffected is not usable here: MySQL reports 0 when nothing changed.
		updated, err = getPostByID(ctx, tx, post.ID)
		if err != nil || updated == nil {
			return err
		}

		if categoryIDs == nil {
			return nil
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM post_categories WHERE post_id = ?`), post.ID); err != nil {
			return fmt.Errorf("failed to clear post categories: %w", err)
		}
		return insertPostCategories(ctx, tx, post.ID, categoryIDs)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a post and its category associations. Deleting an id that
// does not exist is not an error.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM post_categories WHERE post_id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete post categories: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM posts WHERE id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}
		return nil
	})
}

// GetBySlug retrieves a post and its categories by exact slug.
// It returns nil, nil when no post matches.
func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*PostWithCategories, error) {
	var post Post
	query := r.db.Rebind(`SELECT ` + postColumns + ` FROM posts WHERE slug = ?`)
	if err := r.db.GetContext(ctx, &post, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post by slug: %w", err)
	}

	categories := []CategoryRef{}
	query = r.db.Rebind(`
		SELECT c.id, c.name
		FROM post_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.post_id = ?
		ORDER BY pc.id`)
	if err := r.db.SelectContext(ctx, &categories, query, post.ID); err != nil {
		return nil, fmt.Errorf("failed to get categories for post: %w", err)
	}
	if categories == nil {
		categories = []CategoryRef{}
	}
	return &PostWithCategories{Post: post, Categories: categories}, nil
}

// postCategoryRow is one row of the posts x categories join in GetAll.
type postCategoryRow struct {
	PostSummary
	CategoryName *string `db:"category_name"`
}

// GetAll retrieves every post, oldest first, each with the names of its
// categories in association order.
func (r *PostRepository) GetAll(ctx context.Context) ([]*PostListItem, error) {
	var rows []postCategoryRow
	query := `
		SELECT p.id, p.title, p.slug, p.image_url, p.published, p.created_at, c.name AS category_name
		FROM posts p
		LEFT JOIN post_categories pc ON pc.post_id = p.id
		LEFT JOIN categories c ON c.id = pc.category_id
		ORDER BY p.created_at, p.id, pc.id`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to get all posts: %w", err)
	}
	return groupPostRows(rows), nil
}

// groupPostRows folds join rows into one item per post, keeping the order in
// which each post was first seen.
func groupPostRows(rows []postCategoryRow) []*PostListItem {
	items := make([]*PostListItem, 0)
	byID := make(map[int64]*PostListItem)
	for _, row := range rows {
		item, ok := byID[row.ID]
		if !ok {
			item = &PostListItem{PostSummary: row.PostSummary, Categories: []string{}}
			byID[row.ID] = item
			items = append(items, item)
		}
		if row.CategoryName != nil {
			item.Categories = append(item.Categories, *row.CategoryName)
		}
	}
	return items
}

// GetByFilter retrieves published posts, newest first. A non-empty
// filter.Category keeps posts with a category whose name contains it, and a
// non-empty filter.Query keeps posts whose title contains it. Both matches
// ignore case.
func (r *PostRepository) GetByFilter(ctx context.Context, filter PostFilter) ([]*PostSummary, error) {
	var (
		sb    strings.Builder
		where = []string{"p.published = ?"}
		args  = []interface{}{true}
	)

	if filter.Category != "" {
		sb.WriteString(`SELECT DISTINCT p.id, p.title, p.slug, p.image_url, p.published, p.created_at FROM posts p
		JOIN post_categories pc ON pc.post_id = p.id
		JOIN categories c ON c.id = pc.category_id`)
		where = append(where, containsCondition(r.db.DriverName(), "c.name"))
		args = append(args, containsPattern(filter.Category))
	} else {
		sb.WriteString(`SELECT p.id, p.title, p.slug, p.image_url, p.published, p.created_at FROM posts p`)
	}
	if filter.Query != "" {
		where = append(where, containsCondition(r.db.DriverName(), "p.title"))
		args = append(args, containsPattern(filter.Query))
	}
	sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	sb.WriteString(" ORDER BY p.created_at DESC, p.id DESC")

	posts := make([]*PostSummary, 0)
	if err := r.db.SelectContext(ctx, &posts, r.db.Rebind(sb.String()), args...); err != nil {
		return nil, fmt.Errorf("failed to get posts by filter: %w", err)
	}
	return posts, nil
}

// GetPublished retrieves every published post, most recently updated first.
func (r *PostRepository) GetPublished(ctx context.Context) ([]*Post, error) {
	posts := make([]*Post, 0)
	query := r.db.Rebind(`SELECT ` + postColumns + ` FROM posts WHERE published = ? ORDER BY updated_at DESC, id DESC`)
	if err := r.db.SelectContext(ctx, &posts, query, true); err != nil {
		return nil, fmt.Errorf("failed to get published posts: %w", err)
	}
	return posts, nil
}

// likeEscaper escapes LIKE wildcards with '!', which needs no quoting in any
// of the supported dialects.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsCondition matches column against a containsPattern argument. The
// column is lowered with Unicode rules on every driver.
func containsCondition(driver, column string) string {
	lower := "LOWER"
	if driver == "sqlite" {
		lower = "unicode_lower"
	}
	return lower + "(" + column + ") LIKE ? ESCAPE '!'"
}

// containsPattern builds a LIKE pattern matching term literally anywhere.
// The column side is lowered in SQL, so the term is lowered here.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

func getPostByID(ctx context.Context, tx *sqlx.Tx, id int64) (*Post, error) {
	var post Post
	query := tx.Rebind(`SELECT ` + postColumns + ` FROM posts WHERE id = ?`)
	if err := tx.GetContext(ctx, &post, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}
	return &post, nil
}

func insertPostCategories(ctx context.Context, tx *sqlx.Tx, postID int64, categoryIDs []int64) error {
	query := tx.Rebind(`INSERT INTO post_categories (post_id, category_id) VALUES (?, ?)`)
	for _, categoryID := range categoryIDs {
		if _, err := tx.ExecContext(ctx, query, postID, categoryID); err != nil {
			return fmt.Errorf("failed to link post %d to category %d: %w", postID, categoryID, err)
		}
	}
	return nil
}

package data

import "time"

// Post represents a single blog post in the database.
type Post struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	Slug      string    `db:"slug" json:"slug"`
	ImageURL  *string   `db:"image_url" json:"imageUrl"`
	Published bool      `db:"published" json:"published"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// PostWithCategories is a post together with the categories it is filed under.
type PostWithCategories struct {
	Post
	Categories []CategoryRef `db:"-" json:"categories"`
}

// PostSummary is the listing view of a post, without content.
type PostSummary struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Slug      string    `db:"slug" json:"slug"`
	ImageURL  *string   `db:"image_url" json:"imageUrl"`
	Published bool      `db:"published" json:"published"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// PostListItem is a post summary with the names of its categories.
type PostListItem struct {
	PostSummary
	Categories []string `db:"-" json:"categories"`
}

// PostFilter narrows GetByFilter. Empty fields do not filter.
type PostFilter struct {
	Category string
	Query    string
}

// Category represents a category posts can be filed under.
type Category struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description"`
	Slug        string  `db:"slug" json:"slug"`
}

// CategoryRef is the short form of a category embedded in a post.
type CategoryRef struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

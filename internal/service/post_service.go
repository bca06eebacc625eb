package service

import (
	"context"
	"strings"

	"go-blog-cms/internal/data"
	"go-blog-cms/internal/slug"

	"github.com/microcosm-cc/bluemonday"
)

// PostRepository defines the interface for database operations on posts.
type PostRepository interface {
	Create(ctx context.Context, post *data.Post, categoryIDs []int64) error
	Update(ctx context.Context, post *data.Post, categoryIDs []int64) (*data.Post, error)
	Delete(ctx context.Context, id int64) error
	GetBySlug(ctx context.Context, slug string) (*data.PostWithCategories, error)
	GetAll(ctx context.Context) ([]*data.PostListItem, error)
	GetByFilter(ctx context.Context, filter data.PostFilter) ([]*data.PostSummary, error)
	GetPublished(ctx context.Context) ([]*data.Post, error)
}

// PostServicer defines the interface for interacting with posts.
type PostServicer interface {
	CreatePost(ctx context.Context, in CreatePostInput) (*data.Post, error)
	UpdatePost(ctx context.Context, in UpdatePostInput) (*data.Post, error)
	DeletePost(ctx context.Context, id int64) error
	GetPostBySlug(ctx context.Context, slug string) (*data.PostWithCategories, error)
	GetAllPosts(ctx context.Context) ([]*data.PostListItem, error)
	GetPostsByFilter(ctx context.Context, filter data.PostFilter) ([]*data.PostSummary, error)
	GetPublishedPosts(ctx context.Context) ([]*data.Post, error)
}

// CreatePostInput is the input of CreatePost.
type CreatePostInput struct {
	Title       string  `json:"title" validate:"required,min=1"`
	Content     string  `json:"content" validate:"required,min=1"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url"`
	Published   *bool   `json:"published"`
	CategoryIDs []int64 `json:"categoryIds" validate:"omitempty,dive,gt=0"`
}

// UpdatePostInput is the input of UpdatePost. Every field is overwritten;
// a missing published flag means false. CategoryIDs follows the rules of
// data.PostRepository.Update: nil keeps the current categories.
type UpdatePostInput struct {
	ID int64 `json:"id"`
	CreatePostInput
}

// PostService provides business logic for managing posts.
type PostService struct {
	repo      PostRepository
	sanitizer *bluemonday.Policy
	validator *inputValidator
}

// NewPostService creates a new PostService with the given repository.
func NewPostService(repo PostRepository) *PostService {
	return &PostService{
		repo:      repo,
		sanitizer: bluemonday.UGCPolicy(),
		validator: newInputValidator(),
	}
}

// CreatePost validates the input, sanitizes the content and stores a new post
// whose slug is derived from the title.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*data.Post, error) {
	post, err := s.buildPost(in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, post, in.CategoryIDs); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost overwrites the post with in.ID, re-deriving its slug from the
// new title. It returns nil, nil when the post does not exist.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*data.Post, error) {
	post, err := s.buildPost(in.CreatePostInput)
	if err != nil {
		return nil, err
	}
	post.ID = in.ID
	return s.repo.Update(ctx, post, in.CategoryIDs)
}

func (s *PostService) buildPost(in CreatePostInput) (*data.Post, error) {
	// Forms send an empty string for "no image".
	if in.ImageURL != nil && strings.TrimSpace(*in.ImageURL) == "" {
		in.ImageURL = nil
	}
	if err := s.validator.validate(in); err != nil {
		return nil, err
	}

	postSlug := slug.Make(in.Title)
	if postSlug == "" {
		return nil, fieldError("title", "must contain at least one letter or digit")
	}

	// Sanitize the user-provided content to prevent XSS attacks.
	content := s.sanitizer.Sanitize(in.Content)
	if strings.TrimSpace(content) == "" {
		return nil, fieldError("content", "must contain some allowed content")
	}

	return &data.Post{
		Title:     in.Title,
		Content:   content,
		Slug:      postSlug,
		ImageURL:  in.ImageURL,
		Published: in.Published != nil && *in.Published,
	}, nil
}

// DeletePost removes a post and its category associations.
func (s *PostService) DeletePost(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// GetPostBySlug retrieves a post with its categories, or nil if none matches.
func (s *PostService) GetPostBySlug(ctx context.Context, slug string) (*data.PostWithCategories, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// GetAllPosts retrieves every post, published or not, oldest first.
func (s *PostService) GetAllPosts(ctx context.Context) ([]*data.PostListItem, error) {
	return s.repo.GetAll(ctx)
}

// GetPostsByFilter retrieves published posts matching the filter.
func (s *PostService) GetPostsByFilter(ctx context.Context, filter data.PostFilter) ([]*data.PostSummary, error) {
	return s.repo.GetByFilter(ctx, filter)
}

// GetPublishedPosts retrieves every published post with its full content.
func (s *PostService) GetPublishedPosts(ctx context.Context) ([]*data.Post, error) {
	return s.repo.GetPublished(ctx)
}

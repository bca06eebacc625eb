package handler

import (
	"errors"
	"net/http"

	"go-blog-cms/internal/data"
	"go-blog-cms/internal/logger"
	"go-blog-cms/internal/middleware"
	"go-blog-cms/internal/service"
	"go-blog-cms/internal/view"

	"github.com/go-chi/chi/v5"
)

var errNotFound = errors.New("not found")

// PageHandler holds the dependencies for the public blog pages.
type PageHandler struct {
	postService     service.PostServicer
	categoryService service.CategoryServicer
	view            *view.View
	log             logger.Logger
}

// NewPageHandler creates a new PageHandler with the given dependencies.
func NewPageHandler(ps service.PostServicer, cs service.CategoryServicer, v *view.View, log logger.Logger) *PageHandler {
	return &PageHandler{
		postService:     ps,
		categoryService: cs,
		view:            v,
		log:             log,
	}
}

// blogsHandler lists published posts, optionally narrowed by the category
// and q query parameters.
func (h *PageHandler) blogsHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	filter := data.PostFilter{
		Category: r.URL.Query().Get("category"),
		Query:    r.URL.Query().Get("q"),
	}

	posts, err := h.postService.GetPostsByFilter(r.Context(), filter)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to retrieve posts", Code: http.StatusInternalServerError}
	}
	categories, err := h.categoryService.GetAllCategories(r.Context())
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to retrieve categories", Code: http.StatusInternalServerError}
	}

	data := map[string]interface{}{
		"Posts":      posts,
		"Categories": categories,
		"Category":   filter.Category,
		"Query":      filter.Query,
	}
	if err := h.view.Render(w, r, "blogs.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render blog list", Code: http.StatusInternalServerError}
	}
	return nil
}

// postHandler renders a single published post.
func (h *PageHandler) postHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	slug := chi.URLParam(r, "slug")

	post, err := h.postService.GetPostBySlug(r.Context(), slug)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to retrieve post", Code: http.StatusInternalServerError}
	}
	// Drafts are only reachable through the RPC API.
	if post == nil || !post.Published {
		return &middleware.AppError{Error: errNotFound, Message: "Post not found", Code: http.StatusNotFound}
	}

	data := map[string]interface{}{
		"Post": post,
	}
	if err := h.view.Render(w, r, "post.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render post", Code: http.StatusInternalServerError}
	}
	return nil
}

// notFoundHandler renders the error page for unknown routes.
func (h *PageHandler) notFoundHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return &middleware.AppError{Error: errNotFound, Message: "Page not found", Code: http.StatusNotFound}
}

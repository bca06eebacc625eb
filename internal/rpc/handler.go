package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go-blog-cms/internal/data"
	"go-blog-cms/internal/logger"
	"go-blog-cms/internal/service"

	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds the JSON body of a single call.
const maxBodyBytes = 1 << 20

// Handler dispatches procedure calls to the post and category services.
type Handler struct {
	procedures map[string]procedure
	logger     logger.Logger
}

// NewHandler registers the post.* and category.* procedures.
func NewHandler(posts service.PostServicer, categories service.CategoryServicer, log logger.Logger) *Handler {
	h := &Handler{procedures: make(map[string]procedure), logger: log}

	h.procedures["post.create"] = mutation(posts.CreatePost)
	h.procedures["post.update"] = mutation(posts.UpdatePost)
	h.procedures["post.delete"] = mutation(func(ctx context.Context, in idInput) (successOutput, error) {
		if err := posts.DeletePost(ctx, in.ID); err != nil {
			return successOutput{}, err
		}
		return successOutput{Success: true}, nil
	})
	h.procedures["post.getBySlug"] = query(func(ctx context.Context, in slugInput) (*data.PostWithCategories, error) {
		return posts.GetPostBySlug(ctx, in.Slug)
	})
	h.procedures["post.getByFilter"] = query(func(ctx context.Context, in filterInput) ([]*data.PostSummary, error) {
		return posts.GetPostsByFilter(ctx, data.PostFilter{Category: in.Category, Query: in.Query})
	})
	h.procedures["post.getAll"] = query(func(ctx context.Context, _ noInput) ([]*data.PostListItem, error) {
		return posts.GetAllPosts(ctx)
	})

	h.procedures["category.create"] = mutation(categories.CreateCategory)
	h.procedures["category.update"] = mutation(categories.UpdateCategory)
	h.procedures["category.delete"] = mutation(func(ctx context.Context, in idInput) (successOutput, error) {
		if err := categories.DeleteCategory(ctx, in.ID); err != nil {
			return successOutput{}, err
		}
		return successOutput{Success: true}, nil
	})
	h.procedures["category.getAll"] = query(func(ctx context.Context, _ noInput) ([]*data.Category, error) {
		return categories.GetAllCategories(ctx)
	})
	h.procedures["category.getBySlug"] = query(func(ctx context.Context, in slugInput) (*data.Category, error) {
		return categories.GetCategoryBySlug(ctx, in.Slug)
	})

	return h
}

// Routes returns a router serving every procedure under /{procedure}.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{procedure}", h.serve)
	r.Post("/{procedure}", h.serve)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotSupported, "method "+r.Method+" is not supported", nil)
	})
	return r
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "procedure")
	proc, ok := h.procedures[name]
	if !ok {
		writeError(w, http.StatusNotFound, codeNotFound, "no procedure named "+name, nil)
		return
	}
	if r.Method == http.MethodGet && proc.kind == kindMutation {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotSupported, name+" is a mutation and must be called with POST", nil)
		return
	}

	raw, err := readInput(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "failed to read input: "+err.Error(), nil)
		return
	}

	result, err := proc.call(r.Context(), raw)
	if err != nil {
		h.handleError(w, name, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: result})
}

func readInput(w http.ResponseWriter, r *http.Request) (json.RawMessage, error) {
	if r.Method == http.MethodGet {
		return json.RawMessage(r.URL.Query().Get("input")), nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// handleError maps a procedure error onto the error envelope and logs it.
func (h *Handler) handleError(w http.ResponseWriter, name string, err error) {
	log := h.logger.With(map[string]interface{}{"procedure": name})

	var (
		inputErr      *inputError
		validationErr *service.ValidationError
	)
	switch {
	case errors.As(err, &inputErr):
		log.Warn(err.Error())
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error(), nil)
	case errors.As(err, &validationErr):
		log.Warn(err.Error())
		writeError(w, http.StatusBadRequest, codeBadRequest, "validation failed", validationErr.Fields)
	case data.IsUniqueViolation(err):
		log.Warn("unique constraint violated: " + err.Error())
		writeError(w, http.StatusConflict, codeConflict, "a record with the same slug already exists", nil)
	case data.IsForeignKeyViolation(err):
		log.Warn("foreign key violated: " + err.Error())
		writeError(w, http.StatusBadRequest, codeBadRequest, "a referenced record does not exist", nil)
	default:
		log.Error(err, "procedure failed")
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error", nil)
	}
}

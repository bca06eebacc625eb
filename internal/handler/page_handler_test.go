package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-blog-cms/internal/data"
	"go-blog-cms/internal/data/datatest"
	"go-blog-cms/internal/logger"
	"go-blog-cms/internal/rpc"
	"go-blog-cms/internal/service"
	"go-blog-cms/internal/view"
	"go-blog-cms/web"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://blog.example.com"

type testApp struct {
	Router     *chi.Mux
	Posts      *service.PostService
	Categories *service.CategoryService
}

// setupTest initializes a full application stack for testing.
func setupTest(t *testing.T, pinger Pinger) *testApp {
	t.Helper()
	db := datatest.New(t)
	if pinger == nil {
		pinger = db
	}

	log := logger.Nop()
	v, err := view.New(web.TemplateFS)
	require.NoError(t, err)

	posts := service.NewPostService(data.NewPostRepository(db))
	categories := service.NewCategoryService(data.NewCategoryRepository(db))

	router := NewRouter(
		log,
		[]string{"https://admin.example.com"},
		NewPageHandler(posts, categories, v, log),
		NewSeoHandler(posts, testBaseURL, log),
		NewHealthHandler(pinger, log),
		rpc.NewHandler(posts, categories, log),
		web.StaticFS,
	)
	return &testApp{Router: router, Posts: posts, Categories: categories}
}

func (app *testApp) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	app.Router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func seed(t *testing.T, app *testApp) {
	t.Helper()
	ctx := context.Background()
	published := true

	tech, err := app.Categories.CreateCategory(ctx, service.CreateCategoryInput{Name: "Tech"})
	require.NoError(t, err)
	_, err = app.Categories.CreateCategory(ctx, service.CreateCategoryInput{Name: "Life"})
	require.NoError(t, err)

	_, err = app.Posts.CreatePost(ctx, service.CreatePostInput{
		Title: "Intro to Go", Content: "<p>Go is <strong>fun</strong></p>", Published: &published, CategoryIDs: []int64{tech.ID},
	})
	require.NoError(t, err)
	_, err = app.Posts.CreatePost(ctx, service.CreatePostInput{
		Title: "Gardening notes", Content: "<p>Dig</p>", Published: &published,
	})
	require.NoError(t, err)
	_, err = app.Posts.CreatePost(ctx, service.CreatePostInput{
		Title: "Secret draft", Content: "<p>wip</p>", CategoryIDs: []int64{tech.ID},
	})
	require.NoError(t, err)
}

func TestRootRedirects(t *testing.T) {
	app := setupTest(t, nil)

	rr := app.get(t, "/")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/blogs", rr.Header().Get("Location"))
}

func TestBlogsHandler(t *testing.T) {
	app := setupTest(t, nil)
	seed(t, app)

	testCases := []struct {
		name    string
		path    string
		want    []string
		notWant []string
	}{
		{"all published", "/blogs", []string{"Intro to Go", "Gardening notes", `value="Tech"`}, []string{"Secret draft"}},
		{"by category", "/blogs?category=tech", []string{"Intro to Go"}, []string{"Gardening notes", "Secret draft"}},
		{"by query", "/blogs?q=GARDEN", []string{"Gardening notes"}, []string{"Intro to Go"}},
		{"no match", "/blogs?category=Life&q=go", []string{"No posts found."}, []string{"Intro to Go"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := app.get(t, tc.path)
			require.Equal(t, http.StatusOK, rr.Code)
			body := rr.Body.String()
			for _, s := range tc.want {
				assert.Contains(t, body, s)
			}
			for _, s := range tc.notWant {
				assert.NotContains(t, body, s)
			}
		})
	}
}

func TestPostHandler(t *testing.T) {
	app := setupTest(t, nil)
	seed(t, app)

	rr := app.get(t, "/blog/intro-to-go")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "<title>Intro to Go</title>")
	assert.Contains(t, body, "<p>Go is <strong>fun</strong></p>", "sanitized content is rendered as HTML")
	assert.Contains(t, body, "Tech")

	for _, path := range []string{"/blog/secret-draft", "/blog/missing"} {
		rr := app.get(t, path)
		assert.Equal(t, http.StatusNotFound, rr.Code, path)
		assert.Contains(t, rr.Body.String(), "Post not found")
	}
}

func TestNotFoundPage(t *testing.T) {
	app := setupTest(t, nil)

	rr := app.get(t, "/nowhere")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Page not found")
}

func TestSeoHandlers(t *testing.T) {
	app := setupTest(t, nil)
	seed(t, app)

	rr := app.get(t, "/robots.txt")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Sitemap: "+testBaseURL+"/sitemap.xml")

	rr = app.get(t, "/sitemap.xml")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.True(t, strings.HasPrefix(body, "<?xml"))
	assert.Contains(t, body, "<loc>"+testBaseURL+"/blog/intro-to-go</loc>")
	assert.Contains(t, body, "<loc>"+testBaseURL+"/blog/gardening-notes</loc>")
	assert.NotContains(t, body, "secret-draft")
}

type failingPinger struct{}

func (failingPinger) PingContext(context.Context) error { return errors.New("database is down") }

func TestHealthHandler(t *testing.T) {
	rr := setupTest(t, nil).get(t, "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = setupTest(t, failingPinger{}).get(t, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rr.Body.String())
}

func TestStaticAssets(t *testing.T) {
	rr := setupTest(t, nil).get(t, "/static/style.css")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/css")
}

func TestRPCMounted(t *testing.T) {
	app := setupTest(t, nil)
	seed(t, app)

	rr := app.get(t, "/rpc/category.getAll")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"name":"Tech"`)

	req := httptest.NewRequest(http.MethodOptions, "/rpc/post.create", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr = httptest.NewRecorder()
	app.Router.ServeHTTP(rr, req)
	assert.Equal(t, "https://admin.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
}

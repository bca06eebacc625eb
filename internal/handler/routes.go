package handler

import (
	"io/fs"
	"net/http"

	"go-blog-cms/internal/logger"
	appmw "go-blog-cms/internal/middleware"
	"go-blog-cms/internal/rpc"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates and configures a new chi router. allowedOrigins lists the
// browser origins allowed to call the RPC API cross-origin.
func NewRouter(
	log logger.Logger,
	allowedOrigins []string,
	pageHandler *PageHandler,
	seoHandler *SeoHandler,
	healthHandler *HealthHandler,
	rpcHandler *rpc.Handler,
	staticFS fs.FS,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmw.RequestLogger(log))
	r.Use(middleware.Recoverer)

	pages := appmw.Error(log, pageHandler.view)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/blogs", http.StatusFound)
	})
	r.Method(http.MethodGet, "/blogs", pages(pageHandler.blogsHandler))
	r.Method(http.MethodGet, "/blog/{slug}", pages(pageHandler.postHandler))
	r.NotFound(pages(pageHandler.notFoundHandler).ServeHTTP)

	r.Get("/robots.txt", seoHandler.robotsHandler)
	r.Get("/sitemap.xml", seoHandler.sitemapHandler)
	r.Get("/healthz", healthHandler.healthHandler)

	// staticFS holds the assets under a static/ directory.
	r.Handle("/static/*", http.FileServer(http.FS(staticFS)))

	r.Route("/rpc", func(r chi.Router) {
		if len(allowedOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: allowedOrigins,
				AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
				AllowedHeaders: []string{"Accept", "Content-Type"},
				MaxAge:         300,
			}))
		}
		r.Mount("/", rpcHandler.Routes())
	})

	return r
}

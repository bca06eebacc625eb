package handler

import (
	"encoding/xml"
	"fmt"
	"net/http"

	"go-blog-cms/internal/logger"
	"go-blog-cms/internal/service"
)

// SeoHandler holds dependencies for SEO-related handlers.
type SeoHandler struct {
	postService service.PostServicer
	baseURL     string
	log         logger.Logger
}

// NewSeoHandler creates a new SeoHandler. baseURL is the public origin of the
// site without a trailing slash.
func NewSeoHandler(ps service.PostServicer, baseURL string, log logger.Logger) *SeoHandler {
	return &SeoHandler{postService: ps, baseURL: baseURL, log: log}
}

// robotsHandler serves robots.txt.
func (h *SeoHandler) robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Allow: /")
	fmt.Fprintln(w, "Disallow: /rpc/")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Sitemap: %s/sitemap.xml\n", h.baseURL)
}

const sitemapDateFormat = "2006-01-02"

type sitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapHandler generates a sitemap of the blog index and every published post.
func (h *SeoHandler) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.GetPublishedPosts(r.Context())
	if err != nil {
		h.log.Error(err, "Failed to retrieve posts for sitemap")
		http.Error(w, "Failed to retrieve posts for sitemap", http.StatusInternalServerError)
		return
	}

	sitemap := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, 0, len(posts)+1),
	}
	sitemap.URLs = append(sitemap.URLs, sitemapURL{Loc: h.baseURL + "/blogs"})
	for _, post := range posts {
		sitemap.URLs = append(sitemap.URLs, sitemapURL{
			Loc:     h.baseURL + "/blog/" + post.Slug,
			LastMod: post.UpdatedAt.Format(sitemapDateFormat),
		})
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml.Header)) //nolint:errcheck
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(sitemap); err != nil {
		h.log.Error(err, "Failed to encode sitemap")
	}
}

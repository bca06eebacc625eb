// Package web holds the page templates and static assets compiled into the
// server binary.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// TemplateFS holds templates/layouts/*.html and templates/pages/*.html.
var TemplateFS fs.FS = templateFS

// StaticFS holds the stylesheet and other assets under static/, matching the
// /static/ URL prefix they are served from.
var StaticFS fs.FS = staticFS

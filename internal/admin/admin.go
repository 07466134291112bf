// Package admin serves the management panel at /allset: template
// selection, content generation, and site settings, driven entirely by
// the JSON API.
package admin

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed index.html
var indexHTML []byte

// RegisterRoutes mounts the admin panel.
func RegisterRoutes(r chi.Router) {
	r.Get("/allset", ServeIndex)
	r.Get("/allset/templates", ServeIndex)
}

// ServeIndex serves the embedded admin panel.
func ServeIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

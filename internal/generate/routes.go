package generate

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/allsetlabs/allset/internal/content"
)

// RegisterRoutes mounts the generation endpoints under /api/allset.
// defaultSlug is the page written when a request does not name one.
func RegisterRoutes(r chi.Router, svc *Service, defaultSlug string) {
	r.Post("/api/allset/generate-content", handleGenerateContent(svc, defaultSlug))
	r.Post("/api/allset/generate-blog-titles", handleGenerateBlogTitles(svc))
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func handleGenerateContent(svc *Service, defaultSlug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Description string `json:"description"`
			PageType    string `json:"pageType"`
			Slug        string `json:"slug"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
			return
		}
		if req.Description == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "description is required"})
			return
		}

		pt := content.PageType(req.PageType)
		if req.PageType == "" {
			pt = content.PageProduct
		}
		if !pt.Valid() {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "pageType must be product, saas, or youtube"})
			return
		}

		slug := req.Slug
		if slug == "" {
			slug = defaultSlug
		}

		doc, err := svc.GenerateContent(r.Context(), slug, req.Description, pt)
		if err != nil {
			log.Printf("generate: content for %q: %v", slug, err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to generate content"})
			return
		}

		writeJSON(w, http.StatusOK, struct {
			Success bool              `json:"success"`
			Slug    string            `json:"slug"`
			Content *content.Document `json:"content"`
		}{Success: true, Slug: slug, Content: doc})
	}
}

func handleGenerateBlogTitles(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Description string `json:"description"`
			Count       int    `json:"count"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
			return
		}
		if req.Description == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "description is required"})
			return
		}

		titles, err := svc.GenerateBlogTitles(r.Context(), req.Description, req.Count)
		if err != nil {
			log.Printf("generate: blog titles: %v", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to generate blog titles"})
			return
		}

		writeJSON(w, http.StatusOK, struct {
			Success bool     `json:"success"`
			Titles  []string `json:"titles"`
		}{Success: true, Titles: titles})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

package content

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the landing content endpoints under /api/allset.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Route("/api/allset/landing-content", func(r chi.Router) {
		r.Get("/", handleGetContent(store))
		r.Post("/", handleSaveContent(store))
	})
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type saveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func handleGetContent(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := r.URL.Query().Get("slug")
		if slug == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "slug query parameter is required"})
			return
		}

		doc, err := store.GetBySlug(r.Context(), slug)
		if err != nil {
			if errors.Is(err, ErrPageNotFound) {
				writeJSON(w, http.StatusNotFound, errorResponse{Message: "Landing page not found"})
				return
			}
			log.Printf("content: loading %q: %v", slug, err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to load landing content"})
			return
		}

		writeJSON(w, http.StatusOK, doc)
	}
}

func handleSaveContent(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := r.URL.Query().Get("slug")
		if slug == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "slug query parameter is required"})
			return
		}

		var doc Document
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
			return
		}
		if !doc.PageType.Valid() {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "pageType must be product, saas, or youtube"})
			return
		}

		if err := store.Save(r.Context(), slug, &doc); err != nil {
			if errors.Is(err, ErrPageNotFound) {
				writeJSON(w, http.StatusNotFound, errorResponse{Message: "Landing page not found"})
				return
			}
			log.Printf("content: saving %q: %v", slug, err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to save landing content"})
			return
		}

		writeJSON(w, http.StatusOK, saveResponse{
			Success: true,
			Message: "Landing content saved successfully",
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

package siteconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/allsetlabs/allset/internal/supabase"
)

// Error codes surfaced in API responses on config-store failure.
const (
	CodeConnectionError = "SUPABASE_CONNECTION_ERROR"
	CodeTableNotFound   = "TABLE_NOT_FOUND"
	CodeGeneralError    = "GENERAL_ERROR"
)

// Notifier receives template-change events accepted through the API so
// they can be pushed to live browser contexts.
type Notifier interface {
	TemplateChanged(id string)
}

// RegisterRoutes mounts the template endpoints under /api/allset on the
// given router. notifier may be nil.
func RegisterRoutes(r chi.Router, store *Store, notifier Notifier) {
	r.Route("/api/allset/templates", func(r chi.Router) {
		r.Get("/", handleGetTemplates(store))
		r.Post("/update", handleUpdateTemplate(store, notifier))
	})
}

type templatesResponse struct {
	Success            bool       `json:"success"`
	ActiveTemplate     string     `json:"activeTemplate"`
	AvailableTemplates []Template `json:"availableTemplates"`
}

type updateResponse struct {
	Success        bool   `json:"success"`
	ActiveTemplate string `json:"activeTemplate"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func handleGetTemplates(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := store.GetStrict(r.Context())
		if err != nil {
			// A missing document or unconfigured remote is not an API
			// failure: the documented fallback keeps the site selectable.
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrRemoteUnconfigured) {
				cfg = Fallback()
			} else {
				log.Printf("siteconfig: fetching templates: %v", err)
				code, message := classify(err)
				writeJSON(w, http.StatusInternalServerError, errorResponse{
					Message: message,
					Error:   code,
				})
				return
			}
		}

		writeJSON(w, http.StatusOK, templatesResponse{
			Success:            true,
			ActiveTemplate:     cfg.ActiveTemplate,
			AvailableTemplates: cfg.AvailableTemplates,
		})
	}
}

func handleUpdateTemplate(store *Store, notifier Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			TemplateID string `json:"templateId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
			return
		}
		if req.TemplateID == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Template ID is required"})
			return
		}

		updated, err := store.SetActiveTemplate(r.Context(), req.TemplateID)
		if err != nil {
			if errors.Is(err, ErrUnknownTemplate) {
				writeJSON(w, http.StatusBadRequest, errorResponse{
					Message: fmt.Sprintf("Template with ID %q does not exist", req.TemplateID),
				})
				return
			}
			log.Printf("siteconfig: updating active template: %v", err)
			code, message := classify(err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{
				Message: message,
				Error:   code,
			})
			return
		}

		if notifier != nil {
			notifier.TemplateChanged(updated.ActiveTemplate)
		}

		writeJSON(w, http.StatusOK, updateResponse{
			Success:        true,
			ActiveTemplate: updated.ActiveTemplate,
		})
	}
}

// classify maps a backend error to an API error code and user message.
func classify(err error) (code, message string) {
	var connErr *supabase.ConnError
	if errors.As(err, &connErr) {
		return CodeConnectionError,
			"Database connection error. Please verify your configuration and network status."
	}

	var apiErr *supabase.APIError
	if errors.As(err, &apiErr) && apiErr.MissingTable() {
		return CodeTableNotFound,
			"The site_config table does not exist. Run the seed step against your database."
	}

	if errors.Is(err, ErrRemoteUnconfigured) {
		return CodeConnectionError, err.Error()
	}

	return CodeGeneralError, "An internal server error occurred."
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

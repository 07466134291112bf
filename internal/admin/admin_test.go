package admin

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestServeIndex(t *testing.T) {
	r := chi.NewRouter()
	RegisterRoutes(r)

	for _, path := range []string{"/allset", "/allset/templates"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d", path, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("GET %s content type = %q", path, ct)
		}
	}
}

func TestIndexDrivesTemplateAPI(t *testing.T) {
	rec := httptest.NewRecorder()
	ServeIndex(rec, httptest.NewRequest(http.MethodGet, "/allset", nil))
	body := rec.Body.String()

	// The panel is a thin client over the JSON API and the shared
	// local cache key.
	for _, want := range []string{
		"/api/allset/templates",
		"/api/allset/templates/update",
		"/api/allset/generate-content",
		"/api/allset/settings",
		"activeTemplate",
		"storage",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("admin panel missing %q", want)
		}
	}
}

func TestIndexKeepsOptimisticSelectionOnSyncFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	ServeIndex(rec, httptest.NewRequest(http.MethodGet, "/allset", nil))
	body := rec.Body.String()

	// A server write that fails after a successful local write surfaces
	// an inline error and leaves the applied selection alone. Reverting
	// the panel or the local cache to the previous template would undo
	// a change the user already sees.
	if !strings.Contains(body, "Applied locally, but syncing to the server failed") {
		t.Error("sync-failure path does not surface an inline error")
	}
	if strings.Contains(body, "writeLocal(previous)") {
		t.Error("sync-failure path rewrites the local cache to the previous template")
	}
}

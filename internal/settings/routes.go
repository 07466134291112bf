package settings

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxLogoSize caps uploaded logo files.
const maxLogoSize = 5 << 20

// RegisterRoutes mounts the settings endpoints under /api/allset.
// assetsDir is where uploaded logos are stored; it is served under
// /assets/.
func RegisterRoutes(r chi.Router, store *Store, assetsDir string) {
	r.Route("/api/allset/settings", func(r chi.Router) {
		r.Get("/", handleGetSettings(store))
		r.Post("/", handleSaveSettings(store, assetsDir))
	})
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type settingsResponse struct {
	Success  bool      `json:"success"`
	Settings *Settings `json:"settings"`
}

func handleGetSettings(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := store.Get(r.Context())
		if err != nil {
			log.Printf("settings: loading: %v", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to load settings"})
			return
		}
		writeJSON(w, http.StatusOK, settingsResponse{Success: true, Settings: st})
	}
}

// handleSaveSettings accepts either a JSON body or a multipart form
// with an optional logo file.
func handleSaveSettings(store *Store, assetsDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, err := store.Get(r.Context())
		if err != nil {
			log.Printf("settings: loading before save: %v", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to load settings"})
			return
		}
		st := *current

		contentType := r.Header.Get("Content-Type")
		if strings.HasPrefix(contentType, "multipart/form-data") {
			if err := r.ParseMultipartForm(maxLogoSize); err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid multipart form"})
				return
			}
			applyForm(&st, r.FormValue)

			if file, header, err := r.FormFile("logo"); err == nil {
				defer file.Close()
				path, err := saveLogo(assetsDir, header.Filename, file)
				if err != nil {
					log.Printf("settings: storing logo: %v", err)
					writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to store logo"})
					return
				}
				st.LogoPath = path
			}
		} else {
			var req struct {
				SiteName        *string `json:"siteName"`
				SiteDescription *string `json:"siteDescription"`
				AdminEmail      *string `json:"adminEmail"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
				return
			}
			if req.SiteName != nil {
				st.SiteName = *req.SiteName
			}
			if req.SiteDescription != nil {
				st.SiteDescription = *req.SiteDescription
			}
			if req.AdminEmail != nil {
				st.AdminEmail = *req.AdminEmail
			}
		}

		if st.SiteName == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "siteName is required"})
			return
		}

		if err := store.Save(r.Context(), st); err != nil {
			log.Printf("settings: saving: %v", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to save settings"})
			return
		}

		writeJSON(w, http.StatusOK, settingsResponse{Success: true, Settings: &st})
	}
}

func applyForm(st *Settings, value func(string) string) {
	if v := value("siteName"); v != "" {
		st.SiteName = v
	}
	if v := value("siteDescription"); v != "" {
		st.SiteDescription = v
	}
	if v := value("adminEmail"); v != "" {
		st.AdminEmail = v
	}
}

// saveLogo writes the uploaded file under the assets dir with a fresh
// name, keeping the original extension.
func saveLogo(assetsDir, filename string, file io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".svg", ".webp", ".gif":
	default:
		return "", fmt.Errorf("unsupported logo type %q", ext)
	}

	if err := os.MkdirAll(assetsDir, 0o755); err != nil {
		return "", fmt.Errorf("creating assets dir: %w", err)
	}
	name := "logo-" + uuid.New().String() + ext
	out, err := os.Create(filepath.Join(assetsDir, name))
	if err != nil {
		return "", fmt.Errorf("creating logo file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, io.LimitReader(file, maxLogoSize)); err != nil {
		return "", fmt.Errorf("writing logo file: %w", err)
	}
	return "/assets/" + name, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

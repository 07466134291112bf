package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/allsetlabs/allset/internal/content"
	"github.com/allsetlabs/allset/internal/db"
	"github.com/allsetlabs/allset/internal/llm"
)

// fakeProvider returns canned completions and images.
type fakeProvider struct {
	completion string
	complErr   error
	imageData  []byte
	imageErr   error

	lastReq llm.CompletionRequest
}

func (f *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.lastReq = req
	if f.complErr != nil {
		return nil, f.complErr
	}
	return &llm.CompletionResponse{Content: f.completion}, nil
}

func (f *fakeProvider) GenerateImage(ctx context.Context, req llm.ImageRequest) (*llm.ImageResponse, error) {
	if f.imageErr != nil {
		return nil, f.imageErr
	}
	return &llm.ImageResponse{Data: f.imageData}, nil
}

func (f *fakeProvider) Name() string { return "fake" }

const generatedDoc = `{
	"pageType": "product",
	"hero": {"title": "Ship faster", "description": "d", "primaryCta": {"text": "Go", "link": "#"}, "secondaryCta": {"text": "More", "link": "#"}, "imagePrompt": "a rocket"},
	"cta": {"title": "Ready", "description": "d", "button": {"text": "Go", "link": "#"}}
}`

func newTestService(t *testing.T, p llm.Provider) (*Service, *content.Store, string) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	store := content.NewStore(database)
	assets := t.TempDir()
	return NewService(p, store, assets), store, assets
}

func TestGenerateContentSavesDocument(t *testing.T) {
	p := &fakeProvider{completion: generatedDoc, imageErr: llm.ErrNoImageSupport}
	svc, store, _ := newTestService(t, p)

	doc, err := svc.GenerateContent(context.Background(), "main-landing", "a todo app", content.PageProduct)
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if !p.lastReq.JSONMode {
		t.Error("completion was not requested in JSON mode")
	}
	if doc.PageType != content.PageProduct {
		t.Errorf("pageType = %q", doc.PageType)
	}

	saved, err := store.GetBySlug(context.Background(), "main-landing")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if saved.Section("hero") == nil || saved.Section("cta") == nil {
		t.Errorf("generated sections not persisted: %+v", saved.Sections)
	}
}

func TestGenerateContentRendersImages(t *testing.T) {
	p := &fakeProvider{completion: generatedDoc, imageData: []byte("png-bytes")}
	svc, store, assets := newTestService(t, p)

	if _, err := svc.GenerateContent(context.Background(), "main-landing", "a todo app", content.PageProduct); err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}

	saved, err := store.GetBySlug(context.Background(), "main-landing")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	var hero struct {
		Image string `json:"image"`
	}
	if err := json.Unmarshal(saved.Section("hero"), &hero); err != nil {
		t.Fatalf("decoding hero: %v", err)
	}
	if !strings.HasPrefix(hero.Image, "/assets/") {
		t.Fatalf("hero image = %q, want /assets/ path", hero.Image)
	}

	data, err := os.ReadFile(filepath.Join(assets, strings.TrimPrefix(hero.Image, "/assets/")))
	if err != nil {
		t.Fatalf("reading stored image: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("stored image = %q", data)
	}
}

func TestGenerateContentImageFailureDegrades(t *testing.T) {
	p := &fakeProvider{completion: generatedDoc, imageErr: errors.New("image backend down")}
	svc, _, _ := newTestService(t, p)

	doc, err := svc.GenerateContent(context.Background(), "main-landing", "a todo app", content.PageProduct)
	if err != nil {
		t.Fatalf("image failure should not fail generation: %v", err)
	}
	if doc.Section("hero") == nil {
		t.Error("text content lost on image failure")
	}
}

func TestGenerateContentStripsCodeFence(t *testing.T) {
	p := &fakeProvider{
		completion: "```json\n" + generatedDoc + "\n```",
		imageErr:   llm.ErrNoImageSupport,
	}
	svc, _, _ := newTestService(t, p)

	if _, err := svc.GenerateContent(context.Background(), "main-landing", "a todo app", content.PageProduct); err != nil {
		t.Fatalf("GenerateContent with fenced JSON: %v", err)
	}
}

func TestGenerateContentInvalidJSON(t *testing.T) {
	p := &fakeProvider{completion: "sorry, I cannot do that"}
	svc, _, _ := newTestService(t, p)

	if _, err := svc.GenerateContent(context.Background(), "main-landing", "a todo app", content.PageProduct); err == nil {
		t.Error("expected error on non-JSON completion")
	}
}

func TestGenerateBlogTitles(t *testing.T) {
	p := &fakeProvider{completion: `{"titles": ["One", "Two"]}`}
	svc, _, _ := newTestService(t, p)

	titles, err := svc.GenerateBlogTitles(context.Background(), "a todo app", 2)
	if err != nil {
		t.Fatalf("GenerateBlogTitles: %v", err)
	}
	if len(titles) != 2 || titles[0] != "One" {
		t.Errorf("titles = %v", titles)
	}
}

func newTestRouter(svc *Service) *chi.Mux {
	r := chi.NewRouter()
	RegisterRoutes(r, svc, "main-landing")
	return r
}

func TestGenerateContentHandler(t *testing.T) {
	p := &fakeProvider{completion: generatedDoc, imageErr: llm.ErrNoImageSupport}
	svc, store, _ := newTestService(t, p)
	r := newTestRouter(svc)

	body := []byte(`{"description": "a todo app", "pageType": "product"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/allset/generate-content", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool   `json:"success"`
		Slug    string `json:"slug"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || !resp.Success {
		t.Fatalf("unexpected response: %s", rec.Body.String())
	}
	if resp.Slug != "main-landing" {
		t.Errorf("slug = %q, want default main-landing", resp.Slug)
	}

	if _, err := store.GetBySlug(context.Background(), "main-landing"); err != nil {
		t.Errorf("generated page missing: %v", err)
	}
}

func TestGenerateContentHandlerRequiresDescription(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeProvider{completion: generatedDoc})
	r := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/allset/generate-content", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGenerateContentHandlerProviderFailure(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeProvider{complErr: errors.New("rate limited")})
	r := newTestRouter(svc)

	body := []byte(`{"description": "a todo app"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/allset/generate-content", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestGenerateBlogTitlesHandler(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeProvider{completion: `{"titles": ["One"]}`})
	r := newTestRouter(svc)

	body := []byte(`{"description": "a todo app"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/allset/generate-blog-titles", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Titles []string `json:"titles"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || len(resp.Titles) != 1 {
		t.Errorf("unexpected response: %s", rec.Body.String())
	}
}

package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/allsetlabs/allset/internal/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func sampleDoc() *Document {
	return &Document{
		PageType: PageProduct,
		Sections: []Section{
			{Slug: "hero", Content: json.RawMessage(`{"title":"Launch faster","description":"Ship your site today","primaryCta":{"text":"Get started","link":"#"},"secondaryCta":{"text":"Learn more","link":"#features"}}`)},
			{Slug: "features", Content: json.RawMessage(`{"title":"Features","description":"What you get","items":[{"title":"Fast","description":"Really fast","icon":"bolt"}]}`)},
			{Slug: "cta", Content: json.RawMessage(`{"title":"Ready?","description":"Start now","button":{"text":"Sign up","link":"/signup"}}`)},
		},
	}
}

func TestDocumentWireShape(t *testing.T) {
	doc := sampleDoc()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// Flat object: pageType plus one key per section.
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatalf("unmarshal flat: %v", err)
	}
	if len(flat) != 4 {
		t.Errorf("flat document has %d keys, want 4", len(flat))
	}
	if _, ok := flat["hero"]; !ok {
		t.Error("hero section missing from wire shape")
	}

	var back Document
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal document: %v", err)
	}
	if back.PageType != PageProduct {
		t.Errorf("pageType = %q, want product", back.PageType)
	}
	if len(back.Sections) != 3 || back.Sections[0].Slug != "hero" || back.Sections[2].Slug != "cta" {
		t.Errorf("section order not preserved: %+v", back.Sections)
	}
}

func TestDocumentUnmarshalRejectsNonObject(t *testing.T) {
	var doc Document
	if err := json.Unmarshal([]byte(`["hero"]`), &doc); err == nil {
		t.Error("expected error for non-object document")
	}
}

func TestDecodeProduct(t *testing.T) {
	doc := sampleDoc()
	pc, err := doc.DecodeProduct()
	if err != nil {
		t.Fatalf("DecodeProduct: %v", err)
	}
	if pc.Hero.Title != "Launch faster" {
		t.Errorf("hero title = %q", pc.Hero.Title)
	}
	if pc.Features == nil || len(pc.Features.Items) != 1 {
		t.Errorf("features not decoded: %+v", pc.Features)
	}

	doc.PageType = PageYouTube
	if _, err := doc.DecodeProduct(); err == nil {
		t.Error("DecodeProduct should reject a youtube document")
	}
}

func TestSaveAndGetBySlug(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.CreatePage(ctx, "main-landing", PageProduct); err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	if err := store.Save(ctx, "main-landing", sampleDoc()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	doc, err := store.GetBySlug(ctx, "main-landing")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if doc.PageType != PageProduct {
		t.Errorf("pageType = %q, want product", doc.PageType)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("got %d sections, want 3", len(doc.Sections))
	}
	for i, want := range []string{"hero", "features", "cta"} {
		if doc.Sections[i].Slug != want {
			t.Errorf("section %d = %q, want %q", i, doc.Sections[i].Slug, want)
		}
	}
}

func TestSaveUpsertsAndReorders(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.CreatePage(ctx, "main-landing", PageProduct); err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	if err := store.Save(ctx, "main-landing", sampleDoc()); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	// Second save reverses order and rewrites the hero body.
	updated := &Document{
		PageType: PageSaaS,
		Sections: []Section{
			{Slug: "cta", Content: json.RawMessage(`{"title":"Go"}`)},
			{Slug: "hero", Content: json.RawMessage(`{"title":"New headline"}`)},
		},
	}
	if err := store.Save(ctx, "main-landing", updated); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	doc, err := store.GetBySlug(ctx, "main-landing")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if doc.PageType != PageSaaS {
		t.Errorf("pageType = %q, want saas after save", doc.PageType)
	}
	if doc.Sections[0].Slug != "cta" || doc.Sections[1].Slug != "hero" {
		t.Errorf("reorder not persisted: %+v", doc.Sections)
	}
	var hero struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(doc.Section("hero"), &hero); err != nil || hero.Title != "New headline" {
		t.Errorf("hero body not rewritten: %s", doc.Section("hero"))
	}
}

func TestGetBySlugMissingPage(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.GetBySlug(context.Background(), "nope"); !errors.Is(err, ErrPageNotFound) {
		t.Errorf("err = %v, want ErrPageNotFound", err)
	}
}

func TestSaveForCreatesPage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveFor(ctx, "generated", sampleDoc()); err != nil {
		t.Fatalf("SaveFor: %v", err)
	}
	page, err := store.GetPage(ctx, "generated")
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if page.PageType != PageProduct {
		t.Errorf("pageType = %q", page.PageType)
	}
}

func TestDeactivateSectionHidesIt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveFor(ctx, "main-landing", sampleDoc()); err != nil {
		t.Fatalf("SaveFor: %v", err)
	}
	if err := store.DeactivateSection(ctx, "main-landing", "features"); err != nil {
		t.Fatalf("DeactivateSection: %v", err)
	}

	doc, err := store.GetBySlug(ctx, "main-landing")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if doc.Section("features") != nil {
		t.Error("deactivated section still returned")
	}
	if len(doc.Sections) != 2 {
		t.Errorf("got %d sections, want 2", len(doc.Sections))
	}
}

func TestDeletePageCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveFor(ctx, "main-landing", sampleDoc()); err != nil {
		t.Fatalf("SaveFor: %v", err)
	}
	if err := store.DeletePage(ctx, "main-landing"); err != nil {
		t.Fatalf("DeletePage: %v", err)
	}
	if _, err := store.GetBySlug(ctx, "main-landing"); !errors.Is(err, ErrPageNotFound) {
		t.Errorf("err = %v, want ErrPageNotFound", err)
	}
	if err := store.DeletePage(ctx, "main-landing"); !errors.Is(err, ErrPageNotFound) {
		t.Errorf("second delete err = %v, want ErrPageNotFound", err)
	}
}

func newTestRouter(store *Store) *chi.Mux {
	r := chi.NewRouter()
	RegisterRoutes(r, store)
	return r
}

func TestGetContentHandler(t *testing.T) {
	store := newTestStore(t)
	if err := store.SaveFor(context.Background(), "main-landing", sampleDoc()); err != nil {
		t.Fatalf("SaveFor: %v", err)
	}
	r := newTestRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/api/allset/landing-content?slug=main-landing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var doc Document
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if doc.PageType != PageProduct || len(doc.Sections) != 3 {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestGetContentHandlerMissing(t *testing.T) {
	r := newTestRouter(newTestStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/allset/landing-content?slug=nope", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetContentHandlerRequiresSlug(t *testing.T) {
	r := newTestRouter(newTestStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/allset/landing-content", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSaveContentHandler(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.CreatePage(context.Background(), "main-landing", PageProduct); err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	r := newTestRouter(store)

	body, _ := json.Marshal(sampleDoc())
	req := httptest.NewRequest(http.MethodPost, "/api/allset/landing-content?slug=main-landing", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp saveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || !resp.Success {
		t.Errorf("unexpected response: %s", rec.Body.String())
	}

	doc, err := store.GetBySlug(context.Background(), "main-landing")
	if err != nil || len(doc.Sections) != 3 {
		t.Errorf("content not persisted: %v, %+v", err, doc)
	}
}

func TestSaveContentHandlerRejectsBadPageType(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.CreatePage(context.Background(), "main-landing", PageProduct); err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	r := newTestRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/api/allset/landing-content?slug=main-landing",
		bytes.NewReader([]byte(`{"pageType":"blog","hero":{}}`)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

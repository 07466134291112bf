package render

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/allsetlabs/allset/internal/content"
	"github.com/allsetlabs/allset/internal/settings"
	"github.com/allsetlabs/allset/internal/siteconfig"
)

// Pages wires the renderer to the stores it reads from.
type Pages struct {
	renderer    *Renderer
	siteConfig  *siteconfig.Store
	contents    *content.Store
	settings    *settings.Store
	defaultSlug string
}

// NewPages creates the landing page handler set.
func NewPages(renderer *Renderer, sc *siteconfig.Store, cs *content.Store, st *settings.Store, defaultSlug string) *Pages {
	return &Pages{
		renderer:    renderer,
		siteConfig:  sc,
		contents:    cs,
		settings:    st,
		defaultSlug: defaultSlug,
	}
}

// RegisterRoutes mounts the public pages and the template event socket.
func RegisterRoutes(r chi.Router, p *Pages, hub *Hub) {
	r.Get("/", p.handlePage(""))
	r.Get("/p/{slug}", p.handleSlugPage)
	r.Get("/ws/templates", hub.ServeWS)
}

// ResolveInitialTemplate picks the template the server renders as
// visible. A missing or malformed stored choice falls back to the
// default variant; this path never fails the request.
func (p *Pages) ResolveInitialTemplate(r *http.Request) string {
	cfg := p.siteConfig.Get(r.Context())
	return p.renderer.Select(cfg.ActiveTemplate)
}

func (p *Pages) handlePage(slug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if slug == "" {
			p.serve(w, r, p.defaultSlug)
			return
		}
		p.serve(w, r, slug)
	}
}

func (p *Pages) handleSlugPage(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, chi.URLParam(r, "slug"))
}

func (p *Pages) serve(w http.ResponseWriter, r *http.Request, slug string) {
	ctx := r.Context()

	st, err := p.settings.Get(ctx)
	if err != nil {
		log.Printf("render: loading settings: %v", err)
		st = &settings.Settings{SiteName: "allset"}
	}

	doc, err := p.contents.GetBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, content.ErrPageNotFound) {
			log.Printf("render: loading content for %q: %v", slug, err)
		}
		// A fresh install still serves a page built from the settings.
		page, err := p.renderer.RenderPage(p.ResolveInitialTemplate(r), st, placeholderContent(st))
		if err != nil {
			log.Printf("render: %v", err)
			http.Error(w, "failed to render page", http.StatusInternalServerError)
			return
		}
		writeHTML(w, page)
		return
	}

	if doc.PageType == content.PageYouTube {
		yc, err := doc.DecodeYouTube()
		if err != nil {
			log.Printf("render: decoding %q: %v", slug, err)
			http.Error(w, "failed to render page", http.StatusInternalServerError)
			return
		}
		page, err := p.renderer.RenderChannelPage(st, yc)
		if err != nil {
			log.Printf("render: %v", err)
			http.Error(w, "failed to render page", http.StatusInternalServerError)
			return
		}
		writeHTML(w, page)
		return
	}

	pc, err := doc.DecodeProduct()
	if err != nil {
		log.Printf("render: decoding %q: %v", slug, err)
		pc = placeholderContent(st)
	}

	page, err := p.renderer.RenderPage(p.ResolveInitialTemplate(r), st, pc)
	if err != nil {
		log.Printf("render: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	writeHTML(w, page)
}

func writeHTML(w http.ResponseWriter, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// placeholderContent renders when no content has been generated yet.
func placeholderContent(st *settings.Settings) *content.ProductContent {
	return &content.ProductContent{
		PageType: content.PageProduct,
		Hero: content.HeroSection{
			Title:       st.SiteName,
			Description: st.SiteDescription,
			PrimaryCta:  content.CtaButton{Text: "Get started", Link: "/allset"},
			SecondaryCta: content.CtaButton{
				Text: "Admin panel", Link: "/allset",
			},
		},
	}
}

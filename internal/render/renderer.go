// Package render serves the public landing pages. Every template
// variant is rendered server-side; a small embedded script then
// reconciles the visible variant with the visitor's cached preference
// and follows live template switches.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"

	"github.com/yuin/goldmark"

	"github.com/allsetlabs/allset/internal/content"
	"github.com/allsetlabs/allset/internal/settings"
	"github.com/allsetlabs/allset/internal/siteconfig"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed page.js
var pageJS string

// variantNames are the template variants this build can render, in
// presentation order. The first one doubles as the dispatch fallback.
var variantNames = []string{"Main", "Main2", "Main3"}

// Renderer renders landing page variants from the content model.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded page templates.
func NewRenderer() (*Renderer, error) {
	md := goldmark.New()
	funcs := template.FuncMap{
		// markdown renders a content field written in markdown. The
		// output is trusted: it comes from the operator's own content
		// store, not from visitors.
		"markdown": func(src string) (template.HTML, error) {
			var buf bytes.Buffer
			if err := md.Convert([]byte(src), &buf); err != nil {
				return "", err
			}
			return template.HTML(buf.String()), nil
		},
	}

	tmpl, err := template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing page templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Variants returns the renderable template variant ids.
func (r *Renderer) Variants() []string {
	out := make([]string, len(variantNames))
	copy(out, variantNames)
	return out
}

// Knows reports whether id names a renderable variant.
func (r *Renderer) Knows(id string) bool {
	for _, v := range variantNames {
		if v == id {
			return true
		}
	}
	return false
}

// Select maps a template id to a renderable variant. Unknown ids fall
// back to the default variant rather than failing the page.
func (r *Renderer) Select(id string) string {
	if r.Knows(id) {
		return id
	}
	if id != "" {
		log.Printf("render: unknown template %q, using %s", id, siteconfig.DefaultTemplateID)
	}
	return siteconfig.DefaultTemplateID
}

// VariantData is what each variant template receives.
type VariantData struct {
	Settings *settings.Settings
	Content  *content.ProductContent
}

// RenderVariant renders one variant to HTML.
func (r *Renderer) RenderVariant(id string, data VariantData) (template.HTML, error) {
	name := "variant-" + r.Select(id)
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering variant %s: %w", id, err)
	}
	return template.HTML(buf.String()), nil
}

// pageData is what the outer page shell receives.
type pageData struct {
	Settings       *settings.Settings
	ActiveTemplate string
	Variants       []shellVariant
	Script         template.JS
}

type shellVariant struct {
	ID   string
	Body template.HTML
}

// RenderPage renders the full landing page: every variant's markup plus
// the reconciliation script, with the server-chosen variant visible.
func (r *Renderer) RenderPage(active string, st *settings.Settings, pc *content.ProductContent) ([]byte, error) {
	active = r.Select(active)

	data := pageData{
		Settings:       st,
		ActiveTemplate: active,
		Script:         template.JS(pageJS),
	}
	for _, id := range variantNames {
		body, err := r.RenderVariant(id, VariantData{Settings: st, Content: pc})
		if err != nil {
			return nil, err
		}
		data.Variants = append(data.Variants, shellVariant{ID: id, Body: body})
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "shell", data); err != nil {
		return nil, fmt.Errorf("rendering page shell: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderChannelPage renders a youtube document. Channel pages have a
// single layout; template variants do not apply to them.
func (r *Renderer) RenderChannelPage(st *settings.Settings, yc *content.YouTubeContent) ([]byte, error) {
	var buf bytes.Buffer
	err := r.tmpl.ExecuteTemplate(&buf, "channel", struct {
		Settings *settings.Settings
		Content  *content.YouTubeContent
	}{st, yc})
	if err != nil {
		return nil, fmt.Errorf("rendering channel page: %w", err)
	}
	return buf.Bytes(), nil
}

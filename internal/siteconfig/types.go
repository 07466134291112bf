package siteconfig

// Template describes one selectable full-page rendering variant. The
// catalog is reference data: templates are added at seed time and never
// mutated afterwards.
type Template struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Image       string   `json:"image,omitempty"`
	Elements    []string `json:"elements,omitempty"`
	Colors      string   `json:"colors,omitempty"`
}

// SiteConfig is the singleton document naming the active template and
// the catalog of available ones.
type SiteConfig struct {
	ActiveTemplate     string     `json:"activeTemplate"`
	AvailableTemplates []Template `json:"availableTemplates"`
}

// Partial is a shallow top-level patch for SiteConfig. Nil fields are
// left untouched by Update.
type Partial struct {
	ActiveTemplate     *string
	AvailableTemplates []Template
}

// HasTemplate reports whether id is present in the available set.
func (c *SiteConfig) HasTemplate(id string) bool {
	for _, t := range c.AvailableTemplates {
		if t.ID == id {
			return true
		}
	}
	return false
}

// DefaultTemplateID is the template rendered when nothing else is known.
const DefaultTemplateID = "Main"

// Fallback returns the hardcoded configuration used whenever the
// backing store cannot be read. The site must always have a renderable
// template.
func Fallback() SiteConfig {
	return SiteConfig{
		ActiveTemplate: DefaultTemplateID,
		AvailableTemplates: []Template{
			{
				ID:          DefaultTemplateID,
				Name:        "Default Template",
				Description: "The default layout with standard spacing and container widths",
			},
		},
	}
}

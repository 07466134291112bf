package config

// DefaultSlug is the landing page served at the site root when no slug
// is requested explicitly.
const DefaultSlug = "main-landing"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:            8080,
		DataDir:         "data",
		AssetsDir:       "data/assets",
		SiteName:        "allset",
		SiteDescription: "AI-assisted landing page builder",
		DefaultSlug:     DefaultSlug,
		Provider:        ProviderOpenAI,
		Model:           "gpt-4o",
		ImageModel:      "dall-e-3",
		AllowAllOrigins: false,
	}
}

package config

// ProviderType identifies an LLM provider used for content generation.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level allset configuration, corresponding to .allset.yml.
type Config struct {
	Port            int          `yaml:"port" koanf:"port"`
	DataDir         string       `yaml:"data_dir" koanf:"data_dir"`
	AssetsDir       string       `yaml:"assets_dir" koanf:"assets_dir"`
	SiteName        string       `yaml:"site_name" koanf:"site_name"`
	SiteDescription string       `yaml:"site_description" koanf:"site_description"`
	DefaultSlug     string       `yaml:"default_slug" koanf:"default_slug"`
	Provider        ProviderType `yaml:"provider" koanf:"provider"`
	Model           string       `yaml:"model" koanf:"model"`
	ImageModel      string       `yaml:"image_model" koanf:"image_model"`
	SupabaseURL     string       `yaml:"supabase_url" koanf:"supabase_url"`
	SupabaseKey     string       `yaml:"supabase_key" koanf:"supabase_key"`
	AllowAllOrigins bool         `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// RemoteConfigured reports whether the hosted database backend is usable.
// Both the endpoint URL and the access key are required.
func (c *Config) RemoteConfigured() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

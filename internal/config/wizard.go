package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .allset.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to allset! Let's configure your site.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Site identity.
	namePrompt := promptui.Prompt{
		Label:   "Site name",
		Default: cfg.SiteName,
	}
	siteName, err := namePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site name: %w", err)
	}

	descPrompt := promptui.Prompt{
		Label:   "Site description",
		Default: cfg.SiteDescription,
	}
	siteDesc, err := descPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site description: %w", err)
	}

	// 2. Server port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("must be a port number")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	port, _ := strconv.Atoi(portStr)

	// 3. Content generation provider.
	providerPrompt := promptui.Select{
		Label: "Select content generation provider",
		Items: []string{"openai", "ollama", "none"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}

	// 4. Hosted database.
	backendPrompt := promptui.Select{
		Label: "Where should site configuration live",
		Items: []string{
			"local  — embedded SQLite under data/",
			"hosted — Supabase project (reads fall back to defaults when unreachable)",
		},
	}
	backendIdx, _, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend selection: %w", err)
	}

	cfg.SiteName = siteName
	cfg.SiteDescription = siteDesc
	cfg.Port = port
	if providerStr == "none" {
		cfg.Provider = ""
		cfg.Model = ""
	} else {
		cfg.Provider = ProviderType(providerStr)
	}

	if backendIdx == 1 {
		urlPrompt := promptui.Prompt{Label: "Supabase project URL"}
		url, err := urlPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("supabase url: %w", err)
		}
		keyPrompt := promptui.Prompt{Label: "Supabase service key", Mask: '*'}
		key, err := keyPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("supabase key: %w", err)
		}
		cfg.SupabaseURL = url
		cfg.SupabaseKey = key
	}

	// Check for API key.
	if envVar := APIKeyEnvVar(cfg.Provider); envVar != "" {
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before generating content.\n", envVar)
		}
	}

	configPath := ".allset.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/allsetlabs/allset/internal/config"
	"github.com/allsetlabs/allset/internal/content"
	"github.com/allsetlabs/allset/internal/db"
	"github.com/allsetlabs/allset/internal/siteconfig"
)

var seedRemote bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the template catalog and a sample landing page",
	Long: `Writes the default template catalog to the config store and creates a
sample landing page so a fresh install renders something. Existing
documents are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		database, err := db.Open(filepath.Join(cfg.DataDir, "allset.db"))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		backend, err := newSiteConfigBackend(cfg, database, seedRemote)
		if err != nil {
			return err
		}

		ctx := context.Background()
		if err := seedSiteConfig(ctx, backend); err != nil {
			return err
		}
		if err := seedLandingPage(ctx, content.NewStore(database), cfg.DefaultSlug, cfg.SiteName, cfg.SiteDescription); err != nil {
			return err
		}

		fmt.Fprintln(os.Stderr, "seeded template catalog and sample landing page")
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedRemote, "remote", false, "seed the hosted database instead of the local one")
	rootCmd.AddCommand(seedCmd)
}

// defaultCatalog is the shipped template catalog.
func defaultCatalog() siteconfig.SiteConfig {
	return siteconfig.SiteConfig{
		ActiveTemplate: siteconfig.DefaultTemplateID,
		AvailableTemplates: []siteconfig.Template{
			{
				ID:          "Main",
				Name:        "Default Template",
				Description: "The default layout with standard spacing and container widths",
				Elements:    []string{"hero", "mainFeatures", "features", "pricing", "faqs", "cta"},
			},
			{
				ID:          "Main2",
				Name:        "Dark Hero",
				Description: "Centered dark hero with stats and testimonials",
				Elements:    []string{"hero", "stats", "features", "testimonials", "pricing", "cta"},
				Colors:      "dark",
			},
			{
				ID:          "Main3",
				Name:        "Contact First",
				Description: "Image-led hero with an inline contact form",
				Elements:    []string{"hero", "mainFeatures", "faqs", "contact", "cta"},
			},
		},
	}
}

func seedSiteConfig(ctx context.Context, backend siteconfig.Backend) error {
	if _, err := backend.Fetch(ctx); err == nil {
		fmt.Fprintln(os.Stderr, "site config already present, skipping")
		return nil
	}
	if err := backend.Persist(ctx, defaultCatalog()); err != nil {
		return fmt.Errorf("seeding site config: %w", err)
	}
	return nil
}

func seedLandingPage(ctx context.Context, store *content.Store, slug, siteName, siteDescription string) error {
	if _, err := store.GetPage(ctx, slug); err == nil {
		fmt.Fprintln(os.Stderr, "landing page already present, skipping")
		return nil
	}

	hero := content.HeroSection{
		Title:        siteName,
		Description:  siteDescription,
		PrimaryCta:   content.CtaButton{Text: "Get started", Link: "#cta"},
		SecondaryCta: content.CtaButton{Text: "See features", Link: "#features"},
	}
	features := content.FeaturesSection{
		Title:       "Everything your launch needs",
		Description: "Generate content once, restyle it whenever you like.",
		Items: []content.Feature{
			{Title: "AI content", Description: "Landing copy generated from a one-line product description.", Icon: "sparkles"},
			{Title: "Switchable templates", Description: "Swap the whole layout without touching the content.", Icon: "swatch"},
			{Title: "Instant sync", Description: "Template changes reach every open tab immediately.", Icon: "bolt"},
		},
	}
	cta := content.CtaSection{
		Title:       "Ready to ship your site?",
		Description: "Open the admin panel and generate your first page.",
		Button:      content.CtaButton{Text: "Open admin", Link: "/allset"},
	}

	doc := &content.Document{PageType: content.PageProduct}
	for _, sec := range []struct {
		slug string
		body any
	}{
		{"hero", hero},
		{"features", features},
		{"cta", cta},
	} {
		raw, err := json.Marshal(sec.body)
		if err != nil {
			return fmt.Errorf("encoding seed section %s: %w", sec.slug, err)
		}
		doc.Sections = append(doc.Sections, content.Section{Slug: sec.slug, Content: raw})
	}

	if err := store.SaveFor(ctx, slug, doc); err != nil {
		return fmt.Errorf("seeding landing page: %w", err)
	}
	return nil
}

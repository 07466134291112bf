package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/allsetlabs/allset/internal/admin"
	"github.com/allsetlabs/allset/internal/config"
	"github.com/allsetlabs/allset/internal/content"
	"github.com/allsetlabs/allset/internal/db"
	"github.com/allsetlabs/allset/internal/generate"
	"github.com/allsetlabs/allset/internal/llm"
	"github.com/allsetlabs/allset/internal/localstore"
	"github.com/allsetlabs/allset/internal/render"
	"github.com/allsetlabs/allset/internal/server"
	"github.com/allsetlabs/allset/internal/settings"
	"github.com/allsetlabs/allset/internal/siteconfig"
	"github.com/allsetlabs/allset/internal/supabase"
)

var serveRemote bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the allset site server",
	Long: `Starts the allset server: public landing pages, the admin panel at
/allset, and the JSON API under /api/allset.`,
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

		backend, err := newSiteConfigBackend(cfg, database, serveRemote)
		if err != nil {
			return err
		}
		scStore := siteconfig.NewStore(backend)
		contentStore := content.NewStore(database)
		settingsStore := settings.NewStore(database, settings.Settings{
			SiteName:        cfg.SiteName,
			SiteDescription: cfg.SiteDescription,
		})

		// The local cache mirrors accepted template switches and pushes
		// them back to the config store in the background.
		local := localstore.Open(filepath.Join(cfg.DataDir, "localstore"),
			func(ctx context.Context, id string) error {
				_, err := scStore.SetActiveTemplate(ctx, id)
				return err
			})
		defer local.Close()

		hub := render.NewHub(cfg.AllowAllOrigins)

		renderer, err := render.NewRenderer()
		if err != nil {
			return fmt.Errorf("loading page templates: %w", err)
		}
		pages := render.NewPages(renderer, scStore, contentStore, settingsStore, cfg.DefaultSlug)

		srv := server.New(server.Config{
			Port:      cfg.Port,
			AssetsDir: cfg.AssetsDir,
			AllowAll:  cfg.AllowAllOrigins,
		})
		r := srv.Router()

		siteconfig.RegisterRoutes(r, scStore, fanout{local: local, hub: hub})
		content.RegisterRoutes(r, contentStore)
		settings.RegisterRoutes(r, settingsStore, cfg.AssetsDir)
		render.RegisterRoutes(r, pages, hub)
		admin.RegisterRoutes(r)

		if cfg.Provider != "" {
			provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model, cfg.ImageModel)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: content generation disabled: %v\n", err)
			} else {
				svc := generate.NewService(provider, contentStore, cfg.AssetsDir)
				generate.RegisterRoutes(r, svc, cfg.DefaultSlug)
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "allset v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Site:  http://localhost:%d/\n", cfg.Port)
		fmt.Fprintf(os.Stderr, "  Admin: http://localhost:%d/allset\n", cfg.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", database.Path())

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveRemote, "remote", false, "store the template catalog in the hosted database")
	rootCmd.AddCommand(serveCmd)
}

// newSiteConfigBackend picks where the template catalog lives. Local
// SQLite is the default; --remote selects the hosted database, which
// degrades to the unavailable backend when its credentials are absent
// so reads still serve the fallback catalog.
func newSiteConfigBackend(cfg *config.Config, database *db.DB, remote bool) (siteconfig.Backend, error) {
	if !remote {
		return siteconfig.NewDBBackend(database), nil
	}
	if !cfg.RemoteConfigured() {
		fmt.Fprintln(os.Stderr, "Warning: --remote without ALLSET_SUPABASE_URL/ALLSET_SUPABASE_KEY; template changes will not persist")
		return siteconfig.UnavailableBackend{}, nil
	}
	return siteconfig.NewRestBackend(supabase.New(cfg.SupabaseURL, cfg.SupabaseKey)), nil
}

// fanout relays accepted template switches to the local cache and to
// connected pages.
type fanout struct {
	local *localstore.Store
	hub   *render.Hub
}

func (f fanout) TemplateChanged(id string) {
	f.local.WriteLocal(id)
	f.hub.TemplateChanged(id)
}

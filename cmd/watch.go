package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/allsetlabs/allset/internal/config"
	"github.com/allsetlabs/allset/internal/db"
	"github.com/allsetlabs/allset/internal/localstore"
	"github.com/allsetlabs/allset/internal/reconcile"
	"github.com/allsetlabs/allset/internal/siteconfig"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the locally active template as it changes",
	Long: `Resolves the template this installation currently renders, the same way
a loaded page does: the stored config first, then the local override,
then live change notifications. Prints each settled switch until
interrupted.`,
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

		scStore := siteconfig.NewStore(siteconfig.NewDBBackend(database))
		local := localstore.Open(filepath.Join(cfg.DataDir, "localstore"), nil)
		defer local.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := scStore.Get(ctx).ActiveTemplate
		w := reconcile.New(server, local, reconcile.WithOnSettle(func(id string) {
			fmt.Printf("active template: %s\n", id)
		}))
		defer w.Close()

		fmt.Printf("server template: %s\n", server)
		w.Hydrate()

		<-ctx.Done()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

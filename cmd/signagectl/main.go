// Command signagectl manages the signage database from the shell: seeding
// venues, listing placements, rendering floor plans and following changes.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"signage-planner/internal/config"
	"signage-planner/internal/logging"
	"signage-planner/internal/store"
	"signage-planner/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "signagectl",
		Short:         "Signage planner administration",
		Long:          "signagectl seeds venues, inspects marker placements and renders floor plans from the signage database.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addPersistentFlags(rootCmd)
	registerCommands(rootCmd)
	return rootCmd
}

func addPersistentFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().String("config", ".", "directory containing signage.yaml or signage.json")
	rootCmd.PersistentFlags().String("db", "", "database path (overrides db.path)")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().Bool("verbose", false, "log at debug level")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(floorPlansCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(clearCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(versionCmd())
}

// env is what every database-backed command runs with.
type env struct {
	cfg *config.Config
	db  *gorm.DB
	log zerolog.Logger
	out io.Writer
}

// withDB loads configuration, opens the database and runs fn.
func withDB(cmd *cobra.Command, fn func(ctx context.Context, e *env) error) error {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return err
	}
	if path := viper.GetString("db"); path != "" {
		cfg.DB.Path = path
	}
	level := cfg.LogLevel
	if viper.GetBool("verbose") {
		level = "debug"
	} else if level == "info" {
		level = "warn"
	}
	log := logging.Setup(level, cmd.ErrOrStderr(), nil)

	db, err := store.Open(store.Config{Path: cfg.DB.Path, Debug: cfg.DB.Debug}, log)
	if err != nil {
		return err
	}
	defer store.Close(db)

	return fn(cmd.Context(), &env{cfg: cfg, db: db, log: log, out: cmd.OutOrStdout()})
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

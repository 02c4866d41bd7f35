package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/kevinmichaelchen/portfolio-sync/internal/config"
	"github.com/kevinmichaelchen/portfolio-sync/internal/pipeline"
	"github.com/kevinmichaelchen/portfolio-sync/internal/surrealdb"
	"github.com/spf13/cobra"
)

func main() {
	sync := syncCmd()
	root := &cobra.Command{
		Use:           "portfolio-sync",
		Short:         "GitHub portfolio repos → document store",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Bare invocation behaves like `sync`.
		RunE: sync.RunE,
	}
	root.Flags().AddFlagSet(sync.Flags())

	root.AddCommand(sync, listCmd(), schemaCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		slog.Error("portfolio-sync failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads configuration and installs the default logger. It runs
// before any network activity so credential problems fail fast.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	return cfg, nil
}

func syncCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch portfolio repos, enrich them, write them in one batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			_, err = pipeline.Run(cmd.Context(), cfg, pipeline.Options{DryRun: dryRun})
			return err
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Build records and log them without writing")
	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the projects currently stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := pipeline.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			projects, err := store.ListProjects(ctx)
			if err != nil {
				return err
			}

			if len(projects) == 0 {
				fmt.Println("No projects stored")
				return nil
			}

			fmt.Printf("%d projects in %s:\n\n", len(projects), cfg.StoreBackend)
			for i, p := range projects {
				fmt.Printf("%d. %s  (%s)\n", i+1, p.DisplayName, p.Name)
				fmt.Printf("   %s\n", p.GitHubURL)
				if p.LiveURL != "" {
					fmt.Printf("   Live: %s\n", p.LiveURL)
				}
				if p.Description != "" {
					fmt.Printf("   %s\n", p.Description)
				}
				if len(p.Topics) > 0 {
					fmt.Printf("   Topics: %s\n", strings.Join(p.Topics, ", "))
				}
				if p.Screenshot == "" {
					fmt.Println("   Screenshot: none")
				}
				if math.IsNaN(p.UpdatedAtTimestamp) {
					fmt.Printf("   WARN: unparseable updatedAt %q\n", p.UpdatedAt)
				}
				fmt.Println()
			}
			return nil
		},
	}
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Initialize/update the SurrealDB project table",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if cfg.StoreBackend != config.BackendSurrealDB {
				fmt.Printf("%s is schemaless, nothing to initialize\n", cfg.StoreBackend)
				return nil
			}

			db, err := surrealdb.NewClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(ctx) }()

			if err := db.InitSchema(ctx); err != nil {
				return err
			}
			fmt.Println("Schema initialized")
			return nil
		},
	}
}

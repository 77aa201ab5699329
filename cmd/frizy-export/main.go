// frizy-export compiles a Frizy project board into LLM-ready context.
//
// It reads work items from the configured Postgres store, runs the
// compactor against them, and writes the serialized export to stdout.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/frizyai/frizycore/compactor"
	"github.com/frizyai/frizycore/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var (
	configPath string
	projectID  string
	format     string

	rootCmd = &cobra.Command{
		Use:   "frizy-export",
		Short: "Export a Frizy project board as LLM context",
		Long: `frizy-export loads a project's work items from Postgres, scores and
compacts them, and prints the serialized context to stdout.`,
		RunE: runExport,
	}

	sessionsCmd = &cobra.Command{
		Use:   "sessions",
		Short: "List recorded sessions for a project",
		RunE:  runSessions,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVarP(&projectID, "project", "p", "", "Project id (overrides config)")
	rootCmd.Flags().StringVarP(&format, "format", "f", "markdown", "Export format: json, markdown, txt, html")
	rootCmd.AddCommand(sessionsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *exportConfig) (*storage.PostgresStore, *pgxpool.Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("no database URL configured (set database_url or DATABASE_URL)")
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect: %w", err)
	}

	return storage.NewPostgresStore(pool), pool, nil
}

func resolveProject(cfg *exportConfig) (string, error) {
	if projectID != "" {
		return projectID, nil
	}
	if cfg.ProjectID != "" {
		return cfg.ProjectID, nil
	}
	return "", fmt.Errorf("no project id given (use --project or project_id in config)")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	project, err := resolveProject(cfg)
	if err != nil {
		return err
	}

	exportFormat := compactor.Format(format)
	if !exportFormat.IsValid() {
		return fmt.Errorf("unknown format %q (want json, markdown, txt, or html)", format)
	}

	ctx := cmd.Context()
	store, pool, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	items, err := store.ListWorkItems(ctx, project)
	if err != nil {
		return fmt.Errorf("failed to load work items: %w", err)
	}

	c := compactor.New(nil)
	out, err := c.Export(items, &cfg.Scoring, nil, nil, exportFormat, &cfg.Project)
	if err != nil {
		return err
	}

	fmt.Println(out)
	return nil
}

func runSessions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	project, err := resolveProject(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, pool, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	sessions, err := store.ListSessions(ctx, project)
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions found")
		return nil
	}

	for _, s := range sessions {
		ended := "active"
		if s.EndedAt != nil {
			ended = s.EndedAt.Format("2006-01-02 15:04")
		}
		fmt.Printf("%-40s %-18s started %s  ended %s  %d activities  %d insights\n",
			s.ID, s.Status, s.StartedAt.Format("2006-01-02 15:04"), ended,
			len(s.Activities), len(s.Insights))
	}

	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/claimsight/neo4j-mcp-claims/internal/analytics"
	"github.com/claimsight/neo4j-mcp-claims/internal/config"
	"github.com/claimsight/neo4j-mcp-claims/internal/database"
	"github.com/claimsight/neo4j-mcp-claims/internal/engine"
	"github.com/claimsight/neo4j-mcp-claims/internal/graph"
	"github.com/claimsight/neo4j-mcp-claims/internal/server"
	"github.com/claimsight/neo4j-mcp-claims/internal/tools/dynamic"
	"github.com/claimsight/neo4j-mcp-claims/tools"
)

// version is injected at build time via -ldflags.
var version = "dev"

var (
	logLevel  string
	transport string
)

var rootCmd = &cobra.Command{
	Use:   "neo4j-mcp-claims",
	Short: "MCP server for insurance claim fraud detection on Neo4j",
	Long: `neo4j-mcp-claims exposes an insurance claims graph and its fraud
detection engine as MCP tools. Claims are ingested into Neo4j, checked
against graph fraud patterns (shared identities, collusive rings, recycled
assets, claim velocity, double dipping), and served to MCP clients over
stdio or streamable HTTP.

Connection and behavior are configured through environment variables
(NEO4J_URI, NEO4J_USERNAME, NEO4J_PASSWORD, NEO4J_DATABASE,
NEO4J_READ_ONLY, MCP_TRANSPORT, MCP_LISTEN_ADDR).`,
	PersistentPreRunE: setupLogging,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server (default command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var initSchemaCmd = &cobra.Command{
	Use:   "init-schema",
	Short: "Create the uniqueness constraints and indexes the claims graph relies on",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInitSchema(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the server version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("neo4j-mcp-claims %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&transport, "transport", "", "MCP transport (stdio, http); overrides MCP_TRANSPORT")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initSchemaCmd)
	rootCmd.AddCommand(versionCmd)
}

// setupLogging routes all logs to stderr. Stdout must stay clean because
// the stdio transport speaks the MCP protocol on it.
func setupLogging(cmd *cobra.Command, args []string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if transport != "" {
		t, err := config.ParseTransport(transport)
		if err != nil {
			return err
		}
		cfg.Transport = t
	}
	slog.Info("configuration loaded", "config", cfg.Redacted())

	db, err := database.NewService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connecting to neo4j: %w", err)
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	an := analytics.NewService(cfg.AnalyticsDisabled)
	an.EmitEvent(an.NewStartupEvent(analytics.StartupEventInfo{
		Version:   version,
		Transport: cfg.Transport,
		ReadOnly:  cfg.ReadOnly,
	}))
	claimsEngine := engine.New(db, cfg.Detection)

	// Dynamic guidance tools ship inside the binary.
	dynamic.EmbeddedFS = tools.ConfigFiles

	srv, err := server.NewServer(cfg, db, an, claimsEngine, version)
	if err != nil {
		return fmt.Errorf("building MCP server: %w", err)
	}

	if err := srv.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serving MCP: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

func runInitSchema(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	db, err := database.NewService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connecting to neo4j: %w", err)
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	if err := graph.EnsureConstraints(ctx, db); err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	slog.Info("schema initialized", "database", db.GetDatabaseName())
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

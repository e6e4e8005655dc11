package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/claimsight/neo4j-mcp-claims/internal/analytics"
	"github.com/claimsight/neo4j-mcp-claims/internal/config"
	"github.com/claimsight/neo4j-mcp-claims/internal/database"
	"github.com/claimsight/neo4j-mcp-claims/internal/engine"
)

const serverName = "neo4j-mcp-claims"

// ClaimsMCPServer exposes the claims graph and fraud engine as MCP tools.
// Tool registration happens once at construction; the tool list is static
// for the lifetime of the process.
type ClaimsMCPServer struct {
	MCPServer *server.MCPServer

	config       *config.Config
	dbService    database.Service
	anService    analytics.Service
	claimsEngine *engine.Engine
}

// NewServer assembles the MCP server and registers every enabled tool.
func NewServer(cfg *config.Config, db database.Service, an analytics.Service, eng *engine.Engine, version string) (*ClaimsMCPServer, error) {
	mcpServer := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s := &ClaimsMCPServer{
		MCPServer:    mcpServer,
		config:       cfg,
		dbService:    db,
		anService:    an,
		claimsEngine: eng,
	}

	if err := s.registerTools(); err != nil {
		return nil, err
	}
	return s, nil
}

// Serve blocks until the transport shuts down or ctx is cancelled. The
// stdio transport serves a single client on stdin/stdout; the HTTP
// transport serves streamable-HTTP sessions on the configured address.
func (s *ClaimsMCPServer) Serve(ctx context.Context) error {
	switch s.config.Transport {
	case config.TransportHTTP:
		httpServer := server.NewStreamableHTTPServer(s.MCPServer)
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("http server shutdown failed", "error", err)
			}
		}()
		slog.Info("serving MCP over streamable HTTP", "addr", s.config.ListenAddr)
		if err := httpServer.Start(s.config.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	default:
		slog.Info("serving MCP over stdio")
		stdioServer := server.NewStdioServer(s.MCPServer)
		return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
	}
}

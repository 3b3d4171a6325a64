package mcp

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	journey "github.com/mynaturejourney/journey/pkg"
	"github.com/mynaturejourney/journey/pkg/api"
	"github.com/mynaturejourney/journey/pkg/session"
	"github.com/mynaturejourney/journey/pkg/wizard"
)

// Deps are the collaborators the tools call into.
type Deps struct {
	Client   *api.Client
	Service  wizard.Service
	Geocoder wizard.Geocoder
	Options  []wizard.Option
	// Session, when set, is checked before each backend call.
	Session session.Provider
}

type JourneyMCPServer struct {
	mcpServer *server.MCPServer
	deps      Deps
	db        *sql.DB
}

// NewJourneyMCPServer builds an MCP server with every trip tool registered.
// db is the local session store; it is checkpointed on Close and may be nil.
func NewJourneyMCPServer(deps Deps, db *sql.DB) *JourneyMCPServer {
	s := server.NewMCPServer(
		"MyNatureJourney MCP Server",
		journey.Version,
		server.WithLogging(),
		server.WithRecovery(),
	)
	RegisterAllTools(s, deps)
	return &JourneyMCPServer{mcpServer: s, deps: deps, db: db}
}

// Start runs the stdio event loop.
func (s *JourneyMCPServer) Start() error {
	return server.ServeStdio(s.mcpServer)
}

// MCPRawServer exposes the raw mcp-go server (useful for additional configuration).
func (s *JourneyMCPServer) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}

// Close cleans up allocated resources.
func (s *JourneyMCPServer) Close() error {
	if s.db != nil {
		// TRUNCATE mode waits for transactions and writes the WAL back to the main DB.
		_, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE);")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: WAL checkpoint failed during close: %v\n", err)
		}
		return s.db.Close()
	}
	return nil
}

// Package mcp exposes the governance loop to agent collaborators over the
// Model Context Protocol on stdio.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/skyconnfig/cognitive-os/internal/config"
	"github.com/skyconnfig/cognitive-os/internal/governor"
)

// Server wraps the MCP SDK server around a Governor.
type Server struct {
	mcpServer *mcpsdk.Server
	gov       *governor.Governor
	logPath   string
}

// New creates an MCP server over the configured data directory.
func New(cfg *config.Config) (*Server, error) {
	gov, err := governor.New(cfg)
	if err != nil {
		return nil, err
	}

	s := &Server{
		gov:     gov,
		logPath: cfg.LogPath(),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "cogos",
			Version: "0.1.0",
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport. Blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// registerTools adds all cogos tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "cogos_status",
		Description: "Current governance state: focus mode, intervention level, expansion lock, goal.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "cogos_run",
		Description: "Run one governance pass: aggregate the record window, evaluate the rule table, apply interventions.",
	}, s.handleRun)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "cogos_can_expand",
		Description: "Check whether creating a new work item is currently allowed.",
	}, s.handleCanExpand)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "cogos_set_goal",
		Description: "Set the current goal text on the governance state.",
	}, s.handleSetGoal)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "cogos_unlock",
		Description: "Lift the expansion lock. Refused unless the advisory unlock check passes or force is set.",
	}, s.handleUnlock)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "cogos_log",
		Description: "Tail the intervention log, optionally filtered by run ID.",
	}, s.handleLog)
}

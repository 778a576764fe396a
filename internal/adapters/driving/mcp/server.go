package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/labelkit/internal/logger"
)

// Version is reported to clients during initialisation.
const Version = "0.1.0"

// shutdownGrace bounds how long RunHTTP waits for open sessions.
const shutdownGrace = 5 * time.Second

// Server exposes a labelkit workspace as MCP tools and resources.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer builds a server over ports and registers its handlers.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{ports: ports}
	s.server = mcp.NewServer(
		&mcp.Implementation{Name: "labelkit", Version: Version},
		&mcp.ServerOptions{Instructions: s.Instructions()},
	)
	s.registerTools()
	s.registerResources()
	return s, nil
}

// Instructions tells clients how projects are chosen.
func (s *Server) Instructions() string {
	if s.ports.DefaultProject > 0 {
		return fmt.Sprintf("Annotation project tools. Calls without a project use project %d.",
			s.ports.DefaultProject)
	}
	return "Annotation project tools. No default project is configured; pass project on every call."
}

// Run serves over stdio until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("mcp: serving on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is done.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr: addr,
		Handler: mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return s.server
		}, nil),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		stopped <- httpServer.Shutdown(sctx)
	}()

	logger.Debug("mcp: serving on http %s", addr)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving mcp over http: %w", err)
	}
	return <-stopped
}

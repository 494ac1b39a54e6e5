// Package mcp exposes the extension check as a Model Context Protocol tool
// served over stdio.
package mcp

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"
)

// ServerName identifies the server to MCP clients.
const ServerName = "extcheck-mcp"

// Server manages the MCP server lifecycle.
type Server struct {
	mcp    *server.MCPServer
	logger *log.Logger
	serve  func(*server.MCPServer) error
}

// NewServer creates an MCP server exposing the check performed by checker.
func NewServer(checker ReportChecker, version string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
	)
	AddUsedExtensionsTool(mcpServer, checker)

	return &Server{
		mcp:    mcpServer,
		logger: logger,
		serve: func(s *server.MCPServer) error {
			return server.ServeStdio(s)
		},
	}
}

// Serve serves stdio and blocks until the client disconnects, a shutdown
// signal arrives or ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting MCP server on stdio")
		if err := s.serve(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-sigCh:
		s.logger.Info("received shutdown signal, stopping")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

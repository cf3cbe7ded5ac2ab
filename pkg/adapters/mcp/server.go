package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/service"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ExampleURIPrefix prefixes the resources serving the bundled machines.
const ExampleURIPrefix = "turing://examples/"

// ValidateArgs are the arguments of the validate_definition tool.
type ValidateArgs struct {
	Definition string  `json:"definition"`
	HaltState  *string `json:"halt_state,omitempty"`
}

// Service defines the operations the MCP server exposes.
type Service interface {
	Simulate(ctx context.Context, req service.SimulateRequest) (service.SimulateResponse, error)
	Validate(text string, halt domain.State) (service.ValidateResponse, error)
}

// Server wraps a Service and exposes it as an MCP Server.
type Server struct {
	service   Service
	examples  fs.FS
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. examples may be nil.
func NewServer(svc Service, examples fs.FS) (*Server, error) {
	s := &Server{
		service:   svc,
		examples:  examples,
		mcpServer: server.NewMCPServer("turing-mcp", strings.TrimSpace(turing.Version)),
	}
	s.registerTools()
	if err := s.registerResources(); err != nil {
		return nil, err
	}
	return s, nil
}

// MCPServer returns the underlying server, for transports other than stdio.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP endpoints /sse and /message on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string, logger *slog.Logger) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: simulate
	simulateTool := mcp.NewTool("simulate",
		mcp.WithDescription("Run a Turing machine definition on an input until it halts or reaches max_steps. "+
			"A definition names the initial state on its first line, then one transition per line: "+
			"'A + _ |> B + 1 |> R' means in state A reading '_' write '1', move right, go to B. "+
			"'_' is the blank symbol and 'H' the halt state."),
		mcp.WithString("definition", mcp.Required(), mcp.Description("Machine definition text")),
		mcp.WithString("input", mcp.Description("Initial tape contents written from position 0 (optional)")),
		mcp.WithNumber("max_steps", mcp.Description("Stop after this many steps (optional)")),
		mcp.WithString("halt_state", mcp.Description("Reserved halt state name; empty string disables it (optional)")),
		mcp.WithOutputSchema[service.SimulateResponse](),
	)
	s.mcpServer.AddTool(simulateTool, mcp.NewStructuredToolHandler(s.handleSimulate))

	// TOOL: validate_definition
	validateTool := mcp.NewTool("validate_definition",
		mcp.WithDescription("Parse a Turing machine definition and report its states, alphabet and lint issues."),
		mcp.WithString("definition", mcp.Required(), mcp.Description("Machine definition text")),
		mcp.WithString("halt_state", mcp.Description("Reserved halt state name; empty string disables it (optional)")),
		mcp.WithOutputSchema[service.ValidateResponse](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))
}

func (s *Server) handleSimulate(ctx context.Context, request mcp.CallToolRequest, args service.SimulateRequest) (service.SimulateResponse, error) {
	resp, err := s.service.Simulate(ctx, args)
	if err != nil {
		return service.SimulateResponse{}, describe(err)
	}
	return resp, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args ValidateArgs) (service.ValidateResponse, error) {
	halt := domain.DefaultHaltState
	if args.HaltState != nil {
		halt = domain.State(*args.HaltState)
	}
	resp, err := s.service.Validate(args.Definition, halt)
	if err != nil {
		return service.ValidateResponse{}, describe(err)
	}
	return resp, nil
}

// describe turns client errors into a message that names the line or column.
func describe(err error) error {
	body, ok := service.ClientError(err)
	if !ok {
		return err
	}
	raw, _ := json.Marshal(body)
	return fmt.Errorf("%s", raw)
}

func (s *Server) registerResources() error {
	if s.examples == nil {
		return nil
	}
	names, err := fs.Glob(s.examples, "examples/*.tm")
	if err != nil {
		return fmt.Errorf("failed to list examples: %w", err)
	}

	for _, name := range names {
		file := name
		uri := ExampleURIPrefix + strings.TrimSuffix(path.Base(file), ".tm")
		s.mcpServer.AddResource(mcp.NewResource(uri, path.Base(file),
			mcp.WithResourceDescription("Example Turing machine definition"),
			mcp.WithMIMEType("text/plain"),
		), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			data, err := fs.ReadFile(s.examples, file)
			if err != nil {
				return nil, fmt.Errorf("failed to read example %s: %w", file, err)
			}
			return []mcp.ResourceContents{
				mcp.TextResourceContents{
					URI:      uri,
					MIMEType: "text/plain",
					Text:     string(data),
				},
			}, nil
		})
	}
	return nil
}

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/statespace"
	"github.com/aretw0/statespace/pkg/domain"
	"github.com/aretw0/statespace/pkg/export"
	"github.com/aretw0/statespace/pkg/gate"
	"github.com/aretw0/statespace/pkg/product"
	"github.com/aretw0/statespace/pkg/sanitize"
)

// SetsURI is the resource listing the named sets.
const SetsURI = "statespace://sets"

// GenerateResponse aligns with the HTTP API and provides a unified structure across adapters.
type GenerateResponse struct {
	Count  int               `json:"count" jsonschema_description:"Number of states"`
	Passed bool              `json:"passed" jsonschema_description:"Whether the gate accepted the variables"`
	Issues []gate.Issue      `json:"issues" jsonschema_description:"Problems found by the gate"`
	States domain.StateSpace `json:"states" jsonschema_description:"Every combination of values, in enumeration order"`
}

// ValidateResponse is the output of validate_variables.
type ValidateResponse struct {
	Passed   bool         `json:"passed" jsonschema_description:"Whether the gate accepted the variables"`
	Eligible int          `json:"eligible" jsonschema_description:"Variables that would take part in the product"`
	States   int          `json:"states" jsonschema_description:"Number of states the product would have, -1 on overflow"`
	Issues   []gate.Issue `json:"issues" jsonschema_description:"Problems found by the gate"`
}

// toolArgs are the arguments shared by the generating tools.
type toolArgs struct {
	Set         string             `mapstructure:"set"`
	Variables   domain.VariableSet `mapstructure:"variables"`
	Policy      string             `mapstructure:"policy"`
	UniqueNames *bool              `mapstructure:"unique_names"`
	Format      string             `mapstructure:"format"`
	RFC4180     bool               `mapstructure:"rfc4180"`
}

// Server wraps the statespace Engine and exposes it as an MCP Server.
type Server struct {
	engine    *statespace.Engine
	mcpServer *server.MCPServer
	limits    sanitize.Limits
}

// Option configures the MCP Server.
type Option func(*Server)

// WithLimits overrides the input limits; zero fields keep their defaults.
func WithLimits(l sanitize.Limits) Option {
	return func(s *Server) {
		s.limits = l
	}
}

// NewServer creates a new MCP Server instance.
// Generation is always bounded: see sanitize.StateCap.
func NewServer(engine *statespace.Engine, opts ...Option) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer("statespace-mcp", strings.TrimSpace(statespace.Version)),
		limits:    sanitize.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = engine.With(statespace.WithMaxStates(sanitize.StateCap(engine.MaxStates(), s.limits)))
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

var variableSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name":   map[string]any{"type": "string"},
		"kind":   map[string]any{"type": "string", "enum": []string{"boolean", "enum"}},
		"domain": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
	},
}

func setArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithArray("variables",
			mcp.Description("Variables in declaration order. Ignored when 'set' is given."),
			mcp.Items(variableSchema),
		),
		mcp.WithString("set", mcp.Description("Name of a stored variable set (optional)")),
		mcp.WithString("policy", mcp.Description("Gate policy"), mcp.Enum("strict", "lenient")),
		mcp.WithBoolean("unique_names", mcp.Description("Report duplicate names and values")),
	}
}

func (s *Server) registerTools() {
	// TOOL: generate_states
	generateOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Generate every combination of values of the given variables."),
		mcp.WithOutputSchema[GenerateResponse](),
	}, setArgs()...)
	s.mcpServer.AddTool(mcp.NewTool("generate_states", generateOpts...), mcp.NewStructuredToolHandler(s.handleGenerate))

	// TOOL: export_states
	exportOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Generate the state space and encode it (json, csv, yaml, markdown, table, display)."),
		mcp.WithString("format", mcp.Description("Output format (default json)")),
		mcp.WithBoolean("rfc4180", mcp.Description("Use RFC 4180 CSV (CRLF, doubled quotes)")),
	}, setArgs()...)
	s.mcpServer.AddTool(mcp.NewTool("export_states", exportOpts...), s.handleExport)

	// TOOL: validate_variables
	validateOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Run the gate over the variables without generating states."),
		mcp.WithOutputSchema[ValidateResponse](),
	}, setArgs()...)
	s.mcpServer.AddTool(mcp.NewTool("validate_variables", validateOpts...), mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: list_sets
	s.mcpServer.AddTool(mcp.NewTool("list_sets",
		mcp.WithDescription("List the names of the stored variable sets."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		names, err := s.engine.ListSets(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(names)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// resolve decodes the arguments and returns the engine and variables to use.
func (s *Server) resolve(ctx context.Context, raw map[string]interface{}) (*statespace.Engine, domain.VariableSet, toolArgs, error) {
	var args toolArgs
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.TextUnmarshallerHookFunc(),
		WeaklyTypedInput: true,
		Result:           &args,
	})
	if err != nil {
		return nil, nil, args, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, nil, args, fmt.Errorf("invalid arguments: %w", err)
	}

	var opts []statespace.Option
	if args.Policy != "" {
		policy, err := gate.ParsePolicy(args.Policy)
		if err != nil {
			return nil, nil, args, err
		}
		opts = append(opts, statespace.WithPolicy(policy))
	}
	if args.UniqueNames != nil {
		opts = append(opts, statespace.WithUniqueNames(*args.UniqueNames))
	}
	eng := s.engine.With(opts...)

	if args.Set != "" {
		set, err := eng.LoadSet(ctx, args.Set)
		return eng, set, args, err
	}
	set, err := args.Variables.Normalized()
	if err != nil {
		return eng, nil, args, err
	}
	return eng, set, args, sanitize.Set(set, s.limits)
}

func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GenerateResponse, error) {
	eng, set, _, err := s.resolve(ctx, args)
	if err != nil {
		return GenerateResponse{}, err
	}
	space, res, err := eng.Generate(ctx, set)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("generate failed: %w", err)
	}
	issues := res.Issues
	if issues == nil {
		issues = []gate.Issue{}
	}
	return GenerateResponse{Count: len(space), Passed: res.Passed, Issues: issues, States: space}, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ValidateResponse, error) {
	eng, set, _, err := s.resolve(ctx, args)
	if err != nil {
		return ValidateResponse{}, err
	}
	res := eng.Check(set)
	resp := ValidateResponse{Passed: res.Passed, Eligible: len(res.Eligible), Issues: res.Issues}
	if resp.Issues == nil {
		resp.Issues = []gate.Issue{}
	}
	if res.Passed {
		resp.States = statesFor(res.Eligible)
	}
	return resp, nil
}

func (s *Server) handleExport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eng, set, args, err := s.resolve(ctx, request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	format := export.FormatJSON
	if args.Format != "" {
		if format, err = export.ParseFormat(args.Format); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	out, err := eng.With(statespace.WithCSVOptions(export.Options{RFC4180: args.RFC4180})).Export(ctx, set, format)
	if err != nil {
		if !errors.Is(err, domain.ErrSetNotFound) {
			slog.Error("MCP Export failed", "error", err)
		}
		return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", err)), nil
	}
	if !out.OK {
		return mcp.NewToolResultText(""), nil
	}
	return mcp.NewToolResultText(string(out.Data)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: statespace://sets
	s.mcpServer.AddResource(mcp.NewResource(SetsURI, "Stored variable sets",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.engine.ListSets(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list sets: %w", err)
		}
		jsonBytes, _ := json.Marshal(names)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      SetsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

// statesFor returns the product cardinality, or -1 when it overflows int.
func statesFor(vars []domain.Variable) int {
	n, err := product.Count(vars)
	if err != nil {
		return -1
	}
	return n
}

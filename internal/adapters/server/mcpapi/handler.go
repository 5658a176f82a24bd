// Package mcpapi provides a stateless MCP streamable-HTTP adapter over the
// persisted board.
package mcpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/evanschultz/tavla/internal/domain"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Config captures MCP transport configuration.
type Config struct {
	ServerName    string
	ServerVersion string
	EndpointPath  string
}

// BoardReader reads the persisted board without touching a live session.
type BoardReader interface {
	PersistedState(context.Context) (domain.BoardState, error)
	Titles() domain.BoardTitles
}

// BoardResult is the tavla.board payload.
type BoardResult struct {
	Todo  []string `json:"todo"`
	Doing []string `json:"doing"`
	Done  []string `json:"done"`
}

// ColumnResult is the tavla.column payload.
type ColumnResult struct {
	Column string   `json:"column"`
	Title  string   `json:"title"`
	Items  []string `json:"items"`
}

// Handler wraps one stateless MCP streamable HTTP handler.
type Handler struct {
	httpHandler http.Handler
}

// NewHandler builds one stateless MCP adapter with the read-only board tools.
func NewHandler(cfg Config, board BoardReader) (*Handler, error) {
	if board == nil {
		return nil, fmt.Errorf("board reader is required")
	}
	cfg = normalizeConfig(cfg)

	mcpSrv := mcpserver.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		mcpserver.WithToolCapabilities(false),
	)
	registerBoardTool(mcpSrv, board)
	registerColumnTool(mcpSrv, board)

	streamable := mcpserver.NewStreamableHTTPServer(
		mcpSrv,
		mcpserver.WithEndpointPath(cfg.EndpointPath),
		mcpserver.WithStateLess(true),
	)
	return &Handler{httpHandler: streamable}, nil
}

// ServeHTTP handles one MCP streamable HTTP request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.httpHandler == nil {
		http.Error(w, "mcp handler unavailable", http.StatusServiceUnavailable)
		return
	}
	h.httpHandler.ServeHTTP(w, r)
}

// normalizeConfig applies deterministic defaults to MCP adapter config.
func normalizeConfig(cfg Config) Config {
	cfg.ServerName = strings.TrimSpace(cfg.ServerName)
	if cfg.ServerName == "" {
		cfg.ServerName = "tavla"
	}
	cfg.ServerVersion = strings.TrimSpace(cfg.ServerVersion)
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "dev"
	}
	cfg.EndpointPath = strings.TrimSpace(cfg.EndpointPath)
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = "/mcp"
	}
	if !strings.HasPrefix(cfg.EndpointPath, "/") {
		cfg.EndpointPath = "/" + cfg.EndpointPath
	}
	cfg.EndpointPath = "/" + strings.Trim(cfg.EndpointPath, "/")
	return cfg
}

// registerBoardTool registers the `tavla.board` tool.
func registerBoardTool(srv *mcpserver.MCPServer, board BoardReader) {
	srv.AddTool(
		mcp.NewTool(
			"tavla.board",
			mcp.WithDescription("Return the persisted todo, doing and done lists."),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			state, err := board.PersistedState(ctx)
			if err != nil {
				return toolResultFromError(err), nil
			}
			state = state.Normalized()
			result, err := mcp.NewToolResultJSON(BoardResult{
				Todo:  state.Todo,
				Doing: state.Doing,
				Done:  state.Done,
			})
			if err != nil {
				return nil, fmt.Errorf("encode board result: %w", err)
			}
			return result, nil
		},
	)
}

// registerColumnTool registers the `tavla.column` tool.
func registerColumnTool(srv *mcpserver.MCPServer, board BoardReader) {
	keys := make([]string, 0, len(domain.ColumnIDs()))
	for _, id := range domain.ColumnIDs() {
		keys = append(keys, id.String())
	}
	srv.AddTool(
		mcp.NewTool(
			"tavla.column",
			mcp.WithDescription("Return one persisted column with its title."),
			mcp.WithString("column", mcp.Required(), mcp.Description("Column key"), mcp.Enum(keys...)),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			raw, err := req.RequireString("column")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			id, err := domain.ParseColumnID(raw)
			if err != nil {
				return toolResultFromError(err), nil
			}
			state, err := board.PersistedState(ctx)
			if err != nil {
				return toolResultFromError(err), nil
			}
			items := append([]string{}, state.Items(id)...)
			result, err := mcp.NewToolResultJSON(ColumnResult{
				Column: id.String(),
				Title:  board.Titles().Title(id),
				Items:  items,
			})
			if err != nil {
				return nil, fmt.Errorf("encode column result: %w", err)
			}
			return result, nil
		},
	)
}

// toolResultFromError maps service errors into MCP-visible tool errors.
func toolResultFromError(err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return mcp.NewToolResultError("unknown error")
	case errors.Is(err, domain.ErrInvalidColumnID):
		return mcp.NewToolResultError("invalid_request: " + err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return mcp.NewToolResultError("unavailable: " + err.Error())
	default:
		return mcp.NewToolResultError("internal_error: " + err.Error())
	}
}

package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/evanschultz/tavla/internal/domain"
)

// stubBoard returns a fixed persisted board.
type stubBoard struct{}

func (stubBoard) PersistedState(context.Context) (domain.BoardState, error) {
	return domain.BoardState{Todo: []string{"wash car"}}, nil
}

func (stubBoard) Titles() domain.BoardTitles {
	return domain.DefaultTitles()
}

// TestNewHandlerServesHealth verifies the health endpoint and the MCP mount.
func TestNewHandlerServesHealth(t *testing.T) {
	handler, cfg, err := NewHandler(Config{}, Dependencies{Board: stubBoard{}})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	if cfg.HTTPBind != defaultBindAddress || cfg.MCPEndpoint != "/mcp" {
		t.Fatalf("unexpected normalized config %#v", cfg)
	}

	server := httptest.NewServer(handler)
	defer server.Close()

	resp, err := server.Client().Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"ok"`) {
		t.Fatalf("health = %d %q", resp.StatusCode, body)
	}

	resp, err = server.Client().Get(server.URL + "/missing")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown path status = %d, want 404", resp.StatusCode)
	}
}

// TestNewHandlerRequiresBoard verifies dependency enforcement.
func TestNewHandlerRequiresBoard(t *testing.T) {
	if _, _, err := NewHandler(Config{}, Dependencies{}); err == nil {
		t.Fatal("NewHandler() error = nil, want error")
	}
}

// TestNormalizeConfig verifies defaults and endpoint collisions.
func TestNormalizeConfig(t *testing.T) {
	cfg, err := normalizeConfig(Config{HTTPBind: " 127.0.0.1:9999 ", MCPEndpoint: "tools/"})
	if err != nil {
		t.Fatalf("normalizeConfig() error = %v", err)
	}
	if cfg.HTTPBind != "127.0.0.1:9999" || cfg.MCPEndpoint != "/tools" {
		t.Fatalf("unexpected config %#v", cfg)
	}
	if cfg.ServerName != "tavla" || cfg.ServerVersion != "dev" {
		t.Fatalf("unexpected identity %#v", cfg)
	}
	if _, err := normalizeConfig(Config{MCPEndpoint: "/healthz"}); err == nil {
		t.Fatal("expected collision error for /healthz")
	}
	if got := normalizeEndpoint("/", "/mcp"); got != "/mcp" {
		t.Fatalf("normalizeEndpoint(/) = %q", got)
	}
}

// TestRunStopsOnContextCancel verifies graceful shutdown.
func TestRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(ctx, Config{HTTPBind: "127.0.0.1:0"}, Dependencies{Board: stubBoard{}})
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(2 * defaultShutdownTimeout):
		t.Fatal("Run() did not return after cancel")
	}
}

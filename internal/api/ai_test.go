package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"showcase/internal/ai"
	"showcase/internal/db"
)

func TestInsightsUnconfiguredReturns503(t *testing.T) {
	server, database := setupTestServer(t)
	defer server.Close()
	defer database.Close()

	resp := doReq(t, server.URL, http.MethodPost, "/api/ai/insights", map[string]any{
		"title": "Anything",
	}, nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
	var payload map[string]string
	decodeJSON(t, resp, &payload)
	if payload["error"] != "ai service not configured" {
		t.Fatalf("unexpected error %q", payload["error"])
	}
}

func TestInsightsProxiesUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected upstream path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer auth, got %q", r.Header.Get("Authorization"))
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode upstream request: %v", err)
		}
		if len(req.Messages) == 0 {
			t.Error("no messages forwarded upstream")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"这个项目很有意思。"}}]}`))
	}))
	defer upstream.Close()

	server, database := setupInsightServer(t, ai.New(upstream.URL, "test-key", "test-model"))
	defer server.Close()
	defer database.Close()

	resp := doReq(t, server.URL, http.MethodPost, "/api/ai/insights", map[string]any{
		"title":            "I Ching Divination",
		"backgroundStory":  "built over a weekend",
		"shortDescription": "hexagram readings",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("insight status = %d", resp.StatusCode)
	}
	var payload struct {
		Insight string `json:"insight"`
	}
	decodeJSON(t, resp, &payload)
	if payload.Insight != "这个项目很有意思。" {
		t.Fatalf("unexpected insight %q", payload.Insight)
	}
}

func TestInsightsUpstreamFailureReturns502(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	server, database := setupInsightServer(t, ai.New(upstream.URL, "test-key", "test-model"))
	defer server.Close()
	defer database.Close()

	resp := doReq(t, server.URL, http.MethodPost, "/api/ai/insights", map[string]any{
		"title": "Broken",
	}, nil)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()
}

func setupInsightServer(t *testing.T, insights *ai.Client) (*httptest.Server, *sql.DB) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "showcase-ai-test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(database); err != nil {
		t.Fatalf("migrate db: %v", err)
	}
	srv := httptest.NewServer(NewRouter(database, insights, "test", zerolog.Nop()))
	return srv, database
}

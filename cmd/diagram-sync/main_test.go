package main

// Notes:
// - runMain: the Confluence service is an httptest server; the diagrams
//   directory is empty so no PlantUML runtime is needed.
// - Rendering through java is not exercised here; it is covered by the
//   renderer tests in the root package.
// - Tests use t.Setenv() which prevents t.Parallel().
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake Confluence and environment
// ---------------------------------------------------------------------------

type fakeConfluence struct {
	mu      sync.Mutex
	body    string
	version int
	status  int // non-zero forces this status on GET
	puts    []map[string]any
}

func (f *fakeConfluence) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if r.URL.Path != "/wiki/api/v2/pages/123" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}

		switch r.Method {
		case http.MethodGet:
			if f.status != 0 {
				w.WriteHeader(f.status)
				_, _ = io.WriteString(w, `{"message":"nope"}`)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":      "123",
				"title":   "Architecture",
				"spaceId": "98",
				"body":    map[string]any{"storage": map[string]any{"value": f.body}},
				"version": map[string]any{"number": f.version},
			})
		case http.MethodPut:
			var payload map[string]any
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Errorf("decoding PUT body: %v", err)
			}
			f.puts = append(f.puts, payload)
			_ = json.NewEncoder(w).Encode(payload)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}
}

// setupRun points the CLI at srv through the environment and returns a
// test Environment with captured output.
func setupRun(t *testing.T, srv *httptest.Server) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	clearEnv(t)
	t.Setenv("CONFLUENCE_URL", srv.URL+"/wiki")
	t.Setenv("CONFLUENCE_USER", "me@example.com")
	t.Setenv("CONFLUENCE_TOKEN", "secret")
	t.Setenv("CONFLUENCE_PAGE_ID", "123")
	t.Setenv("DIAGRAMS_DIR", t.TempDir())

	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) },
		Stdout: &stdout,
		Stderr: &stderr,
	}
	return env, &stdout, &stderr
}

// ---------------------------------------------------------------------------
// TestRunMain_Sync - End-to-end against a fake service
// ---------------------------------------------------------------------------

func TestRunMain_Sync_UpdatesPage(t *testing.T) {
	fake := &fakeConfluence{body: "<p>intro</p>", version: 5}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	env, stdout, stderr := setupRun(t, srv)

	code := runMain(context.Background(), []string{"diagram-sync", "sync", "-q"}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d; stderr:\n%s", code, ExitSuccess, stderr)
	}
	if stdout.Len() != 0 {
		t.Errorf("quiet run printed %q", stdout.String())
	}

	if len(fake.puts) != 1 {
		t.Fatalf("PUT requests = %d, want 1", len(fake.puts))
	}
	body := fake.puts[0]["body"].(map[string]any)
	if v := body["value"].(string); v != "<p>intro</p>\n<h2>Diagrams</h2><p>No diagrams found.</p>" {
		t.Errorf("PUT body = %q", v)
	}
	version := fake.puts[0]["version"].(map[string]any)
	if n := version["number"].(float64); n != 6 {
		t.Errorf("PUT version = %v, want 6", n)
	}
}

func TestRunMain_Sync_PrintsOutcome(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantOut  string
		wantPuts int
	}{
		{
			name:     "changed body",
			body:     "<h2>Diagrams</h2><p>stale</p>",
			wantOut:  "Confluence page updated.",
			wantPuts: 1,
		},
		{
			name:     "unchanged body",
			body:     "<p>intro</p>\n<h2>Diagrams</h2><p>No diagrams found.</p>",
			wantOut:  "No changes detected.",
			wantPuts: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeConfluence{body: tt.body, version: 1}
			srv := httptest.NewServer(fake.handler(t))
			defer srv.Close()

			env, stdout, stderr := setupRun(t, srv)

			// A leading flag selects the default sync command.
			code := runMain(context.Background(), []string{"diagram-sync", "--log-format", "json"}, env)
			if code != ExitSuccess {
				t.Fatalf("exit code = %d; stderr:\n%s", code, stderr)
			}
			if got := strings.TrimSpace(stdout.String()); got != tt.wantOut {
				t.Errorf("stdout = %q, want %q", got, tt.wantOut)
			}
			if len(fake.puts) != tt.wantPuts {
				t.Errorf("PUT requests = %d, want %d", len(fake.puts), tt.wantPuts)
			}
		})
	}
}

func TestRunMain_Sync_Errors(t *testing.T) {
	t.Run("page not found", func(t *testing.T) {
		fake := &fakeConfluence{status: http.StatusNotFound}
		srv := httptest.NewServer(fake.handler(t))
		defer srv.Close()

		env, _, stderr := setupRun(t, srv)

		code := runMain(context.Background(), []string{"diagram-sync"}, env)
		if code != ExitRemote {
			t.Errorf("exit code = %d, want %d", code, ExitRemote)
		}
		if !strings.Contains(stderr.String(), "404") || !strings.Contains(stderr.String(), "hint:") {
			t.Errorf("stderr should report 404 with a hint:\n%s", stderr)
		}
		if len(fake.puts) != 0 {
			t.Error("page was updated after a failed fetch")
		}
	})

	t.Run("missing token", func(t *testing.T) {
		fake := &fakeConfluence{}
		srv := httptest.NewServer(fake.handler(t))
		defer srv.Close()

		env, _, stderr := setupRun(t, srv)
		t.Setenv("CONFLUENCE_TOKEN", "")

		code := runMain(context.Background(), []string{"diagram-sync", "sync"}, env)
		if code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
		if !strings.Contains(stderr.String(), "CONFLUENCE_TOKEN") {
			t.Errorf("stderr should point at CONFLUENCE_TOKEN:\n%s", stderr)
		}
	})

	t.Run("missing diagrams directory", func(t *testing.T) {
		fake := &fakeConfluence{body: "<p>x</p>", version: 1}
		srv := httptest.NewServer(fake.handler(t))
		defer srv.Close()

		env, _, stderr := setupRun(t, srv)
		t.Setenv("DIAGRAMS_DIR", "/nonexistent/diagrams")

		code := runMain(context.Background(), []string{"diagram-sync"}, env)
		if code != ExitIO {
			t.Errorf("exit code = %d, want %d; stderr:\n%s", code, ExitIO, stderr)
		}
		if !strings.Contains(stderr.String(), "DIAGRAMS_DIR") {
			t.Errorf("stderr should point at DIAGRAMS_DIR:\n%s", stderr)
		}
		if len(fake.puts) != 0 {
			t.Error("page was updated despite missing sources")
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunMain_Commands - Dispatch
// ---------------------------------------------------------------------------

func TestRunMain_Commands(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"version", []string{"version"}, ExitSuccess, "diagram-sync dev", ""},
		{"help flag", []string{"-h"}, ExitSuccess, "Usage: diagram-sync", ""},
		{"sync help flag", []string{"sync", "--help"}, ExitSuccess, "Usage: diagram-sync sync", ""},
		{"help command", []string{"help", "watch"}, ExitSuccess, "--debounce", ""},
		{"unknown command", []string{"deploy"}, ExitUsage, "", "Unknown command: deploy"},
		{"unknown flag", []string{"sync", "--bogus"}, ExitUsage, "", "error:"},
		{"bad debounce", []string{"watch", "--debounce", "0s"}, ExitUsage, "", "debounce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			env := &Environment{Now: time.Now, Stdout: &stdout, Stderr: &stderr}

			code := runMain(context.Background(), append([]string{"diagram-sync"}, tt.args...), env)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d; stderr:\n%s", code, tt.wantCode, stderr.String())
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want containing %q", stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want containing %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

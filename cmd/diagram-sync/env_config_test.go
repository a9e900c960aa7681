package main

// Notes:
// - loadEnvConfig: we test every recognized variable.
// - warnUnknownEnvVars: we test typo detection and that known vars don't warn.
// - applyEnvConfig: we test that set variables override file values and unset
//   ones leave them alone.
// - Tests use t.Setenv() which prevents t.Parallel() at parent level.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alnah/go-diagram-sync/internal/config"
)

// clearEnv unsets every variable read by loadEnvConfig for the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"DIAGRAM_SYNC_CONFIG", "DIAGRAM_SYNC_LOG_LEVEL",
		"CONFLUENCE_URL", "CONFLUENCE_USER", "CONFLUENCE_TOKEN", "CONFLUENCE_PAGE_ID",
		"DIAGRAMS_DIR", "PLANTUML_JAR", "PLANTUML_JAVA",
	} {
		t.Setenv(name, "")
	}
}

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("DIAGRAM_SYNC_CONFIG", "/etc/sync.yaml")
	t.Setenv("DIAGRAM_SYNC_LOG_LEVEL", "debug")
	t.Setenv("CONFLUENCE_URL", "https://example.atlassian.net/wiki")
	t.Setenv("CONFLUENCE_USER", "me@example.com")
	t.Setenv("CONFLUENCE_TOKEN", "secret")
	t.Setenv("CONFLUENCE_PAGE_ID", "123")
	t.Setenv("DIAGRAMS_DIR", "arch")
	t.Setenv("PLANTUML_JAR", "/opt/plantuml.jar")
	t.Setenv("PLANTUML_JAVA", "/usr/bin/java")

	cfg := loadEnvConfig()

	want := envConfig{
		ConfigPath:  "/etc/sync.yaml",
		URL:         "https://example.atlassian.net/wiki",
		User:        "me@example.com",
		Token:       "secret",
		PageID:      "123",
		DiagramsDir: "arch",
		Jar:         "/opt/plantuml.jar",
		Java:        "/usr/bin/java",
		LogLevel:    "debug",
	}
	if *cfg != want {
		t.Errorf("loadEnvConfig() = %+v, want %+v", *cfg, want)
	}
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Run("unknown variable warns", func(t *testing.T) {
		t.Setenv("DIAGRAM_SYNC_CONFG", "x")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		if !strings.Contains(buf.String(), "DIAGRAM_SYNC_CONFG") {
			t.Errorf("expected warning for DIAGRAM_SYNC_CONFG, got %q", buf.String())
		}
	})

	t.Run("known variables do not warn", func(t *testing.T) {
		t.Setenv("DIAGRAM_SYNC_CONFIG", "x")
		t.Setenv("DIAGRAM_SYNC_LOG_LEVEL", "info")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		if strings.Contains(buf.String(), "DIAGRAM_SYNC_CONFIG ") || strings.Contains(buf.String(), "DIAGRAM_SYNC_LOG_LEVEL") {
			t.Errorf("unexpected warning: %q", buf.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Priority over the config file
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("set values override file", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Confluence.PageID = "from-file"
		cfg.Diagrams.Dir = "file-dir"

		applyEnvConfig(&envConfig{PageID: "from-env", Token: "tok"}, cfg)

		if cfg.Confluence.PageID != "from-env" {
			t.Errorf("PageID = %q, want from-env", cfg.Confluence.PageID)
		}
		if cfg.Confluence.Token != "tok" {
			t.Errorf("Token = %q, want tok", cfg.Confluence.Token)
		}
		if cfg.Diagrams.Dir != "file-dir" {
			t.Errorf("Diagrams.Dir = %q, want file-dir (env unset)", cfg.Diagrams.Dir)
		}
	})

	t.Run("empty env keeps defaults", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		applyEnvConfig(&envConfig{}, cfg)

		if *cfg != *config.DefaultConfig() {
			t.Errorf("config changed: %+v", cfg)
		}
	})
}

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alnah/go-diagram-sync/internal/config"
)

// envConfig holds configuration from environment variables.
// The CONFLUENCE_* and DIAGRAMS_DIR names are the ones CI pipelines already set.
type envConfig struct {
	ConfigPath  string // DIAGRAM_SYNC_CONFIG: config file name or path
	URL         string // CONFLUENCE_URL: site base URL
	User        string // CONFLUENCE_USER: account email
	Token       string // CONFLUENCE_TOKEN: API token
	PageID      string // CONFLUENCE_PAGE_ID: managed page
	DiagramsDir string // DIAGRAMS_DIR: PlantUML sources
	Jar         string // PLANTUML_JAR: path to plantuml.jar
	Java        string // PLANTUML_JAVA: java binary
	LogLevel    string // DIAGRAM_SYNC_LOG_LEVEL: trace, debug, info, warn, error
}

// envPrefix marks variables owned by this tool. Unknown ones are reported.
const envPrefix = "DIAGRAM_SYNC_"

// knownEnvVars lists valid DIAGRAM_SYNC_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"DIAGRAM_SYNC_CONFIG":    true,
	"DIAGRAM_SYNC_LOG_LEVEL": true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	return &envConfig{
		ConfigPath:  os.Getenv("DIAGRAM_SYNC_CONFIG"),
		URL:         os.Getenv("CONFLUENCE_URL"),
		User:        os.Getenv("CONFLUENCE_USER"),
		Token:       os.Getenv("CONFLUENCE_TOKEN"),
		PageID:      os.Getenv("CONFLUENCE_PAGE_ID"),
		DiagramsDir: os.Getenv("DIAGRAMS_DIR"),
		Jar:         os.Getenv("PLANTUML_JAR"),
		Java:        os.Getenv("PLANTUML_JAVA"),
		LogLevel:    os.Getenv("DIAGRAM_SYNC_LOG_LEVEL"),
	}
}

// warnUnknownEnvVars logs warnings for unrecognized DIAGRAM_SYNC_* variables.
// Helps catch typos like DIAGRAM_SYNC_CONFG.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides config file values with the environment variables
// that are set. CLI flags are applied afterwards via mergeFlags, giving:
// CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&cfg.Confluence.URL, env.URL)
	set(&cfg.Confluence.User, env.User)
	set(&cfg.Confluence.Token, env.Token)
	set(&cfg.Confluence.PageID, env.PageID)
	set(&cfg.Diagrams.Dir, env.DiagramsDir)
	set(&cfg.PlantUML.Jar, env.Jar)
	set(&cfg.PlantUML.Java, env.Java)
	set(&cfg.Log.Level, env.LogLevel)
}

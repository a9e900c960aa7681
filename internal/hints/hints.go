// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"net/http"
	"os"
	"strings"

	"github.com/alnah/go-diagram-sync/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForRemoteStatus returns hints for a failed Confluence request.
// A zero status means the request never got a response.
func ForRemoteStatus(status int) string {
	switch status {
	case 0:
		return format("check CONFLUENCE_URL and network access to the site")
	case http.StatusOK:
		return format("the site answered without the page body or version; check that the id is a page and the account can read it")
	case http.StatusUnauthorized:
		return format("check CONFLUENCE_USER and CONFLUENCE_TOKEN; use an API token, not the account password")
	case http.StatusForbidden:
		return format("the account needs view and edit permission on the page")
	case http.StatusNotFound:
		return format("check the page id and that CONFLUENCE_URL ends with /wiki")
	case http.StatusConflict:
		return format("the page was edited during the run; run again")
	case http.StatusRequestEntityTooLarge:
		return format("the rendered diagram exceeds the attachment size limit")
	case http.StatusTooManyRequests:
		return format("rate limited by the site; wait and run again")
	}
	return ""
}

// ForJavaNotFound returns hints when the Java runtime cannot be started.
func ForJavaNotFound() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if inCI || IsInContainer() {
		hints = append(hints, "install a headless JRE and graphviz in the image")
	} else {
		hints = append(hints, "install a Java runtime")
	}

	if os.Getenv("PLANTUML_JAVA") == "" {
		hints = append(hints, "set PLANTUML_JAVA or --java to a java binary")
	}

	return formatHints(hints)
}

// ForJarNotFound returns hints when the PlantUML jar is missing.
func ForJarNotFound() string {
	return format("download plantuml.jar from https://plantuml.com/download and set PLANTUML_JAR or --jar")
}

// ForRenderFailure returns hints for a diagram the renderer rejected.
func ForRenderFailure() string {
	return format("check the diagram syntax with: java -jar plantuml.jar -checkonly <file>")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/diagram-sync/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/diagram-sync") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// missingValueHints maps config keys to where they can be supplied.
var missingValueHints = map[string]string{
	"confluence.url":    "set CONFLUENCE_URL or --url, e.g. https://example.atlassian.net/wiki",
	"confluence.user":   "set CONFLUENCE_USER or --user",
	"confluence.token":  "set CONFLUENCE_TOKEN or confluence.token in the config file",
	"confluence.pageId": "set CONFLUENCE_PAGE_ID or --page-id",
}

// ForMissingValue returns hints for a required config value that is unset.
// The message of the config error is searched for the key name.
func ForMissingValue(message string) string {
	for key, hint := range missingValueHints {
		if strings.HasSuffix(message, key) {
			return format(hint)
		}
	}
	return ""
}

// ForDiagramsDir returns hints when the diagrams directory cannot be read.
func ForDiagramsDir() string {
	return format("check --diagrams-dir or DIAGRAMS_DIR (default docs/diagrams)")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}

package main

import (
	"errors"
	"os"

	diagramsync "github.com/alnah/go-diagram-sync"
	"github.com/alnah/go-diagram-sync/internal/config"
)

// Exit codes for the diagram-sync CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Run completed, whether or not the page changed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags or configuration
	ExitIO      = 3 // Local file not found or not accessible
	ExitRemote  = 4 // Confluence request failed
	ExitRender  = 5 // PlantUML failed or produced unexpected output
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, diagramsync.ErrRemote) {
		return ExitRemote
	}

	if errors.Is(err, diagramsync.ErrRender) ||
		errors.Is(err, diagramsync.ErrFormat) {
		return ExitRender
	}

	if errors.Is(err, diagramsync.ErrIO) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, diagramsync.ErrConfig) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrMissingValue) ||
		errors.Is(err, config.ErrInvalidValue) {
		return ExitUsage
	}

	return ExitGeneral
}

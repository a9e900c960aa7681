package main

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/phuslu/log"

	diagramsync "github.com/alnah/go-diagram-sync"
	"github.com/alnah/go-diagram-sync/internal/config"
	"github.com/alnah/go-diagram-sync/internal/hints"
	"github.com/alnah/go-diagram-sync/internal/logging"
)

// Outcome lines printed on stdout.
const (
	msgUpdated   = "Confluence page updated."
	msgUnchanged = "No changes detected."
)

// runSync performs one synchronization.
func runSync(ctx context.Context, flags *syncFlags, env *Environment) error {
	cfg, err := buildConfig(flags, env)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, &flags.common, env)
	if err != nil {
		return err
	}

	syncer, err := newSyncer(cfg, logger)
	if err != nil {
		return err
	}

	start := env.Now()
	result, err := syncer.Sync(ctx)
	if err != nil {
		return err
	}
	logger.Debug().Int("diagrams", result.Diagrams).Dur("took", env.Now().Sub(start)).Msg("run complete")

	printOutcome(result, flags.common.quiet, env)
	return nil
}

// buildConfig resolves and validates the run configuration.
func buildConfig(flags *syncFlags, env *Environment) (*config.Config, error) {
	cfg, err := resolveConfig(flags, env)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveConfig merges all configuration sources without checking required values.
// Priority: CLI flags > env vars > config file > defaults.
func resolveConfig(flags *syncFlags, env *Environment) (*config.Config, error) {
	warnUnknownEnvVars(env.Stderr)
	envCfg := loadEnvConfig()

	path := flags.common.config
	if path == "" {
		path = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if path != "" {
		var err error
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *syncFlags, cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&cfg.Confluence.PageID, flags.target.pageID)
	set(&cfg.Confluence.URL, flags.target.url)
	set(&cfg.Confluence.User, flags.target.user)
	set(&cfg.Diagrams.Dir, flags.target.diagramsDir)
	set(&cfg.PlantUML.Java, flags.plantuml.java)
	set(&cfg.PlantUML.Jar, flags.plantuml.jar)
	set(&cfg.Log.Format, flags.common.logFormat)

	switch {
	case flags.common.verbose:
		cfg.Log.Level = "debug"
	case flags.common.quiet:
		cfg.Log.Level = "error"
	}
}

// newLogger builds the run logger on stderr.
func newLogger(cfg *config.Config, flags *commonFlags, env *Environment) (*log.Logger, error) {
	logger, err := logging.New(env.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if flags.verbose {
		logger.Debug().Str("page", cfg.Confluence.PageID).Str("dir", cfg.Diagrams.Dir).Str("jar", cfg.PlantUML.Jar).Msg("configuration resolved")
	}
	return logger, nil
}

// newSyncer wires the Confluence client, the renderer and the syncer.
func newSyncer(cfg *config.Config, logger *log.Logger) (*diagramsync.Syncer, error) {
	client, err := diagramsync.NewClient(diagramsync.Credentials{
		BaseURL: cfg.Confluence.URL,
		User:    cfg.Confluence.User,
		Token:   cfg.Confluence.Token,
	}, diagramsync.WithClientLogger(logger))
	if err != nil {
		return nil, err
	}

	renderer := diagramsync.NewPlantUMLRenderer(cfg.PlantUML.Java, cfg.PlantUML.Jar)

	return diagramsync.NewSyncer(diagramsync.Settings{
		PageID:      cfg.Confluence.PageID,
		DiagramsDir: cfg.Diagrams.Dir,
	}, client, renderer, diagramsync.WithLogger(logger))
}

// printOutcome prints the terminal outcome of a run.
func printOutcome(result *diagramsync.Result, quiet bool, env *Environment) {
	if quiet {
		return
	}
	if result.Updated {
		fmt.Fprintln(env.Stdout, msgUpdated)
		return
	}
	fmt.Fprintln(env.Stdout, msgUnchanged)
}

// hintFor picks actionable hints for an error, or returns "".
func hintFor(err error) string {
	var remote *diagramsync.RemoteError
	if errors.As(err, &remote) {
		return hints.ForRemoteStatus(remote.StatusCode)
	}

	var render *diagramsync.RenderError
	if errors.As(err, &render) {
		switch {
		case errors.Is(render.Err, exec.ErrNotFound):
			return hints.ForJavaNotFound()
		case strings.Contains(render.Stderr, "Unable to access jarfile"):
			return hints.ForJarNotFound()
		default:
			return hints.ForRenderFailure()
		}
	}

	switch {
	case errors.Is(err, config.ErrMissingValue):
		return hints.ForMissingValue(err.Error())
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(strings.Split(err.Error(), ", "))
	}

	var dir *diagramsync.SourceDirError
	if errors.As(err, &dir) {
		return hints.ForDiagramsDir()
	}
	return ""
}

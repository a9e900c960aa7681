package main

import (
	"context"

	diagramsync "github.com/alnah/go-diagram-sync"
	"github.com/alnah/go-diagram-sync/internal/watch"
)

// runWatch syncs once, then again whenever a diagram source changes, until
// the context is canceled. Failed runs are logged and watching continues.
func runWatch(ctx context.Context, flags *watchFlags, env *Environment) error {
	cfg, err := buildConfig(&flags.syncFlags, env)
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

	w := &watch.Watcher{
		Dir:        cfg.Diagrams.Dir,
		Extensions: diagramsync.SourceExtensions,
		Debounce:   flags.debounce,
		Logger:     logger,
	}

	logger.Info().Str("dir", cfg.Diagrams.Dir).Str("page", cfg.Confluence.PageID).Msg("watching for changes")
	if err := w.Run(ctx, func(ctx context.Context) error {
		result, err := syncer.Sync(ctx)
		if err != nil {
			return err
		}
		printOutcome(result, flags.common.quiet, env)
		return nil
	}); err != nil {
		return err
	}

	logger.Info().Msg("watch stopped")
	return nil
}

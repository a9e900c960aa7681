package diagramsync

import (
	"context"
	"fmt"

	"github.com/phuslu/log"

	"github.com/alnah/go-diagram-sync/internal/logging"
)

// DefaultDiagramsDir is used when Settings.DiagramsDir is empty.
const DefaultDiagramsDir = "docs/diagrams"

// Settings is the per-run configuration of a Syncer.
type Settings struct {
	PageID      string // page whose Diagrams section is managed
	DiagramsDir string // directory holding PlantUML sources
}

// Syncer fetches a page, rebuilds its Diagrams section and writes the page
// back only when the body changed.
type Syncer struct {
	settings Settings
	client   PageClient
	builder  *SectionBuilder
	logger   *log.Logger
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithLogger sets the logger for the run. Nil keeps the discarding default.
func WithLogger(l *log.Logger) Option {
	return func(s *Syncer) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSyncer wires a Syncer. The client serves both page access and uploads.
func NewSyncer(settings Settings, client PageClient, renderer Renderer, opts ...Option) (*Syncer, error) {
	if settings.PageID == "" {
		return nil, fmt.Errorf("%w: confluence page id", ErrConfig)
	}
	if settings.DiagramsDir == "" {
		settings.DiagramsDir = DefaultDiagramsDir
	}

	s := &Syncer{settings: settings, client: client, logger: discardLogger()}
	for _, opt := range opts {
		opt(s)
	}
	s.builder = &SectionBuilder{Renderer: renderer, Uploader: client, Logger: s.logger}
	return s, nil
}

// Sync runs the pipeline once. Failures before the write leave the page untouched.
func (s *Syncer) Sync(ctx context.Context) (*Result, error) {
	pageID := s.settings.PageID

	page, err := s.client.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("page", pageID).Int("version", page.Version).Msg("page fetched")

	section, err := s.builder.Build(ctx, s.settings.DiagramsDir, pageID)
	if err != nil {
		return nil, err
	}

	result := &Result{PageID: pageID, Diagrams: len(section.Diagrams), Version: page.Version}

	body := Splice(page.Body, section.HTML)
	if body == page.Body {
		s.logger.Info().Str("page", pageID).Msg("no changes detected")
		return result, nil
	}

	updated, err := s.client.UpdatePage(ctx, PageUpdate{
		ID:      pageID,
		Title:   page.Title,
		SpaceID: page.SpaceID,
		Body:    body,
		Version: page.Version,
	})
	if err != nil {
		return nil, err
	}

	result.Updated = true
	result.Version = page.Version + 1
	if updated != nil && updated.Version != 0 {
		result.Version = updated.Version
	}
	s.logger.Info().Str("page", pageID).Int("version", result.Version).Msg("page updated")
	return result, nil
}

// discardLogger is the default for library types; the CLI injects a real one.
func discardLogger() *log.Logger {
	return logging.Discard()
}

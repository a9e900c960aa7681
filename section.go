package diagramsync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phuslu/log"

	"github.com/alnah/go-diagram-sync/internal/fileutil"
)

// SourceExtensions lists the file extensions treated as PlantUML sources.
var SourceExtensions = []string{".puml", ".plantuml"}

// EmptySection is emitted when the diagrams directory holds no sources.
const EmptySection = SectionHeading + "<p>No diagrams found.</p>"

// Section is a built Diagrams section.
type Section struct {
	HTML     string    // heading followed by one <p> per macro
	Diagrams []Diagram // in emission order
}

// SectionBuilder renders, uploads and embeds every diagram of a directory.
type SectionBuilder struct {
	Renderer Renderer
	Uploader AttachmentUploader
	Logger   *log.Logger
}

// Build produces the Diagrams section for diagramsDir. Sources are processed
// one at a time in file name order; each one is rendered next to itself,
// both outputs are uploaded to its target page, and a macro is emitted.
// Any failure aborts the build.
func (b *SectionBuilder) Build(ctx context.Context, diagramsDir, defaultPageID string) (*Section, error) {
	logger := b.Logger
	if logger == nil {
		logger = discardLogger()
	}

	paths, err := fileutil.ListFiles(diagramsDir, SourceExtensions)
	if err != nil {
		return nil, &SourceDirError{Dir: diagramsDir, Err: err}
	}
	if len(paths) == 0 {
		logger.Info().Str("dir", diagramsDir).Msg("no diagram sources found")
		return &Section{HTML: EmptySection}, nil
	}

	section := &Section{Diagrams: make([]Diagram, 0, len(paths))}
	var blocks strings.Builder
	blocks.WriteString(SectionHeading)

	for _, path := range paths {
		d, err := loadDiagram(path, defaultPageID)
		if err != nil {
			return nil, err
		}

		macro, err := b.process(ctx, d, diagramsDir)
		if err != nil {
			return nil, err
		}
		logger.Info().
			Str("diagram", d.Name).
			Str("page", d.PageID).
			Int("width", macro.Size.Width).
			Int("height", macro.Size.Height).
			Msg("diagram synced")

		blocks.WriteString("<p>")
		blocks.WriteString(macro.String())
		blocks.WriteString("</p>")
		section.Diagrams = append(section.Diagrams, d)
	}

	section.HTML = blocks.String()
	return section, nil
}

// process renders and uploads one diagram and returns its macro.
func (b *SectionBuilder) process(ctx context.Context, d Diagram, outputDir string) (Macro, error) {
	if err := b.Renderer.Render(ctx, d.Path, outputDir); err != nil {
		return Macro{}, err
	}

	svgPath := OutputPath(d.Path, outputDir, FormatSVG)
	for _, f := range renderFormats {
		name := d.Name + "." + string(f)
		if _, err := b.Uploader.UploadAttachment(ctx, d.PageID, OutputPath(d.Path, outputDir, f), name); err != nil {
			return Macro{}, err
		}
	}

	size, err := ReadSVGSize(svgPath)
	if err != nil {
		return Macro{}, err
	}
	data, err := EncodeSource(d.Source)
	if err != nil {
		return Macro{}, err
	}

	return Macro{Filename: filepath.Base(svgPath), Size: size, Data: data}, nil
}

// loadDiagram reads a source file and resolves its target page.
func loadDiagram(path, defaultPageID string) (Diagram, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- path comes from listing the configured diagrams directory
	if err != nil {
		return Diagram{}, fmt.Errorf("%w: reading diagram %s: %v", ErrIO, path, err)
	}
	source := string(content)

	pageID, ok := ParsePageID(source)
	if !ok {
		pageID = defaultPageID
	}
	return Diagram{
		Path:   path,
		Name:   baseName(path),
		Source: source,
		PageID: pageID,
	}, nil
}

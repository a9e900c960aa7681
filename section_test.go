package diagramsync

// Notes:
// - SectionBuilder.Build: renderer and uploader are fakes; the fake renderer
//   writes real SVG/PNG files so size parsing runs against disk.
// - Ordering: sources are processed in file name order, which we assert.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake renderer and uploader
// ---------------------------------------------------------------------------

type fakeRenderer struct {
	svg     string // content written to <base>.svg
	err     error
	failFor string // base name that fails; empty = all when err != nil
	calls   []string
}

func (f *fakeRenderer) Render(_ context.Context, sourcePath, outputDir string) error {
	f.calls = append(f.calls, filepath.Base(sourcePath))
	if f.err != nil && (f.failFor == "" || f.failFor == baseName(sourcePath)) {
		return &RenderError{Source: sourcePath, Format: FormatSVG, Err: f.err}
	}
	svg := f.svg
	if svg == "" {
		svg = `<svg width="96pt" height="48pt"></svg>`
	}
	if err := os.WriteFile(OutputPath(sourcePath, outputDir, FormatSVG), []byte(svg), 0o600); err != nil {
		return err
	}
	return os.WriteFile(OutputPath(sourcePath, outputDir, FormatPNG), []byte("png"), 0o600)
}

type upload struct {
	PageID   string
	FileName string
}

type fakeUploader struct {
	err     error
	uploads []upload
}

func (f *fakeUploader) UploadAttachment(_ context.Context, pageID, filePath, fileName string) (*Attachment, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, err := os.Stat(filePath); err != nil {
		return nil, err
	}
	f.uploads = append(f.uploads, upload{PageID: pageID, FileName: fileName})
	return &Attachment{ID: "att-" + fileName, Title: fileName}, nil
}

func writeSource(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// ---------------------------------------------------------------------------
// TestSectionBuilder_Build - Fragment assembly
// ---------------------------------------------------------------------------

func TestSectionBuilder_Build(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeSource(t, dir, "b.puml", "@startuml\nA -> B\n@enduml")
	writeSource(t, dir, "a.plantuml", "' @confluence-page-id: 42\n@startuml\nC -> D\n@enduml")
	writeSource(t, dir, "readme.txt", "ignored")

	renderer := &fakeRenderer{}
	uploader := &fakeUploader{}
	b := &SectionBuilder{Renderer: renderer, Uploader: uploader}

	section, err := b.Build(context.Background(), dir, "100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := []string{"a.plantuml", "b.puml"}; !reflect.DeepEqual(renderer.calls, want) {
		t.Errorf("render order = %v, want %v", renderer.calls, want)
	}

	wantUploads := []upload{
		{PageID: "42", FileName: "a.svg"},
		{PageID: "42", FileName: "a.png"},
		{PageID: "100", FileName: "b.svg"},
		{PageID: "100", FileName: "b.png"},
	}
	if !reflect.DeepEqual(uploader.uploads, wantUploads) {
		t.Errorf("uploads = %+v, want %+v", uploader.uploads, wantUploads)
	}

	dataA, _ := EncodeSource("' @confluence-page-id: 42\n@startuml\nC -> D\n@enduml")
	dataB, _ := EncodeSource("@startuml\nA -> B\n@enduml")
	want := SectionHeading +
		"<p>" + Macro{Filename: "a.svg", Size: Size{Width: 128, Height: 64}, Data: dataA}.String() + "</p>" +
		"<p>" + Macro{Filename: "b.svg", Size: Size{Width: 128, Height: 64}, Data: dataB}.String() + "</p>"
	if section.HTML != want {
		t.Errorf("HTML =\n%s\nwant\n%s", section.HTML, want)
	}

	if len(section.Diagrams) != 2 || section.Diagrams[0].PageID != "42" || section.Diagrams[1].PageID != "100" {
		t.Errorf("Diagrams = %+v", section.Diagrams)
	}
}

func TestSectionBuilder_Build_Empty(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeSource(t, dir, "notes.md", "not a diagram")

	renderer := &fakeRenderer{}
	uploader := &fakeUploader{}
	b := &SectionBuilder{Renderer: renderer, Uploader: uploader}

	section, err := b.Build(context.Background(), dir, "100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if section.HTML != "<h2>Diagrams</h2><p>No diagrams found.</p>" {
		t.Errorf("HTML = %q", section.HTML)
	}
	if len(renderer.calls) != 0 || len(uploader.uploads) != 0 {
		t.Errorf("unexpected calls: render=%v upload=%v", renderer.calls, uploader.uploads)
	}
}

func TestSectionBuilder_Build_Errors(t *testing.T) {
	t.Parallel()

	renderErr := errors.New("exit status 1")
	uploadErr := &RemoteError{Op: "upload attachment", PageID: "100", StatusCode: 500}

	tests := []struct {
		name     string
		svg      string
		render   error
		upload   error
		missing  bool
		wantErr  error
		wantText string
	}{
		{name: "missing directory", missing: true, wantErr: ErrIO},
		{name: "render failure", render: renderErr, wantErr: ErrRender},
		{name: "upload failure", upload: uploadErr, wantErr: ErrRemote},
		{name: "svg without size", svg: "<svg></svg>", wantErr: ErrFormat, wantText: "flow.svg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeSource(t, dir, "flow.puml", "@startuml\n@enduml")
			if tt.missing {
				dir = filepath.Join(dir, "missing")
			}

			b := &SectionBuilder{
				Renderer: &fakeRenderer{svg: tt.svg, err: tt.render},
				Uploader: &fakeUploader{err: tt.upload},
			}

			_, err := b.Build(context.Background(), dir, "100")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantText != "" && !strings.Contains(err.Error(), tt.wantText) {
				t.Errorf("error %q should mention %q", err, tt.wantText)
			}
			var dirErr *SourceDirError
			if got := errors.As(err, &dirErr); got != tt.missing {
				t.Errorf("SourceDirError = %v, want %v", got, tt.missing)
			}
		})
	}
}

func TestSectionBuilder_Build_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeSource(t, dir, "a.puml", "@startuml\n@enduml")
	writeSource(t, dir, "b.puml", "@startuml\n@enduml")
	writeSource(t, dir, "c.puml", "@startuml\n@enduml")

	renderer := &fakeRenderer{err: errors.New("boom"), failFor: "b"}
	uploader := &fakeUploader{}
	b := &SectionBuilder{Renderer: renderer, Uploader: uploader}

	if _, err := b.Build(context.Background(), dir, "1"); !errors.Is(err, ErrRender) {
		t.Fatalf("error = %v, want ErrRender", err)
	}
	if want := []string{"a.puml", "b.puml"}; !reflect.DeepEqual(renderer.calls, want) {
		t.Errorf("render calls = %v, want %v", renderer.calls, want)
	}
	if len(uploader.uploads) != 2 {
		t.Errorf("uploads = %d, want 2 (only a.puml)", len(uploader.uploads))
	}
}

package diagramsync

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alnah/go-diagram-sync/internal/process"
)

// Format is a PlantUML output type.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// renderFormats is the order in which outputs are produced for every source.
var renderFormats = []Format{FormatSVG, FormatPNG}

// Default PlantUML invocation.
const (
	DefaultJava = "java"
	DefaultJar  = "plantuml.jar"
)

// Renderer turns a diagram source into SVG and PNG files inside outputDir.
type Renderer interface {
	Render(ctx context.Context, sourcePath, outputDir string) error
}

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
// The child runs in its own process group so cancellation reaps the whole JVM tree.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- java path and jar come from operator config
	process.Configure(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// PlantUMLRenderer renders diagrams by invoking the PlantUML jar.
type PlantUMLRenderer struct {
	Runner CommandRunner
	Java   string
	Jar    string
}

// NewPlantUMLRenderer creates a PlantUMLRenderer with a real command runner.
// Empty arguments fall back to DefaultJava and DefaultJar.
func NewPlantUMLRenderer(java, jar string) *PlantUMLRenderer {
	if java == "" {
		java = DefaultJava
	}
	if jar == "" {
		jar = DefaultJar
	}
	return &PlantUMLRenderer{Runner: &ExecRunner{}, Java: java, Jar: jar}
}

// Render produces <base>.svg and <base>.png in outputDir, one process per format.
// PlantUML resolves a relative -o against the source's directory, so outputDir
// is made absolute first.
func (r *PlantUMLRenderer) Render(ctx context.Context, sourcePath, outputDir string) error {
	absOut, err := filepath.Abs(outputDir)
	if err != nil {
		return fmt.Errorf("%w: resolving output directory %s: %v", ErrIO, outputDir, err)
	}

	for _, f := range renderFormats {
		args := []string{"-jar", r.Jar, "-t" + string(f), "-o", absOut, sourcePath}
		_, stderr, err := r.Runner.Run(ctx, r.Java, args...)
		if err != nil {
			return &RenderError{
				Source: sourcePath,
				Format: f,
				Stderr: strings.TrimSpace(stderr),
				Err:    err,
			}
		}
	}
	return nil
}

// OutputPath returns where the renderer writes the given format for sourcePath.
func OutputPath(sourcePath, outputDir string, f Format) string {
	return filepath.Join(outputDir, baseName(sourcePath)+"."+string(f))
}

// baseName strips directory and extension from a path.
func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-diagram-sync/internal/watch"
)

// ErrUsage marks invalid command-line input.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logFormat string
}

// targetFlags select the page and the diagrams to sync.
type targetFlags struct {
	pageID      string
	diagramsDir string
	url         string
	user        string
}

// plantumlFlags locate the renderer.
type plantumlFlags struct {
	java string
	jar  string
}

// syncFlags holds all flags for the sync command.
type syncFlags struct {
	common   commonFlags
	target   targetFlags
	plantuml plantumlFlags
}

// watchFlags adds the debounce delay to the sync flags.
type watchFlags struct {
	syncFlags
	debounce time.Duration
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: console, json")
}

// addTargetFlags adds page and source flags to a FlagSet.
func addTargetFlags(fs *flag.FlagSet, f *targetFlags) {
	fs.StringVar(&f.pageID, "page-id", "", "Confluence page id")
	fs.StringVarP(&f.diagramsDir, "diagrams-dir", "d", "", "directory of PlantUML sources")
	fs.StringVar(&f.url, "url", "", "Confluence base URL")
	fs.StringVar(&f.user, "user", "", "Confluence account email")
}

// addPlantUMLFlags adds renderer flags to a FlagSet.
func addPlantUMLFlags(fs *flag.FlagSet, f *plantumlFlags) {
	fs.StringVar(&f.java, "java", "", "java binary")
	fs.StringVar(&f.jar, "jar", "", "path to plantuml.jar")
}

// newFlagSet returns a FlagSet that reports errors to the caller only.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}

// parse runs fs and rejects positional arguments.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments: %s", ErrUsage, strings.Join(fs.Args(), " "))
	}
	return nil
}

// parseSyncFlags parses sync command flags.
func parseSyncFlags(args []string) (*syncFlags, error) {
	fs := newFlagSet("sync")
	f := &syncFlags{}
	addCommonFlags(fs, &f.common)
	addTargetFlags(fs, &f.target)
	addPlantUMLFlags(fs, &f.plantuml)

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return f, nil
}

// parseWatchFlags parses watch command flags.
func parseWatchFlags(args []string) (*watchFlags, error) {
	fs := newFlagSet("watch")
	f := &watchFlags{}
	addCommonFlags(fs, &f.common)
	addTargetFlags(fs, &f.target)
	addPlantUMLFlags(fs, &f.plantuml)
	fs.DurationVar(&f.debounce, "debounce", watch.DefaultDebounce, "quiet period before re-syncing")

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if f.debounce <= 0 {
		return nil, fmt.Errorf("%w: --debounce must be positive, got %s", ErrUsage, f.debounce)
	}
	return f, nil
}

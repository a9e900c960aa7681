package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	diagramsync "github.com/alnah/go-diagram-sync"
	"github.com/alnah/go-diagram-sync/internal/config"
	"github.com/alnah/go-diagram-sync/internal/fileutil"
)

// javaVersionTimeout bounds the `java -version` probe.
const javaVersionTimeout = 10 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string       `json:"status"` // "ready", "warnings", "errors"
	Java     javaInfo     `json:"java"`
	PlantUML jarInfo      `json:"plantuml"`
	Config   configInfo   `json:"config"`
	Diagrams diagramsInfo `json:"diagrams"`
	Env      envInfo      `json:"environment"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

// javaInfo holds Java runtime detection results.
type javaInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// jarInfo holds PlantUML jar detection results.
type jarInfo struct {
	Found bool   `json:"found"`
	Path  string `json:"path"`
}

// configInfo summarizes the resolved configuration. The token is never printed.
type configInfo struct {
	Source   string `json:"source"`
	URL      string `json:"url,omitempty"`
	User     string `json:"user,omitempty"`
	PageID   string `json:"page_id,omitempty"`
	TokenSet bool   `json:"token_set"`
	Complete bool   `json:"complete"`
}

// diagramsInfo holds diagrams directory checks.
type diagramsInfo struct {
	Dir      string `json:"dir"`
	Exists   bool   `json:"exists"`
	Sources  int    `json:"sources"`
	Writable bool   `json:"writable"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags.
func runDoctorCmd(args []string, env *Environment) int {
	fs := newFlagSet("doctor")
	f := &syncFlags{}
	jsonOutput := false
	addCommonFlags(fs, &f.common)
	addTargetFlags(fs, &f.target)
	addPlantUMLFlags(fs, &f.plantuml)
	fs.BoolVar(&jsonOutput, "json", false, "print results as JSON")

	if err := parse(fs, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printDoctorUsage(env.Stdout)
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	result := runDoctor(f, env)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(flags *syncFlags, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	cfg := checkConfig(result, flags, env)
	checkJava(result, cfg.PlantUML.Java)
	checkJar(result, cfg.PlantUML.Jar)
	checkDiagrams(result, cfg.Diagrams.Dir)
	checkEnvironment(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkConfig resolves configuration and reports missing values.
// It always returns a usable config so that later checks can run.
func checkConfig(result *doctorResult, flags *syncFlags, env *Environment) *config.Config {
	result.Config.Source = "defaults and environment"
	if flags.common.config != "" {
		result.Config.Source = flags.common.config
	} else if p := os.Getenv("DIAGRAM_SYNC_CONFIG"); p != "" {
		result.Config.Source = p
	}

	cfg, err := resolveConfig(flags, env)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		cfg = config.DefaultConfig()
		applyEnvConfig(loadEnvConfig(), cfg)
		mergeFlags(flags, cfg)
	}

	result.Config.URL = cfg.Confluence.URL
	result.Config.User = cfg.Confluence.User
	result.Config.PageID = cfg.Confluence.PageID
	result.Config.TokenSet = cfg.Confluence.Token != ""

	if err := cfg.Validate(); err != nil {
		result.Errors = append(result.Errors, err.Error())
	} else {
		result.Config.Complete = true
	}
	return cfg
}

// checkJava locates the Java runtime and reads its version.
func checkJava(result *doctorResult, java string) {
	path, err := exec.LookPath(java)
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Java not found (%s). Install a Java runtime or set PLANTUML_JAVA", java))
		return
	}
	result.Java.Found = true
	result.Java.Path = path

	ctx, cancel := context.WithTimeout(context.Background(), javaVersionTimeout)
	defer cancel()

	// java prints its version on stderr.
	stdout, stderr, err := (&diagramsync.ExecRunner{}).Run(ctx, path, "-version")
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Java version: %v", err))
		return
	}
	out := strings.TrimSpace(stderr + "\n" + stdout)
	result.Java.Version = strings.SplitN(out, "\n", 2)[0]
}

// checkJar verifies the PlantUML jar exists.
func checkJar(result *doctorResult, jar string) {
	result.PlantUML.Path = jar
	if !fileutil.FileExists(jar) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("PlantUML jar not found at %s. Set PLANTUML_JAR or --jar", jar))
		return
	}
	result.PlantUML.Found = true
}

// checkDiagrams verifies the sources directory can be read and written to,
// since rendered files are written next to their sources.
func checkDiagrams(result *doctorResult, dir string) {
	result.Diagrams.Dir = dir
	if !fileutil.DirExists(dir) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Diagrams directory not found: %s", dir))
		return
	}
	result.Diagrams.Exists = true

	sources, err := fileutil.ListFiles(dir, diagramsync.SourceExtensions)
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Cannot list diagrams directory: %v", err))
		return
	}
	result.Diagrams.Sources = len(sources)
	if len(sources) == 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("No .puml or .plantuml files in %s; the page will show \"No diagrams found.\"", dir))
	}

	if err := fileutil.CheckWritable(dir); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Diagrams directory not writable: %v", err))
		return
	}
	result.Diagrams.Writable = true
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "diagram-sync doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "PlantUML")
	if r.Java.Found {
		fmt.Fprintf(w, "  [OK] Java: %s\n", r.Java.Path)
		if r.Java.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Java.Version)
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Java: not found")
	}
	if r.PlantUML.Found {
		fmt.Fprintf(w, "  [OK] Jar: %s\n", r.PlantUML.Path)
	} else {
		fmt.Fprintf(w, "  [ERROR] Jar: not found at %s\n", r.PlantUML.Path)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Confluence")
	fmt.Fprintf(w, "  [OK] Config: %s\n", r.Config.Source)
	if r.Config.Complete {
		fmt.Fprintf(w, "  [OK] Page %s on %s as %s\n", r.Config.PageID, r.Config.URL, r.Config.User)
	} else {
		fmt.Fprintln(w, "  [ERROR] Configuration incomplete")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Diagrams")
	if r.Diagrams.Exists {
		fmt.Fprintf(w, "  [OK] Directory: %s (%d sources)\n", r.Diagrams.Dir, r.Diagrams.Sources)
		if r.Diagrams.Writable {
			fmt.Fprintln(w, "  [OK] Writable")
		} else {
			fmt.Fprintln(w, "  [ERROR] Not writable")
		}
	} else {
		fmt.Fprintf(w, "  [ERROR] Directory not found: %s\n", r.Diagrams.Dir)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to sync")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

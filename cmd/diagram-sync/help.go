package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: diagram-sync [command] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  sync       Render diagrams and update the Confluence page (default)")
	fmt.Fprintln(w, "  watch      Sync again whenever a diagram source changes")
	fmt.Fprintln(w, "  doctor     Check java, the PlantUML jar and the configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'diagram-sync help <command>' for details on a specific command.")
}

// printTargetFlags prints the flags shared by sync, watch and doctor.
func printTargetFlags(w io.Writer) {
	fmt.Fprintln(w, "Target:")
	fmt.Fprintln(w, "      --page-id <id>        Confluence page id          (CONFLUENCE_PAGE_ID)")
	fmt.Fprintln(w, "  -d, --diagrams-dir <dir>  PlantUML sources            (DIAGRAMS_DIR, default docs/diagrams)")
	fmt.Fprintln(w, "      --url <url>           Confluence base URL         (CONFLUENCE_URL)")
	fmt.Fprintln(w, "      --user <email>        Confluence account          (CONFLUENCE_USER)")
	fmt.Fprintln(w, "                            The API token is read from CONFLUENCE_TOKEN or the config file.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PlantUML:")
	fmt.Fprintln(w, "      --java <path>         Java binary                 (PLANTUML_JAVA, default java)")
	fmt.Fprintln(w, "      --jar <path>          plantuml.jar                (PLANTUML_JAR, default plantuml.jar)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path    (DIAGRAM_SYNC_CONFIG)")
}

// printOutputFlags prints logging flags.
func printOutputFlags(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w, "      --log-format <s>      Log format: console, json")
}

// printSyncUsage prints usage for the sync command.
func printSyncUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: diagram-sync sync [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render every .puml/.plantuml file to SVG and PNG, upload both as page")
	fmt.Fprintln(w, "attachments, and rewrite the page's Diagrams section. The page is only")
	fmt.Fprintln(w, "updated when its body changes.")
	fmt.Fprintln(w)
	printTargetFlags(w)
	printOutputFlags(w)
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: diagram-sync watch [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sync once, then again after diagram sources change. Stop with Ctrl-C.")
	fmt.Fprintln(w)
	printTargetFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Watch:")
	fmt.Fprintln(w, "      --debounce <d>        Quiet period before syncing (default 500ms)")
	printOutputFlags(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: diagram-sync doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the environment without contacting Confluence.")
	fmt.Fprintln(w)
	printTargetFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "      --json                Print results as JSON")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "sync":
		printSyncUsage(env.Stdout)
	case "watch":
		printWatchUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: diagram-sync version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: diagram-sync help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}

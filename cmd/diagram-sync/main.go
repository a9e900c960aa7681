package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	verbose := slices.Contains(os.Args[1:], "-v") || slices.Contains(os.Args[1:], "--verbose")

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// runMain dispatches the command and returns the process exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	cmd, rest := splitCommand(args[1:])

	var err error
	switch cmd {
	case "sync":
		var flags *syncFlags
		if flags, err = parseSyncFlags(rest); err == nil {
			err = runSync(ctx, flags, env)
		}
	case "watch":
		var flags *watchFlags
		if flags, err = parseWatchFlags(rest); err == nil {
			err = runWatch(ctx, flags, env)
		}
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version":
		fmt.Fprintf(env.Stdout, "diagram-sync %s\n", Version)
		return ExitSuccess
	case "help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if errors.Is(err, flag.ErrHelp) {
		runHelp([]string{cmd}, env)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	}
	return exitCodeFor(err)
}

// splitCommand returns the command name and its arguments.
// Without a command, or when the first argument is a flag, sync is assumed.
func splitCommand(args []string) (string, []string) {
	if len(args) == 0 {
		return "sync", nil
	}
	switch args[0] {
	case "-h", "--help":
		return "help", args[1:]
	}
	if len(args[0]) > 0 && args[0][0] == '-' {
		return "sync", args
	}
	return args[0], args[1:]
}

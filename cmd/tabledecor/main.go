package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-tabledecor/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

// commands lists the recognized subcommands.
var commands = map[string]bool{
	"decorate": true,
	"verify":   true,
	"schema":   true,
	"doctor":   true,
	"version":  true,
	"help":     true,
}

func main() {
	env := DefaultEnv()
	if hasVerboseFlag(os.Args) {
		env.Logger.SetLevel(logrus.DebugLevel)
	}

	// Configure GOMAXPROCS for container CPU quotas; the pool size follows it.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	undo, _ := maxprocs.Set(maxprocs.Logger(env.Logger.Debugf))

	code := runMain(os.Args, env)
	undo()
	os.Exit(code)
}

// runMain dispatches to a subcommand and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	if !isCommand(cmd) {
		fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	var err error
	switch cmd {
	case "decorate":
		var flags *decorateFlags
		var positional []string
		flags, positional, err = parseDecorateFlags(rest, env.Stderr)
		if err == nil {
			err = runDecorate(ctx, positional, flags, env)
		}
	case "verify":
		var flags *verifyFlags
		var positional []string
		flags, positional, err = parseVerifyFlags(rest, env.Stderr)
		if err == nil {
			err = runVerify(ctx, positional, flags, env)
		}
	case "schema":
		err = runSchema(env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version":
		fmt.Fprintf(env.Stdout, "tabledecor %s\n", Version)
		return ExitSuccess
	case "help":
		return runHelp(rest, env)
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	}
	return exitCodeFor(err)
}

// isCommand reports whether s names a subcommand. Case-sensitive.
func isCommand(s string) bool {
	return commands[s]
}

// hasVerboseFlag scans raw args for -v or --verbose.
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}

// runSchema prints the config JSON Schema.
func runSchema(env *Environment) error {
	data, err := config.Schema()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(env.Stdout, string(data))
	return err
}

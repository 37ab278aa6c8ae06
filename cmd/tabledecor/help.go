package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tabledecor <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  decorate   Add hover highlighting and stripes to HTML/Markdown tables")
	fmt.Fprintln(w, "  verify     Replay hover on a decorated file")
	fmt.Fprintln(w, "  schema     Print the config file JSON Schema")
	fmt.Fprintln(w, "  doctor     Check assets, the goja and Chrome engines")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'tabledecor help <command>' for details on a specific command.")
}

// printDecorateUsage prints usage for the decorate command.
func printDecorateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tabledecor decorate <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Decorate tables whose class contains the ruler or stripe marker.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    .html, .htm, .md file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory (default: next to source, *.decorated.html)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --table-class <s>     Class for tables converted from Markdown")
	fmt.Fprintln(w, "      --sections <list>     Row-groups to decorate: thead,tbody,tfoot (default: tbody)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ruler:")
	fmt.Fprintln(w, "      --hover-mode <s>      inline, script, none (default: inline)")
	fmt.Fprintln(w, "      --ruler-marker <s>    Class marker (default: ruler)")
	fmt.Fprintln(w, "      --dedupe-ruled        Never append \"ruled\" twice")
	fmt.Fprintln(w, "      --no-ruler            Disable hover highlighting")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Stripe:")
	fmt.Fprintln(w, "      --stripe-marker <s>   Class marker (default: stripe)")
	fmt.Fprintln(w, "      --no-stripe           Disable alternating stripes")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <name|path>   CSS style name or file (default: default)")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory")
	fmt.Fprintln(w, "      --no-style            Disable CSS styling")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show per-file reports and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  TABLEDECOR_CONFIG, TABLEDECOR_HOVER_MODE, TABLEDECOR_STYLE,")
	fmt.Fprintln(w, "  TABLEDECOR_OUTPUT_DIR, TABLEDECOR_WORKERS fill gaps left by the config file.")
}

// printVerifyUsage prints usage for the verify command.
func printVerifyUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tabledecor verify <file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Hover every bound row and check that \"ruled\" is added, then removed.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -e, --engine <s>          goja (inline handlers, no browser) or chrome")
	fmt.Fprintln(w, "  -t, --timeout <d>         Browser timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file for markers and sections")
	fmt.Fprintln(w, "  -q, --quiet               Only show failing rows")
	fmt.Fprintln(w, "  -v, --verbose             Show timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exits with code 5 when a row fails or no bound row is found.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "decorate":
		printDecorateUsage(env.Stdout)
	case "verify":
		printVerifyUsage(env.Stdout)
	case "schema":
		fmt.Fprintln(env.Stdout, "Usage: tabledecor schema")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Print the JSON Schema of the YAML config file.")
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: tabledecor doctor [--json] [--asset-path <dir>]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Load the style and hover script, replay the inline handlers in goja,")
		fmt.Fprintln(env.Stdout, "and look for Chrome. A missing Chrome is a warning: goja still works.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: tabledecor version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: tabledecor help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}

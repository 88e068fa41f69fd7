package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docshot <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  capture    Capture a document as a PNG image")
	fmt.Fprintln(w, "  show       Print a document")
	fmt.Fprintln(w, "  recent     List recently updated articles")
	fmt.Fprintln(w, "  count      Print the number of articles")
	fmt.Fprintln(w, "  relevant   List articles related to an article")
	fmt.Fprintln(w, "  history    List the revisions of an article")
	fmt.Fprintln(w, "  task       Submit and follow background tasks")
	fmt.Fprintln(w, "  doctor     Check the browser and configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'docshot help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags shared by every service command.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -e, --endpoint <url>      Content service base URL (or DOCSHOT_ENDPOINT)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (or DOCSHOT_CONFIG)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Deadline for the whole command (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
}

// printCaptureUsage prints usage for the capture command.
func printCaptureUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docshot capture <article|paste> <id> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a document in headless Chrome and save a full-page PNG.")
	fmt.Fprintln(w, "Slow fonts, images or math degrade the capture instead of failing it.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output PNG (default <kind>-<id>.png)")
	fmt.Fprintln(w, "      --html                Also write the HTML snapshot")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -W, --width <n>           Viewport width in CSS pixels (320-4096, default 960)")
	fmt.Fprintln(w, "      --style <name>        Stylesheet: default, dark")
	fmt.Fprintln(w, "      --template <name>     Snapshot template name")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory overriding styles/, templates/, scripts/")
	fmt.Fprintln(w, "      --math <mode>         client (KaTeX in page), static (katex CLI), off")
	fmt.Fprintln(w, "      --date-format <s>     Subtitle date: preset or tokens")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D, HH, mm, ss")
	fmt.Fprintln(w, "                            Presets (case-insensitive): iso, european, us, long, datetime")
	fmt.Fprintln(w, "  -w, --workers <n>         Browser instances (0 = auto)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printQueryUsage prints usage for one of the read-only commands.
func printQueryUsage(w io.Writer, name string) {
	switch name {
	case "show":
		fmt.Fprintln(w, "Usage: docshot show <article|paste> <id> [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Print a document's metadata and raw content.")
	case "recent":
		fmt.Fprintln(w, "Usage: docshot recent [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "List recently updated articles.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Filters:")
		fmt.Fprintln(w, "  -n, --count <n>           Maximum number of articles")
		fmt.Fprintln(w, "      --updated-after <t>   RFC 3339 time or YYYY-MM-DD date")
		fmt.Fprintln(w, "      --truncate <n>        Truncate each body to n characters")
	case "count":
		fmt.Fprintln(w, "Usage: docshot count [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Print the number of articles.")
	case "relevant":
		fmt.Fprintln(w, "Usage: docshot relevant <id> [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "List articles related to an article.")
	case "history":
		fmt.Fprintln(w, "Usage: docshot history <id> [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "List the revisions of an article.")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "      --json                Print JSON instead of text")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printTaskUsage prints usage for the task command.
func printTaskUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docshot task <submit|poll|wait> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Subcommands:")
	fmt.Fprintln(w, "  submit <save|refresh> [payload]   Create a task, print its id")
	fmt.Fprintln(w, "                                    payload: inline YAML/JSON or @file")
	fmt.Fprintln(w, "  poll <id>                         Print the current status")
	fmt.Fprintln(w, "  wait <id>                         Poll until succeeded or failed")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -i, --interval <d>        Poll interval for wait (default 2s)")
	fmt.Fprintln(w, "      --json                Print JSON instead of text")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docshot doctor [--json] [-c config]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, the content service configuration and the environment.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "capture":
		printCaptureUsage(env.Stdout)
	case "show", "recent", "count", "relevant", "history":
		printQueryUsage(env.Stdout, args[0])
	case "task":
		printTaskUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: docshot version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: docshot help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}

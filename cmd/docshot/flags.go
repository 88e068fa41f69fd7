package main

import (
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config   string
	quiet    bool
	verbose  bool
	endpoint string
	timeout  time.Duration
}

// renderFlags holds snapshot and browser flags for capture.
type renderFlags struct {
	workers   int
	width     int
	style     string
	template  string
	assetPath string
	math      string
	date      string
}

// captureFlags holds all flags for the capture command.
type captureFlags struct {
	common commonFlags
	render renderFlags
	output string
	html   bool
}

// queryFlags holds flags for the read-only query commands.
type queryFlags struct {
	common       commonFlags
	json         bool
	count        int
	updatedAfter string
	truncate     int
}

// taskFlags holds flags for the task subcommands.
type taskFlags struct {
	common   commonFlags
	json     bool
	interval time.Duration
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
	fs.StringVarP(&f.endpoint, "endpoint", "e", "", "content service base URL")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "deadline for the whole command (e.g., 30s, 2m)")
}

// addRenderFlags adds snapshot and browser flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.IntVarP(&f.workers, "workers", "w", 0, "browser instances (0 = auto)")
	fs.IntVarP(&f.width, "width", "W", 0, "viewport width in CSS pixels (0 = 960)")
	fs.StringVar(&f.style, "style", "", "stylesheet name: default, dark")
	fs.StringVar(&f.template, "template", "", "snapshot template name")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.StringVar(&f.math, "math", "", "math rendering: client, static, off")
	fs.StringVar(&f.date, "date-format", "", "subtitle date format or preset")
}

// newFlagSet creates a quiet FlagSet whose usage goes to w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parseCaptureFlags parses capture command flags and returns positional args.
func parseCaptureFlags(args []string, w io.Writer) (*captureFlags, []string, error) {
	f := &captureFlags{}
	fs := newFlagSet("capture", w, printCaptureUsage)

	fs.StringVarP(&f.output, "output", "o", "", "output PNG path (default <kind>-<id>.png)")
	fs.BoolVar(&f.html, "html", false, "also write the HTML snapshot next to the image")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}

// parseQueryFlags parses flags for show, recent, count, relevant and history.
func parseQueryFlags(name string, args []string, w io.Writer) (*queryFlags, []string, error) {
	f := &queryFlags{}
	fs := newFlagSet(name, w, func(w io.Writer) { printQueryUsage(w, name) })

	fs.BoolVar(&f.json, "json", false, "print JSON instead of text")
	if name == "recent" {
		fs.IntVarP(&f.count, "count", "n", 0, "maximum number of articles")
		fs.StringVar(&f.updatedAfter, "updated-after", "", "only articles updated after this RFC 3339 time or YYYY-MM-DD date")
		fs.IntVar(&f.truncate, "truncate", 0, "truncate each body to this many characters")
	}
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}

// parseTaskFlags parses flags for task submit, poll and wait.
func parseTaskFlags(name string, args []string, w io.Writer) (*taskFlags, []string, error) {
	f := &taskFlags{}
	fs := newFlagSet("task "+name, w, printTaskUsage)

	fs.BoolVar(&f.json, "json", false, "print JSON instead of text")
	if name == "wait" {
		fs.DurationVarP(&f.interval, "interval", "i", 0, "poll interval (default 2s)")
	}
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}

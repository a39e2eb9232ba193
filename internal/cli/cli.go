package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/langbench/internal/app"
	"github.com/vk/langbench/internal/executor"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string     { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error { *s = append(*s, v); return nil }

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("langbench", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
langbench - A cross-language micro-benchmark harness.

Every file in BENCH_DIR whose extension has a recipe is built (if needed),
run once under the timeout, and ranked by the wall-clock time of its run step.

Usage:
  langbench [options] [BENCH_DIR]

Arguments:
  BENCH_DIR
    Directory holding one benchmark source per language (only direct
    children are scanned).

Options:
`)
		flagSet.PrintDefaults()
	}

	var recipes stringList
	dirFlag := flagSet.String("dir", "", "Benchmark directory.")
	dFlag := flagSet.String("d", "", "Benchmark directory (shorthand).")
	rootFlag := flagSet.String("root", "", "Directory exposed to recipes as root_dir. Defaults to the parent of the benchmark directory.")
	flagSet.Var(&recipes, "recipes", "Path to an .hcl recipe file or directory. Repeatable; overrides built-in recipes per extension.")
	noDefaultsFlag := flagSet.Bool("no-default-recipes", false, "Do not load the built-in recipes.")
	timeoutFlag := flagSet.Duration("timeout", app.DefaultTimeout, "Deadline for every build and run step.")
	modeFlag := flagSet.String("mode", executor.ModeSequential, "Execution policy. Options: 'sequential' or 'concurrent'.")
	workersFlag := flagSet.Int("workers", 0, "Maximum concurrent candidates in concurrent mode. 0 runs all at once.")
	outputFlag := flagSet.String("output", "", "Write a YAML copy of the report to this path.")
	publishURLFlag := flagSet.String("publish-url", "", "socket.io server URL that receives every outcome live.")
	publishEventFlag := flagSet.String("publish-event", "outcome", "Event name used for live outcomes.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *dirFlag != "" {
		path = *dirFlag
	} else if *dFlag != "" {
		path = *dFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Benchmark directory determined.", "path", path)

	if path == "" {
		slog.Debug("No benchmark directory provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(flagSet.Args()[1:], " "))}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *timeoutFlag <= 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid timeout: must be positive"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		BenchDir:     path,
		RootDir:      *rootFlag,
		RecipePaths:  recipes,
		NoDefaults:   *noDefaultsFlag,
		Timeout:      *timeoutFlag,
		Mode:         strings.ToLower(*modeFlag),
		Workers:      *workersFlag,
		OutputPath:   *outputFlag,
		PublishURL:   *publishURLFlag,
		PublishEvent: *publishEventFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

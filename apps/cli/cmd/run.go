package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/fixspec/packages/core/config"
	"github.com/abdul-hamid-achik/fixspec/packages/core/env"
	"github.com/abdul-hamid-achik/fixspec/packages/core/runner"
	"github.com/abdul-hamid-achik/fixspec/packages/output"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [script]",
	Short: "Run a script against its fixtures",
	Long: `Run a configured script once per fixture and compare its output.

When no script is given the name is read from stdin.

Examples:
  fixspec run
  fixspec run add.py
  fixspec run add.py --timeout 5s
  fixspec run add.py --name "add_edge*" -v
  fixspec run add.py --output junit --output-file report.xml
  fixspec run add.py --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCommand,
}

// promptText is written without a trailing newline so input stays on the
// same line
const promptText = "Enter the name of the Python file to test: "

var (
	configFlag      string
	noColorFlag     bool
	verboseFlag     int
	outputFlag      string
	outputFileFlag  string
	timeoutFlag     string
	interpreterFlag string
	envFileFlag     string
	nameFlag        string
	watchFlag       bool
	updateFlag      bool
)

func init() {
	bindRunFlags(runCmd)
}

// bindRunFlags registers the run flags on cmd. The root command and run share
// the same variables.
func bindRunFlags(cmd *cobra.Command) {
	cmd.Flags().CountVarP(&verboseFlag, "verbose", "v", "Verbose output: diffs, stderr and timing percentiles")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("FIXSPEC_OUTPUT", "console"), "Output format: console, json, junit, tap (env: FIXSPEC_OUTPUT)")
	cmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("FIXSPEC_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: FIXSPEC_OUTPUT_FILE)")
	cmd.Flags().StringVar(&timeoutFlag, "timeout", getEnvString("FIXSPEC_TIMEOUT", ""), "Per-fixture timeout, e.g. 5s (default: config value, else none) (env: FIXSPEC_TIMEOUT)")
	cmd.Flags().StringVar(&interpreterFlag, "interpreter", getEnvString("FIXSPEC_INTERPRETER", ""), "Interpreter used to run the script (default: config value, else python) (env: FIXSPEC_INTERPRETER)")
	cmd.Flags().StringVar(&envFileFlag, "env-file", getEnvString("FIXSPEC_ENV_FILE", ""), "Path to .env file merged into the script environment (env: FIXSPEC_ENV_FILE)")
	cmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Run only fixtures matching name pattern (e.g. add_edge*)")
	cmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch the script and fixtures and re-run on changes")
	cmd.Flags().BoolVar(&updateFlag, "update", false, "Write actual output to mismatching or missing .out files")
}

// Formatter interface for all output formatters
type Formatter interface {
	FormatHeader(script config.Script)
	FormatFixture(result *runner.FixtureResult)
	FormatSummary(result *runner.RunResult)
	FormatError(err error)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

// runOptions carries everything a run needs besides the I/O streams
type runOptions struct {
	ConfigPath  string
	Script      string
	Output      string
	OutputFile  string
	Verbose     bool
	NoColor     bool
	Timeout     string
	Interpreter string
	EnvFile     string
	NameFilter  string
	Watch       bool
	Update      bool
}

func runCommand(cmd *cobra.Command, args []string) error {
	opts := runOptions{
		ConfigPath:  configFlag,
		Output:      outputFlag,
		OutputFile:  outputFileFlag,
		Verbose:     verboseFlag > 0,
		NoColor:     noColorFlag,
		Timeout:     timeoutFlag,
		Interpreter: interpreterFlag,
		EnvFile:     envFileFlag,
		NameFilter:  nameFlag,
		Watch:       watchFlag,
		Update:      updateFlag,
	}
	if len(args) > 0 {
		opts.Script = args[0]
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runScript(ctx, opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// runScript loads the configuration, resolves the script and runs its
// fixtures. An unknown script is reported on out and is not an error.
// Run errors that do not end a watch session are reported on errOut.
func runScript(ctx context.Context, opts runOptions, in io.Reader, out, errOut io.Writer) (err error) {
	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	name := opts.Script
	if name == "" {
		name, err = promptScriptName(in, out)
		if err != nil {
			return err
		}
	}

	script, ok := cfg.Lookup(name)
	if !ok {
		fmt.Fprintln(out, output.NotFoundMessage)
		return nil
	}

	runnerCfg, err := buildRunnerConfig(cfg, opts)
	if err != nil {
		return err
	}
	r := runner.NewRunner(runnerCfg)

	var outWriter io.Writer = out
	if opts.OutputFile != "" {
		f, createErr := os.Create(opts.OutputFile)
		if createErr != nil {
			return fmt.Errorf("cannot create output file: %w", createErr)
		}
		defer closeOutput(f, &err)
		outWriter = f
	}

	runOnce := func() error {
		formatter := newFormatter(opts, outWriter)
		flushable, canFlush := formatter.(Flushable)
		formatter.FormatHeader(script)

		start := time.Now()
		result, err := r.RunScript(ctx, script, formatter.FormatFixture)
		if err != nil {
			// cobra reports one-shot errors for the console
			if opts.Watch || canFlush {
				formatter.FormatError(err)
			}
			if canFlush {
				if ferr := flushable.Flush(time.Since(start)); ferr != nil {
					return errors.Join(err, fmt.Errorf("error writing output: %w", ferr))
				}
			}
			return err
		}

		formatter.FormatSummary(result)
		if canFlush {
			if err := flushable.Flush(result.Duration); err != nil {
				return fmt.Errorf("error writing output: %w", err)
			}
		}
		return nil
	}

	warn := func(err error) {
		fmt.Fprintf(errOut, "warning: %v\n", err)
	}

	if err := runOnce(); err != nil {
		if !opts.Watch {
			return err
		}
		warn(err)
	}

	if !opts.Watch {
		return nil
	}

	fmt.Fprintf(out, "\nWatching for changes... (press Ctrl+C to stop)\n\n")
	return runner.Watch(ctx, script, func() error {
		fmt.Fprintf(out, "\nChange detected, re-running %s...\n\n", script.Name)
		err := runOnce()
		fmt.Fprintf(out, "\nWatching for changes... (press Ctrl+C to stop)\n")
		return err
	}, warn)
}

// closeOutput closes the report file and keeps its error unless an earlier
// one is already set
func closeOutput(c io.Closer, errp *error) {
	if err := c.Close(); err != nil && *errp == nil {
		*errp = fmt.Errorf("closing output file: %w", err)
	}
}

// promptScriptName writes the prompt and reads one trimmed line from in
func promptScriptName(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, promptText)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading script name: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// buildRunnerConfig applies CLI overrides on top of the configuration file
func buildRunnerConfig(cfg *config.Config, opts runOptions) (*runner.Config, error) {
	rc := &runner.Config{
		Interpreter:    cfg.Interpreter,
		Timeout:        cfg.Timeout,
		NameFilter:     opts.NameFilter,
		UpdateExpected: opts.Update,
	}

	if opts.Interpreter != "" {
		rc.Interpreter = opts.Interpreter
	}

	if opts.Timeout != "" {
		timeout, err := time.ParseDuration(opts.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout value %q: %w (use format like 30s, 1m, 500ms)", opts.Timeout, err)
		}
		rc.Timeout = timeout
	}

	if opts.EnvFile != "" {
		environ, err := env.FromFile(opts.EnvFile)
		if err != nil {
			return nil, err
		}
		rc.Env = environ
	}

	return rc, nil
}

func newFormatter(opts runOptions, w io.Writer) Formatter {
	switch strings.ToLower(opts.Output) {
	case "json":
		return output.NewJSONFormatter(output.JSONWithWriter(w))
	case "junit":
		return output.NewJUnitFormatter(output.JUnitWithWriter(w))
	case "tap":
		return output.NewTAPFormatter(output.TAPWithWriter(w))
	default: // "console"
		return output.NewConsoleFormatter(
			output.WithWriter(w),
			output.WithVerbose(opts.Verbose),
			output.WithNoColor(opts.NoColor || opts.OutputFile != ""),
		)
	}
}

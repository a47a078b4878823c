package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vango-dev/weft/internal/config"
	"github.com/vango-dev/weft/internal/demo"
	"github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/element"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cli holds state shared by all commands.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	verbose    bool
	noColor    bool
	jsonErrors bool

	logger *slog.Logger
}

func run(args []string, stdout, stderr io.Writer) int {
	c := &cli{stdout: stdout, stderr: stderr}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		c.printError(err)
		return 1
	}
	return 0
}

func (c *cli) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weft",
		Short: "Render, serve and export reactive weft apps",
		Long: `weft runs reactive UI apps on the server.

Apps render to static HTML, or stay live: the server keeps the
component tree and streams DOM patches to the browser over a
WebSocket while client events flow back into listeners.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c.setup()
		},
	}

	cmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Path to weft.json or weft.yaml (default: search upward)")
	cmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&c.noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolVar(&c.jsonErrors, "json-errors", false, "Print errors as JSON")

	cmd.AddCommand(
		c.renderCmd(),
		c.serveCmd(),
		c.exportCmd(),
		c.versionCmd(),
	)
	return cmd
}

// setup configures logging and colors once flags are parsed.
func (c *cli) setup() {
	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	c.logger = slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: level}))

	if c.noColor || !isTerminal(c.stderr) {
		errors.DisableColors()
	} else {
		errors.EnableColors()
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// log returns the configured logger, falling back to the default before
// setup has run.
func (c *cli) log() *slog.Logger {
	if c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

func (c *cli) printError(err error) {
	var we *errors.WeftError
	if !stderrors.As(err, &we) {
		we = errors.Newf(errors.CategoryCLI, "%s", err)
	}
	if c.jsonErrors {
		fmt.Fprintln(c.stderr, we.FormatJSON())
		return
	}
	errors.Print(c.stderr, we)
}

// loadConfig reads the file named by --config, or searches upward from the
// working directory. Without a file the defaults apply.
func (c *cli) loadConfig() (*config.Config, error) {
	if c.configPath != "" {
		return config.LoadFile(c.configPath)
	}
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		var we *errors.WeftError
		if stderrors.As(err, &we) && we.Code == "E141" {
			c.log().Debug("no config file, using defaults")
			return config.New(), nil
		}
		return nil, err
	}
	c.log().Debug("loaded config", "path", cfg.Path())
	return cfg, nil
}

// lookupApp resolves a demo app by name.
func lookupApp(name string) (func() element.Element, error) {
	app, ok := demo.Lookup(name)
	if !ok {
		return nil, errors.New("E160").
			WithDetail(fmt.Sprintf("No app named %q.", name)).
			WithSuggestion(fmt.Sprintf("Use one of: %v", demo.Names()))
	}
	return app, nil
}

func (c *cli) success(format string, args ...any) {
	mark := "✓"
	if isTerminal(c.stdout) && !c.noColor {
		mark = "\033[32m✓\033[0m"
	}
	fmt.Fprintf(c.stdout, "%s %s\n", mark, fmt.Sprintf(format, args...))
}

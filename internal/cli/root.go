package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/items/internal/api"
	"github.com/Makepad-fr/items/internal/config"
	"github.com/Makepad-fr/items/internal/logging"
	"github.com/Makepad-fr/items/internal/tui"
	"github.com/Makepad-fr/items/internal/ui"
	"github.com/Makepad-fr/items/internal/viewmodel"
)

// Exit codes: 0 ok, 1 error, 2 usage.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// exitError carries an exit code out of a cobra RunE.
// The message has already been printed when msg is empty.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func fail(code int, format string, a ...any) error {
	return &exitError{code: code, msg: fmt.Sprintf(format, a...)}
}

// flags are the root persistent flags; zero values mean "not set".
type flags struct {
	api     string
	timeout time.Duration
	theme   string
	logFile string
	noColor bool
	color   bool
}

// app is what every subcommand runs against, built in PersistentPreRunE.
type app struct {
	cfg      *config.Config
	vm       *viewmodel.ViewModel
	closeLog func() error

	// runTUI is swapped in tests.
	runTUI func(ctx context.Context, vm *viewmodel.ViewModel) error
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return execute(ctx, args, stdout, stderr, tui.Run)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer, runTUI func(context.Context, *viewmodel.ViewModel) error) int {
	a := &app{runTUI: runTUI}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if a.closeLog != nil {
		_ = a.closeLog()
	}
	if err == nil {
		return ExitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.msg != "" {
			ui.Fail(stderr, ee.msg)
		}
		return ee.code
	}
	// cobra's own errors: unknown command, bad flags, wrong arg count
	ui.Fail(stderr, err.Error())
	fmt.Fprintln(stderr, ui.C(ui.Current().Muted, "Run `items --help` for usage."))
	return ExitUsage
}

func newRootCmd(a *app) *cobra.Command {
	var f flags
	root := &cobra.Command{
		Use:   "items",
		Short: "Browse and edit a remote items collection",
		Long: `items - a tiny client for a REST items collection

Without a subcommand it opens the interactive list.
The API base URL comes from --api, $ITEMS_API_URL or .env,
falling back to ` + config.DefaultAPIURL + `.`,
		Example: `  items
  items ls
  items add "Book" -d "Sci-fi"
  items rm 65a1f0c2
  items rm '#2'`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, f)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.runTUI(cmd.Context(), a.vm); err != nil {
				return fail(ExitError, "tui: %v", err)
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.api, "api", "", "API base URL (default $ITEMS_API_URL or "+config.DefaultAPIURL+")")
	pf.DurationVar(&f.timeout, "timeout", 0, "per-request timeout (default $ITEMS_TIMEOUT or 10s)")
	pf.StringVar(&f.theme, "theme", "", "color theme: classic, neon or mono")
	pf.StringVar(&f.logFile, "log", "", "write debug log to this file (default $ITEMS_LOG)")
	pf.BoolVar(&f.noColor, "no-color", false, "disable colors")
	pf.BoolVar(&f.color, "color", false, "force colors even when not a terminal")

	root.AddCommand(newListCmd(a), newAddCmd(a), newRemoveCmd(a))
	return root
}

// setup resolves configuration and builds the view-model.
func (a *app) setup(cmd *cobra.Command, f flags) error {
	cfg, err := config.Load()
	if err != nil {
		return fail(ExitUsage, "config: %v", err)
	}
	fl := cmd.Flags()
	if fl.Changed("api") {
		cfg.APIURL = f.api
	}
	if fl.Changed("timeout") {
		cfg.Timeout = f.timeout
	}
	if fl.Changed("theme") {
		cfg.Theme = f.theme
	}
	if fl.Changed("log") {
		cfg.LogFile = f.logFile
	}
	if f.noColor {
		cfg.NoColor = true
	}
	if err := cfg.Validate(); err != nil {
		return fail(ExitUsage, "config: %v", err)
	}

	ui.SetTheme(cfg.Theme)
	ui.SetColorForcing(f.color, cfg.NoColor)

	closeLog, err := logging.Setup(cfg.LogFile)
	if err != nil {
		return fail(ExitError, "log: %v", err)
	}
	a.closeLog = closeLog

	client := api.New(cfg.APIURL, &http.Client{Timeout: cfg.Timeout})
	a.cfg = cfg
	a.vm = viewmodel.New(client)
	return nil
}

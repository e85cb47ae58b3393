package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/justyntemme/webby-pdf/internal/config"
	"github.com/justyntemme/webby-pdf/internal/document"
	"github.com/justyntemme/webby-pdf/internal/state"
	"github.com/justyntemme/webby-pdf/internal/ui"
	"github.com/justyntemme/webby-pdf/internal/ui/styles"
)

// headless reports whether the command line selects a subcommand, which is
// allowed to log to the console. The TUI owns the terminal otherwise.
func headless(cmd *cli.Command) bool {
	return cmd.NArg() > 0 && cmd.Command(cmd.Args().First()) != nil
}

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.Load(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		env.Cfg.Logging.Level = "debug"
	}
	if cmd.IsSet("storage") {
		env.Cfg.Storage.Path = cmd.String("storage")
	}

	consoleLog = headless(cmd)
	if env.Log, err = env.Cfg.Logging.Prepare(env.Cfg.LogPath(), consoleLog); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("runtime", runtime.Version()))
	if len(env.Cfg.Path()) > 0 {
		env.Log.Debug("Configuration", zap.String("location", env.Cfg.Path()))
	}

	if err = env.OpenStorage(); err != nil {
		return ctx, err
	}
	env.Docs = document.NewLoader(env.Log)

	styles.SetCurrentTheme(env.Cfg.Theme)
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}
	// errors must be reported directly to stderr from now on
	return env.Close()
}

// Ignore urfave/cli default error handling, subcommands return regular errors.
var (
	errWasHandled bool
	consoleLog    bool
)

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		// file only logging does not reach the terminal
		errWasHandled = consoleLog
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// error is reported either by exitErrHandler or on exit directly to stderr
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            config.AppName,
		Usage:           "terminal PDF viewer with bookmarks and selection translation",
		ArgsUsage:       "[FILE]",
		HideHelpCommand: true,
		Writer:          os.Stdout,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		Action:          runViewer,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "write debug log next to the configuration"},
			&cli.StringFlag{Name: "storage", Usage: "bookmark storage `PATH` (sqlite file or \"" + config.MemoryStorage + "\")"},
		},
		Commands: []*cli.Command{
			{
				Name:            "bookmarks",
				Usage:           "Lists and edits bookmarks of a PDF without starting the viewer",
				HideHelpCommand: true,
				OnUsageError:    usageErrorHandler,
				Commands: []*cli.Command{
					{
						Name:         "list",
						Usage:        "Lists bookmarks of FILE",
						ArgsUsage:    "FILE",
						OnUsageError: usageErrorHandler,
						Action:       listBookmarks,
					},
					{
						Name:         "add",
						Usage:        "Bookmarks PAGE of FILE",
						ArgsUsage:    "FILE PAGE",
						OnUsageError: usageErrorHandler,
						Action:       addBookmark,
					},
					{
						Name:         "remove",
						Aliases:      []string{"rm"},
						Usage:        "Removes bookmark for PAGE of FILE",
						ArgsUsage:    "FILE PAGE",
						OnUsageError: usageErrorHandler,
						Action:       removeBookmark,
					},
				},
			},
			{
				Name:         "dumpconfig",
				Usage:        "Dumps actual configuration (YAML)",
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values which is composition of
default values and values specified in configuration file.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deffered functions after that
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

// runViewer starts the TUI, opening FILE when given
func runViewer(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.NArg() > 1 {
		env.Log.Warn("Malformed command line, only one document can be open", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	app := ui.NewApp(env, cmd.Args().First())
	defer app.Close()

	p := tea.NewProgram(app,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	data, err := env.Cfg.Dump()
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	} else {
		fname = "STDOUT"
	}
	env.Log.Debug("Outputing configuration", zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}

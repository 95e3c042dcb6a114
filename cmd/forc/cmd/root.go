// Package cmd provides the CLI commands for forc.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/swaylang/forc/internal/config"
	ferrors "github.com/swaylang/forc/internal/errors"
	"github.com/swaylang/forc/internal/layout"
	"github.com/swaylang/forc/internal/logging"
	"github.com/swaylang/forc/internal/output"
	"github.com/swaylang/forc/internal/preflight"
	"github.com/swaylang/forc/internal/probe"
	"github.com/swaylang/forc/pkg/version"
)

// annotationPreflight marks commands that must pass the toolchain gate
// before their RunE executes.
const annotationPreflight = "forc/preflight"

// deps are the collaborators the commands are built from.
type deps struct {
	layout    layout.Layout
	newProber func(cfg *config.Config) probe.Prober
	pipeline  Pipeline
}

func defaultDeps() deps {
	return deps{
		layout: layout.Default(),
		newProber: func(cfg *config.Config) probe.Prober {
			return probe.NewExecProber(cfg.Toolchain.Compiler, cfg.Toolchain.CompilerArgs...)
		},
		pipeline: resolveOnlyPipeline{},
	}
}

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	debug         bool
	noColor       bool
	toolchainRoot string
}

// state is filled in by the persistent pre-run and read by subcommands.
type state struct {
	deps   deps
	flags  rootFlags
	cfg    *config.Config
	logger *slog.Logger

	loggingCleanup func()
}

// NewRootCmd creates the root command for the forc CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultDeps())
}

func newRootCmd(d deps) *cobra.Command {
	st := &state{deps: d}

	cmd := &cobra.Command{
		Use:   "forc",
		Short: "Build tool and package manager for Sway",
		Long: `forc builds Sway packages.

Before building, forc checks that the compiler installed on this machine
satisfies the minimum version recorded in forc's own toolchain manifest.
A newer compiler is allowed but reported as a warning.`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.SetVersionTemplate("forc {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&st.flags.debug, "debug", false, "Enable debug logging to ~/.forc/logs/")
	cmd.PersistentFlags().BoolVar(&st.flags.noColor, "no-color", false, "Disable coloured output")
	cmd.PersistentFlags().StringVar(&st.flags.toolchainRoot, "toolchain-root", "",
		"Directory holding forc's toolchain.toml (default: executable directory)")

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		return st.setup(c)
	}
	cmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		st.teardown()
		return nil
	}

	cmd.AddCommand(newBuildCmd(st))
	cmd.AddCommand(newDoctorCmd(st))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setup loads configuration, configures logging and, for gated commands,
// runs the toolchain check.
func (st *state) setup(c *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if st.flags.toolchainRoot != "" {
		cfg.Toolchain.Root = st.flags.toolchainRoot
	}
	if st.flags.noColor {
		cfg.Output.NoColor = true
	}
	st.cfg = cfg

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Stderr = c.ErrOrStderr()
	if st.flags.debug {
		logCfg = logging.DebugConfig()
		logCfg.Stderr = nil
	}
	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	st.logger = logger
	st.loggingCleanup = cleanup
	if st.flags.debug {
		logger.Info("debug logging enabled",
			slog.String("log_file", logCfg.FilePath),
			slog.String("version", version.Version))
	}

	if c.Annotations[annotationPreflight] != "true" {
		return nil
	}

	checker := st.newChecker(c.ErrOrStderr())
	if _, err := checker.Gate(c.Context()); err != nil {
		// PersistentPostRunE is skipped when pre-run fails
		st.teardown()
		return err
	}
	return nil
}

// newChecker builds a preflight checker whose warnings go to diag.
func (st *state) newChecker(diag io.Writer, opts ...preflight.Option) *preflight.Checker {
	base := []preflight.Option{
		preflight.WithLayout(st.deps.layout),
		preflight.WithInstallRoot(st.cfg.Toolchain.Root),
		preflight.WithProber(st.deps.newProber(st.cfg)),
		preflight.WithSink(st.writer(diag)),
		preflight.WithLogger(st.logger),
	}
	return preflight.New(append(base, opts...)...)
}

// writer returns an output writer honouring --no-color.
func (st *state) writer(w io.Writer) *output.Writer {
	if st.cfg != nil && st.cfg.Output.NoColor {
		return output.New(w, output.WithColor(false))
	}
	return output.New(w)
}

func (st *state) teardown() {
	if st.loggingCleanup != nil {
		st.loggingCleanup()
		st.loggingCleanup = nil
	}
}

// Run executes forc with args and returns the process exit code.
// Errors are printed to stderr.
func Run(args []string, stdout, stderr io.Writer) int {
	return run(defaultDeps(), args, stdout, stderr)
}

func run(d deps, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(d)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		printError(stderr, err)
		return 1
	}
	return 0
}

// printError shows fatal coded errors with their details, hint and code.
// Usage mistakes and failed doctor runs get a single line.
func printError(stderr io.Writer, err error) {
	w := output.New(stderr)
	if ferrors.IsFatal(err) {
		w.Error(ferrors.FormatForCLI(err))
		return
	}
	w.Error("Error: " + err.Error())
}

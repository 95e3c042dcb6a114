package preflight

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/sync/errgroup"

	"github.com/swaylang/forc/internal/compat"
	ferrors "github.com/swaylang/forc/internal/errors"
	"github.com/swaylang/forc/internal/layout"
	"github.com/swaylang/forc/internal/manifest"
	"github.com/swaylang/forc/internal/probe"
)

// CheckStatus represents the result of a preflight check.
type CheckStatus int

const (
	// StatusPass indicates the check passed successfully.
	StatusPass CheckStatus = iota
	// StatusWarn indicates a non-critical warning.
	StatusWarn
	// StatusFail indicates the check failed.
	StatusFail
)

// String returns the string representation of a CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusWarn:
		return "WARN"
	case StatusFail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// Check names reported by RunAll.
const (
	CheckManifest      = "toolchain_manifest"
	CheckCompiler      = "compiler_version"
	CheckCompatibility = "version_compatibility"
)

// CheckResult holds the result of a single preflight check.
type CheckResult struct {
	Name     string      `json:"name"`
	Status   CheckStatus `json:"status"`
	Message  string      `json:"message"`
	Details  string      `json:"details,omitempty"`
	Code     string      `json:"code,omitempty"`
	Required bool        `json:"required"`
}

// IsCritical returns true if this is a required check that failed.
func (r CheckResult) IsCritical() bool {
	return r.Required && r.Status == StatusFail
}

// Sink receives the user-visible warning of a NewerThanExpected outcome.
type Sink interface {
	Warn(msg string)
}

// Checker performs the toolchain checks.
type Checker struct {
	layout      layout.Layout
	prober      probe.Prober
	installRoot string
	sink        Sink
	verbose     bool
	output      io.Writer
	logger      *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithLayout sets the layout used to locate the toolchain manifest.
func WithLayout(l layout.Layout) Option {
	return func(c *Checker) {
		c.layout = l
	}
}

// WithProber sets the compiler version probe.
func WithProber(p probe.Prober) Option {
	return func(c *Checker) {
		c.prober = p
	}
}

// WithInstallRoot sets the directory holding the toolchain manifest.
func WithInstallRoot(root string) Option {
	return func(c *Checker) {
		c.installRoot = root
	}
}

// WithSink sets where the version skew warning goes.
func WithSink(s Sink) Option {
	return func(c *Checker) {
		c.sink = s
	}
}

// WithVerbose enables verbose output.
func WithVerbose(verbose bool) Option {
	return func(c *Checker) {
		c.verbose = verbose
	}
}

// WithOutput sets the writer used by PrintResults.
func WithOutput(w io.Writer) Option {
	return func(c *Checker) {
		c.output = w
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = l
	}
}

// New creates a new Checker with the given options.
func New(opts ...Option) *Checker {
	c := &Checker{
		layout:      layout.Default(),
		installRoot: ".",
		output:      os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.prober == nil {
		c.prober = probe.NewExecProber("")
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// ManifestPath returns the toolchain manifest path the checker reads.
func (c *Checker) ManifestPath() string {
	return c.layout.ToolchainManifestPath(c.installRoot)
}

// versions holds the independent results of the manifest read and the probe.
type versions struct {
	declared    *semver.Version
	installed   *semver.Version
	manifestErr error
	probeErr    error
}

// collect loads the manifest and probes the compiler concurrently. Neither
// depends on the other and each runs to completion, so doctor can report
// both results. Only ctx cancels the probe.
func (c *Checker) collect(ctx context.Context) versions {
	var v versions
	var g errgroup.Group

	g.Go(func() error {
		v.declared, v.manifestErr = manifest.LoadDeclaredMinimum(c.ManifestPath())
		return v.manifestErr
	})
	g.Go(func() error {
		v.installed, v.probeErr = c.prober.InstalledVersion(ctx)
		return v.probeErr
	})

	// Individual errors are kept in v so the manifest error wins
	// deterministically when both fail.
	_ = g.Wait()
	return v
}

// Gate runs the pre-build check. It returns a fatal error if the manifest
// or the compiler cannot be read, and otherwise the compatibility outcome.
// A NewerThanExpected outcome is sent to the sink exactly once.
func (c *Checker) Gate(ctx context.Context) (compat.Outcome, error) {
	v := c.collect(ctx)

	if v.manifestErr != nil {
		c.logger.Debug("toolchain manifest check failed", logAttrs(v.manifestErr)...)
		return compat.Outcome{}, v.manifestErr
	}
	if v.probeErr != nil {
		c.logger.Debug("compiler probe failed", logAttrs(v.probeErr)...)
		return compat.Outcome{}, v.probeErr
	}

	outcome := compat.Check(v.installed, v.declared)
	c.logger.Debug("preflight check complete",
		slog.String("installed", v.installed.String()),
		slog.String("declared_minimum", v.declared.String()),
		slog.String("outcome", outcome.Kind.String()))

	if outcome.NeedsWarning() && c.sink != nil {
		c.sink.Warn(outcome.Warning())
	}

	return outcome, nil
}

// RunAll runs every check and returns the results without failing fast.
func (c *Checker) RunAll(ctx context.Context) []CheckResult {
	v := c.collect(ctx)
	results := make([]CheckResult, 0, 3)

	manifestResult := CheckResult{Name: CheckManifest, Required: true, Details: c.ManifestPath()}
	if v.manifestErr != nil {
		manifestResult.Status = StatusFail
		manifestResult.Message = errorMessage(v.manifestErr)
		manifestResult.Code = ferrors.GetCode(v.manifestErr)
	} else {
		manifestResult.Status = StatusPass
		manifestResult.Message = fmt.Sprintf("declares minimum %s", v.declared)
	}
	results = append(results, manifestResult)

	compilerResult := CheckResult{Name: CheckCompiler, Required: true}
	if ep, ok := c.prober.(*probe.ExecProber); ok {
		compilerResult.Details = strings.TrimSpace(ep.Command + " " + strings.Join(ep.Args, " "))
	}
	if v.probeErr != nil {
		compilerResult.Status = StatusFail
		compilerResult.Message = errorMessage(v.probeErr)
		compilerResult.Code = ferrors.GetCode(v.probeErr)
	} else {
		compilerResult.Status = StatusPass
		compilerResult.Message = fmt.Sprintf("found %s", v.installed)
	}
	results = append(results, compilerResult)

	compatResult := CheckResult{Name: CheckCompatibility}
	switch {
	case v.manifestErr != nil || v.probeErr != nil:
		compatResult.Status = StatusFail
		compatResult.Message = "skipped: needs both the declared and the installed version"
	default:
		outcome := compat.Check(v.installed, v.declared)
		if outcome.NeedsWarning() {
			compatResult.Status = StatusWarn
			compatResult.Message = outcome.Warning()
		} else {
			compatResult.Status = StatusPass
			compatResult.Message = "OK"
		}
	}
	results = append(results, compatResult)

	return results
}

// HasCriticalFailures returns true if any required check failed.
func (c *Checker) HasCriticalFailures(results []CheckResult) bool {
	for _, r := range results {
		if r.IsCritical() {
			return true
		}
	}
	return false
}

// SummaryStatus returns a summary status string for the results.
func (c *Checker) SummaryStatus(results []CheckResult) string {
	hasWarnings := false
	hasCriticalFailure := false

	for _, r := range results {
		if r.IsCritical() {
			hasCriticalFailure = true
		}
		if r.Status == StatusWarn || (r.Status == StatusFail && !r.Required) {
			hasWarnings = true
		}
	}

	if hasCriticalFailure {
		return "failed"
	}
	if hasWarnings {
		return "ready_with_warnings"
	}
	return "ready"
}

// PrintResults prints check results to the configured output.
func (c *Checker) PrintResults(results []CheckResult) {
	_, _ = fmt.Fprintln(c.output, "forc Toolchain Check")
	_, _ = fmt.Fprintln(c.output, "====================")
	_, _ = fmt.Fprintln(c.output)

	for _, r := range results {
		_, _ = fmt.Fprintf(c.output, "[%s] %s: %s\n", r.Status, r.Name, r.Message)
		if c.verbose && r.Details != "" {
			_, _ = fmt.Fprintf(c.output, "      %s\n", r.Details)
		}
	}

	_, _ = fmt.Fprintln(c.output)
	status := c.SummaryStatus(results)
	_, _ = fmt.Fprintf(c.output, "Status: %s\n", strings.ToUpper(status))

	var warnings, failures []string
	for _, r := range results {
		if r.IsCritical() {
			failures = append(failures, r.Name+": "+r.Message)
		} else if r.Status == StatusWarn {
			warnings = append(warnings, r.Name+": "+r.Message)
		}
	}

	if len(failures) > 0 {
		_, _ = fmt.Fprintln(c.output)
		_, _ = fmt.Fprintf(c.output, "%d error(s):\n", len(failures))
		for _, e := range failures {
			_, _ = fmt.Fprintf(c.output, "  - %s\n", e)
		}
	}

	if len(warnings) > 0 {
		_, _ = fmt.Fprintln(c.output)
		_, _ = fmt.Fprintf(c.output, "%d warning(s):\n", len(warnings))
		for _, w := range warnings {
			_, _ = fmt.Fprintf(c.output, "  - %s\n", w)
		}
	}
}

// errorMessage returns the human part of a coded error.
func errorMessage(err error) string {
	var fe *ferrors.ForcError
	if errors.As(err, &fe) {
		return fe.Message
	}
	return err.Error()
}

// logAttrs converts an error into slog attributes.
func logAttrs(err error) []any {
	fields := ferrors.FormatForLog(err)
	attrs := make([]any, 0, len(fields))
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

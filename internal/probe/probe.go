// Package probe discovers the version of the compiler installed on the host.
package probe

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	ferrors "github.com/swaylang/forc/internal/errors"
)

// Sentinels for errors.Is. The errors returned by probes carry more detail.
var (
	ErrNotFound    = ferrors.Sentinel(ferrors.ErrCodeCompilerNotFound)
	ErrUnparseable = ferrors.Sentinel(ferrors.ErrCodeCompilerUnparseable)
)

// Prober reports the version of the installed compiler.
type Prober interface {
	InstalledVersion(ctx context.Context) (*semver.Version, error)
}

// DefaultCommand is the compiler queried when none is configured.
const DefaultCommand = "go"

// DefaultArgs are the arguments passed to DefaultCommand.
var DefaultArgs = []string{"version"}

// ExecProber runs the host compiler and parses the version it prints.
type ExecProber struct {
	Command string
	Args    []string

	lookPath func(string) (string, error)
	run      func(ctx context.Context, path string, args ...string) ([]byte, error)
}

// NewExecProber creates a prober for command. An empty command falls back to
// DefaultCommand with DefaultArgs.
func NewExecProber(command string, args ...string) *ExecProber {
	if command == "" {
		command = DefaultCommand
		args = DefaultArgs
	}
	return &ExecProber{
		Command:  command,
		Args:     args,
		lookPath: exec.LookPath,
		run:      runCommand,
	}
}

// InstalledVersion locates the compiler, runs it and parses its output.
func (p *ExecProber) InstalledVersion(ctx context.Context) (*semver.Version, error) {
	path, err := p.lookPath(p.Command)
	if err != nil {
		return nil, notFound(ctx, p.Command, err)
	}

	out, err := p.run(ctx, path, p.Args...)
	if err != nil {
		return nil, notFound(ctx, p.Command, err)
	}

	return ParseOutput(p.Command, string(out))
}

func runCommand(ctx context.Context, path string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// versionPattern finds the first version-looking token in compiler output.
// It accepts "1.2.3", "go1.22.3", "1.23rc1" and "1.2.3-beta.1+build".
var versionPattern = regexp.MustCompile(`(\d+\.\d+(?:\.\d+)?)((?:-|rc|beta|alpha)[0-9A-Za-z.-]*)?(\+[0-9A-Za-z.-]+)?`)

// ParseOutput extracts a semantic version from the output of command.
func ParseOutput(command, output string) (*semver.Version, error) {
	m := versionPattern.FindStringSubmatch(output)
	if m == nil {
		return nil, unparseable(command, output, nil)
	}

	raw := m[1]
	if pre := m[2]; pre != "" {
		if !strings.HasPrefix(pre, "-") {
			pre = "-" + pre
		}
		raw += pre
	}
	raw += m[3]

	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, unparseable(command, output, err)
	}
	return v, nil
}

// notFound reports a compiler that could not be run. A killed process only
// says "signal: killed", so interruption is read from ctx.
func notFound(ctx context.Context, command string, cause error) error {
	msg := fmt.Sprintf("could not locate compiler %q", command)
	if ctx.Err() != nil {
		msg = fmt.Sprintf("compiler %q was interrupted", command)
	}
	return ferrors.New(ferrors.ErrCodeCompilerNotFound, msg, cause).
		WithDetail("command", command).
		WithSuggestion("install the compiler or point FORC_COMPILER at it")
}

func unparseable(command, output string, cause error) error {
	return ferrors.New(ferrors.ErrCodeCompilerUnparseable,
		fmt.Sprintf("compiler %q reported a version forc cannot parse", command), cause).
		WithDetail("command", command).
		WithDetail("output", strings.TrimSpace(output))
}

// Fixed is a Prober that returns a preset version or error.
type Fixed struct {
	Version *semver.Version
	Err     error
}

// FixedVersion returns a Fixed prober for v. It panics if v is not a valid
// semantic version.
func FixedVersion(v string) Fixed {
	return Fixed{Version: semver.MustParse(v)}
}

// InstalledVersion returns the preset result.
func (f Fixed) InstalledVersion(_ context.Context) (*semver.Version, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Version, nil
}

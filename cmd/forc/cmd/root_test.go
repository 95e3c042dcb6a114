package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swaylang/forc/internal/config"
	ferrors "github.com/swaylang/forc/internal/errors"
	"github.com/swaylang/forc/internal/layout"
	"github.com/swaylang/forc/internal/output"
	"github.com/swaylang/forc/internal/probe"
	"github.com/swaylang/forc/internal/project"
)

const skewWarning = "greater than the suggested version"

// recordingPipeline records whether the downstream build ran.
type recordingPipeline struct {
	calls   int
	project *project.Project
}

func (r *recordingPipeline) Build(_ context.Context, p *project.Project, _ *output.Writer) error {
	r.calls++
	r.project = p
	return nil
}

// harness wires a root command to a fixed probe and a recording pipeline.
type harness struct {
	pipeline      *recordingPipeline
	prober        probe.Prober
	toolchainRoot string
	projectRoot   string
}

func newHarness(t *testing.T, manifest string, installed probe.Prober) *harness {
	t.Helper()

	// Keep the user's config and FORC_* env out of the tests
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{config.EnvToolchainRoot, config.EnvCompiler, config.EnvNoColor, config.EnvLogLevel} {
		t.Setenv(k, "")
	}

	h := &harness{
		pipeline:      &recordingPipeline{},
		prober:        installed,
		toolchainRoot: t.TempDir(),
		projectRoot:   t.TempDir(),
	}

	if manifest != "" {
		path := layout.Default().ToolchainManifestPath(h.toolchainRoot)
		require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))
	}

	l := layout.Default()
	require.NoError(t, os.WriteFile(l.ManifestPath(h.projectRoot), []byte("[project]\nname = \"counter\"\n"), 0o644))
	require.NoError(t, os.MkdirAll(l.SourcePath(h.projectRoot), 0o755))
	require.NoError(t, os.WriteFile(l.EntryPath(h.projectRoot, layout.EntryMain), []byte("contract;\n"), 0o644))

	return h
}

func (h *harness) deps() deps {
	return deps{
		layout:    layout.Default(),
		newProber: func(*config.Config) probe.Prober { return h.prober },
		pipeline:  h.pipeline,
	}
}

func (h *harness) run(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	full := append([]string{args[0], "--toolchain-root", h.toolchainRoot}, args[1:]...)
	code = run(h.deps(), full, &out, &errOut)
	return code, out.String(), errOut.String()
}

const minimum140 = "[package]\nminimum-toolchain-version = \"1.40.0\"\n"

func TestBuild_ScenarioA_OlderCompiler(t *testing.T) {
	// Given: declared 1.40.0, installed 1.39.0
	h := newHarness(t, minimum140, probe.FixedVersion("1.39.0"))

	// When: building
	code, _, stderr := h.run("build", h.projectRoot)

	// Then: exit 0, no warning, build ran
	assert.Equal(t, 0, code, stderr)
	assert.NotContains(t, stderr, skewWarning)
	assert.Equal(t, 1, h.pipeline.calls)
}

func TestBuild_ScenarioB_NewerCompilerWarnsOnce(t *testing.T) {
	// Given: declared 1.40.0, installed 1.41.0
	h := newHarness(t, minimum140, probe.FixedVersion("1.41.0"))

	// When: building
	code, stdout, stderr := h.run("build", h.projectRoot)

	// Then: exit 0, exactly one warning on stderr naming both versions
	assert.Equal(t, 0, code, stderr)
	assert.Equal(t, 1, strings.Count(stderr, skewWarning))
	assert.Contains(t, stderr, "1.41.0")
	assert.Contains(t, stderr, "1.40.0")
	assert.NotContains(t, stdout, skewWarning)
	assert.Equal(t, 1, h.pipeline.calls)
}

func TestBuild_ManifestFailuresAbort(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		wantCode string
	}{
		{"scenario C: no package section", "[workspace]\n", ferrors.ErrCodeMissingPackageSection},
		{"scenario D: no version field", "[package]\nname = \"forc\"\n", ferrors.ErrCodeMissingVersionField},
		{"invalid toml", "[package", ferrors.ErrCodeManifestParse},
		{"invalid version", "[package]\nminimum-toolchain-version = \"x\"\n", ferrors.ErrCodeInvalidVersionFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.manifest, probe.FixedVersion("1.39.0"))

			code, _, stderr := h.run("build", h.projectRoot)

			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.wantCode)
			assert.Contains(t, stderr, "toolchain.toml")
			assert.Equal(t, 0, h.pipeline.calls, "no build after a failed gate")
		})
	}
}

func TestBuild_ScenarioE_MissingManifest(t *testing.T) {
	// Given: an install root with no manifest
	h := newHarness(t, "", probe.FixedVersion("1.39.0"))

	// When: building
	code, _, stderr := h.run("build", h.projectRoot)

	// Then: nonzero exit naming the missing path
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, ferrors.ErrCodeManifestIO)
	assert.Contains(t, stderr, layout.Default().ToolchainManifestPath(h.toolchainRoot))
	assert.Equal(t, 0, h.pipeline.calls)
}

func TestBuild_CompilerMissingAborts(t *testing.T) {
	h := newHarness(t, minimum140, probe.NewExecProber("forc-test-compiler-that-does-not-exist"))

	code, _, stderr := h.run("build", h.projectRoot)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, ferrors.ErrCodeCompilerNotFound)
	assert.Contains(t, stderr, "forc-test-compiler-that-does-not-exist")
	assert.Equal(t, 0, h.pipeline.calls)
}

func TestBuild_ResolvesProject(t *testing.T) {
	h := newHarness(t, minimum140, probe.FixedVersion("1.39.0"))
	nested := filepath.Join(h.projectRoot, "src")

	code, _, stderr := h.run("build", nested)

	require.Equal(t, 0, code, stderr)
	require.NotNil(t, h.pipeline.project)
	assert.Equal(t, layout.EntryMain, h.pipeline.project.Kind)
	assert.Equal(t, "main.sw", filepath.Base(h.pipeline.project.Entry))
}

func TestBuild_NotAProject(t *testing.T) {
	h := newHarness(t, minimum140, probe.FixedVersion("1.39.0"))

	code, _, stderr := h.run("build", t.TempDir())

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, ferrors.ErrCodeProjectNotFound)
	assert.Equal(t, 0, h.pipeline.calls)
}

func TestBuild_DefaultPipelineReportsProject(t *testing.T) {
	h := newHarness(t, minimum140, probe.FixedVersion("1.39.0"))
	d := h.deps()
	d.pipeline = resolveOnlyPipeline{}

	var out, errOut bytes.Buffer
	code := run(d, []string{"build", "--toolchain-root", h.toolchainRoot, "--no-color", h.projectRoot}, &out, &errOut)

	require.Equal(t, 0, code, errOut.String())
	assert.Contains(t, out.String(), "Resolved main package")
	assert.Contains(t, out.String(), "sources: 1 file(s)")
	assert.Contains(t, out.String(), "lock:    none")
}

func TestRoot_ToolchainRootFromEnv(t *testing.T) {
	h := newHarness(t, minimum140, probe.FixedVersion("1.41.0"))
	t.Setenv(config.EnvToolchainRoot, h.toolchainRoot)

	var out, errOut bytes.Buffer
	code := run(h.deps(), []string{"build", h.projectRoot}, &out, &errOut)

	assert.Equal(t, 0, code, errOut.String())
	assert.Contains(t, errOut.String(), skewWarning)
}

func TestRun_ErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantLine string
		wantCode bool
	}{
		{"fatal error shows code", []string{"build"}, "Error: cannot open toolchain manifest", true},
		{"usage error is one line", []string{"no-such-command"}, "Error: unknown command", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "", probe.FixedVersion("1.39.0"))

			code, _, stderr := h.run(tt.args...)

			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.wantLine)
			if tt.wantCode {
				assert.Contains(t, stderr, "Code: "+ferrors.ErrCodeManifestIO)
			} else {
				assert.NotContains(t, stderr, "Code:")
				assert.Equal(t, 1, strings.Count(stderr, "\n"))
			}
		})
	}
}

func TestRoot_HasSubcommands(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"build", "doctor", "version"} {
		c, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, c.Name())
	}
}

func TestRoot_OnlyBuildIsGated(t *testing.T) {
	root := NewRootCmd()

	for _, c := range root.Commands() {
		gated := c.Annotations[annotationPreflight] == "true"
		assert.Equal(t, c.Name() == "build", gated, c.Name())
	}
}

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swaylang/forc/internal/output"
	"github.com/swaylang/forc/internal/project"
)

// Pipeline is the downstream build stage. It runs only after the toolchain
// gate has passed.
type Pipeline interface {
	Build(ctx context.Context, p *project.Project, out *output.Writer) error
}

// resolveOnlyPipeline reports the resolved package. Compilation itself is
// provided by the compiler backend, which is not part of this binary.
type resolveOnlyPipeline struct{}

func (resolveOnlyPipeline) Build(_ context.Context, p *project.Project, out *output.Writer) error {
	out.Successf("Resolved %s package at %s", p.Kind, p.Root)
	out.Detail(fmt.Sprintf("entry:   %s", p.Entry))
	out.Detail(fmt.Sprintf("sources: %d file(s)", len(p.Sources)))
	if p.Lock == "" {
		out.Detail("lock:    none (dependencies not yet resolved)")
	} else {
		out.Detail(fmt.Sprintf("lock:    %s", p.Lock))
	}
	return nil
}

func newBuildCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [path]",
		Short: "Build the Sway package containing path",
		Long: `Build the Sway package containing path (default: current directory).

The installed compiler is checked against forc's declared minimum version
first. Missing or unreadable toolchain metadata aborts the build; a compiler
newer than expected only prints a warning.`,
		Example: `  # Build the package in the current directory
  forc build

  # Build another package
  forc build ./examples/counter`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{annotationPreflight: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			start := "."
			if len(args) == 1 {
				start = args[0]
			}

			p, err := project.Resolve(st.deps.layout, start)
			if err != nil {
				return err
			}

			return st.deps.pipeline.Build(cmd.Context(), p, st.writer(cmd.OutOrStdout()))
		},
	}

	return cmd
}

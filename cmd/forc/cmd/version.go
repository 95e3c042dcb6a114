package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swaylang/forc/pkg/version"
)

func newVersionCmd() *cobra.Command {
	var format struct {
		json  bool
		short bool
	}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the forc release, the std library ref that builds depend on,
and the commit, date and Go version forc was built with.`,
		// Printing the version must not depend on config or the toolchain
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			switch {
			case format.short:
				_, err := fmt.Fprintln(out, version.Short())
				return err
			case format.json:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(version.GetInfo())
			default:
				_, err := fmt.Fprintln(out, version.String())
				return err
			}
		},
	}

	cmd.Flags().BoolVar(&format.json, "json", false, "Output version info as JSON")
	cmd.Flags().BoolVar(&format.short, "short", false, "Output only the version number")
	cmd.MarkFlagsMutuallyExclusive("json", "short")

	return cmd
}

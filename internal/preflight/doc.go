// Package preflight verifies the host toolchain before forc does any build
// work.
//
// The gate loads the minimum compiler version declared in forc's own
// toolchain manifest, probes the installed compiler, and compares the two.
// Probe and manifest failures are fatal. A compiler newer than the declared
// minimum only produces a warning on the configured Sink:
//
//	checker := preflight.New(
//	    preflight.WithInstallRoot(cfg.Toolchain.Root),
//	    preflight.WithSink(output.New(os.Stderr)),
//	)
//	if _, err := checker.Gate(ctx); err != nil {
//	    // abort
//	}
//
// RunAll reports the same checks as a table for the doctor command.
package preflight

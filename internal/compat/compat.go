// Package compat decides whether the installed compiler fits the version the
// toolchain declares. It performs no I/O.
package compat

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Kind identifies the outcome of a compatibility check.
type Kind int

const (
	// Compatible means the installed compiler is not newer than the declared minimum.
	Compatible Kind = iota
	// NewerThanExpected means the installed compiler is newer than the declared minimum.
	NewerThanExpected
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case Compatible:
		return "compatible"
	case NewerThanExpected:
		return "newer_than_expected"
	default:
		return "unknown"
	}
}

// Outcome is the result of Check.
type Outcome struct {
	Kind            Kind
	Installed       *semver.Version
	DeclaredMinimum *semver.Version
}

// Check compares the installed compiler version against the declared minimum.
//
// Only overshoot is flagged. An installed version below the declared minimum
// is accepted as Compatible, matching the toolchain's historical behavior.
func Check(installed, declaredMinimum *semver.Version) Outcome {
	o := Outcome{Kind: Compatible, Installed: installed, DeclaredMinimum: declaredMinimum}
	if installed.GreaterThan(declaredMinimum) {
		o.Kind = NewerThanExpected
	}
	return o
}

// NeedsWarning reports whether the outcome should be surfaced to the user.
func (o Outcome) NeedsWarning() bool {
	return o.Kind == NewerThanExpected
}

// Warning renders the user-facing message for a NewerThanExpected outcome.
// It returns "" for any other outcome.
func (o Outcome) Warning() string {
	if !o.NeedsWarning() {
		return ""
	}
	return fmt.Sprintf("Found compiler version %s, which is greater than the suggested version %s",
		o.Installed, o.DeclaredMinimum)
}

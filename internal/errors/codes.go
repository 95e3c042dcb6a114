// Package errors provides structured error handling for forc.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (file, disk)
//   - 4XX: Validation errors (manifests, versions)
//   - 5XX: Internal errors
//   - 6XX: Host toolchain errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and disk I/O errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates malformed input such as a bad manifest.
	CategoryValidation Category = "VALIDATION"
	// CategoryToolchain indicates a problem with the host compiler.
	CategoryToolchain Category = "TOOLCHAIN"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigInvalid = "ERR_101_CONFIG_INVALID"
	ErrCodeConfigParse   = "ERR_102_CONFIG_PARSE"

	// IO errors (200-299)
	ErrCodeManifestIO      = "ERR_201_MANIFEST_IO"
	ErrCodeProjectNotFound = "ERR_206_PROJECT_NOT_FOUND"
	ErrCodeEntryNotFound   = "ERR_207_ENTRY_NOT_FOUND"

	// Validation errors (400-499)
	ErrCodeManifestParse         = "ERR_402_MANIFEST_PARSE"
	ErrCodeMissingPackageSection = "ERR_403_MISSING_PACKAGE_SECTION"
	ErrCodeMissingVersionField   = "ERR_404_MISSING_VERSION_FIELD"
	ErrCodeInvalidVersionFormat  = "ERR_405_INVALID_VERSION_FORMAT"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"

	// Toolchain errors (600-699)
	ErrCodeCompilerNotFound    = "ERR_601_COMPILER_NOT_FOUND"
	ErrCodeCompilerUnparseable = "ERR_602_COMPILER_VERSION_UNPARSEABLE"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract numeric portion (e.g., "101" from "ERR_101_CONFIG_INVALID")
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	case '6':
		return CategoryToolchain
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
// Nothing the pre-flight gate reports is transient, so every known code
// aborts the invocation.
func severityFromCode(code string) Severity {
	switch categoryFromCode(code) {
	case CategoryConfig, CategoryIO, CategoryValidation, CategoryToolchain:
		return SeverityFatal
	default:
		return SeverityError
	}
}

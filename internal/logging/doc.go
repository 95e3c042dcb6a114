// Package logging configures forc's slog logger.
//
// By default only warnings and errors reach stderr, as plain text. With
// --debug, JSON logs at debug level are also appended to ~/.forc/logs/forc.log
// for troubleshooting.
package logging

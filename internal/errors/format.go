package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// FormatForCLI formats an error for CLI output.
// Uses a concise format suitable for terminal display.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	var fe *ForcError
	if !errors.As(err, &fe) {
		// Wrap standard error
		fe = Wrap(ErrCodeInternal, err)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Error: %s\n", fe.Message))

	// Details in stable order so the failing path/field is easy to spot
	keys := make([]string, 0, len(fe.Details))
	for k := range fe.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", k, fe.Details[k]))
	}

	if fe.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  Hint: %s\n", fe.Suggestion))
	}

	sb.WriteString(fmt.Sprintf("  Code: %s\n", fe.Code))

	return sb.String()
}

// FormatForLog formats an error for structured logging.
// Returns key-value pairs suitable for slog attributes.
func FormatForLog(err error) map[string]any {
	if err == nil {
		return nil
	}

	var fe *ForcError
	if !errors.As(err, &fe) {
		return map[string]any{
			"error": err.Error(),
		}
	}

	result := map[string]any{
		"error_code": fe.Code,
		"message":    fe.Message,
		"category":   string(fe.Category),
		"severity":   string(fe.Severity),
	}

	if fe.Cause != nil {
		result["cause"] = fe.Cause.Error()
	}

	if fe.Suggestion != "" {
		result["suggestion"] = fe.Suggestion
	}

	for k, v := range fe.Details {
		result["detail_"+k] = v
	}

	return result
}

package logging

import (
	"os"
	"path/filepath"

	"github.com/swaylang/forc/internal/layout"
)

// DefaultLogDir returns the default log directory (~/.forc/logs/).
// Falls back to temp directory if home directory is unavailable.
func DefaultLogDir() string {
	l := layout.Default()
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(l.UserDirPath(os.TempDir()), "logs")
	}
	return filepath.Join(l.UserDirPath(home), "logs")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "forc.log")
}

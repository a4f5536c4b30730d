// Package hostapp resolves and validates the FontLab executable once at
// startup. The execution bridge cannot be constructed without a usable path.
package hostapp

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrHostNotFound indicates no usable FontLab executable could be resolved.
// Fatal at startup, never per call.
var ErrHostNotFound = errors.New("fontlab executable not found")

// defaultSearchPaths are conventional FontLab install locations, probed in
// order when no explicit path is configured.
var defaultSearchPaths = []string{
	"/Applications/FontLab 8.app/Contents/MacOS/FontLab",
	"/Applications/FontLab 7.app/Contents/MacOS/FontLab",
	"/usr/local/bin/fontlab",
}

// Locate resolves the FontLab executable path, either from the configured
// value or the conventional install locations, and validates it: the path
// must exist, be a regular file, and be executable by the current user.
func Locate(configured string, logger *slog.Logger) (string, error) {
	path := configured
	if path == "" {
		path = discover()
	}
	if path == "" {
		return "", fmt.Errorf("%w: set host_path in the config or install FontLab in a standard location", ErrHostNotFound)
	}
	return validatePath(path, logger)
}

func discover() string {
	for _, p := range defaultSearchPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func validatePath(path string, logger *slog.Logger) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: resolving %q: %v", ErrHostNotFound, path, err)
	}

	fi, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrHostNotFound, abs)
	}
	if !fi.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s is not a regular file", ErrHostNotFound, abs)
	}
	if fi.Mode().Perm()&0o111 == 0 {
		return "", fmt.Errorf("%w: %s is not executable", ErrHostNotFound, abs)
	}

	// A name that does not plausibly match FontLab is suspicious but not,
	// by itself, fatal; the operator may have wrapped the binary.
	if !strings.HasPrefix(strings.ToLower(filepath.Base(abs)), "fontlab") {
		logger.Warn("host executable name does not look like FontLab",
			slog.String("name", filepath.Base(abs)),
		)
	}

	logger.Info("host executable validated", slog.String("path", abs))
	return abs, nil
}

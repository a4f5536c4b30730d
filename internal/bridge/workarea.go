package bridge

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// workArea is the private, owner-only directory one execution runs in.
// It holds exactly two artifacts: the generated script file (0600) and the
// output file the host is instructed to populate. Created immediately before
// the host is spawned; removed on every exit path.
type workArea struct {
	id         string
	dir        string
	scriptPath string
	outputPath string
}

func newWorkArea(baseDir, scriptBody string) (*workArea, error) {
	if baseDir == "" {
		baseDir = os.TempDir()
	}

	id := uuid.NewString()
	dir := filepath.Join(baseDir, "fontlab-bridge-"+id)
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating work area: %w", err)
	}

	wa := &workArea{
		id:         id,
		dir:        dir,
		scriptPath: filepath.Join(dir, "script.py"),
		outputPath: filepath.Join(dir, "output.json"),
	}

	if err := os.WriteFile(wa.scriptPath, []byte(scriptBody), 0o600); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("writing script file: %w", err)
	}

	return wa, nil
}

// remove deletes the work area recursively. Best-effort: a deletion error is
// logged and never overrides the primary execution result.
func (w *workArea) remove(logger *slog.Logger) {
	if err := os.RemoveAll(w.dir); err != nil {
		logger.Warn("failed to remove work area",
			slog.String("dir", w.dir),
			slog.String("error", err.Error()),
		)
	}
}

// limitedWriter wraps a writer and stops writing after a byte limit.
// Excess data is silently discarded rather than reported as an error.
type limitedWriter struct {
	w         io.Writer
	remaining int
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	if lw.remaining > 0 {
		chunk := p
		if len(chunk) > lw.remaining {
			chunk = chunk[:lw.remaining]
		}
		n, err := lw.w.Write(chunk)
		lw.remaining -= n
		if err != nil {
			return n, err
		}
	}
	return len(p), nil
}

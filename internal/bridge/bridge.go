// Package bridge executes generated scripts inside the FontLab host process.
//
// Every execution runs under a bounded concurrency gate, inside a private
// owner-only work area, with a hard deadline enforced through an escalating
// termination sequence. Failure text returned to callers has always passed
// through the redact package; the raw text only reaches the audit store.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/typebridge/fontlab-mcp/internal/audit"
	"github.com/typebridge/fontlab-mcp/internal/hostapp"
	"github.com/typebridge/fontlab-mcp/internal/observability"
	"github.com/typebridge/fontlab-mcp/internal/redact"
)

const (
	// maxOutputBytes caps stdout/stderr to prevent OOM from a chatty host.
	maxOutputBytes = 1 << 20 // 1 MB

	defaultCapacity    = 3
	defaultMaxTimeout  = 10 * time.Second
	defaultGracePeriod = 5 * time.Second
	defaultKillWindow  = 2 * time.Second

	// malformedResultMessage is the generic caller-facing text for output
	// the host wrote but the bridge could not parse. The parse error itself
	// stays server-side.
	malformedResultMessage = "Operation failed: host produced an unreadable result"
)

// ErrTimeout indicates the host process exceeded its deadline. Distinct and
// retryable by the caller.
var ErrTimeout = errors.New("script execution timed out")

// Config configures the execution bridge.
type Config struct {
	// HostPath is the validated FontLab executable. Required.
	HostPath string

	// Capacity bounds concurrent host processes. Zero = 3.
	Capacity int64

	// MaxTimeout is the hard ceiling a caller-supplied timeout is clamped
	// to. Zero = 10s.
	MaxTimeout time.Duration

	// DefaultTimeout applies when the caller supplies none. Zero = MaxTimeout.
	DefaultTimeout time.Duration

	// WorkDir is the base directory for per-execution work areas.
	// Empty = os.TempDir().
	WorkDir string

	// GracePeriod is how long to wait after SIGTERM before escalating.
	GracePeriod time.Duration

	// KillWindow is how long to wait after SIGKILL before giving up on
	// reaping and returning anyway.
	KillWindow time.Duration
}

// Result is the structured outcome of one host execution.
//
// Exactly one outcome shape is populated: Success carries Data (and
// optionally Message); failure carries Error, already sanitized. Stdout and
// Stderr are only set on the fallback path, when the host exited without
// honoring the output-file contract.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Stdout  string `json:"stdout,omitempty"`
	Stderr  string `json:"stderr,omitempty"`
}

// Bridge runs script bodies inside the FontLab host application.
type Bridge struct {
	hostPath       string
	gate           *semaphore.Weighted
	maxTimeout     time.Duration
	defaultTimeout time.Duration
	workDir        string
	gracePeriod    time.Duration
	killWindow     time.Duration

	logger  *slog.Logger
	metrics *observability.Metrics
	audit   *audit.Store
}

// New creates a Bridge. A missing host path is fatal here, at construction
// time, never per call. The metrics collector and audit store are optional.
func New(cfg Config, logger *slog.Logger, metrics *observability.Metrics, auditStore *audit.Store) (*Bridge, error) {
	if cfg.HostPath == "" {
		return nil, fmt.Errorf("%w: bridge requires a validated host path", hostapp.ErrHostNotFound)
	}

	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	maxTimeout := cfg.MaxTimeout
	if maxTimeout <= 0 {
		maxTimeout = defaultMaxTimeout
	}
	defaultTimeout := cfg.DefaultTimeout
	if defaultTimeout <= 0 || defaultTimeout > maxTimeout {
		defaultTimeout = maxTimeout
	}
	grace := cfg.GracePeriod
	if grace <= 0 {
		grace = defaultGracePeriod
	}
	kill := cfg.KillWindow
	if kill <= 0 {
		kill = defaultKillWindow
	}

	return &Bridge{
		hostPath:       cfg.HostPath,
		gate:           semaphore.NewWeighted(capacity),
		maxTimeout:     maxTimeout,
		defaultTimeout: defaultTimeout,
		workDir:        cfg.WorkDir,
		gracePeriod:    grace,
		killWindow:     kill,
		logger:         logger,
		metrics:        metrics,
		audit:          auditStore,
	}, nil
}

// Execute runs one script body inside the host application and returns a
// sanitized result. Timeout is clamped to the bridge maximum; zero means the
// default. Blocks while the concurrency gate is full.
func (b *Bridge) Execute(ctx context.Context, scriptBody string, timeout time.Duration) (*Result, error) {
	if scriptBody == "" {
		return nil, fmt.Errorf("empty script body")
	}

	if timeout <= 0 {
		timeout = b.defaultTimeout
	}
	if timeout > b.maxTimeout {
		timeout = b.maxTimeout
	}

	waitStart := time.Now()
	if err := b.gate.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for execution slot: %w", err)
	}
	defer b.gate.Release(1)

	if b.metrics != nil {
		b.metrics.QueueWaitDuration.Observe(time.Since(waitStart).Seconds())
		b.metrics.ActiveExecutions.Inc()
		defer b.metrics.ActiveExecutions.Dec()
	}

	return b.run(ctx, operationFrom(ctx), scriptBody, timeout)
}

func (b *Bridge) run(ctx context.Context, op, scriptBody string, timeout time.Duration) (*Result, error) {
	wa, err := newWorkArea(b.workDir, scriptBody)
	if err != nil {
		return nil, fmt.Errorf("preparing work area: %w", err)
	}
	defer wa.remove(b.logger)

	cmd := exec.Command(b.hostPath, "-script", wa.scriptPath, "-output", wa.outputPath)
	cmd.Dir = wa.dir
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &limitedWriter{w: &stdoutBuf, remaining: maxOutputBytes}
	cmd.Stderr = &limitedWriter{w: &stderrBuf, remaining: maxOutputBytes}

	b.logger.Info("host executing script",
		slog.String("operation", op),
		slog.String("work_area", wa.id),
		slog.Duration("timeout", timeout),
	)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		b.record(op, "spawn_failure", -1, time.Since(start), wa.id, err.Error())
		return nil, fmt.Errorf("starting host process: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var waitErr error
	select {
	case waitErr = <-done:
	case <-timer.C:
		b.logger.Warn("host execution timed out",
			slog.String("operation", op),
			slog.Duration("timeout", timeout),
		)
		b.terminate(cmd, done)
		b.record(op, "timeout", -1, time.Since(start), wa.id, "")
		return nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)
	case <-ctx.Done():
		b.terminate(cmd, done)
		b.record(op, "canceled", -1, time.Since(start), wa.id, "")
		return nil, ctx.Err()
	}
	duration := time.Since(start)

	exitCode := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			// Non-zero exit is a result, not an error.
			exitCode = exitErr.ExitCode()
		} else {
			b.record(op, "spawn_failure", -1, duration, wa.id, waitErr.Error())
			return nil, fmt.Errorf("waiting for host process: %w", waitErr)
		}
	}

	return b.ingest(op, wa, exitCode, duration, stdoutBuf.String(), stderrBuf.String()), nil
}

// ingest turns the host's output file (or, failing that, its exit code and
// captured streams) into a Result with sanitized failure text.
func (b *Bridge) ingest(op string, wa *workArea, exitCode int, duration time.Duration, stdout, stderr string) *Result {
	raw, readErr := os.ReadFile(wa.outputPath)
	if readErr != nil {
		// The host did not honor the output-file contract. Synthesize a
		// result from the exit code and captured streams.
		outcome := "success"
		if exitCode != 0 {
			outcome = "host_failure"
		}
		b.record(op, outcome, exitCode, duration, wa.id, stderr)
		return &Result{
			Success: exitCode == 0,
			Stdout:  stdout,
			Stderr:  stderr,
		}
	}

	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		b.logger.Error("host output file is not valid JSON",
			slog.String("operation", op),
			slog.String("error", err.Error()),
		)
		b.record(op, "malformed_result", exitCode, duration, wa.id, err.Error())
		return &Result{Success: false, Error: malformedResultMessage}
	}

	// Absent "success" key is treated as failure.
	success, _ := parsed["success"].(bool)

	// The in-band verdict is authoritative: the host wrote a well-formed
	// report, so a mismatching exit code is only logged.
	if success && exitCode != 0 {
		b.logger.Warn("host exited nonzero but reported success",
			slog.String("operation", op),
			slog.Int("exit_code", exitCode),
		)
	}

	res := &Result{Success: success, Data: parsed["data"]}
	if msg, ok := parsed["message"].(string); ok {
		res.Message = msg
	}

	if success {
		b.record(op, "success", exitCode, duration, wa.id, "")
		return res
	}

	rawErr, _ := parsed["error"].(string)
	b.logger.Error("host reported failure",
		slog.String("operation", op),
		slog.String("error", rawErr),
	)
	b.record(op, "host_failure", exitCode, duration, wa.id, rawErr)
	res.Error = redact.Error(rawErr)
	return res
}

// terminate drives a timed-out host process to a terminal state:
// SIGTERM → bounded wait → SIGKILL of the process group → short wait → one
// final kill attempt. The call returns within the bounded windows even if
// reaping never completes; the leak is logged, not retried forever.
func (b *Bridge) terminate(cmd *exec.Cmd, done <-chan error) {
	if cmd.Process == nil {
		return
	}
	pid := cmd.Process.Pid

	// Graceful first: give the host a chance to flush and exit.
	if err := syscall.Kill(-pid, syscall.SIGTERM); err != nil && !errors.Is(err, syscall.ESRCH) {
		b.logger.Debug("SIGTERM failed", slog.Int("pid", pid), slog.String("error", err.Error()))
	}
	select {
	case <-done:
		return
	case <-time.After(b.gracePeriod):
	}

	// Forceful: the whole process group, so children die too.
	if err := syscall.Kill(-pid, syscall.SIGKILL); err != nil && !errors.Is(err, syscall.ESRCH) {
		b.logger.Warn("SIGKILL failed", slog.Int("pid", pid), slog.String("error", err.Error()))
	}
	select {
	case <-done:
		return
	case <-time.After(b.killWindow):
	}

	// Last resort. Control returns to the caller regardless.
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		b.logger.Error("final kill attempt failed", slog.Int("pid", pid), slog.String("error", err.Error()))
	}
	b.logger.Error("host process not reaped after kill escalation", slog.Int("pid", pid))
}

func (b *Bridge) record(op, outcome string, exitCode int, duration time.Duration, workAreaID, rawErr string) {
	if b.metrics != nil {
		b.metrics.ExecutionsTotal.WithLabelValues(op, outcome).Inc()
		b.metrics.ExecutionDuration.WithLabelValues(op).Observe(duration.Seconds())
	}
	b.audit.Write(audit.Record{
		Operation:  op,
		Outcome:    outcome,
		ExitCode:   exitCode,
		DurationMS: duration.Milliseconds(),
		WorkAreaID: workAreaID,
		Error:      rawErr,
	})
}

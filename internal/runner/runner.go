// Package runner launches the external remeshing executable and turns
// whatever happens to it into a classified, reportable outcome.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/blenderlab/instant-remesh/internal/logger"
)

// Preflight errors, reported before any process is spawned.
var (
	ErrExecutableNotFound = errors.New("executable not found")
	ErrPermissionDenied   = errors.New("executable is not runnable")
)

// maxCaptureBytes bounds each captured output stream. Runaway tool output
// is cut off with truncationMarker instead of growing without limit.
const maxCaptureBytes = 64 * 1024

const truncationMarker = "\n... [output truncated]"

// waitDelay is how long Wait may linger after the context kills the child
// before remaining pipe readers are abandoned.
const waitDelay = 5 * time.Second

// Spec describes one external process invocation.
type Spec struct {
	// Path is the executable to run.
	Path string
	// Args is the argument vector, excluding the program name.
	Args []string
	// Dir is the working directory; empty means inherit.
	Dir string
	// Timeout is the hard wall-clock limit for the run.
	Timeout time.Duration
	// ExpectedOutput, when set, must exist on disk after a zero exit
	// for the run to count as a success.
	ExpectedOutput string
}

// Outcome captures the result of one invocation.
type Outcome struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
	Duration time.Duration
	// Category is FailureNone on success, otherwise the most specific
	// classification available.
	Category FailureCategory
	// Detail is a human-readable failure summary, empty on success.
	Detail string
}

// Failed reports whether the invocation failed.
func (o Outcome) Failed() bool {
	return o.Category != FailureNone
}

// Preflight verifies the executable path before spawning: the path must be
// set, exist, refer to a regular file and be executable by the current user.
func Preflight(path string) error {
	if path == "" {
		return fmt.Errorf("%w: no path configured", ErrExecutableNotFound)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrExecutableNotFound, path)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrExecutableNotFound, path)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0111 == 0 {
		return fmt.Errorf("%w: %s lacks execute permission", ErrPermissionDenied, path)
	}
	return nil
}

// Run executes the spec under its timeout, capturing bounded stdout and
// stderr. The child is guaranteed terminated when the timeout fires or the
// caller's context is cancelled. A non-nil error is returned only for
// preflight and spawn failures; everything after a successful start is
// reported through the Outcome.
func Run(ctx context.Context, spec Spec) (Outcome, error) {
	if err := Preflight(spec.Path); err != nil {
		return Outcome{}, err
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if spec.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.WaitDelay = waitDelay

	stdout := newCaptureBuffer(maxCaptureBytes)
	stderr := newCaptureBuffer(maxCaptureBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	logger.Debug("running external tool",
		zap.String("path", spec.Path),
		zap.Strings("args", spec.Args),
		zap.Duration("timeout", spec.Timeout))

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Outcome{}, fmt.Errorf("starting %s: %w", spec.Path, err)
	}
	waitErr := cmd.Wait()

	outcome := Outcome{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
		TimedOut: errors.Is(runCtx.Err(), context.DeadlineExceeded),
	}

	classify(&outcome, spec, waitErr)

	if outcome.Failed() {
		logger.Warn("external tool failed",
			zap.String("category", outcome.Category.String()),
			zap.Int("exit_code", outcome.ExitCode),
			zap.Bool("timed_out", outcome.TimedOut),
			zap.Duration("duration", outcome.Duration))
	} else {
		logger.Debug("external tool finished",
			zap.Duration("duration", outcome.Duration))
	}

	return outcome, nil
}

// classify fills in Category and Detail for a completed invocation.
func classify(o *Outcome, spec Spec, waitErr error) {
	switch {
	case o.TimedOut:
		o.Category = FailureTimedOut
		o.Detail = fmt.Sprintf("killed after exceeding %s timeout", spec.Timeout)
		return

	case o.ExitCode != 0 || waitErr != nil:
		o.Category = Classify(o.Stdout, o.Stderr)
		o.Detail = failureDetail(o)
		if o.Category == FailureUnknown && o.Stderr == "" {
			// Nothing useful in the output; try to say something
			// about the binary itself.
			if desc := probeBinaryFormat(spec.Path); desc != "" {
				o.Detail = fmt.Sprintf("%s (binary: %s)", o.Detail, desc)
			}
		}
		return

	case spec.ExpectedOutput != "":
		if _, err := os.Stat(spec.ExpectedOutput); err != nil {
			o.Category = Classify(o.Stdout, o.Stderr)
			if o.Category == FailureUnknown {
				o.Category = FailureOutputMissing
			}
			o.Detail = fmt.Sprintf("exit code 0 but %s was not created", spec.ExpectedOutput)
			return
		}
	}

	o.Category = FailureNone
}

// failureDetail builds the human-readable summary for a non-zero exit.
func failureDetail(o *Outcome) string {
	excerpt := o.Stderr
	if excerpt == "" {
		excerpt = o.Stdout
	}
	if excerpt == "" {
		return fmt.Sprintf("exited with code %d and no output", o.ExitCode)
	}
	const maxExcerpt = 512
	if len(excerpt) > maxExcerpt {
		excerpt = excerpt[:maxExcerpt] + "..."
	}
	return fmt.Sprintf("exited with code %d: %s", o.ExitCode, excerpt)
}

// captureBuffer is a bounded in-memory sink for a child output stream.
type captureBuffer struct {
	buf       []byte
	max       int
	truncated bool
}

func newCaptureBuffer(max int) *captureBuffer {
	return &captureBuffer{max: max}
}

// Write implements io.Writer. Writes past the cap are discarded; the full
// length is always reported so the child never sees a short write.
func (b *captureBuffer) Write(p []byte) (int, error) {
	room := b.max - len(b.buf)
	if room > 0 {
		if len(p) <= room {
			b.buf = append(b.buf, p...)
		} else {
			b.buf = append(b.buf, p[:room]...)
			b.truncated = true
		}
	} else if len(p) > 0 {
		b.truncated = true
	}
	return len(p), nil
}

func (b *captureBuffer) String() string {
	if b.truncated {
		return string(b.buf) + truncationMarker
	}
	return string(b.buf)
}

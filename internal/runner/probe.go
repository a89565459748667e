package runner

import (
	"context"
	"time"
)

// DefaultProbeTimeout bounds the --help capability probe.
const DefaultProbeTimeout = 5 * time.Second

// CheckExecutable verifies that the configured executable can actually be
// launched by running it with --help under a short timeout. A zero exit
// within the timeout means the tool is usable; everything else comes back
// classified in the Outcome.
func CheckExecutable(ctx context.Context, path string, timeout time.Duration) (Outcome, error) {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	return Run(ctx, Spec{
		Path:    path,
		Args:    []string{"--help"},
		Timeout: timeout,
	})
}

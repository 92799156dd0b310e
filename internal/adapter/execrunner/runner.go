package execrunner

import (
	"context"
	"os/exec"
	"time"

	"github.com/scanforge/artifact-fetch/internal/port"
)

// Runner executes external commands via os/exec, capturing combined
// stdout+stderr. An optional per-invocation timeout bounds subprocess
// runtime on top of whatever deadline the caller's context carries.
type Runner struct {
	timeout time.Duration
}

// Ensure Runner implements port.CommandRunner
var _ port.CommandRunner = (*Runner)(nil)

// New creates a Runner. A zero timeout means no additional deadline.
func New(timeout time.Duration) *Runner {
	return &Runner{timeout: timeout}
}

// Run executes the command and returns its combined output. A non-zero
// exit surfaces as an *exec.ExitError with the output still populated.
func (r *Runner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

package port

import "context"

// CommandRunner executes an external command and captures its combined
// stdout+stderr. A non-zero exit is reported through err (an
// *exec.ExitError from the default implementation) with output still
// populated so callers can preserve the diagnostic payload.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (output []byte, err error)
}

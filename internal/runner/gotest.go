package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/harrison/specdox/internal/models"
)

// GoTest runs `goCmd test -json args...` and feeds its standard output to
// the host. Every byte read is also copied to tee when it is non-nil.
// A non-zero exit of go test is not an error: failing tests are reported
// through the result.
func GoTest(ctx context.Context, h *Host, goCmd string, args []string, stderr, tee io.Writer) (*models.Result, error) {
	if goCmd == "" {
		goCmd = "go"
	}

	cmd := exec.CommandContext(ctx, goCmd, append([]string{"test", "-json"}, args...)...)
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open go test output: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s test: %w", goCmd, err)
	}

	var events io.Reader = stdout
	if tee != nil {
		events = io.TeeReader(stdout, tee)
	}

	result, runErr := h.Run(ctx, events)
	if runErr != nil {
		// Drain so the child is not blocked on a full pipe while we wait.
		io.Copy(io.Discard, stdout)
	}
	waitErr := cmd.Wait()

	if runErr != nil {
		return result, runErr
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return result, fmt.Errorf("%s test did not finish: %w", goCmd, waitErr)
	}
	return result, nil
}

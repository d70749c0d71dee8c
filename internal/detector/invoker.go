package detector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"hyphema-tracker/internal/config"
	apperrors "hyphema-tracker/internal/errors"
	"hyphema-tracker/internal/logger"
)

// Invoker runs the external hyphema detector, one process per call. It
// captures stdout and stderr and reports exit status; interpreting the
// payload is the parser's job.
type Invoker struct {
	interpreter string
	scriptPath  string
	timeout     time.Duration
}

func NewInvoker(cfg config.DetectorConfig) *Invoker {
	return &Invoker{
		interpreter: cfg.Interpreter,
		scriptPath:  cfg.ScriptPath,
		timeout:     cfg.Timeout,
	}
}

// Run launches one detector invocation with the absolute photo path as its
// single argument and blocks until the process exits or the timeout
// elapses. On exit code 0 it returns the raw stdout payload.
func (i *Invoker) Run(ctx context.Context, photoPath string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, i.interpreter, i.scriptPath, photoPath)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		// CommandContext kills the process on both deadline and
		// cancellation; neither is an abnormal detector exit.
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.New(apperrors.ErrorTypeTimeout, apperrors.CodeDetectorTimeout,
				fmt.Sprintf("detector did not finish within %s", i.timeout)).
				WithContext("photo", photoPath)
		}
		if ctx.Err() != nil {
			return nil, apperrors.Wrap(ctx.Err(), apperrors.ErrorTypeInternal, apperrors.CodeCanceled,
				"detector run canceled").
				WithContext("photo", photoPath)
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, apperrors.Wrap(err, apperrors.ErrorTypeDetector, apperrors.CodeDetectorExit,
				fmt.Sprintf("detector exited with code %d", exitErr.ExitCode())).
				WithContext("exit_code", exitErr.ExitCode()).
				WithContext("stderr", strings.TrimSpace(stderr.String()))
		}
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeDetector, apperrors.CodeDetectorSpawn,
			"failed to start detector process")
	}

	logger.Debug("Detector run completed",
		"photo", photoPath,
		"duration_ms", elapsed.Milliseconds(),
		"stdout_bytes", stdout.Len())

	return stdout.Bytes(), nil
}

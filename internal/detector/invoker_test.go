package detector

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"hyphema-tracker/internal/config"
	apperrors "hyphema-tracker/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript drops an executable shell script standing in for the
// detector. The invoker only cares about exit status and streams, so a
// script is a faithful stand-in for the real python tool.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("detector scripts require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "detector.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func newTestInvoker(script string, timeout time.Duration) *Invoker {
	return NewInvoker(config.DetectorConfig{
		Interpreter: "/bin/sh",
		ScriptPath:  script,
		Timeout:     timeout,
	})
}

func TestInvoker_Run_Success(t *testing.T) {
	script := writeScript(t, `echo "{\"image\": \"$1\", \"hyphema_area_percentage\": 15}"`)
	inv := newTestInvoker(script, 5*time.Second)

	raw, err := inv.Run(context.Background(), "/tmp/photo.jpg")
	require.NoError(t, err)

	result, err := ParseResult(raw)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, result.Percentage, 1e-9)
	assert.Equal(t, "/tmp/photo.jpg", result.ImagePath)
}

func TestInvoker_Run_NonZeroExit(t *testing.T) {
	script := writeScript(t, `echo "cv2.error: bad image" >&2
exit 3`)
	inv := newTestInvoker(script, 5*time.Second)

	_, err := inv.Run(context.Background(), "/tmp/photo.jpg")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeDetector, apperrors.TypeOf(err))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeDetectorExit, appErr.Code)
	assert.Equal(t, 3, appErr.Context["exit_code"])
	assert.Equal(t, "cv2.error: bad image", appErr.Context["stderr"])
}

func TestInvoker_Run_Timeout(t *testing.T) {
	script := writeScript(t, `sleep 10`)
	inv := newTestInvoker(script, 100*time.Millisecond)

	start := time.Now()
	_, err := inv.Run(context.Background(), "/tmp/photo.jpg")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeTimeout, apperrors.TypeOf(err))
	// The process must be reaped at the deadline, not after its own sleep.
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestInvoker_Run_SpawnFailure(t *testing.T) {
	inv := NewInvoker(config.DetectorConfig{
		Interpreter: filepath.Join(t.TempDir(), "does-not-exist"),
		ScriptPath:  "irrelevant.py",
		Timeout:     time.Second,
	})

	_, err := inv.Run(context.Background(), "/tmp/photo.jpg")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeDetector, apperrors.TypeOf(err))
}

// A caller hanging up must not read as the detector crashing.
func TestInvoker_Run_CanceledIsNotAnExitFailure(t *testing.T) {
	script := writeScript(t, `sleep 10`)
	inv := newTestInvoker(script, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	timer := time.AfterFunc(50*time.Millisecond, cancel)
	defer timer.Stop()

	start := time.Now()
	_, err := inv.Run(ctx, "/tmp/photo.jpg")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeCanceled, appErr.Code)
	assert.NotEqual(t, apperrors.ErrorTypeDetector, appErr.Type)
	assert.NotEqual(t, apperrors.ErrorTypeTimeout, appErr.Type)
}

func TestInvoker_Run_TimeoutDistinctFromExit(t *testing.T) {
	failing := writeScript(t, `exit 1`)
	slow := writeScript(t, `sleep 10`)

	_, exitErr := newTestInvoker(failing, 5*time.Second).Run(context.Background(), "/tmp/p.jpg")
	_, timeoutErr := newTestInvoker(slow, 50*time.Millisecond).Run(context.Background(), "/tmp/p.jpg")

	require.Error(t, exitErr)
	require.Error(t, timeoutErr)
	assert.NotEqual(t, apperrors.TypeOf(exitErr), apperrors.TypeOf(timeoutErr))
}

package processor

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithRetry_SucceedsFirstTry(t *testing.T) {
	calls := 0
	exec := func(ctx context.Context, name string, args []string) ([]byte, []byte, error) {
		calls++
		return []byte("ok"), nil, nil
	}

	stdout, _, err := RunWithRetry(context.Background(), exec, "tool", nil, time.Second, 3)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(stdout))
	assert.Equal(t, 1, calls)
}

func TestRunWithRetry_ExitErrorIsNotRetried(t *testing.T) {
	calls := 0
	exitErr := &exec.ExitError{}
	exec := func(ctx context.Context, name string, args []string) ([]byte, []byte, error) {
		calls++
		return []byte("issues found"), nil, exitErr
	}

	stdout, _, err := RunWithRetry(context.Background(), exec, "tool", nil, time.Second, 3)
	assert.Same(t, exitErr, err)
	assert.Equal(t, "issues found", string(stdout))
	assert.Equal(t, 1, calls, "an ExitError must not trigger a retry")
}

func TestRunWithRetry_TransientErrorRetriesThenSucceeds(t *testing.T) {
	calls := 0
	exec := func(ctx context.Context, name string, args []string) ([]byte, []byte, error) {
		calls++
		if calls < 3 {
			return nil, nil, errors.New("connection refused")
		}
		return []byte("ok"), nil, nil
	}

	stdout, _, err := RunWithRetry(context.Background(), exec, "tool", nil, time.Second, 5)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(stdout))
	assert.Equal(t, 3, calls)
}

func TestRunWithRetry_ExhaustsAttemptsAndReturnsLastError(t *testing.T) {
	calls := 0
	wantErr := errors.New("still broken")
	exec := func(ctx context.Context, name string, args []string) ([]byte, []byte, error) {
		calls++
		return nil, nil, wantErr
	}

	_, _, err := RunWithRetry(context.Background(), exec, "tool", nil, time.Second, 2)
	assert.Same(t, wantErr, err)
	assert.Equal(t, 2, calls)
}

func TestRunWithRetry_DeadlineExceededReturnsErrTimeout(t *testing.T) {
	exec := func(ctx context.Context, name string, args []string) ([]byte, []byte, error) {
		<-ctx.Done()
		return nil, nil, ctx.Err()
	}

	_, _, err := RunWithRetry(context.Background(), exec, "tool", nil, 10*time.Millisecond, 3)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestWriteTempFile_RoundTrips(t *testing.T) {
	path, err := WriteTempFile("hello world", ".py")
	require.NoError(t, err)
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

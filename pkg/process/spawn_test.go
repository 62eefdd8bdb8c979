package process

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xeway/process-scaler/pkg/errors"
)

type testLogger struct{}

func (testLogger) Debugf(format string, args ...interface{}) {}
func (testLogger) Infof(format string, args ...interface{})  {}
func (testLogger) Warnf(format string, args ...interface{})  {}
func (testLogger) Errorf(format string, args ...interface{}) {}

func TestSpawn_Success(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test helper uses /bin/sh")
	}

	cmd, err := Spawn(context.Background(), SpawnConfig{
		Command: "/bin/sh",
		Args:    []string{"-c", "exit 0"},
	}, testLogger{})
	require.NoError(t, err)
	require.NotNil(t, cmd.Process)

	assert.Greater(t, cmd.Process.Pid, 0)
	assert.NoError(t, cmd.Wait())
}

func TestSpawn_ExecutableNotFound(t *testing.T) {
	_, err := Spawn(context.Background(), SpawnConfig{
		Command: "/nonexistent/definitely-not-a-binary",
	}, testLogger{})

	require.Error(t, err)
	assert.True(t, errors.IsSpawnError(err))
}

func TestSpawn_EmptyCommand(t *testing.T) {
	_, err := Spawn(context.Background(), SpawnConfig{}, testLogger{})

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestSpawn_NilContext(t *testing.T) {
	var nilCtx context.Context
	_, err := Spawn(nilCtx, SpawnConfig{Command: "/bin/true"}, testLogger{})

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

package process

import (
	"context"
	"os"
	"os/exec"

	"github.com/Xeway/process-scaler/pkg/errors"
	"github.com/Xeway/process-scaler/pkg/logging"
)

// SpawnConfig describes the child process to launch.
type SpawnConfig struct {
	Command          string
	Args             []string
	Environment      []string
	WorkingDirectory string
}

// Spawn launches the child with inherited standard streams and returns the
// started command. The child runs in its own process group on Unix so
// signals aimed at it do not hit the supervisor. Any failure to create the
// child is a spawn error; the caller must not start monitoring in that case.
func Spawn(ctx context.Context, config SpawnConfig, logger logging.Logger) (*exec.Cmd, error) {
	if ctx == nil {
		return nil, errors.NewValidationError("context cannot be nil", nil)
	}
	if config.Command == "" {
		return nil, errors.NewValidationError("command cannot be empty", nil)
	}

	logger.Debugf("Spawning child process, command: '%s', args: %v", config.Command, config.Args)

	cmd := exec.CommandContext(ctx, config.Command, config.Args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if config.WorkingDirectory != "" {
		cmd.Dir = config.WorkingDirectory
	}
	if len(config.Environment) > 0 {
		cmd.Env = append(os.Environ(), config.Environment...)
	}

	setupProcessAttributes(cmd)

	if err := cmd.Start(); err != nil {
		return nil, errors.NewSpawnError("failed to start child process", err).WithContext("command", config.Command)
	}

	logger.Infof("Spawned child process, command: '%s', PID: %d", config.Command, cmd.Process.Pid)

	return cmd, nil
}

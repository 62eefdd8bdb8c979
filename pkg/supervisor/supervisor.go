package supervisor

import (
	"context"
	"os/exec"
	"time"

	"go.uber.org/atomic"

	"github.com/Xeway/process-scaler/pkg/errors"
	"github.com/Xeway/process-scaler/pkg/logging"
	"github.com/Xeway/process-scaler/pkg/monitor"
	"github.com/Xeway/process-scaler/pkg/policy"
	"github.com/Xeway/process-scaler/pkg/process"
	"github.com/Xeway/process-scaler/pkg/resourcelimits"
)

// Options configures a Supervisor.
type Options struct {
	// Policy supplies the resource ceilings. Defaults to the built-in
	// static policy.
	Policy policy.LimitPolicy

	// Interval between monitoring cycles. Defaults to monitor.DefaultInterval.
	Interval time.Duration

	// Environment entries appended to the child's inherited environment.
	Environment []string

	// WorkingDirectory of the child. Empty means inherit.
	WorkingDirectory string
}

// Supervisor owns the child process: it spawns it, runs the resource
// monitor alongside it, owns the termination signal and propagates the
// child's exit code.
type Supervisor struct {
	options Options
	logger  logging.Logger
}

// New creates a Supervisor.
func New(options Options, logger logging.Logger) *Supervisor {
	if options.Policy == nil {
		options.Policy = policy.Default()
	}
	if options.Interval <= 0 {
		options.Interval = monitor.DefaultInterval
	}
	return &Supervisor{
		options: options,
		logger:  logger,
	}
}

// Run spawns the child with the given command line, starts the monitor
// loop, blocks until the child exits, sets the termination signal and
// returns the child's exit code unchanged. If spawning fails the monitor is
// never started and a spawn error is returned.
func (s *Supervisor) Run(ctx context.Context, command string, args []string) (int, error) {
	cmd, err := process.Spawn(ctx, process.SpawnConfig{
		Command:          command,
		Args:             args,
		Environment:      s.options.Environment,
		WorkingDirectory: s.options.WorkingDirectory,
	}, s.logger)
	if err != nil {
		return 0, err
	}

	// Termination signal: written exactly once, below, after the child
	// has exited. The monitor observes it each cycle.
	terminated := atomic.NewBool(false)

	mon := monitor.New(monitor.Config{
		PID:             cmd.Process.Pid,
		ResourceContext: resourcelimits.SelfContext(),
		Policy:          s.options.Policy,
		Enforcer:        resourcelimits.NewCeilingEnforcer(s.logger),
		Terminated:      terminated,
		Interval:        s.options.Interval,
		Logger:          s.logger,
	})
	if err := mon.Start(ctx); err != nil {
		// Degraded service: the child runs, just without ceilings
		s.logger.Warnf("Failed to start resource monitor, child runs unconstrained: %v", err)
	}

	waitErr := cmd.Wait()

	terminated.Store(true)
	mon.Stop()

	if waitErr != nil {
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			code := exitErr.ExitCode()
			s.logger.Infof("Child process PID %d exited with code %d", cmd.Process.Pid, code)
			return code, nil
		}
		return 0, errors.NewInternalError("failed waiting for child process", waitErr).WithContext("pid", cmd.Process.Pid)
	}

	s.logger.Infof("Child process PID %d exited with code 0", cmd.Process.Pid)
	return 0, nil
}

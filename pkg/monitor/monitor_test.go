package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/Xeway/process-scaler/pkg/errors"
	"github.com/Xeway/process-scaler/pkg/policy"
	"github.com/Xeway/process-scaler/pkg/resourcelimits"
)

type testLogger struct{}

func (testLogger) Debugf(format string, args ...interface{}) {}
func (testLogger) Infof(format string, args ...interface{})  {}
func (testLogger) Warnf(format string, args ...interface{})  {}
func (testLogger) Errorf(format string, args ...interface{}) {}

type fakeResourceContext struct{}

func (fakeResourceContext) AddressSpaceLimit() (uint64, uint64, error) {
	return 1 << 40, 1 << 40, nil
}

func (fakeResourceContext) SetAddressSpaceSoftLimit(bytes uint64) error {
	return nil
}

// fakeEnforcer counts actuations per dimension; cpuErr, if set, is returned
// by every CPU actuation, and delay stretches each memory actuation.
type fakeEnforcer struct {
	memory atomic.Int64
	cpu    atomic.Int64
	gpu    atomic.Int64
	cpuErr error
	delay  time.Duration
}

func (f *fakeEnforcer) ApplyMemoryCeiling(rctx resourcelimits.ResourceContext, bytes int64) error {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.memory.Inc()
	return nil
}

func (f *fakeEnforcer) ApplyCPUCeiling(pid int, percent int) error {
	f.cpu.Inc()
	return f.cpuErr
}

func (f *fakeEnforcer) ApplyGPUCeiling(pid int, percent int) error {
	f.gpu.Inc()
	return nil
}

func newTestMonitor(enforcer *fakeEnforcer, terminated *atomic.Bool) *Monitor {
	return New(Config{
		PID:             1,
		ResourceContext: fakeResourceContext{},
		Policy:          policy.Default(),
		Enforcer:        enforcer,
		Terminated:      terminated,
		Interval:        10 * time.Millisecond,
		Logger:          testLogger{},
	})
}

func TestMonitor_ActuatesAllDimensionsEveryCycle(t *testing.T) {
	enforcer := &fakeEnforcer{}
	terminated := atomic.NewBool(false)
	m := newTestMonitor(enforcer, terminated)

	require.NoError(t, m.Start(context.Background()))
	defer m.Stop()

	assert.Eventually(t, func() bool {
		return enforcer.memory.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	// Dimensions advance in lockstep: each cycle touches all three
	memory, cpuCount, gpu := enforcer.memory.Load(), enforcer.cpu.Load(), enforcer.gpu.Load()
	assert.InDelta(t, memory, cpuCount, 1)
	assert.InDelta(t, memory, gpu, 1)
}

func TestMonitor_StopsAfterTerminationSignal(t *testing.T) {
	enforcer := &fakeEnforcer{}
	terminated := atomic.NewBool(false)
	m := newTestMonitor(enforcer, terminated)

	require.NoError(t, m.Start(context.Background()))

	assert.Eventually(t, func() bool {
		return enforcer.memory.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	terminated.Store(true)
	m.Stop()

	// No further cycles after the loop has observed the signal and joined
	after := enforcer.memory.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, enforcer.memory.Load())
}

func TestMonitor_StopDoesNotBlockOnInFlightCycle(t *testing.T) {
	enforcer := &fakeEnforcer{delay: 50 * time.Millisecond}
	terminated := atomic.NewBool(false)
	m := newTestMonitor(enforcer, terminated)

	require.NoError(t, m.Start(context.Background()))

	// Land inside a cycle, then join while the actuation is still running
	assert.Eventually(t, func() bool {
		return enforcer.memory.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		m.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return while a cycle was in flight")
	}
}

func TestMonitor_TerminationBeforeFirstCycle(t *testing.T) {
	enforcer := &fakeEnforcer{}
	terminated := atomic.NewBool(true)
	m := newTestMonitor(enforcer, terminated)

	require.NoError(t, m.Start(context.Background()))
	m.Stop()

	assert.Equal(t, int64(0), enforcer.memory.Load())
	assert.Equal(t, int64(0), enforcer.cpu.Load())
	assert.Equal(t, int64(0), enforcer.gpu.Load())
}

func TestMonitor_CPUFailureDoesNotBlockOtherActuators(t *testing.T) {
	enforcer := &fakeEnforcer{
		cpuErr: errors.NewUnsupportedPlatformError("no affinity API", nil),
	}
	terminated := atomic.NewBool(false)
	m := newTestMonitor(enforcer, terminated)

	require.NoError(t, m.Start(context.Background()))
	defer m.Stop()

	assert.Eventually(t, func() bool {
		return enforcer.memory.Load() >= 3 && enforcer.gpu.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	// unsupported_platform makes the CPU dimension inert after one attempt
	assert.Equal(t, int64(1), enforcer.cpu.Load())
}

func TestMonitor_ProcessNotFoundKeepsCycling(t *testing.T) {
	enforcer := &fakeEnforcer{
		cpuErr: errors.NewProcessNotFoundError("target exited", nil),
	}
	terminated := atomic.NewBool(false)
	m := newTestMonitor(enforcer, terminated)

	require.NoError(t, m.Start(context.Background()))
	defer m.Stop()

	// process_not_found is per-cycle: the CPU actuator keeps being invoked
	assert.Eventually(t, func() bool {
		return enforcer.cpu.Load() >= 3 && enforcer.memory.Load() >= 3
	}, time.Second, 5*time.Millisecond)
}

func TestMonitor_StartValidation(t *testing.T) {
	enforcer := &fakeEnforcer{}
	m := newTestMonitor(enforcer, nil)
	assert.Error(t, m.Start(context.Background()))

	m = newTestMonitor(enforcer, atomic.NewBool(false))
	require.NoError(t, m.Start(context.Background()))
	assert.Error(t, m.Start(context.Background()), "second Start must fail")
	m.Stop()

	// Stop is idempotent
	m.Stop()
}

package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/Xeway/process-scaler/pkg/errors"
	"github.com/Xeway/process-scaler/pkg/logging"
	"github.com/Xeway/process-scaler/pkg/policy"
	"github.com/Xeway/process-scaler/pkg/resourcelimits"
)

// DefaultInterval is the cycle cadence when none is configured.
const DefaultInterval = time.Second

// Config wires a Monitor to its collaborators.
type Config struct {
	// PID of the supervised process. The monitor holds a non-owning
	// reference: it issues resource-control calls but never touches the
	// child's lifecycle.
	PID int

	// ResourceContext the memory ceiling is applied in.
	ResourceContext resourcelimits.ResourceContext

	// Policy supplies fresh ceilings each cycle.
	Policy policy.LimitPolicy

	// Enforcer applies the ceilings.
	Enforcer resourcelimits.CeilingEnforcer

	// Terminated is the termination signal: set exactly once by the
	// supervisor when the child has exited, observed by the monitor each
	// cycle. Shutdown latency is bounded by one interval.
	Terminated *atomic.Bool

	// Interval between cycles. Defaults to DefaultInterval.
	Interval time.Duration

	Logger logging.Logger
}

// Monitor periodically polls the limit policy and pushes the current
// ceilings through the enforcer, whether or not the values changed.
// Cycles are strictly sequential: one completes before the next sleep.
type Monitor struct {
	config Config

	// Control
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mutex  sync.Mutex

	// State
	isRunning bool

	// Dimensions that hit unsupported_platform are disabled for the rest
	// of the run. Only the loop goroutine touches these.
	memoryInert bool
	cpuInert    bool
}

// New creates a Monitor. It does not start the loop.
func New(config Config) *Monitor {
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	return &Monitor{
		config: config,
	}
}

// Start launches the monitor loop on its own goroutine. The first cycle
// runs immediately, before the first sleep.
func (m *Monitor) Start(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.isRunning {
		return errors.NewValidationError("monitor is already running", nil).WithContext("pid", m.config.PID)
	}
	if m.config.Terminated == nil {
		return errors.NewValidationError("termination signal cannot be nil", nil)
	}
	if m.config.Policy == nil || m.config.Enforcer == nil || m.config.ResourceContext == nil {
		return errors.NewValidationError("policy, enforcer and resource context are required", nil)
	}

	m.ctx, m.cancel = context.WithCancel(ctx)
	m.isRunning = true

	m.config.Logger.Infof("Starting resource monitor for PID %d, interval: %v", m.config.PID, m.config.Interval)

	m.wg.Add(1)
	go m.loop()

	return nil
}

// Stop cancels the loop and waits for it to return. Safe to call after the
// termination signal is set; the loop exits on whichever it observes first.
// The join happens outside the mutex so a loop goroutine that ever needs it
// cannot deadlock the shutdown.
func (m *Monitor) Stop() {
	m.mutex.Lock()
	if !m.isRunning {
		m.mutex.Unlock()
		return
	}
	m.isRunning = false
	cancel := m.cancel
	m.mutex.Unlock()

	cancel()
	m.wg.Wait()

	m.config.Logger.Infof("Resource monitor stopped for PID %d", m.config.PID)
}

func (m *Monitor) loop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	for {
		if m.config.Terminated.Load() {
			m.config.Logger.Debugf("Termination signal observed, no further cycles for PID %d", m.config.PID)
			return
		}

		m.runCycle()

		select {
		case <-m.ctx.Done():
			m.config.Logger.Debugf("Monitor loop cancelled for PID %d", m.config.PID)
			return
		case <-ticker.C:
		}
	}
}

// runCycle polls the policy and applies each ceiling. Order is fixed:
// memory, CPU, GPU. A failure in one dimension never blocks the others and
// never unwinds the loop.
func (m *Monitor) runCycle() {
	ceilings := resourcelimits.Ceilings{
		MemoryBytes: m.config.Policy.MemoryCeilingBytes(),
		CPUPercent:  m.config.Policy.CPUCeilingPercent(),
		GPUPercent:  m.config.Policy.GPUCeilingPercent(),
	}

	if !m.memoryInert {
		if err := m.config.Enforcer.ApplyMemoryCeiling(m.config.ResourceContext, ceilings.MemoryBytes); err != nil {
			if errors.IsUnsupportedPlatformError(err) {
				m.memoryInert = true
				m.config.Logger.Warnf("Memory ceiling not supported on this platform, disabled for the rest of the run: %v", err)
			} else {
				m.config.Logger.Warnf("Failed to apply memory ceiling of %d bytes: %v", ceilings.MemoryBytes, err)
			}
		}
	}

	if !m.cpuInert {
		if err := m.config.Enforcer.ApplyCPUCeiling(m.config.PID, ceilings.CPUPercent); err != nil {
			switch {
			case errors.IsUnsupportedPlatformError(err):
				m.cpuInert = true
				m.config.Logger.Warnf("CPU ceiling not supported on this platform, disabled for the rest of the run: %v", err)
			case errors.IsProcessNotFoundError(err):
				// The supervisor sets the termination signal shortly;
				// this cycle's CPU adjustment is simply skipped.
				m.config.Logger.Debugf("CPU ceiling skipped, PID %d has exited", m.config.PID)
			default:
				m.config.Logger.Warnf("Failed to apply CPU ceiling of %d%% to PID %d: %v", ceilings.CPUPercent, m.config.PID, err)
			}
		}
	}

	if err := m.config.Enforcer.ApplyGPUCeiling(m.config.PID, ceilings.GPUPercent); err != nil {
		m.config.Logger.Warnf("Failed to apply GPU ceiling of %d%% to PID %d: %v", ceilings.GPUPercent, m.config.PID, err)
	}
}

package resourcelimits

import (
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"

	"github.com/Xeway/process-scaler/pkg/errors"
	"github.com/Xeway/process-scaler/pkg/logging"
	"github.com/Xeway/process-scaler/pkg/processstate"
)

// ceilingEnforcer implements CeilingEnforcer
type ceilingEnforcer struct {
	logger logging.Logger
}

// NewCeilingEnforcer creates a new ceiling enforcer
func NewCeilingEnforcer(logger logging.Logger) CeilingEnforcer {
	return &ceilingEnforcer{
		logger: logger,
	}
}

// ApplyMemoryCeiling sets the address-space soft limit on rctx to bytes.
func (ce *ceilingEnforcer) ApplyMemoryCeiling(rctx ResourceContext, bytes int64) error {
	if bytes < 0 {
		return errors.NewInvalidLimitError("memory ceiling must not be negative", nil).WithContext("bytes", bytes)
	}

	_, hard, err := rctx.AddressSpaceLimit()
	if err != nil {
		return err
	}

	if uint64(bytes) > hard {
		return errors.NewInvalidLimitError("memory ceiling exceeds the hard address-space limit", nil).
			WithContext("bytes", bytes).
			WithContext("hard", hard)
	}

	if err := rctx.SetAddressSpaceSoftLimit(uint64(bytes)); err != nil {
		return err
	}

	ce.logger.Debugf("Address-space soft limit set to %d bytes (hard limit unchanged)", bytes)
	return nil
}

// ApplyCPUCeiling restricts pid's eligible cores and demotes its priority.
func (ce *ceilingEnforcer) ApplyCPUCeiling(pid int, percent int) error {
	if percent < 0 || percent > 100 {
		return errors.NewInvalidLimitError("CPU ceiling must be within 0-100 percent", nil).WithContext("percent", percent)
	}

	if !processstate.Alive(pid) {
		return errors.NewProcessNotFoundError("target process has exited", nil).WithContext("pid", pid)
	}

	total := logicalCPUCount()
	cores := CoreQuota(total, percent)

	if err := applyCPUCeilingImpl(pid, cores); err != nil {
		return err
	}

	ce.logger.Debugf("CPU ceiling applied to PID %d: %d%% -> %d of %d cores, below-normal priority", pid, percent, cores, total)
	return nil
}

// ApplyGPUCeiling is a no-op extension point. A real implementation would
// bind to a platform GPU scheduling or quota API.
func (ce *ceilingEnforcer) ApplyGPUCeiling(pid int, percent int) error {
	ce.logger.Debugf("GPU ceiling for PID %d ignored (%d%%): no GPU control backend", pid, percent)
	return nil
}

// CoreQuota computes how many of totalCores a percent ceiling grants:
// floor(totalCores * percent / 100), never below one core.
func CoreQuota(totalCores, percent int) int {
	cores := totalCores * percent / 100
	if cores < 1 {
		cores = 1
	}
	return cores
}

func logicalCPUCount() int {
	count, err := cpu.Counts(true)
	if err != nil || count < 1 {
		return runtime.NumCPU()
	}
	return count
}

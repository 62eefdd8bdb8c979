package resourcelimits

// Ceilings is one poll's worth of resource targets for the supervised
// process. A fresh value is produced every cycle and never retained.
type Ceilings struct {
	MemoryBytes int64
	CPUPercent  int
	GPUPercent  int
}

// ResourceContext is the resource-limit context the memory ceiling is
// applied in. Address-space limits cannot be set on an arbitrary process by
// pid alone; they are inherited down the process tree. SelfContext therefore
// adjusts the supervisor's own limit context, and the ceiling only takes
// effect for children spawned by this process after (or under) that context
// — an already-running child does not pick it up retroactively.
type ResourceContext interface {
	// AddressSpaceLimit returns the current soft and hard address-space
	// limits in bytes.
	AddressSpaceLimit() (soft uint64, hard uint64, err error)

	// SetAddressSpaceSoftLimit sets the soft address-space limit, leaving
	// the hard limit untouched.
	SetAddressSpaceSoftLimit(bytes uint64) error
}

// CeilingEnforcer applies ceilings to a live process, one dimension at a
// time. Dimensions are independent: a failure in one never blocks another.
type CeilingEnforcer interface {
	// ApplyMemoryCeiling sets the address-space soft limit on rctx.
	// Fails with an invalid_limit error if bytes is negative or above the
	// hard limit.
	ApplyMemoryCeiling(rctx ResourceContext, bytes int64) error

	// ApplyCPUCeiling restricts pid to a prefix of the host's logical CPUs
	// sized by percent and demotes its scheduling priority one below-normal
	// notch. Fails with process_not_found if pid has exited, or
	// unsupported_platform where no affinity control exists.
	ApplyCPUCeiling(pid int, percent int) error

	// ApplyGPUCeiling is an extension point; the current implementation
	// always succeeds without effect.
	ApplyGPUCeiling(pid int, percent int) error
}

package policy

// LimitPolicy supplies the current resource ceilings for the supervised
// process. Accessors are queried once per monitoring cycle, must be
// side-effect-free and must return promptly: they run inline in the
// monitor's cycle, so a policy backed by slow I/O has to refresh in the
// background and serve cached values.
type LimitPolicy interface {
	// MemoryCeilingBytes returns the address-space ceiling in bytes.
	MemoryCeilingBytes() int64

	// CPUCeilingPercent returns the CPU ceiling in percent (0-100).
	CPUCeilingPercent() int

	// GPUCeilingPercent returns the GPU ceiling in percent (0-100).
	GPUCeilingPercent() int
}

// Built-in defaults used when no limits file is given.
const (
	DefaultMemoryCeilingBytes = int64(1024 * 1024 * 1024) // 1 GiB
	DefaultCPUCeilingPercent  = 50
	DefaultGPUCeilingPercent  = 50
)

// StaticPolicy returns fixed ceilings.
type StaticPolicy struct {
	MemoryBytes int64
	CPUPercent  int
	GPUPercent  int
}

// Default returns a StaticPolicy with the built-in ceilings.
func Default() *StaticPolicy {
	return &StaticPolicy{
		MemoryBytes: DefaultMemoryCeilingBytes,
		CPUPercent:  DefaultCPUCeilingPercent,
		GPUPercent:  DefaultGPUCeilingPercent,
	}
}

func (p *StaticPolicy) MemoryCeilingBytes() int64 {
	return p.MemoryBytes
}

func (p *StaticPolicy) CPUCeilingPercent() int {
	return p.CPUPercent
}

func (p *StaticPolicy) GPUCeilingPercent() int {
	return p.GPUPercent
}

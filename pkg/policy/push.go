package policy

import (
	"go.uber.org/atomic"
)

// PushPolicy is a push-based LimitPolicy variant: an external source calls
// Set whenever its ceilings change, and the monitor keeps polling the
// accessors as usual. Reads and writes are lock-free.
type PushPolicy struct {
	memoryBytes atomic.Int64
	cpuPercent  atomic.Int32
	gpuPercent  atomic.Int32
}

// NewPushPolicy creates a PushPolicy seeded with the given ceilings.
func NewPushPolicy(memoryBytes int64, cpuPercent, gpuPercent int) *PushPolicy {
	pp := &PushPolicy{}
	pp.Set(memoryBytes, cpuPercent, gpuPercent)
	return pp
}

// Set replaces all three ceilings. Each dimension is updated atomically;
// a poll racing with Set may observe a mix of old and new dimensions, which
// is acceptable since dimensions are applied independently anyway.
func (pp *PushPolicy) Set(memoryBytes int64, cpuPercent, gpuPercent int) {
	pp.memoryBytes.Store(memoryBytes)
	pp.cpuPercent.Store(int32(cpuPercent))
	pp.gpuPercent.Store(int32(gpuPercent))
}

func (pp *PushPolicy) MemoryCeilingBytes() int64 {
	return pp.memoryBytes.Load()
}

func (pp *PushPolicy) CPUCeilingPercent() int {
	return int(pp.cpuPercent.Load())
}

func (pp *PushPolicy) GPUCeilingPercent() int {
	return int(pp.gpuPercent.Load())
}

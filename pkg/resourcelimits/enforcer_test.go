package resourcelimits

import (
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

// fakeResourceContext records soft-limit writes without touching the OS.
type fakeResourceContext struct {
	soft uint64
	hard uint64
}

func (f *fakeResourceContext) AddressSpaceLimit() (uint64, uint64, error) {
	return f.soft, f.hard, nil
}

func (f *fakeResourceContext) SetAddressSpaceSoftLimit(bytes uint64) error {
	f.soft = bytes
	return nil
}

func TestCoreQuota(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		percent  int
		expected int
	}{
		{name: "half of eight", total: 8, percent: 50, expected: 4},
		{name: "floor clamps to one", total: 8, percent: 1, expected: 1},
		{name: "full machine", total: 4, percent: 100, expected: 4},
		{name: "zero percent still grants a core", total: 16, percent: 0, expected: 1},
		{name: "single core host", total: 1, percent: 100, expected: 1},
		{name: "floor rounds down", total: 3, percent: 50, expected: 1},
		{name: "floor rounds down large", total: 12, percent: 60, expected: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CoreQuota(tt.total, tt.percent))
		})
	}
}

func TestApplyMemoryCeiling_SetsSoftLeavesHard(t *testing.T) {
	enforcer := NewCeilingEnforcer(testLogger{})
	rctx := &fakeResourceContext{soft: 1 << 40, hard: 1 << 40}

	require.NoError(t, enforcer.ApplyMemoryCeiling(rctx, 1<<30))

	assert.Equal(t, uint64(1<<30), rctx.soft)
	assert.Equal(t, uint64(1<<40), rctx.hard)
}

func TestApplyMemoryCeiling_ZeroIsValid(t *testing.T) {
	enforcer := NewCeilingEnforcer(testLogger{})
	rctx := &fakeResourceContext{soft: 1 << 30, hard: 1 << 40}

	require.NoError(t, enforcer.ApplyMemoryCeiling(rctx, 0))
	assert.Equal(t, uint64(0), rctx.soft)
}

func TestApplyMemoryCeiling_NegativeIsInvalid(t *testing.T) {
	enforcer := NewCeilingEnforcer(testLogger{})
	rctx := &fakeResourceContext{soft: 1 << 30, hard: 1 << 40}

	err := enforcer.ApplyMemoryCeiling(rctx, -1)

	assert.True(t, errors.IsInvalidLimitError(err))
	assert.Equal(t, uint64(1<<30), rctx.soft, "soft limit must not change on failure")
}

func TestApplyMemoryCeiling_AboveHardIsInvalid(t *testing.T) {
	enforcer := NewCeilingEnforcer(testLogger{})
	rctx := &fakeResourceContext{soft: 1 << 20, hard: 1 << 30}

	err := enforcer.ApplyMemoryCeiling(rctx, 1<<31)

	assert.True(t, errors.IsInvalidLimitError(err))
	assert.Equal(t, uint64(1<<20), rctx.soft, "soft limit must not change on failure")
}

func TestApplyCPUCeiling_PercentOutOfRange(t *testing.T) {
	enforcer := NewCeilingEnforcer(testLogger{})

	assert.True(t, errors.IsInvalidLimitError(enforcer.ApplyCPUCeiling(1, -1)))
	assert.True(t, errors.IsInvalidLimitError(enforcer.ApplyCPUCeiling(1, 101)))
}

func TestApplyCPUCeiling_ExitedProcess(t *testing.T) {
	enforcer := NewCeilingEnforcer(testLogger{})

	// A pid that cannot exist
	err := enforcer.ApplyCPUCeiling(-42, 50)
	assert.True(t, errors.IsProcessNotFoundError(err))
}

func TestApplyGPUCeiling_NoOpSucceeds(t *testing.T) {
	enforcer := NewCeilingEnforcer(testLogger{})

	assert.NoError(t, enforcer.ApplyGPUCeiling(1, 50))
	assert.NoError(t, enforcer.ApplyGPUCeiling(-42, 100))
}

//go:build windows

package resourcelimits

import (
	"github.com/Xeway/process-scaler/pkg/errors"
)

// Windows has no setrlimit-style inheritable address-space limit; the
// equivalent mechanism (Job Object memory limits) targets a process directly
// and is not modeled by ResourceContext.
type selfResourceContext struct{}

// SelfContext returns the supervisor's own resource-limit context.
func SelfContext() ResourceContext {
	return selfResourceContext{}
}

func (selfResourceContext) AddressSpaceLimit() (uint64, uint64, error) {
	return 0, 0, errors.NewUnsupportedPlatformError("address-space limits are not available on Windows", nil)
}

func (selfResourceContext) SetAddressSpaceSoftLimit(bytes uint64) error {
	return errors.NewUnsupportedPlatformError("address-space limits are not available on Windows", nil)
}

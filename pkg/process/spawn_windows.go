//go:build windows

package process

import (
	"os/exec"
)

// setupProcessAttributes configures Windows-specific process attributes.
// Nothing to do: the child shares the console and is addressed by handle.
func setupProcessAttributes(cmd *exec.Cmd) {
}

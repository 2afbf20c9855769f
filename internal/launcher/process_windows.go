//go:build windows

package launcher

import (
	"errors"
	"os/exec"
)

// setProcGroup is a no-op on Windows.
func setProcGroup(cmd *exec.Cmd) {}

// terminateGroup has no SIGTERM to send on Windows, so stop falls back to kill.
func terminateGroup(cmd *exec.Cmd) error {
	return errors.New("graceful termination is not supported on windows")
}

func killGroup(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}

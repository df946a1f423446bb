//go:build !windows

package actions

import (
	"os/exec"
	"syscall"
)

// startDetached puts the child in its own session so it outlives the server
// when the restart script stops it.
func startDetached(cmd *exec.Cmd) error {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	return cmd.Start()
}

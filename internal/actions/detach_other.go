//go:build windows

package actions

import "os/exec"

func startDetached(cmd *exec.Cmd) error {
	return cmd.Start()
}

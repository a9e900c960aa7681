//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// Configure kills the process tree rooted at cmd when its context is cancelled.
func Configure(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		KillProcessGroup(cmd.Process.Pid)
		return nil
	}
}

// KillProcessGroup kills a process and all its children using taskkill.
// /F = force kill, /T = terminate child processes (tree kill).
func KillProcessGroup(pid int) {
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}

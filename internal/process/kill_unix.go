//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// Configure starts cmd in a new process group and kills that group when the
// command's context is cancelled.
func Configure(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		KillProcessGroup(cmd.Process.Pid)
		return nil
	}
}

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best-effort; the process may already be gone.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

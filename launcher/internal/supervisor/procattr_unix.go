//go:build unix && !linux

package supervisor

import "syscall"

// sysProcAttr puts the server in its own process group. Pdeathsig is not
// available here, the launcher must stop the server before exiting.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid: true,
	}
}

package supervisor

import "syscall"

// sysProcAttr puts the server in its own process group, so a terminal ^C
// reaches only the launcher, which then stops the server itself. Pdeathsig
// covers the launcher dying without running that shutdown.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGTERM,
	}
}

//go:build !unix

package supervisor

import (
	"os"
	"syscall"
)

func sysProcAttr() *syscall.SysProcAttr {
	return nil
}

// terminate kills the server: there is no portable termination signal.
func terminate(p *os.Process) error {
	return p.Kill()
}

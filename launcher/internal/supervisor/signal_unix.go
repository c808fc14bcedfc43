//go:build unix

package supervisor

import (
	"os"
	"syscall"
)

// terminate asks the server to exit.
func terminate(p *os.Process) error {
	return p.Signal(syscall.SIGTERM)
}

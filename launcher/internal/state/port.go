package state

import "sync"

// Port is a mutex-guarded port number, fixed once bootstrap allocates it.
type Port struct {
	mu   sync.Mutex
	port int
}

// NewPort returns a cell holding port.
func NewPort(port int) *Port {
	return &Port{port: port}
}

// Get returns the current port.
func (p *Port) Get() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.port
}

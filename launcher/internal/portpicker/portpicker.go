package portpicker

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

const (
	DefaultHost = "127.0.0.1"
	DefaultSpan = 100
	maxPort     = 65535
)

// ErrExhausted is returned when no free port exists within the search bound.
var ErrExhausted = errors.New("portpicker: no available port")

// Picker searches for free ports.
type Picker struct {
	// Host is the address ports are probed on.
	Host string

	// Span is the number of consecutive ports tried from the preferred one.
	Span int

	// Available reports whether port can be bound on host. Defaults to a
	// real listen probe; tests replace it.
	Available func(host string, port int) bool
}

// New returns a Picker probing DefaultSpan ports on DefaultHost.
func New() *Picker {
	return &Picker{Host: DefaultHost, Span: DefaultSpan, Available: listenProbe}
}

// Allocate returns the first free port at or above preferred. Zero means
// any port.
func (p *Picker) Allocate(preferred int) (int, error) {
	if preferred < 0 || preferred > maxPort {
		return 0, fmt.Errorf("portpicker: preferred port %d out of range", preferred)
	}
	if preferred == 0 {
		return p.any()
	}

	available := p.Available
	if available == nil {
		available = listenProbe
	}
	span := p.Span
	if span <= 0 {
		span = DefaultSpan
	}

	for port := preferred; port <= maxPort && port < preferred+span; port++ {
		if available(p.host(), port) {
			return port, nil
		}
	}
	return 0, fmt.Errorf("%w in %d-%d", ErrExhausted, preferred, min(preferred+span-1, maxPort))
}

// any lets the OS choose an ephemeral port.
func (p *Picker) any() (int, error) {
	l, err := net.Listen("tcp", net.JoinHostPort(p.host(), "0"))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrExhausted, err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

func (p *Picker) host() string {
	if p.Host == "" {
		return DefaultHost
	}
	return p.Host
}

func listenProbe(host string, port int) bool {
	l, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = l.Close()
	return true
}

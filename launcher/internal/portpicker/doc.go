// Package portpicker finds a free TCP port for the supervised server.
//
// Allocate(preferred) probes preferred, preferred+1, ... up to Span ports
// (capped at 65535) by binding and releasing a listener on Host. A
// preferred value of 0 asks the OS for any free port. ErrExhausted is
// returned when the search bound is reached.
package portpicker

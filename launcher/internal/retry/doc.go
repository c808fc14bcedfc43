// Package retry runs an operation under a bounded retry policy.
//
// A Policy caps the number of attempts and sets the delay between them.
// Delay is fixed by default; a Multiplier above 1 grows it after every
// failed attempt, truncated at MaxDelay. Sleep is injectable so tests can
// observe (or act between) attempts without waiting on the wall clock.
//
// Do returns nil on the first successful attempt, or the last error once
// every attempt has failed. There is no cancellation: a started loop runs
// to success or exhaustion.
package retry

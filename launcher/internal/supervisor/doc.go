// Package supervisor spawns the server binary and owns its handle.
//
// Spawn checks the binary exists, starts it with the resolved working
// directory and the launcher environment plus the MEMOS_ variables, and
// returns immediately; it does not wait for the server to become ready.
// When CaptureStdout is set the child's stdout is exposed through
// Handle.Stdout for the log relay, otherwise it is discarded.
//
// There is no restart policy: a crash is only visible as the stdout stream
// closing and Wait returning. On unix the child runs in its own process
// group, so terminal signals reach the launcher only and it ends the server
// with Handle.Stop (SIGTERM; a kill on Windows) or Handle.Kill. On Linux the
// child also receives SIGTERM if the launcher dies first.
package supervisor

// Package bootstrap runs the launcher's startup sequence.
//
// Launcher.Run performs, strictly in order:
//
//  1. create the data directory and check it is writable
//  2. create memospot.yaml from defaults if absent, check it is writable
//  3. load it; on a parse error ask the user whether to reset it
//  4. check memos_prod.db is writable when it exists
//  5. open the logging backend when logging_config.yaml exists
//  6. check the server binary exists
//  7. allocate a port (preferred + 1 in dev mode) and persist it if it changed
//  8. resolve the working directory and build the environment
//  9. spawn the server
//
// Every failure is returned as an error naming the offending path or
// resource; the caller shows it and exits. After a successful spawn Run
// starts the supervision goroutine (log relay, then wait) and returns
// without waiting for the server to become ready.
package bootstrap

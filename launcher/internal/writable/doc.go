// Package writable reports whether a path can be written to.
//
// Regular files are opened for writing. Directories are probed by creating
// (exclusively) and immediately removing a file named write_test, or
// write_test.<n> when that name is taken. Both cases run under a bounded
// retry policy (10 attempts, 100ms apart by default) so a lock briefly held
// by another process does not produce a false negative.
//
// Anything that is neither a regular file nor a directory, including a
// path that does not exist, is reported as not writable.
package writable

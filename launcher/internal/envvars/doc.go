// Package envvars assembles the environment handed to the supervised
// server.
//
// Every key is upper-cased and carries the MEMOS_ prefix. User variables
// from the config document's env map go in first; managed variables
// (mode, addr, port, data, metric) are applied last and win on collision.
// MEMOS_METRIC is always "false": the server dropped metrics support and
// the telemetry setting is no longer forwarded.
package envvars

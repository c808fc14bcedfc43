// Package relay forwards the supervised server's stdout to the logging
// backend.
//
// The server prints one JSON object per request:
//
//	{"time":"...","latency":"1.2ms","method":"GET","uri":"/api/v1/ping","status":200,"error":""}
//
// Relay.Run reads the stream line by line until it closes. Lines that do
// not decode into a record with a non-empty time (startup banners, panics,
// anything else) are dropped and counted. Records with an error are
// emitted at error level with latency, method, uri and error; the rest at
// info level with latency, method, uri and status.
//
// When Capture is set every raw line is also copied there, noise included.
// The logging backend uses this as an alternate sink instead of parsing.
//
// Stats counts what happened and can be written in Prometheus text
// exposition format (stats.go).
package relay

package relay

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
)

// Record is one request log line from the server.
type Record struct {
	Time    string `json:"time"`
	Latency string `json:"latency"`
	Method  string `json:"method"`
	URI     string `json:"uri"`
	Status  int    `json:"status"`
	Error   string `json:"error"`
}

// Sink receives parsed records.
type Sink interface {
	Emit(rec Record)
}

// Parse decodes line into a Record. ok is false for anything that is not a
// well-formed record with a timestamp.
func Parse(line []byte) (rec Record, ok bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] != '{' {
		return Record{}, false
	}
	if err := json.Unmarshal(line, &rec); err != nil {
		return Record{}, false
	}
	if rec.Time == "" {
		return Record{}, false
	}
	return rec, true
}

// Relay copies a server output stream to its sinks.
type Relay struct {
	// Sink receives parsed records. Nil skips parsing.
	Sink Sink

	// Capture receives every raw line, newline-terminated. Nil disables it.
	Capture io.Writer
}

// Run consumes r until EOF or a read error and returns what it relayed.
func (rl *Relay) Run(r io.Reader) Stats {
	var stats Stats
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			rl.handle(bytes.TrimRight(line, "\r\n"), &stats)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				slog.Warn("relay: read failed", "err", err)
			}
			return stats
		}
	}
}

func (rl *Relay) handle(line []byte, stats *Stats) {
	if rl.Capture != nil {
		if _, err := rl.Capture.Write(append(line, '\n')); err != nil {
			stats.CaptureErrors++
		} else {
			stats.Captured++
		}
	}
	if rl.Sink == nil {
		return
	}

	rec, ok := Parse(line)
	if !ok {
		stats.Discarded++
		return
	}
	if rec.Error != "" {
		stats.Errors++
	} else {
		stats.Infos++
	}
	rl.Sink.Emit(rec)
}

// SlogSink emits records through a structured logger.
type SlogSink struct {
	Logger *slog.Logger
}

// Emit logs rec at error level when it carries an error, info otherwise.
func (s SlogSink) Emit(rec Record) {
	if rec.Error != "" {
		s.Logger.Error("memos",
			"latency", rec.Latency,
			"method", rec.Method,
			"uri", rec.URI,
			"error", rec.Error,
		)
		return
	}
	s.Logger.Info("memos",
		"latency", rec.Latency,
		"method", rec.Method,
		"uri", rec.URI,
		"status", rec.Status,
	)
}

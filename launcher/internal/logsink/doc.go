// Package logsink is the launcher's logging backend.
//
// The backend is enabled by the mere presence of logging_config.yaml in
// the data directory. Its schema:
//
//	level: error        # debug | info | warn | error | off
//	format: text        # text | json
//	output: memos.log   # stderr, or a file (relative to the data dir)
//	capture: ""         # copy raw server stdout here instead of parsing it
//	stats_file: ""      # relay counters in Prometheus text format
//
// Paths go through os.ExpandEnv, so ${MEMOSPOT_DATA} works. Open loads the
// file; if it is malformed it is rewritten from Template and loaded again.
//
// Watch (fsnotify) reloads the file on change and applies the new level
// live through a slog.LevelVar. Other fields need a restart. Files are
// appended to and never rotated.
package logsink

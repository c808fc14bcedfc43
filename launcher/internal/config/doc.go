// Package config loads, validates, resets and atomically saves the
// launcher's persisted settings (memospot.yaml).
//
// Top-level types:
//   - Document{Memos} — full document parsed from YAML
//   - Memos — mode, addr, port (0 = auto), telemetry, optional working_dir
//     and env map
//
// Load(path) reads the YAML file, applies defaults for absent fields
// (mode prod, addr 127.0.0.1, port 0), then validates. A document that is
// present but not well-formed yields a *ParseError; the caller decides
// whether to Reset. A missing file loads as Default().
//
// Save(path, doc) writes to a temporary file in the same directory and
// renames it over path, so a crash mid-write leaves the previous document
// intact. Reset(path) saves Default(). Write failures are *WriteError.
package config

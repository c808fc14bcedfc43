package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the document.
const (
	DefaultMode = "prod"
	DefaultAddr = "127.0.0.1"
	DefaultPort = 0

	// FileName is the document's name inside the data directory.
	FileName = "memospot.yaml"
)

// Document is the persisted launcher configuration.
type Document struct {
	Memos Memos `yaml:"memos"`
}

// Memos holds the settings handed to the supervised server.
type Memos struct {
	// Mode is the server mode: prod | dev | demo.
	Mode string `yaml:"mode"`

	// Addr is the address the server binds to.
	Addr string `yaml:"addr"`

	// Port is the last port the server ran on. 0 picks any free port.
	Port int `yaml:"port"`

	// Telemetry is kept for compatibility. The server no longer reads it.
	Telemetry bool `yaml:"telemetry"`

	// WorkingDir overrides the server's working directory. Supports ~.
	WorkingDir string `yaml:"working_dir,omitempty"`

	// Env holds extra environment variables for the server. Keys are
	// normalized to MEMOS_<KEY> before use.
	Env map[string]string `yaml:"env,omitempty"`
}

// Equal reports whether d and o hold the same settings. A nil and an empty
// Env are the same: neither is written to disk.
func (d Document) Equal(o Document) bool {
	a, b := d.Memos, o.Memos
	return a.Mode == b.Mode &&
		a.Addr == b.Addr &&
		a.Port == b.Port &&
		a.Telemetry == b.Telemetry &&
		a.WorkingDir == b.WorkingDir &&
		maps.Equal(a.Env, b.Env)
}

// ParseError reports a document that exists but is not well-formed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("config: parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// WriteError reports a failed Save or Reset.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("config: write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Default returns the document written by Reset.
func Default() Document {
	return Document{
		Memos: Memos{
			Mode: DefaultMode,
			Addr: DefaultAddr,
			Port: DefaultPort,
		},
	}
}

// Load reads and parses the YAML document at path.
// A missing file yields Default() without error.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Document{}, fmt.Errorf("config: read file: %w", err)
	}

	doc := Default()
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, &ParseError{Path: path, Err: err}
	}
	fill(&doc)

	if err := validate(doc); err != nil {
		return Document{}, &ParseError{Path: path, Err: err}
	}
	return doc, nil
}

// Reset overwrites path with the default document.
func Reset(path string) error {
	return Save(path, Default())
}

// Save writes doc to path atomically. doc must already be complete: Save
// does not fill defaults, so whatever it accepts Load returns unchanged.
func Save(path string, doc Document) error {
	if err := validate(doc); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := enc.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	if err := writeAtomic(path, buf.Bytes()); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// writeAtomic writes data to a sibling temp file, syncs it and renames it
// over path. The existing file mode is preserved.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// fill replaces explicitly empty strings with their defaults.
func fill(doc *Document) {
	if doc.Memos.Mode == "" {
		doc.Memos.Mode = DefaultMode
	}
	if doc.Memos.Addr == "" {
		doc.Memos.Addr = DefaultAddr
	}
}

// validate checks structural constraints. Load runs it after fill, so an
// empty mode or addr only ever fails in Save.
func validate(doc Document) error {
	if doc.Memos.Mode == "" {
		return fmt.Errorf("memos.mode is required")
	}
	if doc.Memos.Addr == "" {
		return fmt.Errorf("memos.addr is required")
	}
	if doc.Memos.Port < 0 || doc.Memos.Port > 65535 {
		return fmt.Errorf("memos.port %d out of range 0-65535", doc.Memos.Port)
	}
	for key := range doc.Memos.Env {
		if key == "" {
			return fmt.Errorf("memos.env: empty variable name")
		}
	}
	return nil
}

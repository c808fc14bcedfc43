package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoad_Valid(t *testing.T) {
	yaml := `
memos:
  mode: dev
  addr: 0.0.0.0
  port: 5230
  telemetry: true
  working_dir: ~/memos
  env:
    log_level: debug
`
	doc := loadFromString(t, yaml)

	if doc.Memos.Mode != "dev" {
		t.Errorf("mode: got %q", doc.Memos.Mode)
	}
	if doc.Memos.Addr != "0.0.0.0" {
		t.Errorf("addr: got %q", doc.Memos.Addr)
	}
	if doc.Memos.Port != 5230 {
		t.Errorf("port: got %d", doc.Memos.Port)
	}
	if !doc.Memos.Telemetry {
		t.Error("telemetry: got false")
	}
	if doc.Memos.WorkingDir != "~/memos" {
		t.Errorf("working_dir: got %q", doc.Memos.WorkingDir)
	}
	if doc.Memos.Env["log_level"] != "debug" {
		t.Errorf("env: got %v", doc.Memos.Env)
	}
}

func TestLoad_Defaults(t *testing.T) {
	doc := loadFromString(t, "memos:\n  port: 8081\n")

	if doc.Memos.Mode != DefaultMode {
		t.Errorf("default mode: got %q, want %q", doc.Memos.Mode, DefaultMode)
	}
	if doc.Memos.Addr != DefaultAddr {
		t.Errorf("default addr: got %q, want %q", doc.Memos.Addr, DefaultAddr)
	}
	if doc.Memos.Port != 8081 {
		t.Errorf("port: got %d", doc.Memos.Port)
	}
}

func TestLoad_EmptyStringsFallBackToDefaults(t *testing.T) {
	doc := loadFromString(t, "memos:\n  mode: \"\"\n  addr: \"\"\n")
	if doc.Memos.Mode != DefaultMode || doc.Memos.Addr != DefaultAddr {
		t.Errorf("got mode=%q addr=%q, want defaults", doc.Memos.Mode, doc.Memos.Addr)
	}
}

func TestLoad_Missing(t *testing.T) {
	doc, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if !reflect.DeepEqual(doc, Default()) {
		t.Errorf("Load(missing) = %+v, want default", doc)
	}
}

func TestLoad_Malformed(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"broken syntax", "memos:\n  port: [\n"},
		{"wrong type", "memos:\n  port: not-a-number\n"},
		{"scalar document", "just a string\n"},
		{"port out of range", "memos:\n  port: 70000\n"},
		{"negative port", "memos:\n  port: -1\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loadStringErr(t, tc.yaml)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Load() error = %v, want *ParseError", err)
			}
		})
	}
}

func TestReset_ThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("memos: [oops\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error before reset")
	}

	if err := Reset(path); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}
	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() after reset: %v", err)
	}
	if !reflect.DeepEqual(doc, Default()) {
		t.Errorf("Load() after reset = %+v, want %+v", doc, Default())
	}
}

func TestSave_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
	}{
		{"default", Default()},
		{"all fields", Document{Memos: Memos{
			Mode:       "demo",
			Addr:       "0.0.0.0",
			Port:       5231,
			Telemetry:  true,
			WorkingDir: "/opt/memos",
			Env:        map[string]string{"LOG_LEVEL": "debug", "memos_driver": "sqlite"},
		}}},
		{"max port", Document{Memos: Memos{Mode: "prod", Addr: "::1", Port: 65535}}},
		{"empty env", Document{Memos: Memos{Mode: "prod", Addr: "127.0.0.1", Env: map[string]string{}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			if err := Save(path, tc.doc); err != nil {
				t.Fatalf("Save() error: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if !got.Equal(tc.doc) {
				t.Errorf("round trip: got %+v, want %+v", got, tc.doc)
			}
		})
	}
}

func TestSave_RejectsIncompleteDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
	}{
		{"empty mode", Document{Memos: Memos{Addr: DefaultAddr}}},
		{"empty addr", Document{Memos: Memos{Mode: DefaultMode}}},
		{"port too high", Document{Memos: Memos{Mode: DefaultMode, Addr: DefaultAddr, Port: 65536}}},
		{"negative port", Document{Memos: Memos{Mode: DefaultMode, Addr: DefaultAddr, Port: -1}}},
		{"empty env key", Document{Memos: Memos{Mode: DefaultMode, Addr: DefaultAddr, Env: map[string]string{"": "x"}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			err := Save(path, tc.doc)
			var writeErr *WriteError
			if !errors.As(err, &writeErr) {
				t.Fatalf("Save() error = %v, want *WriteError", err)
			}
			if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
				t.Errorf("rejected document was written: %v", err)
			}
		})
	}
}

func TestDocument_Equal(t *testing.T) {
	base := Default()
	withEnv := Default()
	withEnv.Memos.Env = map[string]string{"LOG_LEVEL": "debug"}
	emptyEnv := Default()
	emptyEnv.Memos.Env = map[string]string{}
	otherPort := Default()
	otherPort.Memos.Port = 5230

	tests := []struct {
		name string
		a, b Document
		want bool
	}{
		{"identical", base, Default(), true},
		{"nil and empty env", base, emptyEnv, true},
		{"env differs", base, withEnv, false},
		{"port differs", base, otherPort, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Equal(tc.b); got != tc.want {
				t.Errorf("Equal() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	for port := 1; port <= 3; port++ {
		doc := Default()
		doc.Memos.Port = port
		if err := Save(path, doc); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != FileName {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir contents = %v, want only %s", names, FileName)
	}
}

// loadFromString writes yaml to a temp file and calls Load, failing on error.
func loadFromString(t *testing.T, content string) Document {
	t.Helper()
	doc, err := loadStringErr(t, content)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	return doc
}

// loadStringErr writes yaml to a temp file and calls Load, returning any error.
func loadStringErr(t *testing.T, content string) (Document, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return Load(path)
}

package logsink

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is the backend config's name inside the data directory.
	FileName = "logging_config.yaml"

	DefaultLevel  = "error"
	DefaultFormat = "text"
	DefaultOutput = "memos.log"

	// OutputStderr selects stderr instead of a file.
	OutputStderr = "stderr"
)

// LevelOff is above every level slog emits.
const LevelOff = slog.Level(12)

// Template is written over a malformed config file.
const Template = `# Launcher logging backend. Delete this file to disable logging.
# level: debug | info | warn | error | off
level: error
# format: text | json
format: text
# output: stderr, or a file path (relative to the data directory)
output: memos.log
# capture: copy raw server stdout to this file instead of parsing it
capture: ""
# stats_file: write relay counters (Prometheus text format) here when the server exits
stats_file: ""
`

// Config is the parsed logging_config.yaml.
type Config struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	Output    string `yaml:"output"`
	Capture   string `yaml:"capture"`
	StatsFile string `yaml:"stats_file"`
}

// Enabled reports whether dataDir holds a logging config.
func Enabled(dataDir string) bool {
	_, err := os.Stat(filepath.Join(dataDir, FileName))
	return err == nil
}

// Load reads and validates the config at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("logsink: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("logsink: parse yaml: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("logsink: %w", err)
	}
	return cfg, nil
}

// LoadOrRepair loads path, rewriting it from Template when it is malformed.
func LoadOrRepair(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	slog.Warn("logsink: config invalid, rewriting from template", "path", path, "err", err)
	if werr := os.WriteFile(path, []byte(Template), 0o644); werr != nil {
		return nil, fmt.Errorf("logsink: rewrite %s: %w", path, werr)
	}
	cfg, err = Load(path)
	if err != nil {
		return nil, fmt.Errorf("logsink: %s still invalid after reset, delete it and restart: %w", path, err)
	}
	return cfg, nil
}

// ParseLevel maps a config level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace", "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "off":
		return LevelOff, nil
	default:
		return 0, fmt.Errorf("unknown level %q", s)
	}
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Level:  DefaultLevel,
		Format: DefaultFormat,
		Output: DefaultOutput,
	}
}

// validate checks enums.
func validate(cfg *Config) error {
	if _, err := ParseLevel(cfg.Level); err != nil {
		return err
	}
	switch cfg.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown format %q", cfg.Format)
	}
	if strings.TrimSpace(cfg.Output) == "" {
		return fmt.Errorf("output is required")
	}
	return nil
}

// resolve expands environment references in p and anchors relative paths
// at dataDir. Empty stays empty.
func resolve(dataDir, p string) string {
	p = strings.TrimSpace(os.ExpandEnv(p))
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dataDir, p)
}

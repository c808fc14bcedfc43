package logsink

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/memospot/memospot/launcher/internal/relay"
)

// Backend owns the logger and files described by a Config.
type Backend struct {
	// Config is what the backend was opened with. Reloads never modify it.
	Config *Config
	Logger *slog.Logger

	path    string
	dataDir string
	level   *slog.LevelVar
	closers []io.Closer

	mu      sync.Mutex
	applied *Config // last config seen by Apply
}

// Open loads (or repairs) the config in dataDir and opens its output.
func Open(dataDir string) (*Backend, error) {
	path := filepath.Join(dataDir, FileName)
	cfg, err := LoadOrRepair(path)
	if err != nil {
		return nil, err
	}
	return New(cfg, path, dataDir, os.Stderr)
}

// New builds a backend from cfg. stderr is used when Output is "stderr".
func New(cfg *Config, path, dataDir string, stderr io.Writer) (*Backend, error) {
	b := &Backend{Config: cfg, path: path, dataDir: dataDir, level: new(slog.LevelVar), applied: cfg}

	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logsink: %w", err)
	}
	b.level.Set(lvl)

	out := stderr
	if cfg.Output != OutputStderr {
		f, err := openAppend(resolve(dataDir, cfg.Output))
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, f)
		out = f
	}

	opts := &slog.HandlerOptions{Level: b.level}
	var h slog.Handler
	if cfg.Format == "json" {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}
	b.Logger = slog.New(h)
	return b, nil
}

// Path returns the config file the backend was loaded from.
func (b *Backend) Path() string { return b.path }

// Level returns the live log level.
func (b *Backend) Level() slog.Level { return b.level.Level() }

// Relay returns a relay wired to this backend: raw capture when the config
// names a capture file, parsed records through Logger otherwise.
func (b *Backend) Relay() (*relay.Relay, error) {
	if capture := resolve(b.dataDir, b.Config.Capture); capture != "" {
		f, err := openAppend(capture)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, f)
		return &relay.Relay{Capture: f}, nil
	}
	return &relay.Relay{Sink: relay.SlogSink{Logger: b.Logger}}, nil
}

// WriteStats writes s to the configured stats file, if any.
func (b *Backend) WriteStats(s relay.Stats) error {
	path := resolve(b.dataDir, b.Config.StatsFile)
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("logsink: create stats file: %w", err)
	}
	if err := s.WriteText(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Apply takes the live-reloadable settings from cfg. Each change is
// reported once, against the previous reload rather than the opened config.
func (b *Backend) Apply(cfg *Config) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		slog.Error("logsink: ignoring reloaded level", "level", cfg.Level, "err", err)
		return
	}

	b.mu.Lock()
	prev := b.applied
	b.applied = cfg
	b.mu.Unlock()

	if cfg.Output != prev.Output || cfg.Format != prev.Format || cfg.Capture != prev.Capture {
		slog.Warn("logsink: output, format and capture changes apply after restart", "path", b.path)
	}
	if lvl != b.level.Level() {
		b.level.Set(lvl)
		slog.Info("logsink: level changed", "level", cfg.Level)
	}
}

// Close closes every file the backend opened.
func (b *Backend) Close() error {
	var errs []error
	for _, c := range b.closers {
		errs = append(errs, c.Close())
	}
	b.closers = nil
	return errors.Join(errs...)
}

func openAppend(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logsink: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logsink: open %s: %w", path, err)
	}
	return f, nil
}

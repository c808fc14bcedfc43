package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/memospot/memospot/launcher/internal/config"
	"github.com/memospot/memospot/launcher/internal/envvars"
	"github.com/memospot/memospot/launcher/internal/logsink"
	"github.com/memospot/memospot/launcher/internal/portpicker"
	"github.com/memospot/memospot/launcher/internal/relay"
	"github.com/memospot/memospot/launcher/internal/state"
	"github.com/memospot/memospot/launcher/internal/supervisor"
	"github.com/memospot/memospot/launcher/internal/workdir"
	"github.com/memospot/memospot/launcher/internal/writable"
)

// Server modes.
const (
	ModeProd = "prod"
	ModeDemo = "demo"
)

// Prompter asks the user a yes/no question.
type Prompter interface {
	Confirm(title, message string) bool
}

// Checker reports whether a path is writable.
type Checker interface {
	IsWritable(path string) bool
}

// Allocator finds a free port at or above preferred.
type Allocator interface {
	Allocate(preferred int) (int, error)
}

// Process is a spawned server.
type Process interface {
	PID() int
	Stdout() io.Reader
	Wait() error
	Stop() error
	Kill() error
}

// SpawnFunc starts a server process.
type SpawnFunc func(spec supervisor.Spec) (Process, error)

// Launcher holds the collaborators of the startup sequence. Zero-valued
// collaborators fall back to the real implementations.
type Launcher struct {
	Paths Paths

	// Dev selects the non-production mode: demo server mode and the
	// preferred port shifted by one.
	Dev bool

	Prompter Prompter
	Writable Checker
	Spawn    SpawnFunc

	// Ports defaults to a picker probing the configured server address.
	Ports Allocator

	// Stderr receives the server's stderr.
	Stderr io.Writer

	// OnBackend is called once the logging backend is open.
	OnBackend func(*logsink.Backend)
}

// Runtime is what bootstrap hands to the rest of the application.
type Runtime struct {
	Config  RuntimeConfig
	WorkDir string
	Env     envvars.Map
	Port    *state.Port

	// Backend is nil when logging is disabled.
	Backend *logsink.Backend

	// Done is closed when the supervision task ends, i.e. the server exited.
	Done <-chan struct{}

	server Process
}

// Shutdown stops the server and waits up to grace for the supervision task
// to finish, killing the server if it does not.
func (rt *Runtime) Shutdown(grace time.Duration) error {
	select {
	case <-rt.Done:
		return nil
	default:
	}

	slog.Info("bootstrap: stopping server", "pid", rt.server.PID())
	if err := rt.server.Stop(); err != nil {
		slog.Warn("bootstrap: stop server", "pid", rt.server.PID(), "err", err)
	}

	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-rt.Done:
		return nil
	case <-timer.C:
	}

	slog.Warn("bootstrap: server ignored stop, killing", "pid", rt.server.PID(), "grace", grace)
	if err := rt.server.Kill(); err != nil {
		return fmt.Errorf("bootstrap: kill server: %w", err)
	}
	<-rt.Done
	return nil
}

// Run executes the startup sequence and spawns the server.
func (l *Launcher) Run() (_ *Runtime, err error) {
	l.setDefaults()
	p := l.Paths

	if err := l.prepareDataDir(); err != nil {
		return nil, err
	}
	doc, err := l.loadConfig()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(p.Database); err == nil && !l.Writable.IsWritable(p.Database) {
		return nil, &FilesystemError{Op: "Database is not writable", Path: p.Database}
	}

	backend, err := l.openBackend()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil && backend != nil {
			backend.Close()
		}
	}()

	slog.Info("bootstrap: starting", "data", p.Data, "config", p.Config)

	if info, err := os.Stat(p.Binary); err != nil || info.IsDir() {
		return nil, &supervisor.SpawnError{Binary: p.Binary, Err: supervisor.ErrBinaryMissing}
	}

	port, err := l.allocatePort(&doc)
	if err != nil {
		return nil, err
	}

	mode := doc.Memos.Mode
	if l.Dev {
		mode = ModeDemo
	}

	wd := workdir.Resolve(workdir.Candidates(workdir.Sources{
		UserDir:   doc.Memos.WorkingDir,
		Resources: p.Resources,
		Data:      p.Data,
		CWD:       p.CWD,
	}), workdir.Marker, p.Data)
	slog.Info("bootstrap: server working directory", "dir", wd)

	env := envvars.Build(doc, envvars.Managed{
		DataDir:   p.Data,
		Port:      port,
		Addr:      doc.Memos.Addr,
		Mode:      mode,
		Telemetry: doc.Memos.Telemetry,
	})
	slog.Debug("bootstrap: server environment", "env", env.Environ())

	var rl *relay.Relay
	if backend != nil {
		if rl, err = backend.Relay(); err != nil {
			return nil, err
		}
	}

	proc, err := l.Spawn(supervisor.Spec{
		Binary:        p.Binary,
		Dir:           wd,
		Env:           env,
		CaptureStdout: rl != nil,
		Stderr:        l.Stderr,
	})
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go supervise(proc, rl, backend, done)

	return &Runtime{
		Config:  RuntimeConfig{Paths: p, Doc: doc},
		WorkDir: wd,
		Env:     env,
		Port:    state.NewPort(port),
		Backend: backend,
		Done:    done,
		server:  proc,
	}, nil
}

func (l *Launcher) setDefaults() {
	if l.Writable == nil {
		l.Writable = writable.New()
	}
	if l.Spawn == nil {
		l.Spawn = spawnServer
	}
	if l.Prompter == nil {
		l.Prompter = declineAll{}
	}
}

func (l *Launcher) prepareDataDir() error {
	data := l.Paths.Data
	if err := os.MkdirAll(data, 0o755); err != nil {
		return &FilesystemError{Op: "Failed to create data directory", Path: data, Err: err}
	}
	if !l.Writable.IsWritable(data) {
		return &FilesystemError{Op: "Data directory is not writable", Path: data}
	}
	return nil
}

// loadConfig creates the config when absent and offers a reset when it is
// malformed.
func (l *Launcher) loadConfig() (config.Document, error) {
	path := l.Paths.Config
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := config.Reset(path); err != nil {
			return config.Document{}, err
		}
	}
	if !l.Writable.IsWritable(path) {
		return config.Document{}, &FilesystemError{Op: "Config file is not writable", Path: path}
	}

	doc, err := config.Load(path)
	var parseErr *config.ParseError
	if !errors.As(err, &parseErr) {
		return doc, err
	}

	question := fmt.Sprintf("Failed to parse configuration file:\n\n%v\n\n"+
		"Do you want to reset the configuration file and start the application with default settings?", parseErr)
	if !l.Prompter.Confirm("Configuration Error", question) {
		return config.Document{}, fmt.Errorf("%w: %v", ErrResetDeclined, parseErr)
	}
	if err := config.Reset(path); err != nil {
		return config.Document{}, err
	}
	slog.Warn("bootstrap: configuration reset to defaults", "path", path)
	return config.Default(), nil
}

func (l *Launcher) openBackend() (*logsink.Backend, error) {
	if !logsink.Enabled(l.Paths.Data) {
		return nil, nil
	}
	if err := os.Setenv("MEMOSPOT_DATA", l.Paths.Data); err != nil {
		return nil, fmt.Errorf("set MEMOSPOT_DATA: %w", err)
	}
	backend, err := logsink.Open(l.Paths.Data)
	if err != nil {
		return nil, &FilesystemError{Op: "Failed to setup logging", Path: l.Paths.LoggingConfig, Err: err}
	}
	if l.OnBackend != nil {
		l.OnBackend(backend)
	}
	return backend, nil
}

// allocatePort picks the server port and persists it when it changed.
func (l *Launcher) allocatePort(doc *config.Document) (int, error) {
	preferred := doc.Memos.Port
	if l.Dev && preferred != 0 && preferred < 65535 {
		preferred++
	}

	port, err := l.allocator(doc.Memos.Addr).Allocate(preferred)
	if err != nil {
		return 0, fmt.Errorf("failed to find an open port: %w", err)
	}

	updated := *doc
	updated.Memos.Port = port
	if !updated.Equal(*doc) {
		if err := config.Save(l.Paths.Config, updated); err != nil {
			return 0, err
		}
		*doc = updated
		slog.Info("bootstrap: port saved", "port", port, "config", l.Paths.Config)
	}
	return port, nil
}

// allocator returns l.Ports, or a picker probing addr so a free port is
// one the server can actually bind.
func (l *Launcher) allocator(addr string) Allocator {
	if l.Ports != nil {
		return l.Ports
	}
	p := portpicker.New()
	p.Host = addr
	return p
}

// supervise is the long-running supervision task: it owns proc, relays its
// output until the stream closes, then reaps it. No restart.
func supervise(proc Process, rl *relay.Relay, backend *logsink.Backend, done chan<- struct{}) {
	defer close(done)

	if out := proc.Stdout(); rl != nil && out != nil {
		stats := rl.Run(out)
		slog.Info("bootstrap: server output closed",
			"records", stats.Infos+stats.Errors,
			"discarded", stats.Discarded,
			"captured", stats.Captured,
		)
		if err := backend.WriteStats(stats); err != nil {
			slog.Error("bootstrap: write relay stats", "err", err)
		}
	}

	if err := proc.Wait(); err != nil {
		slog.Error("bootstrap: server stopped", "pid", proc.PID(), "err", err)
		return
	}
	slog.Info("bootstrap: server stopped", "pid", proc.PID())
}

func spawnServer(spec supervisor.Spec) (Process, error) {
	h, err := supervisor.Spawn(spec)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// declineAll answers no to every question.
type declineAll struct{}

func (declineAll) Confirm(string, string) bool { return false }

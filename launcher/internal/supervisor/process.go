package supervisor

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	"github.com/memospot/memospot/launcher/internal/envvars"
)

// ErrBinaryMissing is wrapped by SpawnError when the binary does not exist.
var ErrBinaryMissing = errors.New("server binary not found")

// BinaryName returns the platform file name of the server binary.
func BinaryName() string {
	if runtime.GOOS == "windows" {
		return "memos.exe"
	}
	return "memos"
}

// Spec describes the process to start.
type Spec struct {
	Binary string
	Dir    string
	Env    envvars.Map

	// CaptureStdout pipes stdout to Handle.Stdout. Leave false when nothing
	// reads it, an unread pipe eventually blocks the child.
	CaptureStdout bool

	// Stderr receives the child's stderr. Nil discards it.
	Stderr io.Writer
}

// SpawnError reports a missing binary or a refused process creation.
type SpawnError struct {
	Binary string
	Err    error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %s: %v", e.Binary, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Handle is a running server process.
type Handle struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
}

// Spawn starts the server described by spec.
func Spawn(spec Spec) (*Handle, error) {
	info, err := os.Stat(spec.Binary)
	if err != nil || info.IsDir() {
		return nil, &SpawnError{Binary: spec.Binary, Err: ErrBinaryMissing}
	}

	cmd := exec.Command(spec.Binary)
	cmd.Dir = spec.Dir
	cmd.Env = append(os.Environ(), spec.Env.Environ()...)
	cmd.Stderr = spec.Stderr
	cmd.Stdin = nil
	cmd.SysProcAttr = sysProcAttr()

	h := &Handle{cmd: cmd}
	if spec.CaptureStdout {
		h.stdout, err = cmd.StdoutPipe()
		if err != nil {
			return nil, &SpawnError{Binary: spec.Binary, Err: err}
		}
	}

	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Binary: spec.Binary, Err: err}
	}

	slog.Info("supervisor: server started",
		"pid", cmd.Process.Pid,
		"binary", spec.Binary,
		"dir", spec.Dir,
	)
	return h, nil
}

// PID returns the child's process id.
func (h *Handle) PID() int {
	return h.cmd.Process.Pid
}

// Stdout returns the child's stdout stream, or nil when not captured.
// It must be read to EOF before calling Wait.
func (h *Handle) Stdout() io.Reader {
	if h.stdout == nil {
		return nil
	}
	return h.stdout
}

// Stop asks the server to exit (SIGTERM where available). Stopping a
// process that already exited is not an error.
func (h *Handle) Stop() error {
	return ignoreDone(terminate(h.cmd.Process))
}

// Kill forcibly ends the server.
func (h *Handle) Kill() error {
	return ignoreDone(h.cmd.Process.Kill())
}

func ignoreDone(err error) error {
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

// Wait blocks until the child exits.
func (h *Handle) Wait() error {
	err := h.cmd.Wait()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("server exited with code %d", exitErr.ExitCode())
	}
	return fmt.Errorf("server: %w", err)
}

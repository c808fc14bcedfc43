package supervisor

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/memospot/memospot/launcher/internal/envvars"
)

// writeScript creates an executable shell script standing in for the server.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "memos")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestSpawn_MissingBinary(t *testing.T) {
	_, err := Spawn(Spec{Binary: filepath.Join(t.TempDir(), "memos")})

	var spawnErr *SpawnError
	if !errors.As(err, &spawnErr) {
		t.Fatalf("Spawn() error = %v, want *SpawnError", err)
	}
	if !errors.Is(err, ErrBinaryMissing) {
		t.Errorf("Spawn() error = %v, want ErrBinaryMissing", err)
	}
}

func TestSpawn_DirectoryAsBinary(t *testing.T) {
	_, err := Spawn(Spec{Binary: t.TempDir()})
	if !errors.Is(err, ErrBinaryMissing) {
		t.Errorf("Spawn() error = %v, want ErrBinaryMissing", err)
	}
}

func TestSpawn_EnvAndWorkingDir(t *testing.T) {
	bin := writeScript(t, `echo "port=$MEMOS_PORT"
echo "mode=$MEMOS_MODE"
echo "cwd=$(pwd -P)"
`)
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("eval symlinks: %v", err)
	}

	h, err := Spawn(Spec{
		Binary:        bin,
		Dir:           dir,
		Env:           envvars.Map{"MEMOS_PORT": "5230", "MEMOS_MODE": "demo"},
		CaptureStdout: true,
	})
	if err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}
	if h.PID() <= 0 {
		t.Errorf("PID() = %d", h.PID())
	}

	out, err := io.ReadAll(h.Stdout())
	if err != nil {
		t.Fatalf("read stdout: %v", err)
	}
	if err := h.Wait(); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}

	got := string(out)
	for _, want := range []string{"port=5230", "mode=demo", "cwd=" + dir} {
		if !strings.Contains(got, want) {
			t.Errorf("stdout %q missing %q", got, want)
		}
	}
}

func TestSpawn_StdoutNotCaptured(t *testing.T) {
	bin := writeScript(t, "echo ignored\n")
	h, err := Spawn(Spec{Binary: bin})
	if err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}
	if h.Stdout() != nil {
		t.Error("Stdout() should be nil when not captured")
	}
	if err := h.Wait(); err != nil {
		t.Errorf("Wait() error: %v", err)
	}
}

func TestWait_ExitCode(t *testing.T) {
	bin := writeScript(t, "exit 3\n")
	h, err := Spawn(Spec{Binary: bin})
	if err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}
	err = h.Wait()
	if err == nil || !strings.Contains(err.Error(), "code 3") {
		t.Errorf("Wait() error = %v, want exit code 3", err)
	}
}

// waitTimeout fails the test if h does not exit within d.
func waitTimeout(t *testing.T, h *Handle, d time.Duration) error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- h.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(d):
		h.Kill()
		t.Fatal("server still running")
		return nil
	}
}

func TestStop_EndsRunningServer(t *testing.T) {
	bin := writeScript(t, "exec sleep 30\n")
	h, err := Spawn(Spec{Binary: bin})
	if err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}
	if err := h.Stop(); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if err := waitTimeout(t, h, 5*time.Second); err == nil {
		t.Error("Wait() after Stop should report the terminated exit")
	}
}

func TestKill_EndsRunningServer(t *testing.T) {
	bin := writeScript(t, "exec sleep 30\n")
	h, err := Spawn(Spec{Binary: bin})
	if err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}
	if err := h.Kill(); err != nil {
		t.Fatalf("Kill() error: %v", err)
	}
	if err := waitTimeout(t, h, 5*time.Second); err == nil {
		t.Error("Wait() after Kill should report the killed exit")
	}
}

func TestStop_AfterExit(t *testing.T) {
	bin := writeScript(t, "exit 0\n")
	h, err := Spawn(Spec{Binary: bin})
	if err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}
	if err := h.Wait(); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if err := h.Stop(); err != nil {
		t.Errorf("Stop() after exit = %v, want nil", err)
	}
	if err := h.Kill(); err != nil {
		t.Errorf("Kill() after exit = %v, want nil", err)
	}
}

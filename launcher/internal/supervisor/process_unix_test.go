//go:build unix

package supervisor

import (
	"syscall"
	"testing"
	"time"
)

func TestSpawn_OwnProcessGroup(t *testing.T) {
	bin := writeScript(t, "exec sleep 30\n")
	h, err := Spawn(Spec{Binary: bin})
	if err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}
	defer waitTimeout(t, h, 5*time.Second)
	defer h.Kill()

	pgid, err := syscall.Getpgid(h.PID())
	if err != nil {
		t.Fatalf("Getpgid() error: %v", err)
	}
	if pgid != h.PID() {
		t.Errorf("server pgid = %d, want its own pid %d", pgid, h.PID())
	}
	if pgid == syscall.Getpgrp() {
		t.Error("server shares the launcher's process group")
	}
}

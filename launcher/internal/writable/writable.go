package writable

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/memospot/memospot/launcher/internal/retry"
)

const (
	// ProbeName is the base name of the transient file used to test a directory.
	ProbeName = "write_test"

	// MaxProbeVariants bounds the numbered probe names tried after ProbeName.
	MaxProbeVariants = 100

	DefaultAttempts = 10
	DefaultDelay    = 100 * time.Millisecond
)

// Checker tests paths for writability under a retry policy.
type Checker struct {
	Policy retry.Policy
}

// New returns a Checker with the default 10 x 100ms policy.
func New() *Checker {
	return &Checker{Policy: retry.Fixed(DefaultAttempts, DefaultDelay)}
}

var std = New()

// IsWritable reports whether path is writable using the default policy.
func IsWritable(path string) bool {
	return std.IsWritable(path)
}

// IsWritable reports whether path is an existing regular file that can be
// opened for writing, or an existing directory in which a file can be
// created and removed.
func (c *Checker) IsWritable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	switch {
	case info.Mode().IsRegular():
		return c.fileWritable(path)
	case info.IsDir():
		return c.dirWritable(path)
	default:
		return false
	}
}

func (c *Checker) fileWritable(path string) bool {
	err := c.Policy.Do(func() error {
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return err
		}
		return f.Close()
	})
	return err == nil
}

func (c *Checker) dirWritable(dir string) bool {
	probe, ok := ProbePath(dir)
	if !ok {
		return false
	}
	err := c.Policy.Do(func() error {
		f, err := os.OpenFile(probe, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err != nil {
			return err
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(probe)
			return err
		}
		// A probe that cannot be removed counts as a failed attempt.
		return os.Remove(probe)
	})
	return err == nil
}

// ProbePath returns the first free probe name in dir: write_test, then
// write_test.0 through write_test.99. ok is false when all are taken.
func ProbePath(dir string) (path string, ok bool) {
	path = filepath.Join(dir, ProbeName)
	for n := 0; exists(path); n++ {
		if n >= MaxProbeVariants {
			return "", false
		}
		path = filepath.Join(dir, fmt.Sprintf("%s.%d", ProbeName, n))
	}
	return path, true
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

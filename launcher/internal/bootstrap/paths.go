package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/memospot/memospot/launcher/internal/config"
	"github.com/memospot/memospot/launcher/internal/logsink"
	"github.com/memospot/memospot/launcher/internal/supervisor"
)

// DatabaseName is the server's production database inside the data directory.
const DatabaseName = "memos_prod.db"

// Paths are the filesystem locations bootstrap works with.
type Paths struct {
	Data          string
	Config        string
	LoggingConfig string
	Database      string
	Binary        string
	Resources     string
	CWD           string
}

// RuntimeConfig is the resolved paths plus the loaded document.
type RuntimeConfig struct {
	Paths Paths
	Doc   config.Document
}

// Overrides replace discovered paths when non-empty.
type Overrides struct {
	DataDir   string
	Resources string
	Binary    string
}

// DefaultPaths discovers paths relative to the home directory and the
// launcher executable.
func DefaultPaths(o Overrides) (Paths, error) {
	data := o.DataDir
	if data == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, fmt.Errorf("resolve home directory: %w", err)
		}
		data = filepath.Join(home, ".memospot")
	}
	data, err := filepath.Abs(data)
	if err != nil {
		return Paths{}, fmt.Errorf("resolve data directory: %w", err)
	}

	exe, err := os.Executable()
	if err != nil {
		return Paths{}, fmt.Errorf("resolve executable: %w", err)
	}
	exeDir := filepath.Dir(exe)

	cwd, err := os.Getwd()
	if err != nil {
		return Paths{}, fmt.Errorf("resolve working directory: %w", err)
	}

	p := NewPaths(data)
	p.Binary = filepath.Join(exeDir, supervisor.BinaryName())
	p.Resources = resourceDir(runtime.GOOS, exeDir)
	p.CWD = cwd
	if o.Binary != "" {
		p.Binary = o.Binary
	}
	if o.Resources != "" {
		p.Resources = o.Resources
	}
	return p, nil
}

// NewPaths returns the files bootstrap keeps inside dataDir.
func NewPaths(dataDir string) Paths {
	return Paths{
		Data:          dataDir,
		Config:        filepath.Join(dataDir, config.FileName),
		LoggingConfig: filepath.Join(dataDir, logsink.FileName),
		Database:      filepath.Join(dataDir, DatabaseName),
	}
}

// resourceDir returns where installers put bundled resources.
func resourceDir(goos, exeDir string) string {
	switch goos {
	case "darwin":
		// Memospot.app/Contents/MacOS -> Memospot.app/Contents/Resources
		return filepath.Join(filepath.Dir(exeDir), "Resources")
	case "linux":
		if exeDir == "/usr/bin" {
			return "/usr/lib/memospot"
		}
		return exeDir
	default:
		return exeDir
	}
}

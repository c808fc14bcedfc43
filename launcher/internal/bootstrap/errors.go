package bootstrap

import (
	"errors"
	"fmt"
)

// ErrResetDeclined is returned when the user refuses to reset a broken config.
var ErrResetDeclined = errors.New("you must fix the config file manually and restart the application")

// FilesystemError reports a directory or file that could not be created
// or is not writable.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s:\n%s", e.Op, e.Path)
	}
	return fmt.Sprintf("%s `%s`:\n%v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

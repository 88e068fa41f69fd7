// Package process cleans up browser process trees left behind by a launcher.
package process

import "errors"

// ErrInvalidPID is returned for PIDs that must never be signalled.
var ErrInvalidPID = errors.New("refusing to kill process group")

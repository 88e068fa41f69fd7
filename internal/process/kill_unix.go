//go:build !windows

package process

import (
	"fmt"
	"syscall"
)

// KillProcessGroup sends SIGKILL to the process group led by pid, taking the
// browser's helper processes down with it. PIDs of 0 and 1 are refused since
// a negative of either would hit the caller's own group or every process.
func KillProcessGroup(pid int) error {
	if pid <= 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	if err := syscall.Kill(-pid, syscall.SIGKILL); err != nil && err != syscall.ESRCH {
		return fmt.Errorf("killing process group %d: %w", pid, err)
	}
	return nil
}

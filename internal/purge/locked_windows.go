//go:build windows

package purge

import (
	"errors"

	"golang.org/x/sys/windows"
)

// isLocked matches the sharing and lock violations Windows returns when a
// running browser still holds a profile file.
func isLocked(err error) bool {
	return errors.Is(err, windows.ERROR_SHARING_VIOLATION) ||
		errors.Is(err, windows.ERROR_LOCK_VIOLATION)
}

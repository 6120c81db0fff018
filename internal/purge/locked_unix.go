//go:build unix

package purge

import (
	"errors"

	"golang.org/x/sys/unix"
)

func isLocked(err error) bool {
	return errors.Is(err, unix.EBUSY) || errors.Is(err, unix.ETXTBSY)
}

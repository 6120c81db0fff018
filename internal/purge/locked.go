package purge

import (
	"errors"
	"io/fs"
)

// Failure reasons reported in Item.Reason.
const (
	ReasonLocked       = "locked"
	ReasonAccessDenied = "access denied"
	ReasonOther        = "error"
)

// Classify maps a removal error to a failure reason. Locked means another
// process holds the file open; a later run may succeed once it is released.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case isLocked(err), errors.Is(err, errStillPresent):
		return ReasonLocked
	case errors.Is(err, fs.ErrPermission):
		return ReasonAccessDenied
	default:
		return ReasonOther
	}
}

// IsLocked reports whether err means the resource is held by another process.
func IsLocked(err error) bool {
	return Classify(err) == ReasonLocked
}

//go:build !unix && !windows

package purge

func isLocked(error) bool { return false }

//go:build !unix && !windows

package core

func osRelease() string { return "" }

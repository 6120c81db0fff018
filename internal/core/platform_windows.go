//go:build windows

package core

import (
	"golang.org/x/sys/windows"
)

// windowsVersion uses RtlGetNtVersionNumbers, which reports the real
// version without an application manifest.
func windowsVersion() (major, minor, build uint32) {
	major, minor, build = windows.RtlGetNtVersionNumbers()
	// High bits of build carry flags.
	build &= 0xFFFF
	return major, minor, build
}

func osRelease() string {
	major, minor, build := windowsVersion()
	return windowsName(major, minor, build)
}

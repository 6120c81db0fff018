// Package core describes the host platform for diagnostics.
package core

import (
	"fmt"
	"runtime"
)

// Platform returns "<os>/<arch>" followed by the kernel or OS release
// when it can be determined, e.g. "windows/amd64 Windows 11 (Build 22621)".
func Platform() string {
	base := fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
	if rel := osRelease(); rel != "" {
		return base + " " + rel
	}
	return base
}

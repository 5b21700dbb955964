// Package buildinfo exposes version metadata set at link time:
//
//	go build -ldflags "-X github.com/ledgertriage/ledgertriage/internal/buildinfo.Version=v1.2.0"
package buildinfo

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders the version line printed by the version command
func String() string {
	return fmt.Sprintf("ledgertriage %s (commit %s, built %s, %s)", Version, Commit, Date, runtime.Version())
}

// Package cmd holds build metadata stamped in by the release build:
//
//	-ldflags "-X github.com/thoreinstein/nixdeck/cmd.Version=v0.3.0"
package cmd

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Package main is the entry point for the orgauth service.
package main

import (
	"os"

	"github.com/aussiebroadwan/orgauth/internal/auth/app"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	app.BuildVersion = version

	cmd := NewRootCmd()
	cmd.Version = version

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

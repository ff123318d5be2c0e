// Nanachi - an animated face for the monochrome LCD of Logitech keyboards.
//
// Build a windowless binary for autostart use:
//
//	GOOS=windows go build -ldflags "-H=windowsgui" ./cmd/nanachi
package main

import (
	"os"

	"github.com/n0rule/nanachi/internal/cli"
)

// Version information, injected with -ldflags at release time.
var (
	Version   = "v0.1.0"
	BuildTime = "dev"
)

func main() {
	cli.Version = Version
	cli.BuildTime = BuildTime

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main is the cputemp entrypoint.
package main

import "github.com/gr3q/cputemp/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}

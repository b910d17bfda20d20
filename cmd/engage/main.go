// Package main is the single-binary entrypoint for the engage daemon and
// its operator CLI.
package main

import "github.com/heritageworks/engage/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}

// SPDX-License-Identifier: EPL-2.0

// Package main provides the voxbooth CLI.
//
// Usage:
//
//	voxbooth [flags] <command> [args]
//
// Commands:
//
//	voices   - List the active voice set
//	render   - Render every active voice of a recording
//	probe    - Print the duration of a recording
package main

import (
	"fmt"
	"os"

	"github.com/ik5/voxbooth/cmd/voxbooth/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Package main is the entry point for the modc CLI.
package main

import "modc.dev/pkg/modc/cmd"

func main() {
	cmd.Execute()
}

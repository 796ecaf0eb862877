// Package main is the entry point for the pitchmetrics CLI tool, which
// ingests football tracking/event data and computes player-match metrics.
package main

import "github.com/traitlab/pitchmetrics/cmd"

func main() {
	cmd.Execute()
}

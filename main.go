// Package main is the entry point for the fbmetrics CLI tool, which folds
// StatsBomb football events into per-player season statistics.
package main

import "github.com/pable/go-football-metrics/cmd"

func main() {
	cmd.Execute()
}

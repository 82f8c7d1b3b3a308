// Package main is the entry point for the commerce ETL CLI.
package main

import (
	"os"

	"commerce-etl-lab/cmd/etl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"invoice-reconciliation-service/cmd/invrec/cmd"
	"invoice-reconciliation-service/pkg/errors"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(errors.GetExitCode(err))
	}
}

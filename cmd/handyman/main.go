// Command handyman runs the Handyman API.
//
//	handyman serve        start the HTTP API and the job workers (default)
//	handyman migrate      apply pending database migrations and exit
//	handyman healthcheck  GET /status of a running instance
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	serve := newServeCommand()

	root := &cobra.Command{
		Use:          "handyman",
		Short:        "REST API for the handyman services marketplace",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve, newMigrateCommand(), newHealthcheckCommand())

	return root
}

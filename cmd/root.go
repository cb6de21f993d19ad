// Package cmd implements the citizenhub command line: the API server and
// the operator commands that work directly against the complaint store.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "citizenhub",
	Short: "Citizen complaint intake and classification service",
	Long: `Citizen Hub accepts complaints from citizens, routes them to the
responsible department, classifies priority and sentiment, and lets staff
track and resolve them over a REST API, a Telegram bot or this CLI.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetRootCmd returns the root command (used by tests).
func GetRootCmd() *cobra.Command {
	return rootCmd
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "forex-signal-relay",
	Short: "A CLI for managing the forex signal relay bot",
	Long:  `Forex Signal Relay posts owner-issued trade signals to a broadcast channel, relays status updates, and keeps a daily outcome journal.`,
}

func main() {

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}

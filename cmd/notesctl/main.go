// Command notesctl is the operator CLI for GophNotes. It manages the record
// schema, issues development bearer tokens and calls the records API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atinyakov/GophNotes/internal/client"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "notesctl",
		Short:         "Operator tooling for the GophNotes server",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(schemaCmd())
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(recordsCmd(client.Notes))
	rootCmd.AddCommand(recordsCmd(client.Bookmarks))

	return rootCmd
}

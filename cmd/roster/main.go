package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/roster/core/cmd/roster/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "roster [file]",
		Short: "Employee Management System",
		Long: `roster maintains a small employee roster stored in a CSV file.
Without a file argument it adopts the first roster CSV found next to the
executable, or creates employees.csv there on the first change.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunInteractive(cmd.Context(), args, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	// Add subcommands
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/fitbloom/fitbloom/cmd/do/cmd"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "do",
		Short:        "Operational tools for FitBloom",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.ArticlesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

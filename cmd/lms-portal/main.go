package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joestump/lms-portal/internal/build"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lms-portal",
		Short: "A learning management portal",
		Long:  "LMS Portal: course catalog, student dashboard and a light/dark theme that follows you across devices.",
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), build.String())
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

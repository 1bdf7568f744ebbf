package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of heic2jpeg",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "heic2jpeg %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/feamcp/feamcp"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of feamcp",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("feamcp version %s\n", feamcp.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

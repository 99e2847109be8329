package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "feamcp",
	Short: "feamcp is an MCP tool server for FEA geometry modelling",
	Long: `feamcp exposes the geometry modelling surface of a running FEA
application (ETABS or LUSAS) as MCP tools, so AI agents can create and
inspect points, lines, surfaces and volumes through one software-agnostic
interface.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "config.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().String("log-file", "", "Also write logs to this file")
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/feamcp/feamcp"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Connect to the configured FEA software and print its units",
	Long: `Attaches to the running FEA application and reports the software
name, version and active model unit system. Useful for verifying the setup
before pointing an agent at the server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, closer, err := setup(cmd)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}

		adapter, err := feamcp.NewAdapter(cfg, logger)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		if err := adapter.Connect(ctx); err != nil {
			return fmt.Errorf("connect failed: %w", err)
		}
		sw := adapter.Software()
		fmt.Printf("connected to %s %s\n", sw.Name, sw.Version)

		units, err := adapter.Units(ctx)
		if err != nil {
			return fmt.Errorf("reading units failed: %w", err)
		}
		fmt.Printf("model units: %s\n", units)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

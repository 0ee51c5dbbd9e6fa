package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arjank/datachecker/internal/config"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Write a default config.json in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.WriteDefault(defaultConfigPath); err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					return newExitError(1, err)
				}
				return newExitError(1, fmt.Errorf("writing %s: %w", defaultConfigPath, err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", defaultConfigPath)
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/timing/cache"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create and check cache configuration files.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration to path (cache.json).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "cache.json"
			if len(args) == 1 {
				path = args[0]
			}

			if err := cache.DefaultConfig().SaveConfig(path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)

			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "check path",
		Short: "Load a configuration and report whether it is valid.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := cache.LoadConfig(args[0])
			if err != nil {
				return err
			}

			if err := config.Validate(); err != nil {
				return fmt.Errorf("invalid cache configuration: %w", err)
			}

			l1 := config.L1Geometry()
			fmt.Fprintf(cmd.OutOrStdout(), "L1: %d sets, %d ways, %dB blocks\n",
				l1.NumSets(), l1.Associativity, l1.BlockSize)
			if config.HasL2() {
				l2 := config.L2Geometry()
				fmt.Fprintf(cmd.OutOrStdout(), "L2: %d sets, %d ways, %dB blocks\n",
					l2.NumSets(), l2.Associativity, l2.BlockSize)
			}
			if config.PrefetchEnabled() {
				fmt.Fprintf(cmd.OutOrStdout(), "Prefetch: %d streams of %d blocks\n",
					config.PrefN, config.PrefM)
			}

			return nil
		},
	})

	return cmd
}

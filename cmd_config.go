package main

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialise the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return toml.NewEncoder(os.Stdout).Encode(cfg)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configFile
			if path == "" {
				path = ConfigPath()
			}
			if _, err := os.Stat(path); err == nil {
				subtle.Printf("  %s already exists\n", path)
				return nil
			}
			if err := SaveConfig(path, DefaultConfig()); err != nil {
				return err
			}
			good.Printf("Wrote %s\n", path)
			return nil
		},
	})
	return cmd
}

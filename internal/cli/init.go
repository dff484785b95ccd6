package cli

import (
	"github.com/spf13/cobra"

	"github.com/clawinfra/parley/internal/config"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Create the config directory and write a default config file.

An existing config file is never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.EnsureDir(a.configPath); err != nil {
				return err
			}

			created, err := config.WriteDefault(a.configPath)
			if err != nil {
				return err
			}
			if created {
				a.logger.Info("created config", "path", a.configPath)
			} else {
				a.logger.Info("config already exists", "path", a.configPath)
			}
			return nil
		},
	}
}

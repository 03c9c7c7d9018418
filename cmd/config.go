package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"powerisland/internal/config"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the default configuration",
		Long: `Print the compiled-default configuration as YAML. Use it as a starting
point for ~/.config/powerisland/config.yaml.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := config.DefaultYAML()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"powerisland/internal/module"
	"powerisland/pkg/logging"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the power devices on the bus",
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.InitForCLI(logging.LevelWarn, os.Stderr)

			out, err := module.ListDevices()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"powerisland/internal/app"
)

func newServeCmd() *cobra.Command {
	var (
		debug      bool
		silent     bool
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the power module",
		Long: `Run the power module: load the configuration, reconcile the activity
set and track the configured devices until interrupted. The configuration
file is watched; changes reload the config and restart the producers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			application, err := app.NewApplication(app.NewConfig(debug, silent, configPath))
			if err != nil {
				return err
			}
			return application.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&silent, "silent", false, "Suppress all log output")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to the configuration file")

	return cmd
}

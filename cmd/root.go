package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the powerisland application.
var rootCmd = &cobra.Command{
	Use:   "powerisland",
	Short: "Power activities for your shell's dynamic island",
	Long: `powerisland keeps a set of battery activities synchronized with your
configuration and with the power devices on the system bus, and feeds
their widgets with live readings.`,
	// SilenceUsage prevents cobra from printing usage on errors the
	// application already reports.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command. Called from the main
// package to inject the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "powerisland version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
}

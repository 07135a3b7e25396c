package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the server binary.
func NewRootCommand() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "couple-journal",
		Short:         "Couple journal API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "path to the YAML config file")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cfgPath)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Migrate(cfgPath)
		},
	})

	// bare invocation serves
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return Run(cfgPath)
	}

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

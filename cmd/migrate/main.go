package main

import (
	"fmt"
	"ofcoz/config"
	"ofcoz/helper"
	"ofcoz/shared/logger"
	"os"

	"github.com/spf13/cobra"
)

func migrationCmd(use, short string, run func(*config.Config) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(config.Get())
		},
	}
}

func main() {
	logger.InitLogger()

	rootCmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Run Postgres schema migrations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		migrationCmd("up", "Apply all pending migrations", helper.Up),
		migrationCmd("step-up", "Apply the next pending migration", helper.StepUp),
		migrationCmd("down", "Revert the last applied migration", helper.Down),
		migrationCmd("drop", "Revert every migration", helper.Drop),
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				version, dirty, err := helper.Version(config.Get())
				if err != nil {
					return err
				}

				cmd.Printf("version %d (dirty: %t)\n", version, dirty)

				return nil
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

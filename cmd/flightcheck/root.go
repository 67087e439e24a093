package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "flightcheck",
		Short:         "Flightcheck validates the airline flight-search widget in a headless browser",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := godotenv.Load(); err != nil {
				log.Println("No .env file found")
			}
		},
	}

	persistent := cmd.PersistentFlags()
	persistent.String("config", "", "path to YAML config file")
	persistent.String("url", "", "flight-search page URL (overrides config)")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mayank160920/Fluid-oss/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "fluid",
	Short: "Voice-assistant command mode for your terminal",
	Long:  `Fluid Command Mode turns plain-language requests into terminal commands through an LLM tool-calling loop, with confirmation gating for destructive operations.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Default behavior: run the command mode application
		application, err := app.NewApplication()
		if err != nil {
			logrus.WithError(err).Fatal("failed to create application")
		}
		defer application.Stop()

		if err := application.Start(); err != nil {
			logrus.WithError(err).Fatal("application error")
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("command execution error")
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(profileCmd)
}

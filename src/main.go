package main

import (
	"fmt"
	"os"

	_ "Backend-SurveyHub/docs"
	"Backend-SurveyHub/src/config"
	"Backend-SurveyHub/src/logger"

	"github.com/spf13/cobra"
)

// @title                       SurveyHub API
// @version                     1.0
// @description                 Survey authoring and response collection.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "surveyhub",
	Short:         "SurveyHub API server, email worker and seeder",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if _, err := logger.Init(cfg.IsDevelopment()); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, workerCmd, seedCmd)
}

package main

import (
	"github.com/checkmarble/llmchat/internal/config"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	sources := config.Sources{}

	root := &cobra.Command{
		Use:           "chatgateway",
		Short:         "HTTP chat gateway in front of OpenAI and Gemini",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&sources.ConfigFile, "config", "", "path to a YAML configuration file")
	root.PersistentFlags().StringVar(&sources.EnvFile, "env-file", config.DefaultEnvFile, "dotenv file loaded into the environment")

	root.AddCommand(
		newServeCommand(&sources),
		newCheckCommand(&sources),
	)

	return root
}

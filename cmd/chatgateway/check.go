package main

import (
	"fmt"
	"io"
	"os"

	"github.com/checkmarble/llmchat"
	"github.com/checkmarble/llmchat/internal/config"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newCheckCommand(sources *config.Sources) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Print the effective configuration and which model providers are available",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*sources)
			if err != nil {
				return errors.Wrap(err, "failed to load config")
			}

			llm, err := newAdapter(cfg)
			if err != nil {
				return err
			}

			return check(cmd.OutOrStdout(), cfg, llm)
		},
	}
}

func check(w io.Writer, cfg *config.Config, llm *llmchat.LlmAdapter) error {
	out, err := yaml.Marshal(cfg.Redacted())
	if err != nil {
		return errors.Wrap(err, "could not render configuration")
	}

	fmt.Fprintln(w, "# Configuration")
	fmt.Fprint(w, string(out))
	fmt.Fprintln(w)

	if cfg.Server.StaticDir != "" {
		if info, err := os.Stat(cfg.Server.StaticDir); err != nil || !info.IsDir() {
			fmt.Fprintf(w, "! static directory %s does not exist\n\n", cfg.Server.StaticDir)
		}
	}

	fmt.Fprintln(w, "# Model providers")

	for _, c := range llm.Capabilities() {
		if c.Available {
			fmt.Fprintf(w, "✓ %s\n", c.Name)
			continue
		}

		fmt.Fprintf(w, "✗ %s: %v\n", c.Name, c.Reason)
	}

	if len(llm.Available()) == 0 {
		return errors.New("no model provider is available, the chat will not work")
	}

	return nil
}

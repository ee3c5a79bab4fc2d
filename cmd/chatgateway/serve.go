package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/checkmarble/llmchat/internal/api"
	"github.com/checkmarble/llmchat/internal/chat"
	"github.com/checkmarble/llmchat/internal/config"
	"github.com/checkmarble/llmchat/internal/logging"
	"github.com/checkmarble/llmchat/internal/session"
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(sources *config.Sources) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP chat server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*sources)
			if err != nil {
				return errors.Wrap(err, "failed to load config")
			}

			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port

				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			logging.Init(cfg.Logging)

			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "port to listen on, overrides the configuration")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	llm, err := newAdapter(cfg)
	if err != nil {
		return err
	}

	logCapabilities(llm)

	orchestrator := chat.New(llm, session.NewStore(), chat.WithTimeout(cfg.Chat.ProviderTimeout))
	server := api.NewServer(orchestrator,
		api.WithStaticDir(cfg.Server.StaticDir),
		api.WithCorsOrigin(cfg.Server.CorsOrigin),
	)

	httpServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)

	go func() {
		logrus.Infof("starting server on %s", httpServer.Addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}

		close(errs)
	}()

	select {
	case err := <-errs:
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
	}

	logrus.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "could not shut down server cleanly")
	}

	logrus.Info("server shutdown complete")

	return nil
}

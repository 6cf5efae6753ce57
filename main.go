package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/datawave-cloud/provisioning-webhook/internal/config"
	"github.com/datawave-cloud/provisioning-webhook/internal/ctxlog"
	"github.com/datawave-cloud/provisioning-webhook/internal/gitops"
	"github.com/datawave-cloud/provisioning-webhook/internal/hierarchy"
	"github.com/datawave-cloud/provisioning-webhook/internal/jira"
	"github.com/datawave-cloud/provisioning-webhook/internal/webhook"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "provisioning-webhook",
		Short:         "Jira-driven GCP folder and project provisioning",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newServeCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
			slog.SetDefault(logger)

			processor := webhook.NewProcessor(cfg,
				jira.New(cfg.JiraBaseURL, cfg.JiraUser, cfg.JiraToken),
				gitops.New(cfg.GitHubBaseURL, cfg.GitHubToken, cfg.RepoOwner, cfg.RepoName),
				hierarchy.New(cfg.AssetBaseURL, cfg.AssetToken),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server := &http.Server{
				Addr:              cfg.ListenAddr,
				Handler:           webhook.NewHandler(processor),
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext: func(net.Listener) context.Context {
					return ctxlog.With(context.Background(), logger)
				},
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("webhook server listening", "addr", cfg.ListenAddr)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}

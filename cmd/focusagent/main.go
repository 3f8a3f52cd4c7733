package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yungbote/neurofocus-backend/internal/client"
	"github.com/yungbote/neurofocus-backend/internal/focus"
	"github.com/yungbote/neurofocus-backend/internal/platform/envutil"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

type rootOptions struct {
	apiURL     string
	token      string
	configPath string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "focusagent",
		Short:         "Native host that tracks focus for a study view",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.apiURL, "api", envutil.String("FOCUS_API_URL", client.DefaultBaseURL, nil), "focus API base URL")
	root.PersistentFlags().StringVar(&opts.token, "token", envutil.String("FOCUS_TOKEN", "", nil), "bearer token (see `focusagent login`)")
	root.PersistentFlags().StringVar(&opts.configPath, "config", envutil.String("FOCUS_CONFIG_PATH", "", nil), "focus tuning YAML")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newProgressCmd(opts))
	root.AddCommand(newLoginCmd(opts))
	return root
}

func newLogger() (*logger.Logger, error) {
	mode := envutil.String("LOG_MODE", "production", nil)
	return logger.New(mode)
}

func loadFocusConfig(path string) (focus.Config, error) {
	if path == "" {
		return focus.DefaultConfig(), nil
	}
	return focus.LoadConfig(path)
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Read NDJSON browser events from stdin and track the current view",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			cfg, err := loadFocusConfig(opts.configPath)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			api := client.New(log, client.Config{BaseURL: opts.apiURL, Token: opts.token})
			return runAgent(ctx, agentDeps{
				log:     log,
				cfg:     cfg,
				api:     api,
				quizzes: api,
			}, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func newProgressCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show streak and session progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			api := client.New(nil, client.Config{BaseURL: opts.apiURL, Token: opts.token})
			p, err := api.Progress(contextOf(cmd))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderProgress(p))
			return nil
		},
	}
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange credentials for a token; export it as FOCUS_TOKEN",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = envutil.String("FOCUS_PASSWORD", "", nil)
			}
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password (or FOCUS_PASSWORD) are required")
			}
			api := client.New(nil, client.Config{BaseURL: opts.apiURL})
			token, err := api.Login(contextOf(cmd), email, password)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

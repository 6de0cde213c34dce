package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"keyward/internal/app"
)

var (
	configPath    string
	home          string
	passphrase    string
	homeserverURL string
	accessToken   string
	backend       string
	logLevel      string

	appCtx *app.App
)

// Execute runs the CLI with os.Args. Interrupts cancel in-flight requests.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "keyward",
		Short:        "End-to-end encryption identity and key manager for Matrix devices",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Load(configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, cfg)

			logger, err := app.NewLogger(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			appCtx, err = app.Wire(cfg, logger)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if appCtx == nil {
				return nil
			}
			return appCtx.Close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default $"+app.ConfigEnv+")")
	flags.StringVar(&home, "home", "", "store directory (overrides store.path)")
	flags.StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the pickle key (file store)")
	flags.StringVar(&homeserverURL, "homeserver", "", "homeserver base URL (overrides homeserver_url)")
	flags.StringVar(&accessToken, "token", "", "access token (overrides access_token)")
	flags.StringVar(&backend, "store", "", "store backend: file, leveldb or memory (overrides store.backend)")
	flags.StringVar(&logLevel, "log-level", "", "log level (overrides log.level)")

	root.AddCommand(
		prepareCmd(),
		statusCmd(),
		fingerprintCmd(),
		otkCmd(),
		roomCmd(),
	)
	return root
}

// applyFlags layers explicitly set flags over cfg.
func applyFlags(cmd *cobra.Command, cfg *app.Config) {
	flags := cmd.Flags()
	if flags.Changed("home") {
		cfg.Store.Path = home
	}
	if flags.Changed("homeserver") {
		cfg.HomeserverURL = homeserverURL
	}
	if flags.Changed("token") {
		cfg.AccessToken = accessToken
	}
	if flags.Changed("store") {
		cfg.Store.Backend = backend
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	cfg.Passphrase = passphrase
	if cfg.Passphrase == "" {
		cfg.Passphrase = os.Getenv("KEYWARD_PASSPHRASE")
	}
}

// ensureReady prepares the encryption client with the configured rooms.
func ensureReady(ctx context.Context) error {
	if appCtx.Crypto.IsReady() {
		return nil
	}
	if err := appCtx.Crypto.Prepare(ctx, appCtx.Config.Rooms); err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	return nil
}

// main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-oms/api"
	"go-oms/controllers"
	"go-oms/routes"
	"go-oms/session"
	"go-oms/ui"
	"go-oms/utils"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg      utils.Config
	logger   *zap.Logger
	sessions *session.Store
	client   *api.Client

	stopTracing func(context.Context) error

	openPath string
)

// rootCmd launches the interactive client
var rootCmd = &cobra.Command{
	Use:   "oms",
	Short: "Terminal client for the order-management API",
	Long: `oms is a terminal client for the order-management REST API.

Run without arguments to open the interactive storefront and admin dashboard.
The subcommands cover sign-in and quick read-only listings from scripts.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if stopTracing != nil {
			if err := stopTracing(context.Background()); err != nil {
				logger.Warn("tracing shutdown failed", zap.Error(err))
			}
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runInteractive,
}

// setup loads configuration and builds the logger, session store and API client
// shared by every command.
func setup(cmd *cobra.Command, args []string) error {
	var envLoaded bool
	var err error
	cfg, envLoaded, err = utils.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// The interactive UI owns the terminal, so it only logs to a file.
	interactive := !cmd.HasParent()
	output := cfg.LogFile
	if output == "" && !interactive {
		output = "stderr"
	}
	logger, err = utils.NewLogger(cfg.LogLevel, output)
	if err != nil {
		return err
	}
	if !envLoaded {
		logger.Debug("No .env file found. Proceeding with environment variables.")
	}

	stopTracing, err = setupTracing(cfg.Tracing, interactive)
	if err != nil {
		return err
	}

	sessions = session.NewStore(session.NewFileTokenStore(cfg.TokenFile), nil, logger)
	client = api.New(cfg.APIURL, sessions,
		api.WithTimeout(cfg.HTTPTimeout),
		api.WithLogger(logger.Named("api")),
	)
	logger.Debug("client configured",
		zap.String("api_url", cfg.APIURL),
		zap.String("token_file", cfg.TokenFile),
		zap.Duration("timeout", cfg.HTTPTimeout))
	return nil
}

func newAuth() *controllers.Auth {
	return controllers.NewAuth(client, sessions, logger.Named("auth"))
}

func runInteractive(cmd *cobra.Command, args []string) error {
	app := ui.NewApp(ui.Deps{
		Auth:     newAuth(),
		Customer: controllers.NewCustomer(client, logger.Named("customer")),
		Admin:    controllers.NewAdmin(client, logger.Named("admin")),
		Sessions: sessions,
		Router:   routes.New(),
		AssetURL: cfg.AssetURL,
		Logger:   logger,
	}, openPath)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interface: %w", err)
	}
	return nil
}

func init() {
	rootCmd.Flags().StringVar(&openPath, "open", "", "path to open first, e.g. /reset-password/<token>")
	registerCommands(rootCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"acctex.io/internal/application/usecase"
	"acctex.io/internal/infrastructure/authority"
	"acctex.io/internal/infrastructure/config"
	"acctex.io/internal/infrastructure/effects"
	httphandler "acctex.io/internal/infrastructure/http"
	"acctex.io/internal/infrastructure/logger"
	"acctex.io/internal/infrastructure/repository"
	"acctex.io/internal/infrastructure/validator"

	"github.com/spf13/cobra"
)

const serverDir = "server"

var apiServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Run API Server.",
	RunE: func(_ *cobra.Command, _ []string) error {
		// Initialize logger
		appLogger := logger.NewLogger()

		// Get config directory (relative to where the binary is run from)
		configDir := filepath.Join("cmd", "config", serverDir)
		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			configDir = filepath.Join(".", "cmd", "config", serverDir)
		}

		// Load configuration
		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			appLogger.LogError(context.TODO(), "Failed to load config", err)
			return fmt.Errorf("failed to load config: %w", err)
		}

		appLogger.LogInfo(context.TODO(), "Configuration loaded",
			"port", cfg.Server.Port,
			"system_account", cfg.Exchange.SystemAccount,
			"deposit_issuer", cfg.Exchange.DepositIssuer,
			"deposit_symbol", cfg.Exchange.DepositSymbol,
			"admin_configured", cfg.Exchange.AdminAccount != "")

		// Initialize infrastructure adapters
		registry := authority.NewRegistry(appLogger)
		sink := effects.NewLogSink(appLogger)
		state := repository.NewInMemoryState(registry, sink, appLogger)
		webhookValidator := validator.NewHMACValidator(
			cfg.Webhook.HMACSecret,
			cfg.Webhook.TimestampTolerance,
			appLogger,
		)

		// Initialize use cases
		usecases := httphandler.UseCases{
			ListAccount:   usecase.NewListAccountUseCase(state),
			DelistAccount: usecase.NewDelistAccountUseCase(state),
			BuyAccount:    usecase.NewBuyAccountUseCase(state, cfg.Exchange.SystemAccount),
			Withdraw:      usecase.NewWithdrawUseCase(state, cfg.Exchange.SystemAccount),
			ProcessDeposit: usecase.NewProcessDepositUseCase(
				state,
				cfg.Exchange.SystemAccount,
				cfg.Exchange.DepositAsset(),
				appLogger,
			),
			GetBalance: usecase.NewGetBalanceUseCase(state),
			RemoveSale: usecase.NewRemoveSaleUseCase(state, cfg.Exchange.AdminAccount, appLogger),
			AdjustFee:  usecase.NewAdjustFeeUseCase(cfg.Exchange.AdminAccount, appLogger),
		}

		// Initialize HTTP handler
		handler := httphandler.NewHandler(
			usecases,
			state,
			registry,
			webhookValidator,
			appLogger,
		)

		// Setup routes
		mux := handler.SetupRoutes()

		// Create HTTP server
		addr := ":" + cfg.Server.Port
		server := &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Channel to capture termination signals
		signalChan := make(chan os.Signal, 1)
		signal.Notify(signalChan, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)

		// Error channel to capture errors from server
		errChan := make(chan error, 1)

		// Start server in a goroutine
		go func() {
			appLogger.LogInfo(context.TODO(), "Starting server", "address", addr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errChan <- err
			}
		}()

		// Graceful shutdown
		select {
		case <-signalChan:
			appLogger.LogInfo(context.TODO(), "Received termination signal. Initiating graceful shutdown...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				appLogger.LogError(context.TODO(), "Server forced to shutdown", err)
				return err
			}

			appLogger.LogInfo(context.TODO(), "Server stopped gracefully")
		case err := <-errChan:
			appLogger.LogError(context.TODO(), "Server error", err)
			return err
		}

		return nil
	},
}

func init() { //nolint:gochecknoinits
	rootCmd.AddCommand(apiServerCmd)
}

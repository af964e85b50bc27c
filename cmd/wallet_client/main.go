package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"wallet_client/internal/domain/entity"
	"wallet_client/internal/infrastructure/restapi"
	"wallet_client/internal/pkg/utils"
)

var (
	configPathFlag string
	connectFlag    bool
	toFlag         string
	amountFlag     string
	tokenFlag      string
)

var rootCmd = &cobra.Command{
	Use:           "wallet_client",
	Short:         "Injected-wallet EVM client",
	Long:          `Connects to a configured wallet, shows balances, looks up ERC-20 tokens and sends transfers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Connect and print the native balance",
	RunE:  runBalance,
}

var tokenCmd = &cobra.Command{
	Use:   "token <address>",
	Short: "Connect and look up an ERC-20 token",
	Args:  cobra.ExactArgs(1),
	RunE:  runToken,
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send ETH, or an ERC-20 token when --token is given, and wait for confirmation",
	RunE:  runSend,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", utils.GetEnv("CONFIG_PATH", "config/config.yml"), "path to the YAML configuration")
	serveCmd.Flags().BoolVar(&connectFlag, "connect", false, "connect the wallet on startup")
	sendCmd.Flags().StringVar(&toFlag, "to", "", "recipient address")
	sendCmd.Flags().StringVar(&amountFlag, "amount", "", "decimal amount to send")
	sendCmd.Flags().StringVar(&tokenFlag, "token", "", "ERC-20 token address")

	rootCmd.AddCommand(serveCmd, balanceCmd, tokenCmd, sendCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	app, err := newApplication(configPathFlag)
	if err != nil {
		return err
	}
	defer app.Close()

	if !app.cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	if connectFlag {
		if _, err := app.wallets.Connect(ctx); err != nil {
			app.logger.Warn("Initial connect failed, waiting for POST /api/v1/connect", "error", err)
		}
	}

	go app.refresher.Run(ctx)

	handler := restapi.NewWalletHandler(app.wallets, app.reader, app.transfers, app.tracker, app.tokens, app.networks, app.store, app.surface, app.logger)
	router := restapi.SetupRouter(handler, app.cfg.Swagger, app.zapLogger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", app.cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(app.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(app.cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(app.cfg.Server.IdleTimeout) * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		app.logger.Info("Starting HTTP server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	case <-ctx.Done():
		app.logger.Info("Shutdown signal received, stopping HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("HTTP server shutdown failed", "error", err)
		return err
	}
	app.logger.Info("HTTP server stopped")
	return nil
}

func runBalance(cmd *cobra.Command, _ []string) error {
	app, err := newApplication(configPathFlag)
	if err != nil {
		return err
	}
	defer app.Close()

	_, err = app.wallets.Connect(cmd.Context())
	printFields(cmd.OutOrStdout(), app.surface.Snapshot())
	return err
}

func runToken(cmd *cobra.Command, args []string) error {
	app, err := newApplication(configPathFlag)
	if err != nil {
		return err
	}
	defer app.Close()

	if _, err := app.wallets.Connect(cmd.Context()); err != nil {
		printFields(cmd.OutOrStdout(), app.surface.Snapshot())
		return err
	}
	reading := app.reader.LookupToken(cmd.Context(), args[0])
	printFields(cmd.OutOrStdout(), app.surface.Snapshot())
	if !reading.OK() {
		return reading.Err
	}
	return nil
}

func runSend(cmd *cobra.Command, _ []string) error {
	app, err := newApplication(configPathFlag)
	if err != nil {
		return err
	}
	defer app.Close()

	if _, err := app.wallets.Connect(cmd.Context()); err != nil {
		printFields(cmd.OutOrStdout(), app.surface.Snapshot())
		return err
	}

	req := entity.TransferRequest{Asset: entity.NativeAsset, Recipient: toFlag, Amount: amountFlag}
	if tokenFlag != "" {
		req.Asset = entity.TokenAsset
		req.Token = tokenFlag
	}

	outcome := app.transfers.Execute(cmd.Context(), req)
	printFields(cmd.OutOrStdout(), app.surface.Snapshot())
	if outcome.TxHash != (common.Hash{}) {
		fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", "Transaction:", outcome.TxHash.Hex())
	}
	return outcome.Err
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/solscout"
	"github.com/raykavin/solscout/pkg/config"
	"github.com/raykavin/solscout/pkg/core"
	"github.com/raykavin/solscout/pkg/storage"
	"github.com/spf13/cobra"
)

// Command line flags
var (
	// History command flags
	historyLimit int
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "solscout",
		Short:   "Telegram alert bot for fresh high-volume DEX pairs",
		Version: "1.0.0",
	}

	rootCmd.AddCommand(buildRunCmd())
	rootCmd.AddCommand(buildCheckCmd())
	rootCmd.AddCommand(buildHistoryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the scan loop, Telegram bot and status API",
		RunE:  runService,
	}
}

func buildCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Perform a single scan and exit",
		RunE:  runCheck,
	}
}

func buildHistoryCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Print alerted coins",
		RunE:  runHistory,
	}

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Show only the most recent N alerts")

	return historyCmd
}

func runService(cmd *cobra.Command, _ []string) error {
	scout, err := initializeScout()
	if err != nil {
		return err
	}
	defer scout.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return scout.Run(ctx)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	scout, err := initializeScout()
	if err != nil {
		return err
	}
	defer scout.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return scout.CheckOnce(ctx)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	alerts, err := store.Alerts(cmd.Context())
	if err != nil {
		return err
	}

	if historyLimit > 0 && historyLimit < len(alerts) {
		alerts = alerts[len(alerts)-historyLimit:]
	}

	renderHistory(os.Stdout, alerts)
	return nil
}

// initializeScout loads configuration and assembles the bot
func initializeScout() (*solscout.Scout, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	solscout.DefaultLog.Debugf("starting with TELEGRAM_TOKEN: %s", config.RedactToken(cfg.Settings.Telegram.Token))

	store, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}

	return solscout.NewScout(&cfg.Settings, solscout.WithStorage(store))
}

// openStorage builds the alert storage selected by STORAGE_DRIVER
func openStorage(cfg *config.AppConfig) (core.AlertStorage, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		return storage.NewFromSQLite(cfg.StoragePath, storage.DefaultConfig())
	default:
		return storage.NewFromFile(cfg.StoragePath)
	}
}

func renderHistory(out *os.File, alerts []*core.Alert) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Coin", "Symbol", "Token", "Volume USD", "Alerted At"})
	table.SetBorder(false)

	for _, alert := range alerts {
		table.Append([]string{
			alert.CoinName,
			alert.Symbol,
			alert.TokenAddress,
			strconv.FormatFloat(alert.VolumeUSD, 'f', 0, 64),
			alert.AlertedAt.Format("2006-01-02 15:04"),
		})
	}

	table.Render()
}

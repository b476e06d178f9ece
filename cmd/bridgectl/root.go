package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ClipFinance/btc-bridge/graceful"
)

var rootCmd = &cobra.Command{
	Use:   "bridgectl",
	Short: "tBTC to tADA bridge client",
	Long: `Creates bridge transactions and settles one-time address payments
from a bitcoind wallet.

Requires configuration through ENV.`,
	SilenceUsage: true,
}

// Execute attaches the subcommands and runs the root command.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sig := <-graceful.MakeSigintChan()
		logrus.Infof("received exit signal: %v", sig)
		cancel()
	}()

	rootCmd.AddCommand(
		newTransferCmd(),
		newBalanceCmd(),
		newProbeCmd(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logrus.WithError(err).Error("Failed to execute root command")
		os.Exit(1)
	}
}

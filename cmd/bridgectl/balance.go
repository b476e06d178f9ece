package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ClipFinance/btc-bridge/chains/bitcoin/utils"
	bridgeerrors "github.com/ClipFinance/btc-bridge/common/errors"
)

func newBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Prints the wallet account and its confirmed balance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			env, err := newEnvironment()
			if err != nil {
				return err
			}
			defer env.Close()

			account, err := env.session.Connect(ctx)
			if err != nil {
				return errors.New(bridgeerrors.Message(err))
			}
			balance, err := env.session.Balance(ctx)
			if err != nil {
				return errors.New(bridgeerrors.Message(err))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Address: %s\nNetwork: %s\nBalance: %s tBTC (%d sats)\n",
				account, env.cfg.Wallet.Network, utils.FormatBTC(balance), int64(balance))
			return nil
		},
	}
}

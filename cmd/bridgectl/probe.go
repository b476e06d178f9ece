package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	bridgeerrors "github.com/ClipFinance/btc-bridge/common/errors"
)

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe <ota-address>",
		Short: "Sends a small test payment to a one-time address",
		Long: `Sends 0.0001 tBTC with the settlement memo, fee rate and RBF flag of a
real settlement. Use it to check that the wallet accepts the payment
parameters before bridging a larger amount.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment()
			if err != nil {
				return err
			}
			defer env.Close()

			outcome, err := env.driver.Probe(cmd.Context(), args[0])
			if err != nil {
				return errors.New(bridgeerrors.Message(err))
			}
			return printJSON(cmd.OutOrStdout(), outcome)
		},
	}
}

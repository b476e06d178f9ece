package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ClipFinance/btc-bridge/bridge"
	bridgeerrors "github.com/ClipFinance/btc-bridge/common/errors"
	"github.com/ClipFinance/btc-bridge/common/types"
	"github.com/ClipFinance/btc-bridge/orchestrator"
)

type transferFlags struct {
	From   string
	To     string
	Amount string
}

type transferOutput struct {
	AttemptID  string                   `json:"attemptId"`
	State      string                   `json:"state"`
	Kind       types.ResultKind         `json:"kind"`
	Transfer   *types.TransferSummary   `json:"transfer,omitempty"`
	Settlement *types.SettlementOutcome `json:"settlement,omitempty"`
}

func newTransferCmd() *cobra.Command {
	var flags transferFlags

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Bridges tBTC to a Cardano address",
		Long: `Creates a bridge transaction for the given amount. When the bridge
answers with a one-time address the payment is sent from the bitcoind
wallet with the settlement memo attached.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTransfer(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.From, "from", "", "Source address. Defaults to the wallet account.")
	cmd.Flags().StringVar(&flags.To, "to", "", "Destination Cardano address.")
	cmd.Flags().StringVar(&flags.Amount, "amount", "", "Amount in tBTC, e.g. 0.0006.")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runTransfer(cmd *cobra.Command, flags transferFlags) error {
	ctx := cmd.Context()

	env, err := newEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	from := flags.From
	if from == "" {
		if from, err = env.session.Connect(ctx); err != nil {
			return errors.New(bridgeerrors.Message(err))
		}
	}

	client, err := env.bridgeClient()
	if err != nil {
		return err
	}

	o, err := orchestrator.NewBuilder(bridge.NewRequestBuilder(env.cfg.ProtocolConstants())).
		WithBridgeService(client).
		WithClassifier(bridge.NewClassifier(env.cfg.OtaPrefix())).
		WithSettler(env.driver).
		WithLogger(env.logger).
		Build()
	if err != nil {
		return errors.Wrap(err, "failed to build orchestrator")
	}

	result, err := o.Submit(ctx, orchestrator.Input{
		FromAccount: from,
		ToAccount:   flags.To,
		Amount:      flags.Amount,
	})
	if err != nil {
		return errors.New(bridgeerrors.Message(err))
	}

	out := transferOutput{
		AttemptID:  result.AttemptID,
		State:      result.State.String(),
		Kind:       result.Bridge.Kind,
		Settlement: result.Outcome,
	}
	if result.Bridge.Plain != nil {
		summary, err := result.Bridge.Plain.Summary()
		if err != nil {
			return err
		}
		out.Transfer = &summary
	}
	return printJSON(cmd.OutOrStdout(), out)
}

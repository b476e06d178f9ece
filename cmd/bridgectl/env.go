package main

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ClipFinance/btc-bridge/bridge"
	"github.com/ClipFinance/btc-bridge/chains/bitcoin"
	"github.com/ClipFinance/btc-bridge/chains/bitcoin/rpcwallet"
	"github.com/ClipFinance/btc-bridge/config"
	"github.com/ClipFinance/btc-bridge/logging"
	"github.com/ClipFinance/btc-bridge/settlement"
)

// environment holds the components shared by the subcommands.
type environment struct {
	cfg     config.Config
	logger  *logrus.Logger
	wallet  *rpcwallet.Wallet
	session *bitcoin.Session
	driver  *settlement.Driver
}

func newEnvironment() (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	logger := logging.NewLogger(cfg.LogFormat, cfg.LogLevel)

	wallet, err := rpcwallet.New(cfg.RPCWalletConfig(), logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to bitcoind wallet")
	}

	session := bitcoin.NewSession(wallet, cfg.SessionConfig(), logger)
	return &environment{
		cfg:     cfg,
		logger:  logger,
		wallet:  wallet,
		session: session,
		driver:  settlement.NewDriver(session, cfg.OtaPrefix(), cfg.Wallet.Network, logger),
	}, nil
}

func (e *environment) bridgeClient() (*bridge.Client, error) {
	return bridge.NewClient(e.cfg.Bridge.URL, &http.Client{}, e.logger)
}

func (e *environment) Close() {
	e.session.Disconnect()
	e.wallet.Close()
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

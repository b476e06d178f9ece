// Package rpcwallet implements types.WalletProvider on top of a bitcoind wallet.
package rpcwallet

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ClipFinance/btc-bridge/common/types"
)

// Config holds the bitcoind connection settings.
//
// Fields:
// - Host: the RPC host:port, optionally with a /wallet/<name> path.
// - User: the RPC user.
// - Pass: the RPC password.
// - Account: the address reported as the wallet account.
// - Network: the network name the node is expected to run on.
type Config struct {
	Host    string
	User    string
	Pass    string
	Account string
	Network string
}

// Wallet is a wallet capability provider backed by bitcoind JSON-RPC.
type Wallet struct {
	client  *rpcclient.Client
	account string
	params  *chaincfg.Params
	logger  *logrus.Logger
}

var _ types.WalletProvider = (*Wallet)(nil)

// New creates a bitcoind wallet provider.
//
// Parameters:
// - config: the connection settings.
// - logger: the logger for logging events.
//
// Returns:
// - *Wallet: the provider.
// - error: an error if the network is unknown or the client cannot be created.
func New(config Config, logger *logrus.Logger) (*Wallet, error) {
	params, err := ParamsForNetwork(config.Network)
	if err != nil {
		return nil, err
	}

	client, err := rpcclient.New(&rpcclient.ConnConfig{
		Host:         config.Host,
		User:         config.User,
		Pass:         config.Pass,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create bitcoind client")
	}

	return &Wallet{
		client:  client,
		account: config.Account,
		params:  params,
		logger:  logger,
	}, nil
}

// Close shuts the RPC client down.
func (w *Wallet) Close() {
	w.client.Shutdown()
}

// ParamsForNetwork returns the chain parameters for a wallet network name.
func ParamsForNetwork(network string) (*chaincfg.Params, error) {
	switch strings.ToLower(network) {
	case types.NetworkTestnet, "testnet3":
		return &chaincfg.TestNet3Params, nil
	case types.NetworkLivenet, "mainnet":
		return &chaincfg.MainNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	default:
		return nil, errors.Errorf("unknown network %q", network)
	}
}

// networkName maps a bitcoind chain name to a wallet network name.
func networkName(chain string) string {
	switch chain {
	case "main":
		return types.NetworkLivenet
	case "test":
		return types.NetworkTestnet
	default:
		return chain
	}
}

// RequestAccounts returns the configured account.
func (w *Wallet) RequestAccounts(_ context.Context) ([]string, error) {
	if w.account == "" {
		return nil, errors.New("no wallet account configured")
	}
	if _, err := btcutil.DecodeAddress(w.account, w.params); err != nil {
		return nil, errors.Wrapf(err, "account %s is not a %s address", w.account, w.params.Name)
	}
	return []string{w.account}, nil
}

// GetNetwork returns the network the node runs on.
func (w *Wallet) GetNetwork(ctx context.Context) (string, error) {
	var info btcjson.GetBlockChainInfoResult
	if err := w.call(ctx, "getblockchaininfo", &info); err != nil {
		return "", errors.Wrap(err, "failed to get blockchain info")
	}
	return networkName(info.Chain), nil
}

// SwitchNetwork always fails: a node serves exactly one network.
func (w *Wallet) SwitchNetwork(_ context.Context, network string) error {
	return errors.Errorf("bitcoind wallet on %s cannot switch to %s", w.params.Name, network)
}

// GetBalance returns the confirmed balance in satoshis.
func (w *Wallet) GetBalance(ctx context.Context) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	confirmed, err := w.client.GetBalance("*")
	if err != nil {
		return nil, toProviderError(err)
	}
	return map[string]interface{}{"confirmed": int64(confirmed)}, nil
}

// SendBitcoin funds, signs and broadcasts a payment with an OP_RETURN memo output.
//
// Parameters:
// - ctx: the context for managing the request.
// - toAddress: the recipient address.
// - amount: satoshis as an integer, BTC as a float64, or BTC as a decimal string.
// - opts: the fee rate in sat/vB, the hex memo and the RBF flag.
//
// Returns:
// - string: the transaction id.
// - error: a *types.ProviderError on RPC failures.
func (w *Wallet) SendBitcoin(ctx context.Context, toAddress string, amount interface{}, opts types.PaymentOptions) (string, error) {
	sats, err := toSatoshis(amount)
	if err != nil {
		return "", &types.ProviderError{Code: int(btcjson.ErrRPCInvalidParameter), Message: err.Error()}
	}
	if _, err := btcutil.DecodeAddress(toAddress, w.params); err != nil {
		return "", &types.ProviderError{Code: int(btcjson.ErrRPCInvalidAddressOrKey), Message: "Invalid address: " + toAddress}
	}

	outputs := []map[string]json.RawMessage{
		{toAddress: json.RawMessage(decimal.NewFromInt(int64(sats)).Shift(-8).StringFixed(8))},
	}
	if opts.Memo != "" {
		memo, _ := json.Marshal(opts.Memo)
		outputs = append(outputs, map[string]json.RawMessage{"data": memo})
	}

	var unfunded string
	if err := w.call(ctx, "createrawtransaction", &unfunded, []interface{}{}, outputs, 0, opts.EnableRBF); err != nil {
		return "", err
	}

	fundOpts := map[string]interface{}{"replaceable": opts.EnableRBF}
	if opts.FeeRate > 0 {
		fundOpts["fee_rate"] = opts.FeeRate
	}
	var funded struct {
		Hex string  `json:"hex"`
		Fee float64 `json:"fee"`
	}
	if err := w.call(ctx, "fundrawtransaction", &funded, unfunded, fundOpts); err != nil {
		return "", err
	}

	var signed struct {
		Hex      string `json:"hex"`
		Complete bool   `json:"complete"`
	}
	if err := w.call(ctx, "signrawtransactionwithwallet", &signed, funded.Hex); err != nil {
		return "", err
	}
	if !signed.Complete {
		return "", &types.ProviderError{Code: int(btcjson.ErrRPCVerify), Message: "wallet could not sign all inputs"}
	}

	tx, err := decodeTx(signed.Hex)
	if err != nil {
		return "", &types.ProviderError{Code: int(btcjson.ErrRPCDeserialization), Message: err.Error()}
	}

	var txid string
	if err := w.call(ctx, "sendrawtransaction", &txid, signed.Hex); err != nil {
		return "", err
	}

	logger := w.logger.WithField("txid", txid).WithField("sats", int64(sats)).WithField("fee", funded.Fee)
	if local := tx.TxHash().String(); local != txid {
		logger.WithField("local", local).Warn("Node returned unexpected txid")
	}
	logger.Info("Payment broadcast")
	return txid, nil
}

// call performs a raw JSON-RPC request and decodes its result into out.
func (w *Wallet) call(ctx context.Context, method string, out interface{}, params ...interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rawParams := make([]json.RawMessage, 0, len(params))
	for _, param := range params {
		raw, err := json.Marshal(param)
		if err != nil {
			return errors.Wrapf(err, "failed to encode %s params", method)
		}
		rawParams = append(rawParams, raw)
	}

	result, err := w.client.RawRequest(method, rawParams)
	if err != nil {
		return toProviderError(err)
	}
	if err := json.Unmarshal(result, out); err != nil {
		return errors.Wrapf(err, "failed to decode %s result", method)
	}
	return nil
}

// toProviderError converts an RPC error to a provider error. Insufficient funds
// uses the internal error code browser wallets report for it.
func toProviderError(err error) error {
	var rpcErr *btcjson.RPCError
	if !errors.As(err, &rpcErr) {
		return err
	}
	code := int(rpcErr.Code)
	if rpcErr.Code == btcjson.ErrRPCWalletInsufficientFunds {
		code = types.ProviderCodeInternal
	}
	return &types.ProviderError{Code: code, Message: rpcErr.Message}
}

func toSatoshis(amount interface{}) (btcutil.Amount, error) {
	switch v := amount.(type) {
	case int64:
		return btcutil.Amount(v), nil
	case int:
		return btcutil.Amount(v), nil
	case btcutil.Amount:
		return v, nil
	case float64:
		return btcutil.NewAmount(v)
	case string:
		value, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return 0, errors.Wrap(err, "invalid amount")
		}
		return btcutil.Amount(value.Shift(8).Round(0).IntPart()), nil
	default:
		return 0, errors.Errorf("unsupported amount type %T", amount)
	}
}

func decodeTx(txHex string) (*wire.MsgTx, error) {
	raw, err := hex.DecodeString(txHex)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode transaction hex")
	}
	tx := wire.NewMsgTx(wire.TxVersion)
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, errors.Wrap(err, "failed to deserialize transaction")
	}
	return tx, nil
}

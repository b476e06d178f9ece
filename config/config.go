package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"github.com/ClipFinance/btc-bridge/bridge"
	"github.com/ClipFinance/btc-bridge/chains/bitcoin"
	"github.com/ClipFinance/btc-bridge/chains/bitcoin/rpcwallet"
	"github.com/ClipFinance/btc-bridge/chains/bitcoin/utils"
	"github.com/ClipFinance/btc-bridge/common/types"
	"github.com/ClipFinance/btc-bridge/logging"
	"github.com/ClipFinance/btc-bridge/metrics"
)

// Config is the process configuration read from the environment.
type Config struct {
	LogFormat logging.LogFormat `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel  string            `envconfig:"LOG_LEVEL" default:"info"`
	Server    Server
	Bridge    Bridge
	Wallet    Wallet
	Metrics   metrics.Config
}

// Server holds the HTTP API settings.
type Server struct {
	Host string `split_words:"true" default:"0.0.0.0"`
	Port string `split_words:"true" default:"5000"`
}

// Bridge holds the bridge service endpoint and route constants.
type Bridge struct {
	URL              string `split_words:"true" default:"https://bridge-api.wanchain.org/api/testnet"`
	FromChain        string `split_words:"true" default:"BTC"`
	ToChain          string `split_words:"true" default:"ADA"`
	FromToken        string `split_words:"true"`
	ToTokenPolicyID  string `split_words:"true" default:"d2a8592ec9673ac18fea1044885f94518e954ab0cb2b6bb0a328d2af"`
	ToTokenAssetName string `split_words:"true" default:"BTC"`
	Partner          string `split_words:"true" default:"newDex"`
	OtaPrefix        string `split_words:"true"`
}

// Wallet holds the bitcoind wallet settings and network negotiation timing.
type Wallet struct {
	RPCHost      string        `split_words:"true" default:"localhost:18332"`
	RPCUser      string        `split_words:"true"`
	RPCPass      string        `split_words:"true"`
	Account      string        `split_words:"true"`
	Network      string        `split_words:"true" default:"testnet"`
	SettleDelay  time.Duration `split_words:"true" default:"1s"`
	PollInterval time.Duration `split_words:"true" default:"200ms"`
	PollAttempts int           `split_words:"true" default:"5"`
}

// Load reads the configuration from the environment.
//
// Returns:
// - Config: the configuration.
// - error: an error if a variable cannot be parsed or a value is invalid.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to process env var")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values envconfig cannot check.
func (c Config) Validate() error {
	if types.ParseChainType(c.Bridge.FromChain) == types.UNKNOWN {
		return errors.Errorf("unsupported source chain %q", c.Bridge.FromChain)
	}
	if types.ParseChainType(c.Bridge.ToChain) == types.UNKNOWN {
		return errors.Errorf("unsupported destination chain %q", c.Bridge.ToChain)
	}
	if _, err := rpcwallet.ParamsForNetwork(c.Wallet.Network); err != nil {
		return errors.Wrap(err, "invalid wallet network")
	}
	if c.Wallet.PollAttempts < 1 {
		return errors.New("wallet poll attempts must be positive")
	}
	return nil
}

// ProtocolConstants derives the fixed route constants.
func (c Config) ProtocolConstants() types.ProtocolConstants {
	fromToken := c.Bridge.FromToken
	if fromToken == "" {
		fromToken = bridge.NativeTokenID()
	}
	return types.ProtocolConstants{
		FromChain:   types.ParseChainType(c.Bridge.FromChain),
		ToChain:     types.ParseChainType(c.Bridge.ToChain),
		FromTokenID: fromToken,
		ToTokenID:   bridge.CardanoAssetTokenID(c.Bridge.ToTokenPolicyID, c.Bridge.ToTokenAssetName),
		PartnerTag:  c.Bridge.Partner,
	}
}

// OtaPrefix returns the configured one-time address prefix, defaulting to the
// segwit prefix of the wallet network.
func (c Config) OtaPrefix() string {
	if c.Bridge.OtaPrefix != "" {
		return c.Bridge.OtaPrefix
	}
	params, err := rpcwallet.ParamsForNetwork(c.Wallet.Network)
	if err != nil {
		return utils.TestnetOtaPrefix
	}
	return utils.OtaPrefix(params)
}

// SessionConfig returns the wallet session timing.
func (c Config) SessionConfig() bitcoin.Config {
	return bitcoin.Config{
		SettleDelay:  c.Wallet.SettleDelay,
		PollInterval: c.Wallet.PollInterval,
		PollAttempts: c.Wallet.PollAttempts,
	}
}

// RPCWalletConfig returns the bitcoind connection settings.
func (c Config) RPCWalletConfig() rpcwallet.Config {
	return rpcwallet.Config{
		Host:    c.Wallet.RPCHost,
		User:    c.Wallet.RPCUser,
		Pass:    c.Wallet.RPCPass,
		Account: c.Wallet.Account,
		Network: c.Wallet.Network,
	}
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClipFinance/btc-bridge/common/types"
	"github.com/ClipFinance/btc-bridge/logging"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, logging.LogFormatText, cfg.LogFormat)
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "https://bridge-api.wanchain.org/api/testnet", cfg.Bridge.URL)
	assert.Equal(t, time.Second, cfg.Wallet.SettleDelay)
	assert.Equal(t, 5, cfg.Wallet.PollAttempts)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "tb1", cfg.OtaPrefix())

	assert.Equal(t, types.ProtocolConstants{
		FromChain:   types.BTC,
		ToChain:     types.ADA,
		FromTokenID: "0x0000000000000000000000000000000000000000",
		ToTokenID:   "0x64326138353932656339363733616331386665613130343438383566393435313865393534616230636232623662623061333238643261662e343235343433",
		PartnerTag:  "newDex",
	}, cfg.ProtocolConstants())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("BRIDGE_URL", "http://localhost:9000/api")
	t.Setenv("BRIDGE_OTA_PREFIX", "bcrt1")
	t.Setenv("WALLET_SETTLE_DELAY", "2s")
	t.Setenv("WALLET_ACCOUNT", "tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, logging.LogFormatJSON, cfg.LogFormat)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:9000/api", cfg.Bridge.URL)
	assert.Equal(t, "bcrt1", cfg.OtaPrefix())
	assert.Equal(t, 2*time.Second, cfg.SessionConfig().SettleDelay)
	assert.Equal(t, "tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx", cfg.RPCWalletConfig().Account)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Run("chain", func(t *testing.T) {
		t.Setenv("BRIDGE_TO_CHAIN", "SOL")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("network", func(t *testing.T) {
		t.Setenv("WALLET_NETWORK", "moon")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("duration", func(t *testing.T) {
		t.Setenv("WALLET_SETTLE_DELAY", "soon")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestOtaPrefixFollowsNetwork(t *testing.T) {
	cfg := Config{Wallet: Wallet{Network: "regtest"}}
	assert.Equal(t, "bcrt1", cfg.OtaPrefix())
}

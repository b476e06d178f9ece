package settlement

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClipFinance/btc-bridge/chains/bitcoin"
	"github.com/ClipFinance/btc-bridge/chains/bitcoin/utils"
	"github.com/ClipFinance/btc-bridge/chains/bitcoin/wallettest"
	bridgeerrors "github.com/ClipFinance/btc-bridge/common/errors"
	"github.com/ClipFinance/btc-bridge/common/types"
)

const (
	testAccount    = "tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx"
	testOtaAddress = "tb1psrhm8vtwhq86galup86xq26dtxt3jflggvmkq7tpcxr25r1mm31qk6kpk8"
)

func newTestDriver(provider *wallettest.Provider) *Driver {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	var wallet types.WalletProvider
	if provider != nil {
		wallet = provider
	}
	session := bitcoin.NewSession(wallet, bitcoin.Config{
		SettleDelay:  time.Millisecond,
		PollInterval: time.Millisecond,
		PollAttempts: 2,
	}, logger)

	driver := NewDriver(session, utils.TestnetOtaPrefix, types.NetworkTestnet, logger)
	driver.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	return driver
}

func validRequest() Request {
	return Request{
		OtaAddress:  testOtaAddress,
		Amount:      "0.0006",
		FromAddress: testAccount,
		BridgeMemo:  "bridge-memo",
	}
}

func TestMemoIsFixed(t *testing.T) {
	assert.Len(t, Memo, 136)
	assert.Equal(t, types.PaymentOptions{FeeRate: 1, Memo: Memo, EnableRBF: true}, PaymentOptions())
}

func TestSettle(t *testing.T) {
	provider := wallettest.New(testAccount, 100000)
	driver := newTestDriver(provider)

	outcome, err := driver.Settle(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, &types.SettlementOutcome{
		Success:     true,
		TxHash:      wallettest.DefaultTxHash,
		FromAddress: testAccount,
		ToAddress:   testOtaAddress,
		Amount:      "0.0006",
		Memo:        Memo,
		Timestamp:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}, outcome)

	sends := provider.Sends()
	require.Len(t, sends, 1)
	assert.Equal(t, testOtaAddress, sends[0].To)
	assert.Equal(t, int64(60000), sends[0].Amount)
	assert.Equal(t, PaymentOptions(), sends[0].Opts)

	assert.Equal(t, []string{"requestAccounts", "getNetwork", "getBalance", "sendBitcoin"}, provider.Calls())
}

func TestSettleSwitchesNetwork(t *testing.T) {
	provider := wallettest.New(testAccount, 100000)
	provider.Network = types.NetworkLivenet
	driver := newTestDriver(provider)

	_, err := driver.Settle(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{types.NetworkTestnet}, provider.Switches())
}

func TestSettleLocalValidationHasNoSideEffects(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Request)
		kind   bridgeerrors.Kind
	}{
		{name: "missing from address", modify: func(r *Request) { r.FromAddress = "" }, kind: bridgeerrors.KindMissingField},
		{name: "invalid amount", modify: func(r *Request) { r.Amount = "abc" }, kind: bridgeerrors.KindInvalidAmount},
		{name: "amount too small", modify: func(r *Request) { r.Amount = "0.000001" }, kind: bridgeerrors.KindAmountTooSmall},
		{name: "amount too large", modify: func(r *Request) { r.Amount = "1.5" }, kind: bridgeerrors.KindAmountTooLarge},
		{name: "ota prefix", modify: func(r *Request) { r.OtaAddress = "addr_test1xyz" }, kind: bridgeerrors.KindInvalidOtaAddress},
		{name: "empty ota", modify: func(r *Request) { r.OtaAddress = "" }, kind: bridgeerrors.KindInvalidOtaAddress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := wallettest.New(testAccount, 100000)
			driver := newTestDriver(provider)

			req := validRequest()
			tt.modify(&req)
			_, err := driver.Settle(context.Background(), req)
			assert.Equal(t, tt.kind, bridgeerrors.KindOf(err))
			assert.Empty(t, provider.Calls())
		})
	}
}

func TestSettleInvalidOtaMessage(t *testing.T) {
	driver := newTestDriver(wallettest.New(testAccount, 100000))
	req := validRequest()
	req.OtaAddress = "2N3oefVeg6stiTb5Kh3ozCSkaqmx91FDbsm"

	_, err := driver.Settle(context.Background(), req)
	assert.Equal(t, "Invalid OTA address format. Must be a valid testnet address starting with 'tb1'", bridgeerrors.Message(err))
}

func TestSettleWalletFailures(t *testing.T) {
	t.Run("wallet unavailable", func(t *testing.T) {
		driver := newTestDriver(nil)
		_, err := driver.Settle(context.Background(), validRequest())
		assert.ErrorIs(t, err, bridgeerrors.ErrWalletUnavailable)
	})

	t.Run("account mismatch", func(t *testing.T) {
		provider := wallettest.New("tb1qsomeoneelse", 100000)
		driver := newTestDriver(provider)

		_, err := driver.Settle(context.Background(), validRequest())
		assert.ErrorIs(t, err, bridgeerrors.ErrAccountMismatch)
		assert.Equal(t, "Connected wallet address doesn't match the expected address", bridgeerrors.Message(err))
		assert.Empty(t, provider.Sends())
	})

	t.Run("network switch fails", func(t *testing.T) {
		provider := wallettest.New(testAccount, 100000)
		provider.Network = types.NetworkLivenet
		provider.IgnoreSwitch = true
		driver := newTestDriver(provider)

		_, err := driver.Settle(context.Background(), validRequest())
		assert.ErrorIs(t, err, bridgeerrors.ErrNetworkSwitchFailed)
		assert.Empty(t, provider.Sends())
	})

	t.Run("insufficient balance", func(t *testing.T) {
		provider := wallettest.New(testAccount, 59999)
		driver := newTestDriver(provider)

		_, err := driver.Settle(context.Background(), validRequest())
		assert.ErrorIs(t, err, bridgeerrors.ErrInsufficientBalance)
		assert.Empty(t, provider.Sends())
	})

	t.Run("user rejects payment", func(t *testing.T) {
		provider := wallettest.New(testAccount, 100000)
		provider.SendFunc = func(string, interface{}, types.PaymentOptions) (string, error) {
			return "", &types.ProviderError{Code: types.ProviderCodeUserRejected, Message: "User rejected the request."}
		}
		driver := newTestDriver(provider)

		_, err := driver.Settle(context.Background(), validRequest())
		assert.ErrorIs(t, err, bridgeerrors.ErrUserRejected)
		assert.Len(t, provider.Sends(), 3)
	})
}

func TestProbe(t *testing.T) {
	provider := wallettest.New("tb1qanyaccount", 100000)
	driver := newTestDriver(provider)

	outcome, err := driver.Probe(context.Background(), testOtaAddress)
	require.NoError(t, err)
	assert.Equal(t, "0.0001", outcome.Amount)
	assert.Equal(t, "tb1qanyaccount", outcome.FromAddress)

	sends := provider.Sends()
	require.Len(t, sends, 1)
	assert.Equal(t, int64(10000), sends[0].Amount)

	_, err = driver.Probe(context.Background(), "addr_test1")
	assert.ErrorIs(t, err, bridgeerrors.ErrInvalidOtaAddress)
}

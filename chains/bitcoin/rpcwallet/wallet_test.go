package rpcwallet

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClipFinance/btc-bridge/chains/bitcoin/utils"
	"github.com/ClipFinance/btc-bridge/common/types"
)

const testAddress = "tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx"

type rpcHandler func(params []json.RawMessage) (interface{}, *btcjson.RPCError)

// fakeNode answers bitcoind JSON-RPC requests in HTTP POST mode.
type fakeNode struct {
	mu       sync.Mutex
	handlers map[string]rpcHandler
}

func newFakeNode(t *testing.T, handlers map[string]rpcHandler) *httptest.Server {
	node := &fakeNode{handlers: handlers}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
			ID     json.RawMessage   `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		node.mu.Lock()
		handler, ok := node.handlers[req.Method]
		node.mu.Unlock()

		resp := map[string]interface{}{"id": req.ID, "result": nil, "error": nil}
		if !ok {
			resp["error"] = btcjson.ErrRPCMethodNotFound
		} else {
			result, rpcErr := handler(req.Params)
			resp["result"] = result
			if rpcErr != nil {
				resp["error"] = rpcErr
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestWallet(t *testing.T, server *httptest.Server) *Wallet {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	wallet, err := New(Config{
		Host:    strings.TrimPrefix(server.URL, "http://"),
		User:    "user",
		Pass:    "pass",
		Account: testAddress,
		Network: types.NetworkTestnet,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(wallet.Close)
	return wallet
}

func testTx(t *testing.T) (string, string) {
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{1}, 0), nil, nil))
	tx.AddTxOut(wire.NewTxOut(60000, []byte{0x00, 0x14}))

	var buf bytes.Buffer
	require.NoError(t, tx.Serialize(&buf))
	return hex.EncodeToString(buf.Bytes()), tx.TxHash().String()
}

func TestParamsForNetwork(t *testing.T) {
	params, err := ParamsForNetwork("testnet")
	require.NoError(t, err)
	assert.Equal(t, utils.TestnetOtaPrefix, utils.OtaPrefix(params))

	params, err = ParamsForNetwork("livenet")
	require.NoError(t, err)
	assert.Equal(t, "bc", params.Bech32HRPSegwit)

	_, err = ParamsForNetwork("dogecoin")
	assert.Error(t, err)
}

func TestRequestAccounts(t *testing.T) {
	wallet := newTestWallet(t, newFakeNode(t, nil))

	accounts, err := wallet.RequestAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{testAddress}, accounts)

	wallet.account = "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4"
	_, err = wallet.RequestAccounts(context.Background())
	assert.Error(t, err)
}

func TestGetNetwork(t *testing.T) {
	for chain, want := range map[string]string{"test": "testnet", "main": "livenet", "signet": "signet"} {
		chain, want := chain, want
		t.Run(chain, func(t *testing.T) {
			server := newFakeNode(t, map[string]rpcHandler{
				"getblockchaininfo": func([]json.RawMessage) (interface{}, *btcjson.RPCError) {
					return map[string]interface{}{"chain": chain, "blocks": 100}, nil
				},
			})
			wallet := newTestWallet(t, server)

			network, err := wallet.GetNetwork(context.Background())
			require.NoError(t, err)
			assert.Equal(t, want, network)
		})
	}
}

func TestSwitchNetworkUnsupported(t *testing.T) {
	wallet := newTestWallet(t, newFakeNode(t, nil))
	assert.Error(t, wallet.SwitchNetwork(context.Background(), "livenet"))
}

func TestGetBalance(t *testing.T) {
	server := newFakeNode(t, map[string]rpcHandler{
		"getbalance": func([]json.RawMessage) (interface{}, *btcjson.RPCError) {
			return 0.0015, nil
		},
	})
	wallet := newTestWallet(t, server)

	raw, err := wallet.GetBalance(context.Background())
	require.NoError(t, err)

	balance, err := utils.ParseBalance(raw)
	require.NoError(t, err)
	assert.Equal(t, btcutil.Amount(150000), balance)
}

func TestSendBitcoin(t *testing.T) {
	txHex, txid := testTx(t)
	var createParams []json.RawMessage
	var fundParams []json.RawMessage

	server := newFakeNode(t, map[string]rpcHandler{
		"createrawtransaction": func(params []json.RawMessage) (interface{}, *btcjson.RPCError) {
			createParams = params
			return txHex, nil
		},
		"fundrawtransaction": func(params []json.RawMessage) (interface{}, *btcjson.RPCError) {
			fundParams = params
			return map[string]interface{}{"hex": txHex, "fee": 0.00000150, "changepos": 1}, nil
		},
		"signrawtransactionwithwallet": func([]json.RawMessage) (interface{}, *btcjson.RPCError) {
			return map[string]interface{}{"hex": txHex, "complete": true}, nil
		},
		"sendrawtransaction": func([]json.RawMessage) (interface{}, *btcjson.RPCError) {
			return txid, nil
		},
	})
	wallet := newTestWallet(t, server)

	opts := types.PaymentOptions{FeeRate: 1, Memo: "0702", EnableRBF: true}
	for _, amount := range []interface{}{int64(60000), 0.0006, "0.00060000"} {
		got, err := wallet.SendBitcoin(context.Background(), testAddress, amount, opts)
		require.NoError(t, err)
		assert.Equal(t, txid, got)

		require.Len(t, createParams, 4)
		var outputs []map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(createParams[1], &outputs))
		require.Len(t, outputs, 2)
		assert.Equal(t, "0.00060000", string(outputs[0][testAddress]))
		assert.Equal(t, `"0702"`, string(outputs[1]["data"]))
		assert.Equal(t, "true", string(createParams[3]))

		require.Len(t, fundParams, 2)
		var fundOpts map[string]interface{}
		require.NoError(t, json.Unmarshal(fundParams[1], &fundOpts))
		assert.Equal(t, float64(1), fundOpts["fee_rate"])
		assert.Equal(t, true, fundOpts["replaceable"])
	}
}

func TestSendBitcoinErrors(t *testing.T) {
	server := newFakeNode(t, map[string]rpcHandler{
		"createrawtransaction": func([]json.RawMessage) (interface{}, *btcjson.RPCError) {
			return "00", nil
		},
		"fundrawtransaction": func([]json.RawMessage) (interface{}, *btcjson.RPCError) {
			return nil, btcjson.NewRPCError(btcjson.ErrRPCWalletInsufficientFunds, "Insufficient funds")
		},
	})
	wallet := newTestWallet(t, server)

	_, err := wallet.SendBitcoin(context.Background(), testAddress, int64(60000), types.PaymentOptions{})
	var providerErr *types.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, types.ProviderCodeInternal, providerErr.Code)
	assert.Equal(t, "Insufficient funds", providerErr.Message)

	_, err = wallet.SendBitcoin(context.Background(), "not-an-address", int64(60000), types.PaymentOptions{})
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, int(btcjson.ErrRPCInvalidAddressOrKey), providerErr.Code)

	_, err = wallet.SendBitcoin(context.Background(), testAddress, true, types.PaymentOptions{})
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, int(btcjson.ErrRPCInvalidParameter), providerErr.Code)
}

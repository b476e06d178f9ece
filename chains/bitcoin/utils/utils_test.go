package utils

import (
	"encoding/json"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOtaPrefix(t *testing.T) {
	assert.Equal(t, "tb1", TestnetOtaPrefix)
	assert.Equal(t, "bc1", OtaPrefix(&chaincfg.MainNetParams))

	assert.True(t, HasOtaPrefix("tb1psrhm8vtwhq86galup86xq26dtxt3jflggvmkq7tpcxr25r1mm31qk6kpk8", TestnetOtaPrefix))
	assert.False(t, HasOtaPrefix("addr_test1qz2fxv2umyhttkxyxp8x0dlpdt3k6cwng5pxj3jhsydzer3jcu5d8ps7zex2k2xt3uqxgjqnnj83ws8lhrn648jjxtwq2ytjqp", TestnetOtaPrefix))
	assert.False(t, HasOtaPrefix("", TestnetOtaPrefix))
	assert.False(t, HasOtaPrefix("tb1abc", ""))
}

func TestParseBalance(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want btcutil.Amount
	}{
		{name: "nil", raw: nil, want: 0},
		{name: "float", raw: float64(12345), want: 12345},
		{name: "int", raw: 500, want: 500},
		{name: "int64", raw: int64(700), want: 700},
		{name: "uint64", raw: uint64(800), want: 800},
		{name: "string", raw: " 900 ", want: 900},
		{name: "confirmed wins", raw: map[string]interface{}{"confirmed": float64(10), "total": float64(20), "amount": float64(30)}, want: 10},
		{name: "total before amount", raw: map[string]interface{}{"total": float64(20), "amount": float64(30)}, want: 20},
		{name: "amount", raw: map[string]interface{}{"amount": float64(30)}, want: 30},
		{name: "unknown object", raw: map[string]interface{}{"unconfirmed": float64(30)}, want: 0},
		{name: "json object", raw: json.RawMessage(`{"confirmed":60000,"unconfirmed":0,"total":60000}`), want: 60000},
		{name: "json number", raw: []byte(`42`), want: 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBalance(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseBalance(true)
	assert.Error(t, err)

	_, err = ParseBalance(json.RawMessage(`{`))
	assert.Error(t, err)
}

func TestFormatBTC(t *testing.T) {
	assert.Equal(t, "0.0006", FormatBTC(60000))
	assert.Equal(t, "1", FormatBTC(100_000_000))
	assert.Equal(t, "0", FormatBTC(0))
}

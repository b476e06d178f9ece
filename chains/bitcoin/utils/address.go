package utils

import (
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

// OtaPrefix returns the lexical prefix of one-time addresses on a network:
// the segwit human-readable part followed by the bech32 separator.
func OtaPrefix(params *chaincfg.Params) string {
	return params.Bech32HRPSegwit + "1"
}

// TestnetOtaPrefix is the one-time address prefix on Bitcoin testnet ("tb1").
var TestnetOtaPrefix = OtaPrefix(&chaincfg.TestNet3Params)

// HasOtaPrefix reports whether address starts with prefix. An empty prefix never matches.
func HasOtaPrefix(address, prefix string) bool {
	return prefix != "" && strings.HasPrefix(address, prefix)
}

package types

// ChainType represents the chains the bridge moves value between.
type ChainType string

const (
	// BTC represents the Bitcoin test network, the source chain.
	BTC ChainType = "BTC"
	// ADA represents the Cardano preprod network, the destination chain.
	ADA ChainType = "ADA"
	// UNKNOWN represents unknown or unsupported chain type in the system.
	UNKNOWN ChainType = "UNKNOWN"
)

// String converts ChainType to string representation
func (t ChainType) String() string {
	return string(t)
}

// ParseChainType converts string to ChainType representation.
func ParseChainType(s string) ChainType {
	switch s {
	case BTC.String():
		return BTC
	case ADA.String():
		return ADA
	default:
		return UNKNOWN
	}
}

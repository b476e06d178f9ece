package bridge

import (
	"encoding/hex"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// NativeTokenID is the token identifier of a chain's native coin: the zero address.
func NativeTokenID() string {
	return common.Address{}.Hex()
}

// CardanoAssetTokenID encodes a Cardano native asset as the bridge expects it:
// the 0x-prefixed hex of "<policyID>.<hex(assetName)>".
//
// Parameters:
// - policyID: the hex minting policy id.
// - assetName: the asset name as text.
//
// Returns:
// - string: the token identifier.
func CardanoAssetTokenID(policyID, assetName string) string {
	return hexutil.Encode([]byte(policyID + "." + hex.EncodeToString([]byte(assetName))))
}

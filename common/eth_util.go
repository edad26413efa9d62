package common

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrInvalidAddress is returned by ParseAddress for anything that is not a
// 20 byte hex address.
var ErrInvalidAddress = fmt.Errorf("invalid address")

func HexToHash(hex string) common.Hash {
	return common.HexToHash(hex)
}

// ParseAddress is the strict counterpart of common.HexToAddress: it fails
// instead of silently truncating or zero padding malformed input.
func ParseAddress(hex string) (common.Address, error) {
	if !common.IsHexAddress(hex) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, hex)
	}
	return common.HexToAddress(hex), nil
}

func IsZeroAddress(addr common.Address) bool {
	return addr == common.Address{}
}

// RawTxToHash returns the transaction hash of a hex encoded signed tx.
func RawTxToHash(data string) string {
	return crypto.Keccak256Hash(hexutil.MustDecode(data)).Hex()
}

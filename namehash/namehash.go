// Package namehash implements the hierarchical name hashing scheme used to
// key name records in the registry and resolver contracts.
package namehash

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// NameHash folds the labels of name into a 32 byte node identifier.
//
// Labels are processed from the rightmost (the TLD) to the leftmost. At each
// step the keccak256 hash of the label is appended to the running node and
// the concatenation is hashed again. The empty name maps to the zero node.
//
//	namehash("")          = 0x0000...0000
//	namehash("nexus")     = keccak256(0x00..00 ++ keccak256("nexus"))
//	namehash("foo.nexus") = keccak256(namehash("nexus") ++ keccak256("foo"))
//
// The function does not normalize its input, callers are expected to pass
// an already validated, lowercased name.
func NameHash(name string) common.Hash {
	node := common.Hash{}
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		node = Subnode(node, LabelHash(labels[i]))
	}
	return node
}

// LabelHash returns keccak256 of the raw label bytes.
func LabelHash(label string) common.Hash {
	return crypto.Keccak256Hash([]byte(label))
}

// Subnode derives the node of a child label under parent.
func Subnode(parent, labelHash common.Hash) common.Hash {
	return crypto.Keccak256Hash(parent.Bytes(), labelHash.Bytes())
}

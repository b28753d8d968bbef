// Package chain defines the primitives and collaborator contracts shared by
// the marketplace and mint subsystems: 20-byte account addresses, the
// asset-authority capability interface, the randomness oracle protocol, and
// in-process implementations of both for local use and tests.
package chain

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// AddressSize is the length of an account address in bytes.
const AddressSize = 20

// Address identifies an account or contract.
type Address [AddressSize]byte

// ZeroAddress is the all-zero address. It never owns assets.
var ZeroAddress Address

// String returns the 0x-prefixed lowercase hex form of the address.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// IsZero reports whether the address is the zero address.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// HexToAddress parses a 0x-prefixed or bare 40-character hex string.
func HexToAddress(s string) (Address, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != AddressSize*2 {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}

	raw, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}

	var a Address
	copy(a[:], raw)
	return a, nil
}

// NamedAddress derives a stable address from a label by taking the last 20
// bytes of keccak256(label). Used to mint well-known contract addresses for
// in-process components.
func NamedAddress(label string) Address {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(label))
	sum := h.Sum(nil)

	var a Address
	copy(a[:], sum[len(sum)-AddressSize:])
	return a
}

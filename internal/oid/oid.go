// Package oid derives stable object identifier tuples from ASCII
// command mnemonics.
//
// The receivers resolve mnemonics like "sso" or "snu" against their
// management information base. Off-receiver we only need the mapping
// to be deterministic and collision-resistant enough to round-trip a
// command through a stream, so the tuple is taken from the xxHash64
// of the mnemonic.
package oid

import "github.com/cespare/xxhash/v2"

// Tuple is the raw six-byte object identifier derived from a
// mnemonic.
type Tuple [6]byte

// Derive computes the identifier tuple for a command mnemonic.
func Derive(mnemonic string) Tuple {
	sum := xxhash.Sum64String(mnemonic)

	var t Tuple
	for i := range t {
		t[i] = byte(sum >> (8 * i))
	}

	return t
}

// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 keyed hash of the bytes a Config was
// decoded from. Two loads of an unchanged file have equal digests.
type Digest [32]byte

// digestDomainKey is "fanctl.config" zero-padded to the 32 bytes
// BLAKE3 keyed mode requires.
var digestDomainKey = [32]byte{
	'f', 'a', 'n', 'c', 't', 'l', '.', 'c', 'o', 'n', 'f', 'i', 'g', 0, 0, 0,
}

// DigestOf hashes a raw configuration document.
func DigestOf(data []byte) Digest {
	// NewKeyed only fails for a key that is not 32 bytes.
	hasher, err := blake3.NewKeyed(digestDomainKey[:])
	if err != nil {
		panic("config: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// String returns the lowercase hex encoding.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether d was never set, as for a Config built in
// code rather than parsed.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides fanctl's CBOR encoding configuration for
// on-disk state files.
//
// The command protocol is JSON (see lib/command) because clients and
// scripts read it directly. State that only the daemon reads back, such
// as the control lease in lib/lease, is CBOR. The encoder uses Core
// Deterministic Encoding (RFC 8949 §4.2): sorted map keys, smallest
// integer encoding, no indefinite-length items, so the same state
// always produces the same bytes.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Types that are only ever CBOR use `cbor` struct tags.
package codec

// Package ident canonicalises identifiers returned by the PNS subgraph.
//
// The subgraph serialises account addresses and domain token ids as hex strings
// without leading zeros, so the same entity can appear as "0x1ab" in one query
// and "0x00...01ab" in another. Every identifier is normalised to a fixed width
// before it is used as a map key or compared.
//
// # Widths
//
//   - AccountWidth (42): "0x" + 40 hex digits.
//   - DomainWidth (66): "0x" + 64 hex digits.
//
// # Usage
//
//	id, err := ident.Account("0x1ab")
//	// id == "0x00000000000000000000000000000000000001ab"
package ident

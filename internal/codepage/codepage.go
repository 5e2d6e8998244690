// This file is part of https://github.com/racingmars/tn3270/
// Copyright 2020, 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

// Package codepage implements the single-byte EBCDIC<->Unicode mappings
// used on the 3270 wire. The 3270 data stream only cares that some
// consistent mapping is applied in both directions; the exact assignment of
// code points is an external detail (tn3270.Codepage is only an interface),
// so this package keeps its table data self-contained rather than depending
// on an outside charset library.
package codepage

import "unicode/utf8"

// codepage is a simple, bidirectional single-byte character set: an array
// for EBCDIC->Unicode and a map for Unicode->EBCDIC.
type codepage struct {
	// e2u maps EBCDIC byte values 0x00-0xFF to Unicode code points.
	e2u [256]rune

	// u2e maps Unicode code points back to EBCDIC bytes.
	u2e map[rune]byte

	// esub is the EBCDIC byte substituted for code points this codepage
	// cannot represent.
	esub byte

	id string
}

// Decode converts a slice of EBCDIC bytes into a UTF-8 string.
func (cp *codepage) Decode(e []byte) string {
	runes := make([]rune, len(e))
	for i, b := range e {
		runes[i] = cp.e2u[b]
	}
	return string(runes)
}

// Encode converts a UTF-8 string into a slice of EBCDIC bytes. Unicode
// scalars this codepage cannot represent become esub; the caller (the
// order codec) is responsible for ensuring the resulting byte is never a
// 3270 control code (< 0x40).
func (cp *codepage) Encode(s string) []byte {
	out := make([]byte, 0, len(s))
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size <= 1 {
			if size == 0 {
				break
			}
			out = append(out, cp.esub)
			s = s[size:]
			continue
		}
		if v, ok := cp.u2e[r]; ok {
			out = append(out, v)
		} else {
			out = append(out, cp.esub)
		}
		s = s[size:]
	}
	return out
}

func (cp *codepage) ID() string {
	return cp.id
}

func newCodepage(id string, e2u [256]rune, esub byte) *codepage {
	u2e := make(map[rune]byte, 256)
	for b, r := range e2u {
		// First printable byte (0x40 and up) claiming a code point wins,
		// so the identity-mapped control range doesn't clobber the
		// canonical byte for a rune like ' ' or '0'.
		if existing, exists := u2e[r]; !exists || (existing < 0x40 && b >= 0x40) {
			u2e[r] = byte(b)
		}
	}
	return &codepage{e2u: e2u, u2e: u2e, esub: esub, id: id}
}

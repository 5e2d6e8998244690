// This file is part of https://github.com/racingmars/tn3270/
// Copyright 2020, 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

import "github.com/racingmars/tn3270/internal/codepage"

// Codepage implementations provide EBCDIC<->UTF-8 translation for
// everything that ends up in a SendText order: the SBCS codec of the 3270
// data stream. By default, tn3270 is configured to use CP 037, the wire
// encoding the 3270 data stream mandates. You may set a different codepage
// globally with SetCodepage, or per-call by setting Session.Codepage.
type Codepage interface {
	// Decode converts a slice of EBCDIC bytes into a UTF-8 string.
	Decode(e []byte) string

	// Encode converts a UTF-8 string into a slice of EBCDIC bytes. A
	// Unicode scalar this codepage can't represent becomes the codepage's
	// substitute byte (0x40, space, for Codepage037) rather than an error.
	Encode(s string) []byte

	// ID returns the name of this codepage, usually a numeric string like
	// "037".
	ID() string
}

// defaultCodepage is CP 037, per the 3270 data stream's wire encoding
// requirement. Unlike suite3270 and most mainframe-adjacent software, this
// library doesn't default to CP1047 -- there's exactly one codepage the
// wire format demands, so that's what ships as the default.
var defaultCodepage Codepage = Codepage037()

// SetCodepage sets the codepage/character set that tn3270 uses by default.
// This is a global setting: if you need different codepages for different
// connections, set Session.Codepage on the affected session instead, and
// leave this one alone.
func SetCodepage(cs Codepage) {
	defaultCodepage = cs
}

// Codepage037 returns the IBM CP 037 codepage, the default.
func Codepage037() Codepage { return codepage.Codepage037 }

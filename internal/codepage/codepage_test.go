// This file is part of https://github.com/racingmars/tn3270/
// Copyright 2020, 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package codepage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCP037KnownMappings(t *testing.T) {
	cases := []struct {
		ch byte
		r  rune
	}{
		{0xC1, 'A'},
		{0xC8, 'H'},
		{0x89, 'i'},
		{0xD3, 'L'},
		{0xC3, 'C'},
		{0xC5, 'E'},
		{0x40, ' '},
	}

	for _, c := range cases {
		assert.Equal(t, string(c.r), Codepage037.Decode([]byte{c.ch}))
		assert.Equal(t, []byte{c.ch}, Codepage037.Encode(string(c.r)))
	}
}

func TestCP037EncodeUnsupportedRuneUsesSubstitute(t *testing.T) {
	assert.Equal(t, []byte{0x40}, Codepage037.Encode("中"))
}

func TestCP037ID(t *testing.T) {
	assert.Equal(t, "037", Codepage037.ID())
}

// This file is part of https://github.com/racingmars/tn3270/
// Copyright 2020, 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeometryEncodeDecode(t *testing.T) {
	geo := DefaultGeometry

	cases := []struct {
		row, col int
		addr     uint16
	}{
		{0, 0, 0},
		{11, 39, 919},
		{23, 79, 1919},
		{9, 4, 724},
	}

	for _, c := range cases {
		assert.Equal(t, c.addr, geo.EncodeAddress(c.row, c.col))
		row, col := geo.DecodeAddress(c.addr)
		assert.Equal(t, c.row, row)
		assert.Equal(t, c.col, col)
	}
}

func TestParseAddr14Bit(t *testing.T) {
	addr, err := parseAddr(0x00, 0x00)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0), addr)

	addr, err = parseAddr(0x07, 0x7F)
	assert.NoError(t, err)
	assert.Equal(t, uint16(1919), addr)
}

func TestParseAddr12Bit(t *testing.T) {
	// 0x4B = 0b01_001011 -> top bits 01, low 6 bits 0x0B.
	// 0xD4 = 0b11_010100 -> low 6 bits 0x14.
	addr, err := parseAddr(0x4B, 0xD4)
	assert.NoError(t, err)
	assert.Equal(t, uint16(724), addr)

	row, col := DefaultGeometry.DecodeAddress(addr)
	assert.Equal(t, 9, row)
	assert.Equal(t, 4, col)
}

func TestParseAddrUnsupportedPrefixIsInvalidData(t *testing.T) {
	_, err := parseAddr(0x80, 0x00)
	assert.Error(t, err)
	var sfe *StreamFormatError
	assert.ErrorAs(t, err, &sfe)
	assert.Equal(t, ErrInvalidData, sfe.Kind)
}

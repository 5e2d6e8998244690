// This file is part of https://github.com/racingmars/tn3270/
// Copyright 2020, 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAIDRoundTripOverDefinedBytes(t *testing.T) {
	for b, want := range validAIDs {
		got, err := aidFromWire(b)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, b, byte(got))
	}
	assert.Len(t, validAIDs, 39)
}

func TestAIDUndefinedByteIsInvalidAID(t *testing.T) {
	for _, b := range []byte{0x00, 0x01, 0xFF, 0x80} {
		_, err := aidFromWire(b)
		assert.Error(t, err)
		var sfe *StreamFormatError
		assert.ErrorAs(t, err, &sfe)
		assert.Equal(t, ErrInvalidAID, sfe.Kind)
		assert.Equal(t, b, sfe.AID)
	}
}

func TestCP037RoundTripASCIIPrintable(t *testing.T) {
	cp := Codepage037()
	for c := rune(' '); c <= rune('~'); c++ {
		encoded := cp.Encode(string(c))
		if len(encoded) != 1 {
			continue
		}
		decoded := cp.Decode(encoded)
		assert.Equal(t, string(c), decoded, "round-trip broke for %q", c)
	}
}

func TestExtendedFieldAttributeRoundTrip(t *testing.T) {
	cases := []ExtendedFieldAttribute{
		AllAttributesEFA(),
		FieldAttributeEFA(FAProtected),
		ExtendedHighlightingEFA(HighlightingBlink),
		ForegroundColorEFA(ColorRed),
		BackgroundColorEFA(ColorBlue),
		TransparencyEFA(TransparencyOr),
		FieldValidationEFA(FVMandatoryFill),
		FieldOutliningEFA(FOUnderline | FORight),
	}

	for _, efa := range cases {
		typ, val := efa.encoded()
		back, err := extendedFieldAttributeFromWire(typ, val)
		assert.NoError(t, err)
		assert.Equal(t, efa, back)
	}
}

func TestGeometryEncodeDecodeAllCells(t *testing.T) {
	geo := DefaultGeometry
	for row := 0; row < geo.Height; row++ {
		for col := 0; col < geo.Width; col++ {
			addr := geo.EncodeAddress(row, col)
			r, c := geo.DecodeAddress(addr)
			assert.Equal(t, row, r)
			assert.Equal(t, col, c)
		}
	}
}

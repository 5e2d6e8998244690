// This file is part of https://github.com/racingmars/tn3270/
// Copyright 2020, 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileScreenSkipsOutOfBoundsFields(t *testing.T) {
	screen := Screen{
		{Row: 0, Col: 0, Content: "ok"},
		{Row: 99, Col: 0, Content: "dropped"},
		{Row: 0, Col: -1, Content: "dropped"},
	}

	cmd := compileScreen(screen, DefaultGeometry, Codepage037())
	require.Len(t, cmd.Orders, 4) // SBA, SFE, SendText, terminating SF
	assert.Equal(t, OSendText, cmd.Orders[2].Kind)
	assert.Equal(t, "ok", cmd.Orders[2].Text)
}

func TestCompileScreenReadOnlyVsWritable(t *testing.T) {
	screen := Screen{
		{Row: 0, Col: 0, Content: "ro"},
		{Row: 1, Col: 0, Content: "", Write: true, Name: "input"},
	}
	cmd := compileScreen(screen, DefaultGeometry, Codepage037())

	roAttrs := cmd.Orders[1].ExtendedAttrs
	require.Len(t, roAttrs, 1)
	assert.True(t, roAttrs[0].FieldAttribute.Has(FAProtected))

	// Writable field: SBA, SFE (no SendText since Content is empty), SF.
	rwAttrs := cmd.Orders[5].ExtendedAttrs
	require.Len(t, rwAttrs, 1)
	assert.False(t, rwAttrs[0].FieldAttribute.Has(FAProtected))
}

func TestDecodeResponseMapsTextToField(t *testing.T) {
	screen := Screen{
		{Row: 0, Col: 0, Content: "Name:"},
		{Row: 0, Col: 10, Write: true, Name: "name"},
	}
	geo := DefaultGeometry

	in := IncomingRecord{
		AID:  AIDEnter,
		Addr: geo.EncodeAddress(0, 15),
		Orders: []WriteOrder{
			SetBufferAddressOrder(geo.EncodeAddress(0, 11)),
			SendTextOrder("ALICE"),
		},
	}

	result := decodeResponse(screen, geo, in)
	assert.Equal(t, AIDEnter, result.AID)
	assert.Equal(t, "ALICE", result.Values["name"])
}

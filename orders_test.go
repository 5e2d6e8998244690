// This file is part of https://github.com/racingmars/tn3270/
// Copyright 2020, 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

import (
	"bytes"
	"errors"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioMinimalWrite(t *testing.T) {
	cmd := WriteCommand{
		Command: Write,
		WCC:     WCCResetMDT | WCCKBDRestore,
		Orders: []WriteOrder{
			SetBufferAddressOrder(0),
			SendTextOrder("A"),
		},
	}
	got := cmd.Serialize(Codepage037())
	want := []byte{0xF1, 0xC3, 0x11, 0x00, 0x00, 0xC1}
	assert.Equal(t, want, got)
}

func TestScenarioEraseWriteFieldFrame(t *testing.T) {
	cmd := WriteCommand{
		Command: EraseWrite,
		WCC:     WCCResetMDT | WCCKBDRestore,
		Orders: []WriteOrder{
			SetBufferAddressOrder(0),
			EraseUnprotectedToAddressOrder(DefaultGeometry.LastAddress()),
			SetBufferAddressOrder(DefaultGeometry.EncodeAddress(1, 31)),
			StartFieldExtendedOrder(FieldAttributeEFA(FAProtected)),
			SendTextOrder("Hi"),
		},
	}
	got := cmd.Serialize(Codepage037())

	// F5 C3 11 00 00 12 07 7F 11 00 6F 29 01 C0 <attr> C8 89.
	// <attr> is translate6(FAProtected & 0x3f): 0x60, computed consistently
	// with the WCC byte and with classic StartField's translation table.
	want := []byte{0xF5, 0xC3, 0x11, 0x00, 0x00, 0x12, 0x07, 0x7F, 0x11, 0x00, 0x6F,
		0x29, 0x01, 0xC0, 0x60, 0xC8, 0x89}
	assert.Equal(t, want, got)
}

func TestScenarioReadModifiedReply(t *testing.T) {
	wire := []byte{0x7D, 0x4B, 0xD4, 0x11, 0x00, 0xC9, 0xC1, 0xD3, 0xC9, 0xC3, 0xC5}
	rec, err := ParseIncomingRecord(wire, Codepage037())
	require.NoError(t, err)

	assert.Equal(t, AIDEnter, rec.AID)
	// The cursor bytes 4B D4 decode to 724 under the 12-bit form (see
	// TestParseAddr12Bit).
	assert.Equal(t, uint16(724), rec.Addr)

	require.Len(t, rec.Orders, 2)
	assert.Equal(t, OSetBufferAddress, rec.Orders[0].Kind)
	assert.Equal(t, uint16(201), rec.Orders[0].Address)
	assert.Equal(t, OSendText, rec.Orders[1].Kind)
	assert.Equal(t, "ALICE", rec.Orders[1].Text)
}

func TestScenarioInvalidAID(t *testing.T) {
	_, err := ParseIncomingRecord([]byte{0x01, 0x00, 0x00}, Codepage037())
	require.Error(t, err)

	var sfe *StreamFormatError
	require.True(t, errors.As(err, &sfe))
	assert.Equal(t, ErrInvalidAID, sfe.Kind)
	assert.Equal(t, byte(0x01), sfe.AID)
}

func TestWriteCommandRoundTrip(t *testing.T) {
	cmd := WriteCommand{
		Command: EraseWrite,
		WCC:     WCCResetMDT | WCCKBDRestore,
		Orders: []WriteOrder{
			SetBufferAddressOrder(0),
			StartFieldExtendedOrder(FieldAttributeEFA(FAProtected)),
			SendTextOrder("Hello"),
			SetBufferAddressOrder(100),
			StartFieldExtendedOrder(FieldAttributeEFA(FANone)),
			SendTextOrder("World"),
		},
	}

	out := cmd.Serialize(Codepage037())
	// Parsing an outbound record requires an AID + address prefix; prepend
	// a synthetic one and parse the remainder through the order loop by
	// reusing ParseIncomingRecord's order-stream logic.
	wire := append([]byte{byte(AIDEnter), 0x00, 0x00}, out[2:]...)

	rec, err := ParseIncomingRecord(wire, Codepage037())
	require.NoError(t, err)

	require.Len(t, rec.Orders, 6)
	assert.Equal(t, "Hello", rec.Orders[2].Text)
	assert.Equal(t, "World", rec.Orders[5].Text)
}

func TestParseIncomingRecordNeverPanics(t *testing.T) {
	f := func(b []byte) bool {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("ParseIncomingRecord panicked on %x: %v", b, r)
			}
		}()
		_, _ = ParseIncomingRecord(b, Codepage037())
		return true
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 2000}); err != nil {
		t.Error(err)
	}
}

func TestIACEscapeRoundTrip(t *testing.T) {
	payload := []byte{0x01, 0xFF, 0x02, 0xFF, 0xFF}

	var escaped bytes.Buffer
	for _, b := range payload {
		escaped.WriteByte(b)
		if b == 0xFF {
			escaped.WriteByte(0xFF)
		}
	}
	escaped.Write([]byte{0xFF, 0xEF})

	// Re-assemble by reversing the doubling, stopping at IAC EOR.
	raw := escaped.Bytes()
	var rebuilt []byte
	for i := 0; i < len(raw); i++ {
		if raw[i] == 0xFF {
			if raw[i+1] == 0xEF {
				break
			}
			rebuilt = append(rebuilt, 0xFF)
			i++
			continue
		}
		rebuilt = append(rebuilt, raw[i])
	}
	assert.Equal(t, payload, rebuilt)
}

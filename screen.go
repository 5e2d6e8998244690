// This file is part of https://github.com/racingmars/tn3270/
// Copyright 2020, 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

import "time"

// Field is one field on a 3270 screen.
type Field struct {
	// Row and Col are the 0-based position of the field's attribute byte.
	// With the default 80x24 geometry, Row must be 0-23 and Col 0-79.
	Row, Col int

	// Content is the field's text, translated through the session
	// codepage on presentation.
	Content string

	// Write allows the user to edit the field's value. Read-only fields
	// are sent with FAProtected set.
	Write bool

	// Intense displays the field with high intensity.
	Intense bool

	// Name identifies the field in the Values map a Present response
	// returns. Required for any field with Write set; Present ignores it
	// otherwise, though HandleScreen also uses it to fill read-only fields
	// from its values map and to find its error field.
	Name string
}

// Screen is an ordered collection of Fields presented together.
type Screen []Field

// PresentResult is what the client sent back after a Screen was presented:
// which AID key ended the interaction, where the cursor was, and the
// current content of every read-write field, keyed by Field.Name.
type PresentResult struct {
	AID    AID
	Row    int
	Col    int
	Values map[string]string
}

// Present compiles screen into a WriteCommand, sends it over s, then
// blocks for the client's response and decodes it back into field values.
// Fields outside the session's geometry are silently skipped, matching the
// original library's tolerance for caller mistakes. cursorRow/cursorCol
// place the cursor after the screen is drawn; out-of-bounds values are
// clamped to (0, 0).
//
// Screens are presented one at a time per session: calling Present again
// before the previous call returns is a programming error, not something
// this method guards against, since a Session is already documented as
// single-owner.
func (s *Session) Present(screen Screen, cursorRow, cursorCol int, timeout time.Duration) (PresentResult, error) {
	cp := s.Codepage
	geo := s.Geometry

	cmd := compileScreen(screen, geo, cp)
	if cursorRow < 0 || cursorRow >= geo.Height || cursorCol < 0 || cursorCol >= geo.Width {
		cursorRow, cursorCol = 0, 0
	}
	cmd.Orders = append(cmd.Orders, InsertCursorOrder(geo.EncodeAddress(cursorRow, cursorCol)))
	if err := s.SendRecord(cmd.Serialize(cp)); err != nil {
		return PresentResult{}, err
	}

	record, ok, err := s.ReceiveRecord(timeout)
	if err != nil {
		return PresentResult{}, err
	}
	if !ok {
		return PresentResult{}, newStreamFormatError(ErrUnexpectedEOR, 0)
	}

	in, err := ParseIncomingRecord(record, cp)
	if err != nil {
		return PresentResult{}, err
	}

	return decodeResponse(screen, geo, in), nil
}

// compileScreen builds the WriteCommand for screen per the compile phase:
// for every field, in order, SetBufferAddress, StartFieldExtended carrying
// exactly one FieldAttribute (PROTECTED set iff the field is read-only),
// the field's text, and a terminating protected StartField so the client
// can't type into the gap before the next field.
func compileScreen(screen Screen, geo Geometry, cp Codepage) WriteCommand {
	var orders []WriteOrder

	for _, f := range screen {
		if f.Row < 0 || f.Row >= geo.Height || f.Col < 0 || f.Col >= geo.Width {
			continue
		}

		fa := FANone
		if !f.Write {
			fa = fa.With(FAProtected, true)
		}
		if f.Intense {
			fa = fa.With(FAIntenseSelectorPenDetectable, true)
		}

		addr := geo.EncodeAddress(f.Row, f.Col)
		orders = append(orders, SetBufferAddressOrder(addr))
		orders = append(orders, StartFieldExtendedOrder(FieldAttributeEFA(fa)))
		if f.Content != "" {
			orders = append(orders, SendTextOrder(f.Content))
		}
		orders = append(orders, StartFieldOrder(FAProtected))
	}

	return WriteCommand{
		Command: EraseWrite,
		WCC:     WCCResetMDT | WCCKBDRestore,
		Orders:  orders,
	}
}

// decodeResponse walks the parsed response orders maintaining a running
// cursor, and for every SendText at position p looks for the field whose
// attribute byte occupies p-1 -- the cell immediately before the text,
// since the field's attribute byte consumes the address the field was
// declared at.
func decodeResponse(screen Screen, geo Geometry, in IncomingRecord) PresentResult {
	result := PresentResult{
		AID:    in.AID,
		Values: make(map[string]string),
	}
	result.Row, result.Col = geo.DecodeAddress(in.Addr)

	fieldByAddr := make(map[uint16]*Field, len(screen))
	for i := range screen {
		f := &screen[i]
		if f.Row < 0 || f.Row >= geo.Height || f.Col < 0 || f.Col >= geo.Width {
			continue
		}
		fieldByAddr[geo.EncodeAddress(f.Row, f.Col)] = f
		if f.Write && f.Name != "" {
			// Fields the client didn't send back keep their presented content.
			result.Values[f.Name] = f.Content
		}
	}

	var cursor uint16
	for _, o := range in.Orders {
		switch o.Kind {
		case OSetBufferAddress:
			cursor = o.Address
		case OSendText:
			if cursor == 0 {
				continue
			}
			if f, ok := fieldByAddr[cursor-1]; ok && f.Write && f.Name != "" {
				result.Values[f.Name] = o.Text
			}
			cursor += uint16(len([]rune(o.Text)))
		}
	}

	return result
}

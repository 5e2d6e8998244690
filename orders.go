// This file is part of https://github.com/racingmars/tn3270/
// Copyright 2020, 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

// 3270 write command bytes (GA23-0059).
const (
	cmdWrite                = 0xF1
	cmdEraseWrite           = 0xF5
	cmdEraseWriteAlternate  = 0x7E
	cmdEraseAllUnprotected  = 0x6F
	cmdWriteStructuredField = 0xF3
)

// Write order opcodes (GA23-0059).
const (
	orderStartField                = 0x1D
	orderStartFieldExtended        = 0x29
	orderSetBufferAddress          = 0x11
	orderSetAttribute              = 0x28
	orderModifyField               = 0x2C
	orderInsertCursor              = 0x13
	orderProgramTab                = 0x05
	orderRepeatToAddress           = 0x3C
	orderEraseUnprotectedToAddress = 0x12
	orderGraphicEscape             = 0x08
)

// WriteCommandCode selects which 3270 write command a WriteCommand uses.
type WriteCommandCode int

const (
	Write WriteCommandCode = iota
	EraseWrite
	EraseWriteAlternate
	EraseAllUnprotected
	WriteStructuredField
)

func (c WriteCommandCode) wire() byte {
	switch c {
	case Write:
		return cmdWrite
	case EraseWrite:
		return cmdEraseWrite
	case EraseWriteAlternate:
		return cmdEraseWriteAlternate
	case EraseAllUnprotected:
		return cmdEraseAllUnprotected
	case WriteStructuredField:
		return cmdWriteStructuredField
	default:
		return cmdWrite
	}
}

// OrderKind tags which variant of WriteOrder a value holds.
type OrderKind int

const (
	OStartField OrderKind = iota
	OStartFieldExtended
	OSetBufferAddress
	OSetAttribute
	OModifyField
	OInsertCursor
	OProgramTab
	ORepeatToAddress
	OEraseUnprotectedToAddress
	OGraphicEscape
	OSendText
)

// WriteOrder is one element of a WriteCommand's order stream. It is a
// tagged sum: exactly the fields relevant to Kind are meaningful.
type WriteOrder struct {
	Kind OrderKind

	// StartField
	FieldAttribute FieldAttribute

	// StartFieldExtended, SetAttribute (single-element), ModifyField
	ExtendedAttrs []ExtendedFieldAttribute

	// SetBufferAddress, InsertCursor, RepeatToAddress,
	// EraseUnprotectedToAddress
	Address uint16

	// RepeatToAddress, GraphicEscape
	Char byte

	// SendText
	Text string
}

// StartFieldOrder constructs a StartField order.
func StartFieldOrder(fa FieldAttribute) WriteOrder {
	return WriteOrder{Kind: OStartField, FieldAttribute: fa}
}

// StartFieldExtendedOrder constructs a StartFieldExtended order. attrs
// must include at least one FieldAttribute variant, since a field can't
// exist without basic attributes; the serializer does not validate this,
// but the parser enforces it on input.
func StartFieldExtendedOrder(attrs ...ExtendedFieldAttribute) WriteOrder {
	return WriteOrder{Kind: OStartFieldExtended, ExtendedAttrs: attrs}
}

// SetBufferAddressOrder constructs a SetBufferAddress order.
func SetBufferAddressOrder(addr uint16) WriteOrder {
	return WriteOrder{Kind: OSetBufferAddress, Address: addr}
}

// SetAttributeOrder constructs a SetAttribute order.
func SetAttributeOrder(attr ExtendedFieldAttribute) WriteOrder {
	return WriteOrder{Kind: OSetAttribute, ExtendedAttrs: []ExtendedFieldAttribute{attr}}
}

// ModifyFieldOrder constructs a ModifyField order.
func ModifyFieldOrder(attrs ...ExtendedFieldAttribute) WriteOrder {
	return WriteOrder{Kind: OModifyField, ExtendedAttrs: attrs}
}

// InsertCursorOrder constructs an InsertCursor order.
func InsertCursorOrder(addr uint16) WriteOrder {
	return WriteOrder{Kind: OInsertCursor, Address: addr}
}

// ProgramTabOrder constructs a ProgramTab order.
func ProgramTabOrder() WriteOrder {
	return WriteOrder{Kind: OProgramTab}
}

// RepeatToAddressOrder constructs a RepeatToAddress order.
func RepeatToAddressOrder(addr uint16, ch byte) WriteOrder {
	return WriteOrder{Kind: ORepeatToAddress, Address: addr, Char: ch}
}

// EraseUnprotectedToAddressOrder constructs an EraseUnprotectedToAddress order.
func EraseUnprotectedToAddressOrder(addr uint16) WriteOrder {
	return WriteOrder{Kind: OEraseUnprotectedToAddress, Address: addr}
}

// GraphicEscapeOrder constructs a GraphicEscape order.
func GraphicEscapeOrder(ch byte) WriteOrder {
	return WriteOrder{Kind: OGraphicEscape, Char: ch}
}

// SendTextOrder constructs a SendText order. An empty string is not a
// valid SendText order for serialization purposes -- the emitter simply
// writes nothing for it, since a length-0 run is never meaningful on the
// wire.
func SendTextOrder(text string) WriteOrder {
	return WriteOrder{Kind: OSendText, Text: text}
}

// serialize appends this order's wire encoding to output, using cp to
// translate any embedded text.
func (o WriteOrder) serialize(output []byte, cp Codepage) []byte {
	switch o.Kind {
	case OStartField:
		return append(output, orderStartField, o.FieldAttribute.wire())
	case OStartFieldExtended:
		output = append(output, orderStartFieldExtended, byte(len(o.ExtendedAttrs)))
		for _, a := range o.ExtendedAttrs {
			output = a.encodeInto(output)
		}
		return output
	case OSetBufferAddress:
		return appendAddr(output, orderSetBufferAddress, o.Address)
	case OSetAttribute:
		output = append(output, orderSetAttribute)
		if len(o.ExtendedAttrs) > 0 {
			output = o.ExtendedAttrs[0].encodeInto(output)
		} else {
			output = append(output, 0x00, 0x00)
		}
		return output
	case OModifyField:
		output = append(output, orderModifyField, byte(len(o.ExtendedAttrs)))
		for _, a := range o.ExtendedAttrs {
			output = a.encodeInto(output)
		}
		return output
	case OInsertCursor:
		return appendAddr(output, orderInsertCursor, o.Address)
	case OProgramTab:
		return append(output, orderProgramTab)
	case ORepeatToAddress:
		output = appendAddr(output, orderRepeatToAddress, o.Address)
		ch := cp.Encode(string(rune(o.Char)))
		if len(ch) == 0 {
			ch = []byte{0x40}
		}
		return append(output, ch[0])
	case OEraseUnprotectedToAddress:
		return appendAddr(output, orderEraseUnprotectedToAddress, o.Address)
	case OGraphicEscape:
		return append(output, orderGraphicEscape, o.Char)
	case OSendText:
		if o.Text == "" {
			return output
		}
		return append(output, encodeSendText(o.Text, cp)...)
	default:
		return output
	}
}

func appendAddr(output []byte, opcode byte, addr uint16) []byte {
	return append(output, opcode, byte(addr>>8), byte(addr&0xFF))
}

// encodeSendText translates text through cp, coercing any resulting byte
// below 0x40 to a space so SendText never emits an accidental control
// code.
func encodeSendText(text string, cp Codepage) []byte {
	raw := cp.Encode(text)
	for i, b := range raw {
		if b < 0x40 {
			raw[i] = 0x40
		}
	}
	return raw
}

// WriteCommand is a complete outbound 3270 write: a command byte, a WCC,
// and an ordered sequence of write orders.
type WriteCommand struct {
	Command WriteCommandCode
	WCC     WCC
	Orders  []WriteOrder
}

// Serialize produces the 3270 data stream bytes for this command, using cp
// to translate SendText/RepeatToAddress payloads. It does not include the
// telnet IAC EOR trailer -- that's added by Session.SendRecord.
func (c WriteCommand) Serialize(cp Codepage) []byte {
	if cp == nil {
		cp = defaultCodepage
	}
	out := make([]byte, 0, 32)
	out = append(out, c.Command.wire(), c.WCC.wire())
	for _, o := range c.Orders {
		out = o.serialize(out, cp)
	}
	return out
}

// IncomingRecord is the result of parsing a client's response: the
// attention identifier, the cursor's buffer address, and any orders the
// client included (normally SetBufferAddress/SendText/SetAttribute pairs
// from a standard Read Modified).
type IncomingRecord struct {
	AID    AID
	Addr   uint16
	Orders []WriteOrder
}

// parseAddr decodes a 2-byte buffer address using the encoding selected by
// the top two bits of the first byte: 00 selects the 14-bit form, 01 and 11
// both select the 12-bit form. The 10 prefix is unassigned by GA23-0059 and
// is rejected as invalid data rather than guessed at.
func parseAddr(b0, b1 byte) (uint16, error) {
	switch b0 >> 6 {
	case 0b00:
		return uint16(b0)<<8 | uint16(b1), nil
	case 0b01, 0b11:
		return uint16(b0&0x3F)<<6 | uint16(b1&0x3F), nil
	default:
		return 0, newStreamFormatError(ErrInvalidData, 0)
	}
}

// ParseIncomingRecord parses a full inbound 3270 record: AID byte, 2-byte
// cursor address, then a stream of orders. It parses the entire record in
// a single pass and never panics or reads out of bounds, returning a typed
// StreamFormatError instead. cp is used to decode any SendText/
// RepeatToAddress payload bytes; a nil cp uses the package default.
func ParseIncomingRecord(record []byte, cp Codepage) (IncomingRecord, error) {
	if cp == nil {
		cp = defaultCodepage
	}

	var rec IncomingRecord
	if len(record) < 3 {
		return rec, newStreamFormatError(ErrUnexpectedEOR, 0)
	}

	aid, err := aidFromWire(record[0])
	if err != nil {
		return rec, err
	}
	rec.AID = aid

	addr, err := parseAddr(record[1], record[2])
	if err != nil {
		return rec, err
	}
	rec.Addr = addr

	buf := record[3:]
	var pendingText []byte

	flushText := func() {
		if len(pendingText) > 0 {
			rec.Orders = append(rec.Orders, SendTextOrder(cp.Decode(pendingText)))
			pendingText = nil
		}
	}

	for len(buf) > 0 {
		op := buf[0]
		switch op {
		case orderStartField:
			flushText()
			if len(buf) < 2 {
				return rec, newStreamFormatError(ErrUnexpectedEOR, 0)
			}
			rec.Orders = append(rec.Orders, StartFieldOrder(fieldAttributeFromWire(buf[1])))
			buf = buf[2:]

		case orderStartFieldExtended:
			flushText()
			if len(buf) < 2 {
				return rec, newStreamFormatError(ErrUnexpectedEOR, 0)
			}
			count := int(buf[1])
			buf = buf[2:]
			if len(buf) < count*2 {
				return rec, newStreamFormatError(ErrUnexpectedEOR, 0)
			}
			attrs, rest, err := parseAttrPairs(buf, count)
			if err != nil {
				return rec, err
			}
			if !hasFieldAttribute(attrs) {
				return rec, newStreamFormatError(ErrInvalidData, 0)
			}
			rec.Orders = append(rec.Orders, WriteOrder{Kind: OStartFieldExtended, ExtendedAttrs: attrs})
			buf = rest

		case orderSetBufferAddress:
			flushText()
			if len(buf) < 3 {
				return rec, newStreamFormatError(ErrUnexpectedEOR, 0)
			}
			a, err := parseAddr(buf[1], buf[2])
			if err != nil {
				return rec, err
			}
			rec.Orders = append(rec.Orders, SetBufferAddressOrder(a))
			buf = buf[3:]

		case orderSetAttribute:
			flushText()
			if len(buf) < 3 {
				return rec, newStreamFormatError(ErrUnexpectedEOR, 0)
			}
			attr, err := extendedFieldAttributeFromWire(buf[1], buf[2])
			if err != nil {
				return rec, err
			}
			rec.Orders = append(rec.Orders, SetAttributeOrder(attr))
			buf = buf[3:]

		case orderModifyField:
			flushText()
			if len(buf) < 2 {
				return rec, newStreamFormatError(ErrUnexpectedEOR, 0)
			}
			count := int(buf[1])
			buf = buf[2:]
			if len(buf) < count*2 {
				return rec, newStreamFormatError(ErrUnexpectedEOR, 0)
			}
			attrs, rest, err := parseAttrPairs(buf, count)
			if err != nil {
				return rec, err
			}
			rec.Orders = append(rec.Orders, WriteOrder{Kind: OModifyField, ExtendedAttrs: attrs})
			buf = rest

		case orderInsertCursor:
			flushText()
			if len(buf) < 3 {
				return rec, newStreamFormatError(ErrUnexpectedEOR, 0)
			}
			a, err := parseAddr(buf[1], buf[2])
			if err != nil {
				return rec, err
			}
			rec.Orders = append(rec.Orders, InsertCursorOrder(a))
			buf = buf[3:]

		case orderProgramTab:
			flushText()
			rec.Orders = append(rec.Orders, ProgramTabOrder())
			buf = buf[1:]

		case orderRepeatToAddress:
			flushText()
			if len(buf) < 4 {
				return rec, newStreamFormatError(ErrUnexpectedEOR, 0)
			}
			a, err := parseAddr(buf[1], buf[2])
			if err != nil {
				return rec, err
			}
			// buf[3] is the character byte immediately following the
			// 2-byte address: opcode, address hi, address lo, char.
			ch := decodeSingleByte(buf[3], cp)
			rec.Orders = append(rec.Orders, RepeatToAddressOrder(a, ch))
			buf = buf[4:]

		case orderEraseUnprotectedToAddress:
			flushText()
			if len(buf) < 3 {
				return rec, newStreamFormatError(ErrUnexpectedEOR, 0)
			}
			a, err := parseAddr(buf[1], buf[2])
			if err != nil {
				return rec, err
			}
			rec.Orders = append(rec.Orders, EraseUnprotectedToAddressOrder(a))
			buf = buf[3:]

		case orderGraphicEscape:
			flushText()
			if len(buf) < 2 {
				return rec, newStreamFormatError(ErrUnexpectedEOR, 0)
			}
			// buf[1] is the byte immediately following the 0x08 opcode.
			rec.Orders = append(rec.Orders, GraphicEscapeOrder(buf[1]))
			buf = buf[2:]

		default:
			if op < 0x40 {
				return rec, newStreamFormatError(ErrInvalidData, 0)
			}
			// SendText run: accumulate until the next byte < 0x40 or EOR.
			end := 0
			for end < len(buf) && buf[end] >= 0x40 {
				end++
			}
			pendingText = append(pendingText, buf[:end]...)
			buf = buf[end:]
		}
	}
	flushText()

	return rec, nil
}

// decodeSingleByte decodes one EBCDIC byte into a rune via cp.
func decodeSingleByte(b byte, cp Codepage) byte {
	s := cp.Decode([]byte{b})
	for _, r := range s {
		return byte(r)
	}
	return 0x40
}

// parseAttrPairs decodes count (type, value) pairs from the front of buf,
// returning the decoded attributes and the remaining bytes.
func parseAttrPairs(buf []byte, count int) ([]ExtendedFieldAttribute, []byte, error) {
	attrs := make([]ExtendedFieldAttribute, 0, count)
	for i := 0; i < count; i++ {
		a, err := extendedFieldAttributeFromWire(buf[i*2], buf[i*2+1])
		if err != nil {
			return nil, nil, err
		}
		attrs = append(attrs, a)
	}
	return attrs, buf[count*2:], nil
}

func hasFieldAttribute(attrs []ExtendedFieldAttribute) bool {
	for _, a := range attrs {
		if a.Kind == EAFieldAttribute {
			return true
		}
	}
	return false
}

// This file is part of https://github.com/racingmars/tn3270/
// Copyright 2020, 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

import "strconv"

// wccTrans is the 64-entry WCC/field-attribute translation table. Any
// 6-bit value passed through it comes out as an EBCDIC graphic byte (0x40 or
// above, never a control code), which is the "printable EBCDIC" form the WCC
// byte and every
// FieldAttribute byte inside a StartField/StartFieldExtended/SetAttribute
// order must take on the wire -- systems between the host and the terminal
// are free to run 3270 data through an EBCDIC<->ASCII translator that
// assumes print8able bytes, and an untranslated low value would come out
// corrupted. This is the same table the original go3270 codebase carried
// as the unlabeled "codes" array in screen.go and response.go; it is given
// its real name here since it now backs more than buffer addresses.
var wccTrans = [64]byte{
	0x40, 0xc1, 0xc2, 0xc3, 0xc4, 0xc5, 0xc6, 0xc7, 0xc8,
	0xc9, 0x4a, 0x4b, 0x4c, 0x4d, 0x4e, 0x4f, 0x50, 0xd1, 0xd2, 0xd3, 0xd4,
	0xd5, 0xd6, 0xd7, 0xd8, 0xd9, 0x5a, 0x5b, 0x5c, 0x5d, 0x5e, 0x5f, 0x60,
	0x61, 0xe2, 0xe3, 0xe4, 0xe5, 0xe6, 0xe7, 0xe8, 0xe9, 0x6a, 0x6b, 0x6c,
	0x6d, 0x6e, 0x6f, 0xf0, 0xf1, 0xf2, 0xf3, 0xf4, 0xf5, 0xf6, 0xf7, 0xf8,
	0xf9, 0x7a, 0x7b, 0x7c, 0x7d, 0x7e, 0x7f,
}

// translate6 applies wccTrans to the low 6 bits of val.
func translate6(val byte) byte {
	return wccTrans[val&0x3f]
}

// WCC is a Write Control Character: the byte immediately following a
// 3270 write command, controlling alarm, keyboard restore, and MDT reset
// behavior on the terminal.
type WCC byte

const (
	WCCReset       WCC = 0x40
	WCCPrintFlag1  WCC = 0x20
	WCCPrintFlag2  WCC = 0x10
	WCCStartPrint  WCC = 0x08
	WCCSoundAlarm  WCC = 0x04
	WCCKBDRestore  WCC = 0x02
	WCCResetMDT    WCC = 0x01
)

// wire returns the translated, printable-EBCDIC form of the WCC byte.
func (w WCC) wire() byte {
	return translate6(byte(w))
}

// wccFromWire reverses WCC.wire -- it isn't needed to parse an incoming
// record (the client never sends a WCC back), and nothing in the package
// calls it; it documents the relationship.
func wccFromWire(b byte) WCC {
	return WCC(b & 0x3f)
}

// Geometry is the buffer dimensions of a 3270 screen. The 3270 data stream
// default, and the only size this library negotiates, is 80x24.
type Geometry struct {
	Width  int
	Height int
}

// DefaultGeometry is the 80x24 screen every session starts with.
var DefaultGeometry = Geometry{Width: 80, Height: 24}

// LastAddress returns the highest valid buffer address for this geometry.
func (g Geometry) LastAddress() uint16 {
	return uint16(g.Width*g.Height - 1)
}

// EncodeAddress converts a (row, col) position to a linear buffer address:
// y*width + x.
func (g Geometry) EncodeAddress(row, col int) uint16 {
	return uint16(row*g.Width + col)
}

// DecodeAddress converts a linear buffer address back to (row, col).
func (g Geometry) DecodeAddress(addr uint16) (row, col int) {
	a := int(addr)
	return a / g.Width, a % g.Width
}

// FieldAttribute is the 6-bit per-field mode byte: protected, numeric,
// non-display, selector-pen-detectable, and modified flags. The two
// high bits are reserved; they are filled in by wccTrans whenever a
// FieldAttribute goes on the wire.
type FieldAttribute byte

const (
	FANone                              FieldAttribute = 0x00
	FAProtected                         FieldAttribute = 0x20
	FANumeric                           FieldAttribute = 0x10
	FANonDisplay                        FieldAttribute = 0x0C
	FADisplaySelectorPenDetectable      FieldAttribute = 0x04
	FAIntenseSelectorPenDetectable      FieldAttribute = 0x08
	FAModified                          FieldAttribute = 0x01
)

// Has reports whether all bits of flag are set in fa.
func (fa FieldAttribute) Has(flag FieldAttribute) bool {
	return fa&flag == flag
}

// With returns fa with flag's bits set (or cleared, if set is false).
func (fa FieldAttribute) With(flag FieldAttribute, set bool) FieldAttribute {
	if set {
		return fa | flag
	}
	return fa &^ flag
}

// wire returns the translated, printable-EBCDIC byte for this attribute.
func (fa FieldAttribute) wire() byte {
	return translate6(byte(fa) & 0x3f)
}

// fieldAttributeFromWire masks off the reserved high bits and returns the
// 6-bit attribute value. The input is assumed to already be the raw wire
// byte (not ascii-translated) as delivered inside an inbound StartField
// order.
func fieldAttributeFromWire(b byte) FieldAttribute {
	return FieldAttribute(b & 0x3f)
}

// FieldValidation holds the mandatory-fill/mandatory-entry/trigger bits of
// an extended field attribute.
type FieldValidation byte

const (
	FVMandatoryFill  FieldValidation = 0b100
	FVMandatoryEntry FieldValidation = 0b010
	FVTrigger        FieldValidation = 0b001
)

// FieldOutline holds the underline/right/overline/left bits of a field
// outlining extended attribute.
type FieldOutline byte

const (
	FONone      FieldOutline = 0
	FOUnderline FieldOutline = 0b0001
	FORight     FieldOutline = 0b0010
	FOOverline  FieldOutline = 0b0100
	FOLeft      FieldOutline = 0b1000
)

// Color is an extended-attribute foreground or background color.
type Color byte

const (
	ColorDefault       Color = 0x00
	ColorNeutralBG     Color = 0xF0
	ColorBlue          Color = 0xF1
	ColorRed           Color = 0xF2
	ColorPink          Color = 0xF3
	ColorGreen         Color = 0xF4
	ColorTurquoise     Color = 0xF5
	ColorYellow        Color = 0xF6
	ColorNeutralFG     Color = 0xF7
	ColorBlack         Color = 0xF8
	ColorDeepBlue      Color = 0xF9
	ColorOrange        Color = 0xFA
	ColorPurple        Color = 0xFB
	ColorPaleGreen     Color = 0xFC
	ColorPaleTurquoise Color = 0xFD
	ColorGrey          Color = 0xFE
	ColorWhite         Color = 0xFF
)

func colorFromWire(b byte) (Color, error) {
	switch Color(b) {
	case ColorDefault, ColorNeutralBG, ColorBlue, ColorRed, ColorPink,
		ColorGreen, ColorTurquoise, ColorYellow, ColorNeutralFG,
		ColorBlack, ColorDeepBlue, ColorOrange, ColorPurple,
		ColorPaleGreen, ColorPaleTurquoise, ColorGrey, ColorWhite:
		return Color(b), nil
	default:
		return 0, newStreamFormatError(ErrInvalidData, 0)
	}
}

// Highlighting is an extended-highlighting attribute value.
type Highlighting byte

const (
	HighlightingDefault    Highlighting = 0x00
	HighlightingNormal     Highlighting = 0xF0
	HighlightingBlink      Highlighting = 0xF1
	HighlightingReverse    Highlighting = 0xF2
	HighlightingUnderscore Highlighting = 0xF4
)

func highlightingFromWire(b byte) (Highlighting, error) {
	switch Highlighting(b) {
	case HighlightingDefault, HighlightingNormal, HighlightingBlink,
		HighlightingReverse, HighlightingUnderscore:
		return Highlighting(b), nil
	default:
		return 0, newStreamFormatError(ErrInvalidData, 0)
	}
}

// Transparency is an extended-transparency attribute value.
type Transparency byte

const (
	TransparencyDefault Transparency = 0x00
	TransparencyOr      Transparency = 0xF0
	TransparencyXor     Transparency = 0xF1
	TransparencyOpaque  Transparency = 0xF2
)

func transparencyFromWire(b byte) (Transparency, error) {
	switch Transparency(b) {
	case TransparencyDefault, TransparencyOr, TransparencyXor, TransparencyOpaque:
		return Transparency(b), nil
	default:
		return 0, newStreamFormatError(ErrInvalidData, 0)
	}
}

// Extended-attribute type bytes (GA23-0059).
const (
	eatAllAttributes      = 0x00
	eatExtendedHighlight  = 0x41
	eatForegroundColor    = 0x42
	eatCharacterSet       = 0x43
	eatBackgroundColor    = 0x45
	eatTransparency       = 0x46
	eatFieldAttribute     = 0xC0
	eatFieldValidation    = 0xC1
	eatFieldOutlining     = 0xC2
)

// ExtendedFieldAttribute is the tagged sum of extended 3270 field
// attributes: every variant encodes as a fixed (type, value) byte pair on
// the wire. Exactly one field below is meaningful per value of Kind.
type ExtendedFieldAttribute struct {
	Kind ExtendedAttrKind

	FieldAttribute FieldAttribute
	Highlighting   Highlighting
	Color          Color
	CharacterSet   byte
	Transparency   Transparency
	FieldValidation FieldValidation
	FieldOutlining  FieldOutline
}

// ExtendedAttrKind tags which variant of ExtendedFieldAttribute is in use.
type ExtendedAttrKind int

const (
	EAAllAttributes ExtendedAttrKind = iota
	EAFieldAttribute
	EAExtendedHighlighting
	EAForegroundColor
	EABackgroundColor
	EACharacterSet
	EATransparency
	EAFieldValidation
	EAFieldOutlining
)

// AllAttributesEFA constructs the AllAttributes (reset) extended attribute.
func AllAttributesEFA() ExtendedFieldAttribute {
	return ExtendedFieldAttribute{Kind: EAAllAttributes}
}

// FieldAttributeEFA constructs a FieldAttribute extended attribute.
func FieldAttributeEFA(fa FieldAttribute) ExtendedFieldAttribute {
	return ExtendedFieldAttribute{Kind: EAFieldAttribute, FieldAttribute: fa}
}

// ExtendedHighlightingEFA constructs an ExtendedHighlighting attribute.
func ExtendedHighlightingEFA(h Highlighting) ExtendedFieldAttribute {
	return ExtendedFieldAttribute{Kind: EAExtendedHighlighting, Highlighting: h}
}

// ForegroundColorEFA constructs a ForegroundColor attribute.
func ForegroundColorEFA(c Color) ExtendedFieldAttribute {
	return ExtendedFieldAttribute{Kind: EAForegroundColor, Color: c}
}

// BackgroundColorEFA constructs a BackgroundColor attribute.
func BackgroundColorEFA(c Color) ExtendedFieldAttribute {
	return ExtendedFieldAttribute{Kind: EABackgroundColor, Color: c}
}

// CharacterSetEFA constructs a CharacterSet attribute.
func CharacterSetEFA(cs byte) ExtendedFieldAttribute {
	return ExtendedFieldAttribute{Kind: EACharacterSet, CharacterSet: cs}
}

// TransparencyEFA constructs a Transparency attribute.
func TransparencyEFA(t Transparency) ExtendedFieldAttribute {
	return ExtendedFieldAttribute{Kind: EATransparency, Transparency: t}
}

// FieldValidationEFA constructs a FieldValidation attribute.
func FieldValidationEFA(fv FieldValidation) ExtendedFieldAttribute {
	return ExtendedFieldAttribute{Kind: EAFieldValidation, FieldValidation: fv}
}

// FieldOutliningEFA constructs a FieldOutlining attribute.
func FieldOutliningEFA(fo FieldOutline) ExtendedFieldAttribute {
	return ExtendedFieldAttribute{Kind: EAFieldOutlining, FieldOutlining: fo}
}

// encoded returns the (type, value) wire pair for this attribute.
func (e ExtendedFieldAttribute) encoded() (typ, val byte) {
	switch e.Kind {
	case EAAllAttributes:
		return eatAllAttributes, 0x00
	case EAFieldAttribute:
		return eatFieldAttribute, translate6(byte(e.FieldAttribute) & 0x3f)
	case EAExtendedHighlighting:
		return eatExtendedHighlight, byte(e.Highlighting)
	case EAForegroundColor:
		return eatForegroundColor, byte(e.Color)
	case EABackgroundColor:
		return eatBackgroundColor, byte(e.Color)
	case EACharacterSet:
		return eatCharacterSet, e.CharacterSet
	case EATransparency:
		return eatTransparency, byte(e.Transparency)
	case EAFieldValidation:
		return eatFieldValidation, byte(e.FieldValidation)
	case EAFieldOutlining:
		return eatFieldOutlining, byte(e.FieldOutlining)
	default:
		return eatAllAttributes, 0x00
	}
}

// encodeInto appends this attribute's (type, value) pair to out.
func (e ExtendedFieldAttribute) encodeInto(out []byte) []byte {
	typ, val := e.encoded()
	return append(out, typ, val)
}

// extendedFieldAttributeFromWire decodes a single (type, value) pair.
func extendedFieldAttributeFromWire(typ, val byte) (ExtendedFieldAttribute, error) {
	switch typ {
	case eatAllAttributes:
		if val != 0x00 {
			return ExtendedFieldAttribute{}, newStreamFormatError(ErrInvalidData, 0)
		}
		return AllAttributesEFA(), nil
	case eatFieldAttribute:
		return FieldAttributeEFA(fieldAttributeFromWire(val)), nil
	case eatExtendedHighlight:
		h, err := highlightingFromWire(val)
		if err != nil {
			return ExtendedFieldAttribute{}, err
		}
		return ExtendedHighlightingEFA(h), nil
	case eatForegroundColor:
		c, err := colorFromWire(val)
		if err != nil {
			return ExtendedFieldAttribute{}, err
		}
		return ForegroundColorEFA(c), nil
	case eatBackgroundColor:
		c, err := colorFromWire(val)
		if err != nil {
			return ExtendedFieldAttribute{}, err
		}
		return BackgroundColorEFA(c), nil
	case eatCharacterSet:
		return CharacterSetEFA(val), nil
	case eatTransparency:
		t, err := transparencyFromWire(val)
		if err != nil {
			return ExtendedFieldAttribute{}, err
		}
		return TransparencyEFA(t), nil
	case eatFieldValidation:
		return FieldValidationEFA(FieldValidation(val)), nil
	case eatFieldOutlining:
		return FieldOutliningEFA(FieldOutline(val)), nil
	default:
		return ExtendedFieldAttribute{}, newStreamFormatError(ErrInvalidData, 0)
	}
}

// AID is an Attention Identifier: the byte telling the host which key
// caused an inbound record.
type AID byte

const (
	AIDNoAIDGenerated AID = 0x60
	AIDStructuredField AID = 0x88
	AIDSysReq         AID = 0xF0
	AIDPF1            AID = 0xF1
	AIDPF2            AID = 0xF2
	AIDPF3            AID = 0xF3
	AIDPF4            AID = 0xF4
	AIDPF5            AID = 0xF5
	AIDPF6            AID = 0xF6
	AIDPF7            AID = 0xF7
	AIDPF8            AID = 0xF8
	AIDPF9            AID = 0xF9
	AIDPF10           AID = 0x7A
	AIDPF11           AID = 0x7B
	AIDPF12           AID = 0x7C
	AIDPF13           AID = 0xC1
	AIDPF14           AID = 0xC2
	AIDPF15           AID = 0xC3
	AIDPF16           AID = 0xC4
	AIDPF17           AID = 0xC5
	AIDPF18           AID = 0xC6
	AIDPF19           AID = 0xC7
	AIDPF20           AID = 0xC8
	AIDPF21           AID = 0xC9
	AIDPF22           AID = 0x4A
	AIDPF23           AID = 0x4B
	AIDPF24           AID = 0x4C
	AIDPA1            AID = 0x6C
	AIDPA2            AID = 0x6E
	AIDPA3            AID = 0x6B
	AIDClear          AID = 0x6D
	AIDEnter          AID = 0x7D
)

// validAIDs is the full 39-value table of defined attention identifiers,
// including the values this library's high-level API doesn't name a
// constant for.
var validAIDs = map[byte]AID{
	0x60: AIDNoAIDGenerated,
	0xE8: AID(0xE8), // NoAIDGeneratedPrinter
	0x88: AIDStructuredField,
	0x61: AID(0x61), // ReadPartition
	0x7F: AID(0x7F), // TriggerAction
	0xF0: AIDSysReq,
	0xF1: AIDPF1,
	0xF2: AIDPF2,
	0xF3: AIDPF3,
	0xF4: AIDPF4,
	0xF5: AIDPF5,
	0xF6: AIDPF6,
	0xF7: AIDPF7,
	0xF8: AIDPF8,
	0xF9: AIDPF9,
	0x7A: AIDPF10,
	0x7B: AIDPF11,
	0x7C: AIDPF12,
	0xC1: AIDPF13,
	0xC2: AIDPF14,
	0xC3: AIDPF15,
	0xC4: AIDPF16,
	0xC5: AIDPF17,
	0xC6: AIDPF18,
	0xC7: AIDPF19,
	0xC8: AIDPF20,
	0xC9: AIDPF21,
	0x4A: AIDPF22,
	0x4B: AIDPF23,
	0x4C: AIDPF24,
	0x6C: AIDPA1,
	0x6E: AIDPA2,
	0x6B: AIDPA3,
	0x6D: AIDClear,
	0x6A: AID(0x6A), // ClearPartition
	0x7D: AIDEnter,
	0x7E: AID(0x7E), // SelectorPenAttention
	0xE6: AID(0xE6), // MagReaderOperatorID
	0xE7: AID(0xE7), // MagReaderNumber
}

// aidFromWire decodes a single AID byte, returning an InvalidAID error for
// undefined bytes.
func aidFromWire(b byte) (AID, error) {
	if aid, ok := validAIDs[b]; ok {
		return aid, nil
	}
	return 0, newStreamFormatError(ErrInvalidAID, b)
}

// String returns a human-readable key name for aid, for logging.
func (aid AID) String() string {
	switch aid {
	case AIDNoAIDGenerated:
		return "[none]"
	case AIDStructuredField:
		return "StructuredField"
	case AIDSysReq:
		return "SysReq"
	case AIDEnter:
		return "Enter"
	case AIDClear:
		return "Clear"
	case AIDPA1:
		return "PA1"
	case AIDPA2:
		return "PA2"
	case AIDPA3:
		return "PA3"
	}
	for i, pf := range []AID{
		AIDPF1, AIDPF2, AIDPF3, AIDPF4, AIDPF5, AIDPF6, AIDPF7, AIDPF8,
		AIDPF9, AIDPF10, AIDPF11, AIDPF12, AIDPF13, AIDPF14, AIDPF15,
		AIDPF16, AIDPF17, AIDPF18, AIDPF19, AIDPF20, AIDPF21, AIDPF22,
		AIDPF23, AIDPF24,
	} {
		if aid == pf {
			return "PF" + strconv.Itoa(i+1)
		}
	}
	return "[unknown]"
}

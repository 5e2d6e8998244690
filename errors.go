// This file is part of https://github.com/racingmars/tn3270/
// Copyright 2020, 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

import "fmt"

// StreamErrorKind classifies a StreamFormatError. All three kinds are
// recoverable: the record that produced one is dropped, and the session
// continues processing the next record.
type StreamErrorKind int

const (
	// ErrInvalidAID means the first byte of an inbound record wasn't one
	// of the 39 defined AID values.
	ErrInvalidAID StreamErrorKind = iota

	// ErrUnexpectedEOR means the record ended in the middle of a
	// multi-byte order.
	ErrUnexpectedEOR

	// ErrInvalidData means an unknown opcode, a reserved-bit violation,
	// or an out-of-range enumerant was encountered.
	ErrInvalidData
)

func (k StreamErrorKind) String() string {
	switch k {
	case ErrInvalidAID:
		return "InvalidAID"
	case ErrUnexpectedEOR:
		return "UnexpectedEOR"
	case ErrInvalidData:
		return "InvalidData"
	default:
		return "StreamFormatError"
	}
}

// StreamFormatError is returned by ParseIncomingRecord when a record
// can't be decoded. It never poisons the Session: the caller decides
// whether to drop the record and re-prompt, or to treat it as fatal.
type StreamFormatError struct {
	Kind StreamErrorKind

	// AID is the offending byte, valid only when Kind == ErrInvalidAID.
	AID byte
}

func newStreamFormatError(kind StreamErrorKind, aid byte) *StreamFormatError {
	return &StreamFormatError{Kind: kind, AID: aid}
}

func (e *StreamFormatError) Error() string {
	if e.Kind == ErrInvalidAID {
		return fmt.Sprintf("tn3270: invalid AID: %#02x", e.AID)
	}
	return "tn3270: " + e.Kind.String()
}

// Is reports whether target is a StreamFormatError of the same Kind,
// allowing callers to use errors.Is(err, tn3270.ErrUnexpectedEOR) style
// checks against the package-level kind values by wrapping them, e.g.
// errors.Is(err, &StreamFormatError{Kind: ErrUnexpectedEOR}).
func (e *StreamFormatError) Is(target error) bool {
	other, ok := target.(*StreamFormatError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

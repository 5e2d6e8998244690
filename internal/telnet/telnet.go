// This file is part of https://github.com/racingmars/tn3270/
// Copyright 2020, 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

// Package telnet implements the small slice of RFC 854 telnet option
// negotiation that a TN3270 session needs: IAC byte-stuffing, the TTYPE,
// EOR and BINARY options, and TTYPE subnegotiation. It has no notion of
// 3270 records; it hands the caller a stream of typed events and lets the
// caller decide what a completed record means.
package telnet

const (
	IAC  byte = 0xff
	DONT byte = 0xfe
	DO   byte = 0xfd
	WONT byte = 0xfc
	WILL byte = 0xfb
	SB   byte = 0xfa
	SE   byte = 0xf0
	EOR  byte = 0xef

	OptBinary byte = 0x00
	OptTType  byte = 0x18
	OptEOR    byte = 0x19

	TTypeIS   byte = 0x00
	TTypeSEND byte = 0x01
)

// EventKind identifies which of the four event shapes an Event carries.
type EventKind int

const (
	// EventData is a run of plain payload bytes, already de-stuffed, to be
	// appended to the in-progress inbound record.
	EventData EventKind = iota

	// EventEOR marks IAC EOR: the in-progress record is complete.
	EventEOR

	// EventNegotiation is a two-byte DO/DONT/WILL/WONT plus option.
	EventNegotiation

	// EventSubnegotiation is a completed IAC SB ... IAC SE sequence; Data
	// holds the option byte followed by the subnegotiation payload.
	EventSubnegotiation
)

// Event is one unit of meaning extracted from a raw telnet byte stream.
type Event struct {
	Kind    EventKind
	Data    []byte // EventData: payload; EventSubnegotiation: option+payload
	Command byte   // EventNegotiation: DO/DONT/WILL/WONT
	Option  byte   // EventNegotiation: the option byte
}

// parserState is the byte-at-a-time state of the stuffing/command parser.
type parserState int

const (
	stateData parserState = iota
	stateIAC
	stateCommand
	stateSubneg
	stateSubnegIAC
)

// Parser turns a raw telnet byte stream into a sequence of Events. It holds
// no knowledge of which options are enabled; that's the Negotiator's job.
// A Parser is not safe for concurrent use.
type Parser struct {
	state  parserState
	subopt byte
	subbuf []byte

	// pending holds data bytes left over when a Feed ends right after an
	// IAC, so an escaped 0xFF in the next Feed continues the same run.
	pending []byte
}

// NewParser returns a Parser ready to consume bytes via Feed.
func NewParser() *Parser {
	return &Parser{state: stateData}
}

// Feed consumes buf and returns the events it produced. Events are returned
// in the order the bytes imply; a single call may yield zero, one, or many
// events (e.g. a buffer containing several queued negotiations). A data
// run is only ended by a telnet command, never by an escaped 0xFF.
func (p *Parser) Feed(buf []byte) []Event {
	var events []Event
	dataRun := p.pending
	p.pending = nil

	flushData := func() {
		if len(dataRun) > 0 {
			events = append(events, Event{Kind: EventData, Data: dataRun})
			dataRun = nil
		}
	}

	for _, b := range buf {
		switch p.state {
		case stateData:
			if b == IAC {
				p.state = stateIAC
			} else {
				dataRun = append(dataRun, b)
			}

		case stateIAC:
			switch b {
			case IAC:
				// Escaped 0xFF literal.
				dataRun = append(dataRun, IAC)
				p.state = stateData
			case EOR:
				flushData()
				events = append(events, Event{Kind: EventEOR})
				p.state = stateData
			case DO, DONT, WILL, WONT:
				flushData()
				p.state = stateCommand
				p.subopt = b // stash the command byte in subopt temporarily
			case SB:
				flushData()
				p.subbuf = nil
				p.state = stateSubneg
			default:
				// Unknown/unsupported IAC command (e.g. a compression
				// request): discarded, stream continues.
				p.state = stateData
			}

		case stateCommand:
			events = append(events, Event{Kind: EventNegotiation, Command: p.subopt, Option: b})
			p.state = stateData

		case stateSubneg:
			if b == IAC {
				p.state = stateSubnegIAC
			} else {
				p.subbuf = append(p.subbuf, b)
			}

		case stateSubnegIAC:
			switch b {
			case SE:
				events = append(events, Event{Kind: EventSubnegotiation, Data: p.subbuf})
				p.subbuf = nil
				p.state = stateData
			case IAC:
				p.subbuf = append(p.subbuf, IAC)
				p.state = stateSubneg
			default:
				// Malformed subnegotiation; bail out to data mode.
				p.subbuf = nil
				p.state = stateData
			}
		}
	}

	if p.state == stateIAC {
		p.pending = dataRun
		return events
	}
	flushData()
	return events
}

// Escape doubles every literal 0xFF in payload and appends IAC EOR, per the
// TN3270 outbound framing rule.
func Escape(payload []byte) []byte {
	out := make([]byte, 0, len(payload)+2)
	for _, b := range payload {
		out = append(out, b)
		if b == IAC {
			out = append(out, IAC)
		}
	}
	out = append(out, IAC, EOR)
	return out
}

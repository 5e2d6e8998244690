// This file is part of https://github.com/racingmars/tn3270/
// Copyright 2020, 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package telnet

// Negotiator drives the option negotiation state machine described for a
// TN3270 session: solicit and receive TTYPE, then agree EOR and BINARY in
// both directions. It consumes Events (from a Parser) and produces bytes to
// send back, via Step. It knows nothing about sockets or timeouts; the
// caller supplies bytes and writes out whatever Step returns.
type Negotiator struct {
	termType string

	sentTType bool
	wantTType bool

	willEOR, doEOR       bool
	willBinary, doBinary bool
}

// NewNegotiator returns a Negotiator and the bytes the caller must write
// immediately to kick off negotiation (DO TTYPE, WILL TTYPE).
func NewNegotiator() (*Negotiator, []byte) {
	n := &Negotiator{}
	out := []byte{IAC, DO, OptTType, IAC, WILL, OptTType}
	return n, out
}

// Ready reports whether negotiation has reached the point a session can
// start exchanging 3270 records: terminal type known, EOR and BINARY
// agreed both directions.
func (n *Negotiator) Ready() bool {
	return n.termType != "" && n.willEOR && n.doEOR && n.willBinary && n.doBinary
}

// TermType returns the peer's reported terminal type, or "" if not yet
// received.
func (n *Negotiator) TermType() string {
	return n.termType
}

// Step feeds one parsed Event into the state machine and returns any bytes
// that should be written back in response. Non-negotiation/subnegotiation
// events are ignored; the caller is responsible for routing EventData and
// EventEOR elsewhere.
func (n *Negotiator) Step(ev Event) []byte {
	switch ev.Kind {
	case EventNegotiation:
		return n.stepNegotiation(ev)
	case EventSubnegotiation:
		return n.stepSubnegotiation(ev)
	default:
		return nil
	}
}

func (n *Negotiator) stepNegotiation(ev Event) []byte {
	switch ev.Option {
	case OptTType:
		if ev.Command == WILL && !n.wantTType {
			n.wantTType = true
			// Solicit the peer's reported terminal type.
			return []byte{IAC, SB, OptTType, TTypeSEND, IAC, SE}
		}
	case OptEOR:
		switch ev.Command {
		case WILL:
			n.doEOR = true
		case DO:
			n.willEOR = true
		}
	case OptBinary:
		switch ev.Command {
		case WILL:
			n.doBinary = true
		case DO:
			n.willBinary = true
		}
	}
	return nil
}

func (n *Negotiator) stepSubnegotiation(ev Event) []byte {
	if len(ev.Data) < 2 || ev.Data[0] != OptTType || ev.Data[1] != TTypeIS {
		return nil
	}
	n.termType = string(ev.Data[2:])

	if n.sentTType {
		return nil
	}
	n.sentTType = true
	return []byte{
		IAC, WILL, OptEOR, IAC, DO, OptEOR,
		IAC, WILL, OptBinary, IAC, DO, OptBinary,
	}
}

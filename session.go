// This file is part of https://github.com/racingmars/tn3270/
// Copyright 2020, 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/charmbracelet/log"

	"github.com/racingmars/tn3270/internal/telnet"
)

// DefaultNegotiationTimeout bounds how long negotiate will wait for the
// peer to complete TTYPE/EOR/BINARY negotiation before giving up.
const DefaultNegotiationTimeout = 5 * time.Second

// deadliner is satisfied by net.Conn; Session only needs the read-deadline
// half of it, so tests can supply a plain io.ReadWriter where deadlines
// don't matter.
type deadliner interface {
	SetReadDeadline(t time.Time) error
}

// Session owns one TN3270 connection: telnet negotiation, IAC
// escaping/framing, and the queue of fully-received inbound records. A
// Session is created with New, which blocks until negotiation completes or
// times out. It is not safe for concurrent use; exactly one goroutine
// should drive a Session at a time, per the single-owner model.
type Session struct {
	conn io.ReadWriter

	parser *telnet.Parser
	neg    *telnet.Negotiator

	queue   [][]byte
	current []byte

	Log *log.Logger

	// Geometry is the screen buffer size Present compiles fields and
	// decodes responses against. Alternate (non-80x24) geometries aren't
	// negotiated by this library; Geometry exists so a caller who already
	// knows the client supports a larger buffer can opt in explicitly.
	Geometry Geometry

	// Codepage translates SendText payloads for this session. Defaults to
	// the package-level codepage set via SetCodepage.
	Codepage Codepage

	// NegotiationTimeout overrides DefaultNegotiationTimeout if set before
	// New's deadline is first applied; exported for tests that need a
	// tighter bound. Most callers leave it at the zero value.
	NegotiationTimeout time.Duration
}

// Option configures a Session before negotiation runs in New.
type Option func(*Session)

// WithNegotiationTimeout overrides DefaultNegotiationTimeout for this
// session's negotiate call.
func WithNegotiationTimeout(d time.Duration) Option {
	return func(s *Session) { s.NegotiationTimeout = d }
}

// WithGeometry overrides DefaultGeometry for this session's screen buffer.
// Negotiation doesn't detect the client's actual buffer size, so callers
// who know it out-of-band (their own device-type lookup, say) opt in here.
func WithGeometry(geo Geometry) Option {
	return func(s *Session) { s.Geometry = geo }
}

// New creates a Session over conn and performs telnet negotiation,
// blocking until the session is ready or the negotiation timeout (default
// DefaultNegotiationTimeout) elapses. Options are applied before
// negotiation starts, so WithNegotiationTimeout takes effect immediately;
// fields set directly on the returned Session (Log, Codepage, Geometry) do
// not affect negotiation and may be set any time before the first Present.
func New(conn io.ReadWriter, opts ...Option) (*Session, error) {
	s := &Session{
		conn:     conn,
		parser:   telnet.NewParser(),
		Log:      log.New(io.Discard),
		Geometry: DefaultGeometry,
		Codepage: defaultCodepage,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.negotiate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) negotiationDeadline() time.Time {
	timeout := s.NegotiationTimeout
	if timeout == 0 {
		timeout = DefaultNegotiationTimeout
	}
	return time.Now().Add(timeout)
}

// negotiate drives the TTYPE/EOR/BINARY state machine to readiness. A
// zero-length read before readiness, or an elapsed deadline, is a fatal
// negotiation error; the session is unusable afterward.
func (s *Session) negotiate() error {
	neg, initial := telnet.NewNegotiator()
	s.neg = neg

	if _, err := s.conn.Write(initial); err != nil {
		return fmt.Errorf("tn3270: negotiation write: %w", err)
	}

	if d, ok := s.conn.(deadliner); ok {
		_ = d.SetReadDeadline(s.negotiationDeadline())
	}

	buf := make([]byte, 256)
	for !s.neg.Ready() {
		n, err := s.conn.Read(buf)
		if err != nil {
			return fmt.Errorf("tn3270: negotiation read: %w", err)
		}
		if n == 0 {
			return errors.New("tn3270: negotiation failed: connection closed before readiness")
		}

		for _, ev := range s.parser.Feed(buf[:n]) {
			switch ev.Kind {
			case telnet.EventNegotiation, telnet.EventSubnegotiation:
				if out := s.neg.Step(ev); len(out) > 0 {
					if _, err := s.conn.Write(out); err != nil {
						return fmt.Errorf("tn3270: negotiation write: %w", err)
					}
				}
			default:
				// Data/EOR events can't legitimately occur before
				// readiness; ignore them rather than mis-frame a record.
			}
		}
	}

	if d, ok := s.conn.(deadliner); ok {
		_ = d.SetReadDeadline(time.Time{})
	}

	s.Log.Debug("tn3270 session negotiated", "termtype", s.neg.TermType())
	return nil
}

// TermType returns the peer's reported terminal type.
func (s *Session) TermType() string {
	return s.neg.TermType()
}

// SendRecord escapes and frames payload and writes it to the connection.
func (s *Session) SendRecord(payload []byte) error {
	_, err := s.conn.Write(telnet.Escape(payload))
	if err != nil {
		return fmt.Errorf("tn3270: send record: %w", err)
	}
	return nil
}

// ReceiveRecord returns the next complete inbound record. If one is
// already queued from a previous non-blocking drain, it's returned
// immediately. Otherwise it blocks for at least one read (bounded by
// timeout, if positive), then drains the parser non-blockingly until no
// more complete records are available, and returns the first one
// received. ok is false if timeout elapses with no record received.
func (s *Session) ReceiveRecord(timeout time.Duration) (record []byte, ok bool, err error) {
	if len(s.queue) > 0 {
		record, s.queue = s.queue[0], s.queue[1:]
		return record, true, nil
	}

	if timeout > 0 {
		if d, isDeadliner := s.conn.(deadliner); isDeadliner {
			_ = d.SetReadDeadline(time.Now().Add(timeout))
			defer d.SetReadDeadline(time.Time{})
		}
	}

	buf := make([]byte, 4096)
	n, err := s.conn.Read(buf)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("tn3270: receive record: %w", err)
	}
	s.consume(buf[:n])

	// Drain whatever else is already sitting in the OS socket buffer
	// without blocking for it.
	if d, isDeadliner := s.conn.(deadliner); isDeadliner {
		_ = d.SetReadDeadline(time.Now())
		for {
			n, err := s.conn.Read(buf)
			if err != nil || n == 0 {
				break
			}
			s.consume(buf[:n])
		}
		_ = d.SetReadDeadline(time.Time{})
	}

	if len(s.queue) == 0 {
		return nil, false, nil
	}
	record, s.queue = s.queue[0], s.queue[1:]
	return record, true, nil
}

// consume feeds buf through the telnet parser, appending data events to
// the in-progress record and enqueuing it whenever an EOR event arrives.
func (s *Session) consume(buf []byte) {
	for _, ev := range s.parser.Feed(buf) {
		switch ev.Kind {
		case telnet.EventData:
			s.current = append(s.current, ev.Data...)
		case telnet.EventEOR:
			s.queue = append(s.queue, s.current)
			s.current = nil
		case telnet.EventNegotiation, telnet.EventSubnegotiation:
			if out := s.neg.Step(ev); len(out) > 0 {
				_, _ = s.conn.Write(out)
			}
		}
	}
}

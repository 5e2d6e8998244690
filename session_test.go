// This file is part of https://github.com/racingmars/tn3270/
// Copyright 2020, 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/racingmars/tn3270/internal/telnet"
)

// scriptedPeer plays the "Negotiation property" script from the other end
// of a pipe: WILL TTYPE, then (once asked) SB TTYPE IS ... SE, then DO/WILL
// EOR and DO/WILL BINARY, reading and discarding whatever the session sends
// back (net.Pipe is unbuffered, so an unread session write would block).
func scriptedPeer(t *testing.T, conn net.Conn) {
	t.Helper()

	buf := make([]byte, 256)

	write := func(b []byte) {
		_, err := conn.Write(b)
		require.NoError(t, err)
	}

	// DO TTYPE, WILL TTYPE arrives first from the session; drain it.
	_, err := conn.Read(buf)
	require.NoError(t, err)

	write([]byte{telnet.IAC, telnet.WILL, telnet.OptTType})

	// Session should now ask for our terminal type.
	_, err = conn.Read(buf)
	require.NoError(t, err)

	ttype := append([]byte{telnet.IAC, telnet.SB, telnet.OptTType, telnet.TTypeIS}, []byte("IBM-3278-2")...)
	ttype = append(ttype, telnet.IAC, telnet.SE)
	write(ttype)

	// Session answers the terminal type with WILL/DO EOR, WILL/DO BINARY.
	_, err = conn.Read(buf)
	require.NoError(t, err)

	write([]byte{
		telnet.IAC, telnet.DO, telnet.OptEOR,
		telnet.IAC, telnet.WILL, telnet.OptEOR,
		telnet.IAC, telnet.DO, telnet.OptBinary,
		telnet.IAC, telnet.WILL, telnet.OptBinary,
	})
}

func TestSessionNegotiationProperty(t *testing.T) {
	serverConn, peerConn := net.Pipe()
	defer serverConn.Close()
	defer peerConn.Close()

	go scriptedPeer(t, peerConn)

	done := make(chan struct{})
	var s *Session
	var err error
	go func() {
		s, err = New(serverConn)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("negotiation did not complete within timeout")
	}

	require.NoError(t, err)
	assert.Equal(t, "IBM-3278-2", s.TermType())
}

func TestSessionSendRecordEscapesIAC(t *testing.T) {
	serverConn, peerConn := net.Pipe()
	defer serverConn.Close()
	defer peerConn.Close()

	go scriptedPeer(t, peerConn)

	done := make(chan struct{})
	var s *Session
	var err error
	go func() {
		s, err = New(serverConn)
		close(done)
	}()
	<-done
	require.NoError(t, err)

	recvErrCh := make(chan error, 1)
	var received []byte
	go func() {
		buf := make([]byte, 256)
		n, err := peerConn.Read(buf)
		received = buf[:n]
		recvErrCh <- err
	}()

	require.NoError(t, s.SendRecord([]byte{0x01, 0xff, 0x02}))
	require.NoError(t, <-recvErrCh)
	assert.Equal(t, []byte{0x01, 0xff, 0xff, 0x02, telnet.IAC, telnet.EOR}, received)
}

func TestSessionReceiveRecordTimesOutWithoutError(t *testing.T) {
	serverConn, peerConn := net.Pipe()
	defer serverConn.Close()
	defer peerConn.Close()

	go scriptedPeer(t, peerConn)

	done := make(chan struct{})
	var s *Session
	var err error
	go func() {
		s, err = New(serverConn)
		close(done)
	}()
	<-done
	require.NoError(t, err)

	record, ok, err := s.ReceiveRecord(50 * time.Millisecond)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, record)
}

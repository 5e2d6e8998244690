// This file is part of https://github.com/racingmars/tn3270/
// Copyright 2020, 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

// Command tn3270demo runs a small TN3270 server: a greeting screen
// followed by a name-entry screen, one goroutine per connection.
package main

import (
	"net"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/racingmars/tn3270"
)

func main() {
	listen := pflag.StringP("listen", "l", ":2323", "address to listen on")
	codepage := pflag.StringP("codepage", "c", "037", "EBCDIC codepage to use")
	configPath := pflag.StringP("config", "f", "", "optional YAML config file")
	verbose := pflag.BoolP("verbose", "v", false, "log session lifecycle events")
	pflag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal("loading config", "path", *configPath, "err", err)
	}
	if cfg.Listen != "" {
		*listen = cfg.Listen
	}
	if cfg.Codepage != "" {
		*codepage = cfg.Codepage
	}

	if *codepage != "037" {
		log.Warn("only codepage 037 ships with this library; ignoring", "requested", *codepage)
	}

	logger := tn3270.NewLogger(os.Stderr)
	if !*verbose {
		logger.SetLevel(log.WarnLevel)
	}

	ln, err := net.Listen("tcp", *listen)
	if err != nil {
		log.Fatal("listen", "addr", *listen, "err", err)
	}
	logger.Info("tn3270demo listening", "addr", *listen)

	negTimeout := cfg.NegotiationTimeout
	if negTimeout == 0 {
		negTimeout = tn3270.DefaultNegotiationTimeout
	}

	geo := tn3270.DefaultGeometry
	if cfg.Geometry.Width > 0 && cfg.Geometry.Height > 0 {
		geo = tn3270.Geometry{Width: cfg.Geometry.Width, Height: cfg.Geometry.Height}
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			logger.Error("accept", "err", err)
			continue
		}
		go handleConn(conn, logger, negTimeout, geo)
	}
}

func handleConn(conn net.Conn, logger *log.Logger, negTimeout time.Duration, geo tn3270.Geometry) {
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	sessionLog := logger.With("remote", remote)

	s, err := tn3270.New(conn,
		tn3270.WithNegotiationTimeout(negTimeout),
		tn3270.WithGeometry(geo))
	if err != nil {
		sessionLog.Error("negotiation failed", "err", err)
		return
	}
	s.Log = sessionLog

	sessionLog.Info("session established", "termtype", s.TermType())

	if err := tn3270.RunTransactions(s, greetingTx, nil); err != nil {
		sessionLog.Warn("session ended", "err", err)
		return
	}
	sessionLog.Info("session complete")
}

// This file is part of https://github.com/racingmars/tn3270/
// Copyright 2020, 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewLogger returns a structured logger suitable for Session.Log, writing
// to w with a timestamp and the "tn3270" prefix. Pass io.Discard (the
// Session default) to disable logging entirely.
func NewLogger(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "tn3270",
	})
	return l
}

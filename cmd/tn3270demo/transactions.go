// This file is part of https://github.com/racingmars/tn3270/
// Copyright 2020, 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package main

import (
	"time"

	"github.com/racingmars/tn3270"
)

const presentTimeout = 2 * time.Minute

// greetingTx shows a welcome screen with a single exit action: pressing
// Enter moves on to nameEntryTx, anything else (PA keys, Clear) ends the
// session.
func greetingTx(s *tn3270.Session, data any) (tn3270.Tx, any, error) {
	screen := tn3270.Screen{
		{Row: 1, Col: 20, Content: "Welcome to the tn3270 demo server"},
		{Row: 3, Col: 20, Content: "Press Enter to continue"},
	}

	resp, err := s.Present(screen, 3, 20, presentTimeout)
	if err != nil {
		return nil, nil, err
	}
	if resp.AID != tn3270.AIDEnter {
		return nil, nil, nil
	}
	return nameEntryTx, nil, nil
}

// nameEntryTx collects a name in a writable field and, once non-blank,
// greets the user by name before ending the session.
func nameEntryTx(s *tn3270.Session, data any) (tn3270.Tx, any, error) {
	screen := tn3270.Screen{
		{Row: 2, Col: 10, Content: "Name:"},
		{Row: 2, Col: 20, Content: "", Write: true, Name: "name"},
	}

	rules := tn3270.Rules{
		"name": {
			MustChange: true,
			ErrorText:  "Please enter your name",
			Validator:  tn3270.NonBlank,
		},
	}

	resp, err := tn3270.HandleScreen(s, screen, rules, nil,
		[]tn3270.AID{tn3270.AIDEnter},
		[]tn3270.AID{tn3270.AIDClear, tn3270.AIDPA1, tn3270.AIDPA2, tn3270.AIDPA3},
		"", 2, 20, presentTimeout)
	if err != nil {
		return nil, nil, err
	}
	if resp.AID != tn3270.AIDEnter {
		return nil, nil, nil
	}

	farewell := tn3270.Screen{
		{Row: 1, Col: 20, Content: "Thanks, " + resp.Values["name"] + "!"},
	}
	if _, err := s.Present(farewell, 1, 20, presentTimeout); err != nil {
		return nil, nil, err
	}
	return nil, nil, nil
}

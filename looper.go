// This file is part of https://github.com/racingmars/tn3270/
// Copyright 2020, 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Rules is a map of field names to FieldRules. Each field for which you
// wish validation to occur must appear in the map. Fields not in the map
// receive no input validation.
type Rules map[string]FieldRules

// Validator validates a single field's input, returning true if it's
// acceptable.
type Validator func(input string) bool

// NonBlank is a Validator that rejects a value that's empty after
// trimming leading and trailing spaces.
var NonBlank Validator = func(input string) bool {
	return strings.TrimSpace(input) != ""
}

var isIntegerRegexp = regexp.MustCompile(`^-?[0-9]+$`)

// IsInteger is a Validator that accepts an optionally-negative run of
// digits, after trimming leading and trailing spaces.
var IsInteger Validator = func(input string) bool {
	return isIntegerRegexp.MatchString(strings.TrimSpace(input))
}

// FieldRules gives the validation rules for a single named field.
type FieldRules struct {
	// MustChange requires the user to alter the field's value away from
	// its starting content (including an empty starting value, making
	// this effectively a required field).
	MustChange bool

	// ErrorText is shown when MustChange fails validation. If empty, a
	// generic message naming the field is generated instead.
	ErrorText string

	// Validator runs after the MustChange check. It may be nil.
	Validator Validator

	// Reset, when true, restores the field to its original content on
	// every loop iteration regardless of what the user typed, so the
	// field can never retain user input across validation failures.
	Reset bool
}

// HandleScreen presents screen on s, looping until the user presses a key
// in pfkeys with all rules satisfied, or a key in exitkeys regardless of
// validation. values overrides the screen's declared field content for
// fields present in the map; errorField, if non-empty, receives a
// human-readable message on each failed attempt before the screen is
// re-presented. A Clear or PA key listed in pfkeys also returns at once,
// without validation.
func HandleScreen(s *Session, screen Screen, rules Rules, values map[string]string,
	pfkeys, exitkeys []AID, errorField string, crow, ccol int,
	timeout time.Duration) (PresentResult, error) {

	origValues := make(map[string]string)
	fields := make(map[string]*Field)
	for i := range screen {
		if screen[i].Name != "" {
			origValues[screen[i].Name] = screen[i].Content
			fields[screen[i].Name] = &screen[i]
		}
	}

	myValues := make(map[string]string, len(values))
	for field, v := range values {
		myValues[field] = v
	}

mainloop:
	for {
		for field, rule := range rules {
			if !rule.Reset {
				continue
			}
			if _, ok := fields[field]; !ok {
				continue
			}
			if orig, ok := origValues[field]; ok {
				myValues[field] = orig
			} else {
				delete(myValues, field)
			}
		}

		applyValues(screen, myValues)
		resp, err := s.Present(screen, crow, ccol, timeout)
		if err != nil {
			return resp, err
		}

		if aidInArray(resp.AID, exitkeys) {
			return resp, nil
		}

		isClearOrPA := resp.AID == AIDClear || resp.AID == AIDPA1 ||
			resp.AID == AIDPA2 || resp.AID == AIDPA3

		if !aidInArray(resp.AID, pfkeys) {
			if !isClearOrPA {
				myValues = mergeFieldValues(myValues, resp.Values)
			}
			if errorField != "" {
				myValues[errorField] = fmt.Sprintf("%s: unknown key", resp.AID.String())
			}
			continue
		}

		if isClearOrPA {
			return resp, nil
		}

		myValues = mergeFieldValues(myValues, resp.Values)
		delete(myValues, errorField)

		for field, rule := range rules {
			if _, ok := myValues[field]; !ok {
				continue
			}
			if rule.MustChange && myValues[field] == origValues[field] {
				if errorField != "" {
					msg := rule.ErrorText
					if msg == "" {
						msg = fmt.Sprintf("Please enter a valid value for %s", field)
					}
					myValues[errorField] = msg
				}
				continue mainloop
			}
			if rule.Validator != nil && !rule.Validator(myValues[field]) {
				if errorField != "" {
					myValues[errorField] = fmt.Sprintf("Value for %s is not valid", field)
				}
				continue mainloop
			}
		}

		return resp, nil
	}
}

// applyValues copies values into the matching named fields of screen's
// Content, in place, before the next Present.
func applyValues(screen Screen, values map[string]string) {
	for i := range screen {
		if screen[i].Name == "" {
			continue
		}
		if v, ok := values[screen[i].Name]; ok {
			screen[i].Content = v
		}
	}
}

func aidInArray(aid AID, aids []AID) bool {
	for _, a := range aids {
		if a == aid {
			return true
		}
	}
	return false
}

// mergeFieldValues returns a new map containing every key from current,
// plus any key from original missing from current -- values the caller
// supplied as overrides for fields that don't round-trip because they
// aren't writable.
func mergeFieldValues(original, current map[string]string) map[string]string {
	result := make(map[string]string, len(current)+len(original))
	for k, v := range current {
		result[k] = v
	}
	for k, v := range original {
		if _, ok := result[k]; !ok {
			result[k] = v
		}
	}
	return result
}

// This file is part of https://github.com/racingmars/tn3270/
// Copyright 2020, 2025 by Matthew R. Wilson, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

// Tx is one transaction in a tn3270 application. It's called with the
// session and a data value from the previous transaction, and returns the
// next transaction to run (nil to stop), the data to hand that transaction,
// and an error. A non-nil error stops RunTransactions immediately and isn't
// passed along; it terminates the chain rather than flowing through it.
type Tx func(s *Session, data any) (next Tx, newdata any, err error)

// RunTransactions runs transaction functions starting with initial, until
// one returns a nil next transaction or a non-nil error. data may be nil if
// initial doesn't need any.
func RunTransactions(s *Session, initial Tx, data any) error {
	next := initial

	for {
		var err error
		next, data, err = next(s, data)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}
	}
}

// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

// Account is the persisted form of a ledger account.
// Data holds the raw fixed-layout record owned by the program, if any.
type Account struct {
	Balance uint64
	Data    []byte
}

// IsEmpty returns true if the account can be treated as non-existent.
func (a *Account) IsEmpty() bool {
	return a.Balance == 0 && len(a.Data) == 0
}

// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/staking/reverts"
	"github.com/meridianchain/meridian/staking/stakes"
	"github.com/meridianchain/meridian/state"
)

// ErrInsufficientBalance is returned by Transfer when the source account
// cannot cover the amount.
var ErrInsufficientBalance = reverts.New("insufficient balance for transfer")

// Env carries the host-provided context of one invocation: the state the
// call executes against, the host clock, and the set of accounts that signed
// the transaction.
type Env struct {
	State   *state.State
	Now     uint64
	Signers []meridian.Address
}

// IsSigned reports whether the given account signed the call.
func (e *Env) IsSigned(addr meridian.Address) bool {
	for _, signer := range e.Signers {
		if signer == addr {
			return true
		}
	}
	return false
}

// Transfer moves balance between two accounts within the call's state, so it
// participates in the call's checkpoint and reverts with everything else.
func (e *Env) Transfer(from, to meridian.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	fromBalance, err := e.State.GetBalance(from)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return ErrInsufficientBalance
	}
	toBalance, err := e.State.GetBalance(to)
	if err != nil {
		return err
	}
	if toBalance, err = stakes.CheckedAdd(toBalance, amount); err != nil {
		return err
	}
	if err := e.State.SetBalance(from, fromBalance-amount); err != nil {
		return err
	}
	return e.State.SetBalance(to, toBalance)
}

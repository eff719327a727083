// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/meridianchain/meridian/staking/reverts"
)

// Operation rejections. These are reverts: the call fails as a whole and
// persisted state is unchanged.
var (
	ErrAlreadyInitialized = reverts.New("staking manager already initialized")
	ErrUninitialized      = reverts.New("staking manager not initialized")
	ErrUnauthorized       = reverts.New("caller is not the staking authority")
	ErrZeroAmount         = reverts.New("amount must be greater than zero")
	ErrInsufficientStake  = reverts.New("insufficient staked amount")
	ErrEpochNotElapsed    = reverts.New("current epoch has not elapsed")
	ErrNothingToClaim     = reverts.New("no pending rewards to claim")
	ErrAccountNotFound    = reverts.New("user stake record not found")
)

// ErrCorruptAccount indicates an account record whose raw bytes do not match
// the fixed layout. Unlike reverts this signals a data bug, not a bad request.
var ErrCorruptAccount = errors.New("corrupt account data")

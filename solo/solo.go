// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package solo is a standalone host for the staking program, for test & dev.
// It owns the persisted state, the clock and signature simulation, and
// serializes calls the way the production host serializes access to shared
// accounts.
package solo

import (
	"sync"

	"github.com/meridianchain/meridian/kv"
	"github.com/meridianchain/meridian/log"
	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/runtime"
	"github.com/meridianchain/meridian/staking"
	"github.com/meridianchain/meridian/state"
)

var logger = log.WithContext("pkg", "solo")

// Clock supplies the host time, in unix seconds.
type Clock func() uint64

// Solo hosts one staking program instance over a kv store.
type Solo struct {
	mu    sync.Mutex
	store kv.GetPutter
	state *state.State
	rt    *runtime.Runtime
	clock Clock
}

// New creates a solo host. State is loaded from (and committed to) the given
// kv store.
func New(store kv.GetPutter, managerAddr meridian.Address, clock Clock) *Solo {
	return &Solo{
		store: store,
		state: state.New(store),
		rt:    runtime.New(managerAddr),
		clock: clock,
	}
}

// ManagerAddress returns the manager account address.
func (s *Solo) ManagerAddress() meridian.Address {
	return s.rt.ManagerAddress()
}

// Now returns the host clock reading.
func (s *Solo) Now() uint64 {
	return s.clock()
}

// Execute runs one call signed by the given accounts and commits the result.
// On error nothing is persisted.
func (s *Solo) Execute(call *runtime.Call, signers ...meridian.Address) (*runtime.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	env := &runtime.Env{State: s.state, Now: s.clock(), Signers: signers}
	receipt, err := s.rt.Execute(env, call)
	if err != nil {
		return nil, err
	}
	if err := s.state.Stage().Commit(); err != nil {
		return nil, err
	}
	// fresh state rooted at the committed store
	s.state = state.New(s.store)
	return receipt, nil
}

// view runs fn against a read-only snapshot of the state.
func (s *Solo) view(fn func(st *staking.Staking, now uint64) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	env := &runtime.Env{State: s.state, Now: s.clock()}
	checkpoint := s.state.NewCheckpoint()
	defer s.state.RevertTo(checkpoint)
	return fn(s.rt.Staking(env), env.Now)
}

// Manager returns the current ledger record.
func (s *Solo) Manager() (m *staking.StakingManager, err error) {
	err = s.view(func(st *staking.Staking, _ uint64) error {
		m, err = st.Manager()
		return err
	})
	return
}

// UserInfo returns the user record with rewards projected through closed
// epochs, the elapsed current one included.
func (s *Solo) UserInfo(user meridian.Address) (u *staking.UserStakeInfo, err error) {
	err = s.view(func(st *staking.Staking, now uint64) error {
		u, err = st.UserInfo(user, now)
		return err
	})
	return
}

// Balance returns the account balance.
func (s *Solo) Balance(addr meridian.Address) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GetBalance(addr)
}

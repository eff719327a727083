// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements the epoch-based staking and reward-accounting
// program: a global ledger, per-participant stake records, and strict
// per-epoch settlement of proportional rewards.
package staking

import (
	"github.com/meridianchain/meridian/log"
	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/staking/stakes"
	"github.com/meridianchain/meridian/state"
)

var logger = log.WithContext("pkg", "staking")

// Transferor moves balance between two accounts. The move is atomic: it
// either fully succeeds or returns an error having changed nothing.
type Transferor interface {
	Transfer(from, to meridian.Address, amount uint64) error
}

// Staking exposes the program operations over a world state. Atomicity is the
// dispatcher's concern: callers checkpoint the state before any operation and
// revert on error.
type Staking struct {
	store *store
	xfer  Transferor
}

// New creates a staking program instance rooted at the manager account.
func New(managerAddr meridian.Address, st *state.State, xfer Transferor) *Staking {
	return &Staking{
		store: newStore(managerAddr, st),
		xfer:  xfer,
	}
}

// Initialize creates the staking manager. The ledger starts at epoch 0 with
// an empty pool and zero duration, so the authority may start the first
// funded epoch immediately.
func (s *Staking) Initialize(authority, stakeVault, rewardVault meridian.Address, now uint64) error {
	m, err := s.store.GetManagerUnchecked()
	if err != nil {
		return err
	}
	if m.Initialized {
		return ErrAlreadyInitialized
	}

	m.Initialized = true
	m.Authority = authority
	m.StakeVault = stakeVault
	m.RewardVault = rewardVault
	m.Epoch = EpochDescriptor{Index: 0, RewardPool: 0, StartTime: now, Duration: 0}

	if err := s.store.SetManager(m); err != nil {
		return err
	}
	logger.Info("initialized staking manager", "authority", authority, "stakeVault", stakeVault, "rewardVault", rewardVault)
	return nil
}

// Deposit settles the user, increases their stake and moves the amount into
// the stake vault.
func (s *Staking) Deposit(user meridian.Address, amount, now uint64) error {
	logger.Debug("deposit", "user", user, "amount", amount)

	if amount == 0 {
		return ErrZeroAmount
	}
	m, err := s.store.GetManager()
	if err != nil {
		return err
	}
	if err := s.rollover(m, now); err != nil {
		return err
	}
	u, err := s.store.GetUserUnchecked(user)
	if err != nil {
		return err
	}
	if !u.Initialized {
		u.Initialized = true
		u.Owner = user
		u.LastSettledEpoch = m.Epoch.Index
	}

	if err := s.settle(m, u, now); err != nil {
		return err
	}

	if u.StakedAmount, err = stakes.CheckedAdd(u.StakedAmount, amount); err != nil {
		return err
	}
	if m.TotalStaked, err = stakes.CheckedAdd(m.TotalStaked, amount); err != nil {
		return err
	}

	if err := s.xfer.Transfer(user, m.StakeVault, amount); err != nil {
		return err
	}

	if err := s.store.SetUser(user, u); err != nil {
		return err
	}
	if err := s.store.SetManager(m); err != nil {
		return err
	}
	logger.Info("deposited", "user", user, "amount", amount, "totalStaked", m.TotalStaked)
	return nil
}

// Unstake settles the user, decreases their stake and returns the amount
// from the stake vault.
func (s *Staking) Unstake(user meridian.Address, amount, now uint64) error {
	logger.Debug("unstake", "user", user, "amount", amount)

	m, err := s.store.GetManager()
	if err != nil {
		return err
	}
	u, err := s.store.GetUser(user)
	if err != nil {
		return err
	}

	if err := s.settle(m, u, now); err != nil {
		return err
	}

	if amount > u.StakedAmount {
		return ErrInsufficientStake
	}
	u.StakedAmount -= amount
	if m.TotalStaked, err = stakes.CheckedSub(m.TotalStaked, amount); err != nil {
		return err
	}

	if err := s.xfer.Transfer(m.StakeVault, user, amount); err != nil {
		return err
	}

	if err := s.store.SetUser(user, u); err != nil {
		return err
	}
	if err := s.store.SetManager(m); err != nil {
		return err
	}
	logger.Info("unstaked", "user", user, "amount", amount, "totalStaked", m.TotalStaked)
	return nil
}

// StartEpoch closes the current epoch and installs the next one. Only the
// authority may call it, and only once the current epoch has elapsed. The
// closed epoch's (totalStaked, rewardPool) pair is archived for settlement.
func (s *Staking) StartEpoch(caller meridian.Address, rewardPool, duration, now uint64) error {
	logger.Debug("start epoch", "caller", caller, "rewardPool", rewardPool, "duration", duration)

	m, err := s.store.GetManager()
	if err != nil {
		return err
	}
	if caller != m.Authority {
		return ErrUnauthorized
	}
	if !m.Epoch.Elapsed(now) {
		return ErrEpochNotElapsed
	}

	snap := &EpochSnapshot{TotalStaked: m.TotalStaked, RewardPool: m.Epoch.RewardPool}
	if err := s.store.SetSnapshot(m.Epoch.Index, snap); err != nil {
		return err
	}

	index, err := stakes.CheckedAdd(m.Epoch.Index, 1)
	if err != nil {
		return err
	}
	m.Epoch = EpochDescriptor{
		Index:      index,
		RewardPool: rewardPool,
		StartTime:  now,
		Duration:   duration,
	}

	if err := s.store.SetManager(m); err != nil {
		return err
	}
	logger.Info("started epoch", "index", index, "rewardPool", rewardPool, "duration", duration)
	return nil
}

// Claim settles the user and pays out their accrued rewards from the reward
// vault. An elapsed funded epoch is closed on the way, so claiming does not
// wait for the authority's next start_epoch. Claiming with nothing accrued
// is rejected.
func (s *Staking) Claim(user meridian.Address, now uint64) (uint64, error) {
	logger.Debug("claim", "user", user)

	m, err := s.store.GetManager()
	if err != nil {
		return 0, err
	}
	u, err := s.store.GetUser(user)
	if err != nil {
		return 0, err
	}

	if err := s.settle(m, u, now); err != nil {
		return 0, err
	}

	rewards := u.PendingRewards
	if rewards == 0 {
		return 0, ErrNothingToClaim
	}
	u.PendingRewards = 0

	if err := s.xfer.Transfer(m.RewardVault, user, rewards); err != nil {
		return 0, err
	}

	if err := s.store.SetUser(user, u); err != nil {
		return 0, err
	}
	// settlement may have closed an elapsed epoch
	if err := s.store.SetManager(m); err != nil {
		return 0, err
	}
	logger.Info("claimed", "user", user, "rewards", rewards)
	return rewards, nil
}

// UserStakedAmount returns the user's staked amount. Read-only; it does not
// settle pending epochs.
func (s *Staking) UserStakedAmount(user meridian.Address) (uint64, error) {
	u, err := s.store.GetUser(user)
	if err != nil {
		return 0, err
	}
	return u.StakedAmount, nil
}

// Manager returns the current global ledger record.
func (s *Staking) Manager() (*StakingManager, error) {
	return s.store.GetManager()
}

// UserInfo returns the user's record with rewards projected through all
// closed epochs, an elapsed funded one included. The record itself is not
// persisted; read paths should run this under a checkpoint they revert (the
// solo host does), since closing an elapsed epoch writes its snapshot.
func (s *Staking) UserInfo(user meridian.Address, now uint64) (*UserStakeInfo, error) {
	m, err := s.store.GetManager()
	if err != nil {
		return nil, err
	}
	u, err := s.store.GetUser(user)
	if err != nil {
		return nil, err
	}
	if err := s.settle(m, u, now); err != nil {
		return nil, err
	}
	return u, nil
}

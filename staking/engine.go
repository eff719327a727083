// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/meridianchain/meridian/staking/stakes"
)

// CalculateReward computes a participant's share of a closed epoch's pool.
// Pure function: floor(pool * staked / totalStaked), zero when the epoch had
// no stakers. Rounding dust stays in the reward vault.
func CalculateReward(snap *EpochSnapshot, staked uint64) uint64 {
	return stakes.ProportionalShare(snap.RewardPool, staked, snap.TotalStaked)
}

// rollover closes the current epoch once it has elapsed with a funded pool:
// the (totalStaked, rewardPool) pair is archived and an empty successor
// installed, so rewards become claimable without waiting for the authority
// to start the next epoch. Unfunded epochs have nothing to distribute and
// stay current until the authority rolls them over.
func (s *Staking) rollover(m *StakingManager, now uint64) error {
	if m.Epoch.RewardPool == 0 || !m.Epoch.Elapsed(now) {
		return nil
	}
	snap := &EpochSnapshot{TotalStaked: m.TotalStaked, RewardPool: m.Epoch.RewardPool}
	if err := s.store.SetSnapshot(m.Epoch.Index, snap); err != nil {
		return err
	}
	index, err := stakes.CheckedAdd(m.Epoch.Index, 1)
	if err != nil {
		return err
	}
	m.Epoch = EpochDescriptor{Index: index, RewardPool: 0, StartTime: now, Duration: 0}
	logger.Debug("rolled over elapsed epoch", "index", index, "totalStaked", snap.TotalStaked)
	return nil
}

// settle first closes the current epoch if it is due, then credits the user
// with rewards for every closed epoch between their last settled epoch and
// the current one, using the archived snapshots of those epochs. It must run
// before any mutation of the user's stake, so a stake change never
// retroactively alters rewards of a past epoch.
// Settling an already settled user is a no-op.
func (s *Staking) settle(m *StakingManager, u *UserStakeInfo, now uint64) error {
	if err := s.rollover(m, now); err != nil {
		return err
	}
	for u.LastSettledEpoch < m.Epoch.Index {
		snap, err := s.store.GetSnapshot(u.LastSettledEpoch)
		if err != nil {
			return err
		}
		reward := CalculateReward(snap, u.StakedAmount)
		credited, err := stakes.CheckedAdd(u.PendingRewards, reward)
		if err != nil {
			return err
		}
		u.PendingRewards = credited
		u.LastSettledEpoch++
	}
	return nil
}

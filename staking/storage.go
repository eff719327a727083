// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/state"
)

var slotEpochSnapshots = meridian.BytesToBytes32([]byte("epoch-snapshots"))

// EpochSnapshot archives the pair in force during a closed epoch, so users
// who settle late still settle against the values that applied then.
// Snapshots are retained indefinitely.
type EpochSnapshot struct {
	TotalStaked uint64
	RewardPool  uint64
}

// store is the root storage of the staking program. The manager record lives
// in the manager account's data; each user record lives in that user's
// account data; epoch snapshots live in the manager account's storage slots.
type store struct {
	addr  meridian.Address
	state *state.State
}

func newStore(addr meridian.Address, st *state.State) *store {
	return &store{addr: addr, state: st}
}

func (s *store) GetManager() (*StakingManager, error) {
	data, err := s.state.GetData(s.addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get staking manager")
	}
	return UnpackManager(data)
}

func (s *store) GetManagerUnchecked() (*StakingManager, error) {
	data, err := s.state.GetData(s.addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get staking manager")
	}
	return UnpackManagerUnchecked(data)
}

func (s *store) SetManager(m *StakingManager) error {
	if err := s.state.SetData(s.addr, m.Pack()); err != nil {
		return errors.Wrap(err, "failed to set staking manager")
	}
	return nil
}

func (s *store) GetUser(user meridian.Address) (*UserStakeInfo, error) {
	data, err := s.state.GetData(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user stake record")
	}
	u, err := UnpackUser(data)
	if err != nil {
		return nil, err
	}
	if u.Owner != user {
		return nil, ErrCorruptAccount
	}
	return u, nil
}

func (s *store) GetUserUnchecked(user meridian.Address) (*UserStakeInfo, error) {
	data, err := s.state.GetData(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user stake record")
	}
	return UnpackUserUnchecked(data)
}

func (s *store) SetUser(user meridian.Address, u *UserStakeInfo) error {
	if err := s.state.SetData(user, u.Pack()); err != nil {
		return errors.Wrap(err, "failed to set user stake record")
	}
	return nil
}

func snapshotKey(index uint64) meridian.Bytes32 {
	var indexBytes [8]byte
	binary.BigEndian.PutUint64(indexBytes[:], index)
	return meridian.Blake2b(slotEpochSnapshots.Bytes(), indexBytes[:])
}

// GetSnapshot loads the archived snapshot of a closed epoch.
func (s *store) GetSnapshot(index uint64) (*EpochSnapshot, error) {
	raw, err := s.state.GetStorage(s.addr, snapshotKey(index))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get epoch snapshot")
	}
	if len(raw) == 0 {
		return nil, errors.Errorf("missing snapshot for epoch %d", index)
	}
	var snap EpochSnapshot
	if err := rlp.DecodeBytes(raw, &snap); err != nil {
		return nil, errors.Wrap(err, "failed to decode epoch snapshot")
	}
	return &snap, nil
}

// SetSnapshot archives the snapshot of the epoch being closed.
func (s *store) SetSnapshot(index uint64, snap *EpochSnapshot) error {
	raw, err := rlp.EncodeToBytes(snap)
	if err != nil {
		return errors.Wrap(err, "failed to encode epoch snapshot")
	}
	s.state.SetStorage(s.addr, snapshotKey(index), raw)
	return nil
}

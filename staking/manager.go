// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"encoding/binary"

	"github.com/meridianchain/meridian/meridian"
)

// ManagerDataLen is the fixed byte length of a packed StakingManager record.
// Any change to field order or width is a breaking format change.
const ManagerDataLen = 1 + meridian.AddressLength*3 + 8 + 8 + 8 + 8 + 8

// EpochDescriptor describes the epoch currently accepting rewards.
// It is replaced wholesale on each epoch rollover; the closed epoch's
// snapshot is archived for late settlers (see store.SetSnapshot).
type EpochDescriptor struct {
	Index      uint64
	RewardPool uint64
	StartTime  uint64
	Duration   uint64
}

// Elapsed reports whether the epoch's duration has passed at the given time.
func (e *EpochDescriptor) Elapsed(now uint64) bool {
	end := e.StartTime + e.Duration
	if end < e.StartTime { // saturate instead of wrapping
		return false
	}
	return now >= end
}

// StakingManager is the global ledger record: one instance, owned by the
// program, mutated only on behalf of the authority or through deposits and
// unstakes.
type StakingManager struct {
	Initialized bool
	Authority   meridian.Address
	StakeVault  meridian.Address
	RewardVault meridian.Address
	TotalStaked uint64
	Epoch       EpochDescriptor
}

// Pack encodes the record into its fixed little-endian layout.
func (m *StakingManager) Pack() []byte {
	data := make([]byte, ManagerDataLen)
	if m.Initialized {
		data[0] = 1
	}
	offset := 1
	offset += copy(data[offset:], m.Authority.Bytes())
	offset += copy(data[offset:], m.StakeVault.Bytes())
	offset += copy(data[offset:], m.RewardVault.Bytes())
	for _, v := range []uint64{
		m.TotalStaked,
		m.Epoch.Index,
		m.Epoch.RewardPool,
		m.Epoch.StartTime,
		m.Epoch.Duration,
	} {
		binary.LittleEndian.PutUint64(data[offset:], v)
		offset += 8
	}
	return data
}

// UnpackManagerUnchecked decodes a record without requiring the initialized
// flag. Empty input yields a zero record, so a manager account can be
// created on first use.
func UnpackManagerUnchecked(data []byte) (*StakingManager, error) {
	if len(data) == 0 {
		return &StakingManager{}, nil
	}
	if len(data) != ManagerDataLen {
		return nil, ErrCorruptAccount
	}
	var m StakingManager
	m.Initialized = data[0] != 0
	offset := 1
	offset += copy(m.Authority[:], data[offset:offset+meridian.AddressLength])
	offset += copy(m.StakeVault[:], data[offset:offset+meridian.AddressLength])
	offset += copy(m.RewardVault[:], data[offset:offset+meridian.AddressLength])
	for _, v := range []*uint64{
		&m.TotalStaked,
		&m.Epoch.Index,
		&m.Epoch.RewardPool,
		&m.Epoch.StartTime,
		&m.Epoch.Duration,
	} {
		*v = binary.LittleEndian.Uint64(data[offset:])
		offset += 8
	}
	return &m, nil
}

// UnpackManager decodes a record and requires it to be initialized.
func UnpackManager(data []byte) (*StakingManager, error) {
	m, err := UnpackManagerUnchecked(data)
	if err != nil {
		return nil, err
	}
	if !m.Initialized {
		return nil, ErrUninitialized
	}
	return m, nil
}

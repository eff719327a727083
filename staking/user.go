// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"encoding/binary"

	"github.com/meridianchain/meridian/meridian"
)

// UserDataLen is the fixed byte length of a packed UserStakeInfo record.
const UserDataLen = 1 + meridian.AddressLength + 8 + 8 + 8

// UserStakeInfo is the per-participant record. It is created zero-valued on
// first deposit and mutated only by program logic.
//
// Invariant: LastSettledEpoch never exceeds the manager's current epoch index.
type UserStakeInfo struct {
	Initialized      bool
	Owner            meridian.Address
	StakedAmount     uint64
	LastSettledEpoch uint64
	PendingRewards   uint64
}

// IsDormant returns true when the record holds no value and may be cleared.
func (u *UserStakeInfo) IsDormant() bool {
	return u.StakedAmount == 0 && u.PendingRewards == 0
}

// Pack encodes the record into its fixed little-endian layout.
func (u *UserStakeInfo) Pack() []byte {
	data := make([]byte, UserDataLen)
	if u.Initialized {
		data[0] = 1
	}
	offset := 1
	offset += copy(data[offset:], u.Owner.Bytes())
	for _, v := range []uint64{u.StakedAmount, u.LastSettledEpoch, u.PendingRewards} {
		binary.LittleEndian.PutUint64(data[offset:], v)
		offset += 8
	}
	return data
}

// UnpackUserUnchecked decodes a record without requiring the initialized
// flag. Empty input yields a zero record.
func UnpackUserUnchecked(data []byte) (*UserStakeInfo, error) {
	if len(data) == 0 {
		return &UserStakeInfo{}, nil
	}
	if len(data) != UserDataLen {
		return nil, ErrCorruptAccount
	}
	var u UserStakeInfo
	u.Initialized = data[0] != 0
	offset := 1
	offset += copy(u.Owner[:], data[offset:offset+meridian.AddressLength])
	for _, v := range []*uint64{&u.StakedAmount, &u.LastSettledEpoch, &u.PendingRewards} {
		*v = binary.LittleEndian.Uint64(data[offset:])
		offset += 8
	}
	return &u, nil
}

// UnpackUser decodes a record and requires it to be initialized.
func UnpackUser(data []byte) (*UserStakeInfo, error) {
	u, err := UnpackUserUnchecked(data)
	if err != nil {
		return nil, err
	}
	if !u.Initialized {
		return nil, ErrAccountNotFound
	}
	return u, nil
}

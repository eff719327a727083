// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"encoding/binary"

	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/staking/reverts"
)

// Op is the operation discriminant of an instruction.
type Op byte

const (
	OpInitialize Op = iota
	OpDeposit
	OpUnstake
	OpStartEpoch
	OpClaim
	OpGetUserStakedAmount
)

func (op Op) String() string {
	switch op {
	case OpInitialize:
		return "initialize"
	case OpDeposit:
		return "deposit"
	case OpUnstake:
		return "unstake"
	case OpStartEpoch:
		return "start_epoch"
	case OpClaim:
		return "claim"
	case OpGetUserStakedAmount:
		return "get_user_staked_amount"
	default:
		return "unknown"
	}
}

// ParseOp converts an operation name into its discriminant.
func ParseOp(s string) (Op, bool) {
	for op := OpInitialize; op <= OpGetUserStakedAmount; op++ {
		if op.String() == s {
			return op, true
		}
	}
	return 0, false
}

// Instruction rejections.
var (
	ErrBadInstruction   = reverts.New("malformed instruction")
	ErrMissingSignature = reverts.New("missing required signature")
)

// Call is one invocation of the program: an operation, the operand account
// (the user for user operations, the authority for administrative ones) and
// a byte-encoded payload holding the remaining operands.
type Call struct {
	Op      Op
	Caller  meridian.Address
	Payload []byte
}

// InitializePayload encodes the operands of an initialize call.
func InitializePayload(stakeVault, rewardVault meridian.Address) []byte {
	return append(stakeVault.Bytes(), rewardVault.Bytes()...)
}

// AmountPayload encodes the operand of a deposit or unstake call.
func AmountPayload(amount uint64) []byte {
	var payload [8]byte
	binary.LittleEndian.PutUint64(payload[:], amount)
	return payload[:]
}

// EpochPayload encodes the operands of a start_epoch call.
func EpochPayload(rewardPool, duration uint64) []byte {
	var payload [16]byte
	binary.LittleEndian.PutUint64(payload[:8], rewardPool)
	binary.LittleEndian.PutUint64(payload[8:], duration)
	return payload[:]
}

func decodeInitializePayload(payload []byte) (stakeVault, rewardVault meridian.Address, err error) {
	if len(payload) != meridian.AddressLength*2 {
		return meridian.Address{}, meridian.Address{}, ErrBadInstruction
	}
	stakeVault = meridian.BytesToAddress(payload[:meridian.AddressLength])
	rewardVault = meridian.BytesToAddress(payload[meridian.AddressLength:])
	return stakeVault, rewardVault, nil
}

func decodeAmountPayload(payload []byte) (uint64, error) {
	if len(payload) != 8 {
		return 0, ErrBadInstruction
	}
	return binary.LittleEndian.Uint64(payload), nil
}

func decodeEpochPayload(payload []byte) (rewardPool, duration uint64, err error) {
	if len(payload) != 16 {
		return 0, 0, ErrBadInstruction
	}
	return binary.LittleEndian.Uint64(payload[:8]), binary.LittleEndian.Uint64(payload[8:]), nil
}

func decodeEmptyPayload(payload []byte) error {
	if len(payload) != 0 {
		return ErrBadInstruction
	}
	return nil
}

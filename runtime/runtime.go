// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime dispatches program invocations. Every call executes
// against a state checkpoint and is reverted as a whole on any error, so an
// operation either applies all of its effects or none of them.
package runtime

import (
	"math"

	"github.com/meridianchain/meridian/log"
	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/metrics"
	"github.com/meridianchain/meridian/staking"
	"github.com/meridianchain/meridian/staking/reverts"
)

var (
	logger = log.WithContext("pkg", "runtime")

	metricOpCount     = metrics.CounterVec("operation_count", []string{"op", "status"})
	metricTotalStaked = metrics.Gauge("total_staked")
	metricEpochIndex  = metrics.Gauge("current_epoch")
)

// Receipt is the outcome of a successful call.
type Receipt struct {
	Op Op
	// StakedAmount is set for get_user_staked_amount.
	StakedAmount uint64
	// Rewards is set for claim.
	Rewards uint64
}

// Runtime executes calls of one staking program instance.
type Runtime struct {
	managerAddr meridian.Address
}

// New creates a runtime rooted at the manager account.
func New(managerAddr meridian.Address) *Runtime {
	return &Runtime{managerAddr: managerAddr}
}

// ManagerAddress returns the address of the manager account.
func (rt *Runtime) ManagerAddress() meridian.Address {
	return rt.managerAddr
}

// Staking returns a read view of the program over the env's state.
func (rt *Runtime) Staking(env *Env) *staking.Staking {
	return staking.New(rt.managerAddr, env.State, env)
}

// Execute runs one call. On error the env's state is reverted to its state
// at entry; the error kind tells rejection (revert) from internal fault.
func (rt *Runtime) Execute(env *Env, call *Call) (*Receipt, error) {
	checkpoint := env.State.NewCheckpoint()

	receipt, err := rt.run(env, call)
	if err != nil {
		env.State.RevertTo(checkpoint)
		status := "failed"
		if reverts.IsRevertErr(err) {
			status = "reverted"
		}
		metricOpCount.AddWithLabel(1, map[string]string{"op": call.Op.String(), "status": status})
		logger.Debug("call rejected", "op", call.Op, "caller", call.Caller, "err", err)
		return nil, err
	}

	metricOpCount.AddWithLabel(1, map[string]string{"op": call.Op.String(), "status": "ok"})
	rt.observe(env)
	return receipt, nil
}

func (rt *Runtime) run(env *Env, call *Call) (*Receipt, error) {
	st := staking.New(rt.managerAddr, env.State, env)
	receipt := &Receipt{Op: call.Op}

	switch call.Op {
	case OpInitialize:
		if err := rt.requireSigner(env, call.Caller); err != nil {
			return nil, err
		}
		stakeVault, rewardVault, err := decodeInitializePayload(call.Payload)
		if err != nil {
			return nil, err
		}
		return receipt, st.Initialize(call.Caller, stakeVault, rewardVault, env.Now)

	case OpDeposit:
		if err := rt.requireSigner(env, call.Caller); err != nil {
			return nil, err
		}
		amount, err := decodeAmountPayload(call.Payload)
		if err != nil {
			return nil, err
		}
		return receipt, st.Deposit(call.Caller, amount, env.Now)

	case OpUnstake:
		if err := rt.requireSigner(env, call.Caller); err != nil {
			return nil, err
		}
		amount, err := decodeAmountPayload(call.Payload)
		if err != nil {
			return nil, err
		}
		return receipt, st.Unstake(call.Caller, amount, env.Now)

	case OpStartEpoch:
		if err := rt.requireSigner(env, call.Caller); err != nil {
			return nil, err
		}
		rewardPool, duration, err := decodeEpochPayload(call.Payload)
		if err != nil {
			return nil, err
		}
		return receipt, st.StartEpoch(call.Caller, rewardPool, duration, env.Now)

	case OpClaim:
		if err := rt.requireSigner(env, call.Caller); err != nil {
			return nil, err
		}
		if err := decodeEmptyPayload(call.Payload); err != nil {
			return nil, err
		}
		rewards, err := st.Claim(call.Caller, env.Now)
		if err != nil {
			return nil, err
		}
		receipt.Rewards = rewards
		return receipt, nil

	case OpGetUserStakedAmount:
		// read-only, no signature required
		if err := decodeEmptyPayload(call.Payload); err != nil {
			return nil, err
		}
		amount, err := st.UserStakedAmount(call.Caller)
		if err != nil {
			return nil, err
		}
		receipt.StakedAmount = amount
		return receipt, nil

	default:
		return nil, ErrBadInstruction
	}
}

func (rt *Runtime) requireSigner(env *Env, addr meridian.Address) error {
	if !env.IsSigned(addr) {
		return ErrMissingSignature
	}
	return nil
}

func (rt *Runtime) observe(env *Env) {
	m, err := staking.New(rt.managerAddr, env.State, env).Manager()
	if err != nil {
		return
	}
	metricTotalStaked.Set(gaugeValue(m.TotalStaked))
	metricEpochIndex.Set(gaugeValue(m.Epoch.Index))
}

// gaugeValue clamps a counter to the gauge's int64 range.
func gaugeValue(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianchain/meridian/lvldb"
	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/state"
)

var (
	authority   = meridian.BytesToAddress([]byte("authority"))
	stakeVault  = meridian.BytesToAddress([]byte("stake-vault"))
	rewardVault = meridian.BytesToAddress([]byte("reward-vault"))
	alice       = meridian.BytesToAddress([]byte("alice"))
	bob         = meridian.BytesToAddress([]byte("bob"))
)

// stateTransferor moves balances within the same state, the way the host
// runtime does.
type stateTransferor struct {
	state *state.State
}

func (t *stateTransferor) Transfer(from, to meridian.Address, amount uint64) error {
	fromBalance, err := t.state.GetBalance(from)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return ErrInsufficientStake
	}
	toBalance, err := t.state.GetBalance(to)
	if err != nil {
		return err
	}
	if err := t.state.SetBalance(from, fromBalance-amount); err != nil {
		return err
	}
	return t.state.SetBalance(to, toBalance+amount)
}

func newTestStaking(t *testing.T) (*Staking, *state.State) {
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	st := state.New(store)

	stk := New(ManagerAddress, st, &stateTransferor{st})
	require.NoError(t, stk.Initialize(authority, stakeVault, rewardVault, 1000))

	require.NoError(t, st.SetBalance(alice, 1_000_000))
	require.NoError(t, st.SetBalance(bob, 1_000_000))
	require.NoError(t, st.SetBalance(rewardVault, 1_000_000))
	return stk, st
}

func TestInitialize(t *testing.T) {
	stk, _ := newTestStaking(t)

	m, err := stk.Manager()
	require.NoError(t, err)
	assert.True(t, m.Initialized)
	assert.Equal(t, authority, m.Authority)
	assert.Equal(t, stakeVault, m.StakeVault)
	assert.Equal(t, rewardVault, m.RewardVault)
	assert.Equal(t, uint64(0), m.TotalStaked)
	assert.Equal(t, EpochDescriptor{Index: 0, RewardPool: 0, StartTime: 1000, Duration: 0}, m.Epoch)

	// second initialize is rejected
	err = stk.Initialize(authority, stakeVault, rewardVault, 1000)
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
}

func TestDeposit(t *testing.T) {
	stk, st := newTestStaking(t)

	require.NoError(t, stk.Deposit(alice, 500, 1000))

	amount, err := stk.UserStakedAmount(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), amount)

	m, err := stk.Manager()
	require.NoError(t, err)
	assert.Equal(t, uint64(500), m.TotalStaked)

	vaultBalance, err := st.GetBalance(stakeVault)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), vaultBalance)

	aliceBalance, err := st.GetBalance(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000-500), aliceBalance)

	// deposits accumulate
	require.NoError(t, stk.Deposit(alice, 300, 1000))
	amount, err = stk.UserStakedAmount(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(800), amount)
}

func TestDepositZeroAmount(t *testing.T) {
	stk, _ := newTestStaking(t)
	assert.ErrorIs(t, stk.Deposit(alice, 0, 1000), ErrZeroAmount)
}

func TestDepositOverflow(t *testing.T) {
	stk, st := newTestStaking(t)
	require.NoError(t, st.SetBalance(alice, math.MaxUint64))

	require.NoError(t, stk.Deposit(alice, math.MaxUint64, 1000))
	assert.Error(t, stk.Deposit(alice, 1, 1000))

	// rejected deposit left the stake unchanged
	amount, err := stk.UserStakedAmount(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), amount)
}

func TestUnstake(t *testing.T) {
	stk, st := newTestStaking(t)

	require.NoError(t, stk.Deposit(alice, 500, 1000))
	require.NoError(t, stk.Unstake(alice, 200, 1000))

	amount, err := stk.UserStakedAmount(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), amount)

	m, err := stk.Manager()
	require.NoError(t, err)
	assert.Equal(t, uint64(300), m.TotalStaked)

	aliceBalance, err := st.GetBalance(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000-300), aliceBalance)

	// full exit
	require.NoError(t, stk.Unstake(alice, 300, 1000))
	amount, err = stk.UserStakedAmount(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), amount)
}

func TestUnstakeInsufficient(t *testing.T) {
	stk, _ := newTestStaking(t)

	require.NoError(t, stk.Deposit(alice, 500, 1000))
	assert.ErrorIs(t, stk.Unstake(alice, 501, 1000), ErrInsufficientStake)
}

func TestUnstakeUnknownUser(t *testing.T) {
	stk, _ := newTestStaking(t)
	assert.ErrorIs(t, stk.Unstake(alice, 1, 1000), ErrAccountNotFound)
}

func TestStartEpoch(t *testing.T) {
	stk, _ := newTestStaking(t)

	// epoch 0 has zero duration, so it can be closed right away
	require.NoError(t, stk.StartEpoch(authority, 1000, 100, 2000))

	m, err := stk.Manager()
	require.NoError(t, err)
	assert.Equal(t, EpochDescriptor{Index: 1, RewardPool: 1000, StartTime: 2000, Duration: 100}, m.Epoch)

	// epoch 1 has not elapsed yet
	err = stk.StartEpoch(authority, 500, 100, 2050)
	assert.ErrorIs(t, err, ErrEpochNotElapsed)

	require.NoError(t, stk.StartEpoch(authority, 500, 100, 2100))
}

func TestStartEpochUnauthorized(t *testing.T) {
	stk, _ := newTestStaking(t)
	assert.ErrorIs(t, stk.StartEpoch(alice, 1000, 100, 2000), ErrUnauthorized)
}

func TestSettleProportional(t *testing.T) {
	stk, _ := newTestStaking(t)

	require.NoError(t, stk.Deposit(alice, 300, 1000))
	require.NoError(t, stk.Deposit(bob, 100, 1000))

	// fund epoch 1 and let it play out
	require.NoError(t, stk.StartEpoch(authority, 1000, 100, 2000))
	require.NoError(t, stk.StartEpoch(authority, 0, 100, 2100))

	aliceInfo, err := stk.UserInfo(alice, 2100)
	require.NoError(t, err)
	assert.Equal(t, uint64(750), aliceInfo.PendingRewards)
	assert.Equal(t, uint64(2), aliceInfo.LastSettledEpoch)

	bobInfo, err := stk.UserInfo(bob, 2100)
	require.NoError(t, err)
	assert.Equal(t, uint64(250), bobInfo.PendingRewards)
}

// A stake change after an epoch closes must not alter that epoch's rewards.
func TestSettleBeforeMutation(t *testing.T) {
	stk, _ := newTestStaking(t)

	require.NoError(t, stk.Deposit(alice, 100, 1000))
	require.NoError(t, stk.StartEpoch(authority, 1000, 100, 2000))
	require.NoError(t, stk.StartEpoch(authority, 0, 100, 2100))

	// deposit triggers settlement against epoch 1's archived values
	require.NoError(t, stk.Deposit(alice, 900, 2100))

	info, err := stk.UserInfo(alice, 2100)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), info.PendingRewards)
	assert.Equal(t, uint64(1000), info.StakedAmount)
}

// Settlement credits each closed epoch exactly once.
func TestSettleIdempotent(t *testing.T) {
	stk, _ := newTestStaking(t)

	require.NoError(t, stk.Deposit(alice, 100, 1000))
	require.NoError(t, stk.StartEpoch(authority, 1000, 100, 2000))
	require.NoError(t, stk.StartEpoch(authority, 0, 100, 2100))

	// each of these settles; rewards must not double
	require.NoError(t, stk.Deposit(alice, 1, 2100))
	require.NoError(t, stk.Unstake(alice, 1, 2100))

	info, err := stk.UserInfo(alice, 2100)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), info.PendingRewards)
}

// A user who deposits after an epoch closed gets nothing for it.
func TestLateDepositorEarnsNothing(t *testing.T) {
	stk, _ := newTestStaking(t)

	require.NoError(t, stk.Deposit(alice, 100, 1000))
	require.NoError(t, stk.StartEpoch(authority, 1000, 100, 2000))
	require.NoError(t, stk.StartEpoch(authority, 500, 100, 2100))

	// bob arrives during epoch 2
	require.NoError(t, stk.Deposit(bob, 100, 2150))

	bobInfo, err := stk.UserInfo(bob, 2150)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), bobInfo.PendingRewards)
	assert.Equal(t, uint64(2), bobInfo.LastSettledEpoch)
}

// A depositor arriving after a funded epoch elapsed, before anyone closed
// it, must not share in its pool.
func TestLateDepositorAfterElapse(t *testing.T) {
	stk, _ := newTestStaking(t)

	require.NoError(t, stk.Deposit(alice, 100, 1000))
	require.NoError(t, stk.StartEpoch(authority, 1000, 100, 2000))

	// epoch 1 elapsed at 2100; bob's deposit closes it before he joins
	require.NoError(t, stk.Deposit(bob, 100, 2150))

	bobInfo, err := stk.UserInfo(bob, 2150)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), bobInfo.PendingRewards)

	aliceInfo, err := stk.UserInfo(alice, 2150)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), aliceInfo.PendingRewards)
}

func TestClaim(t *testing.T) {
	stk, st := newTestStaking(t)

	require.NoError(t, stk.Deposit(alice, 100, 1000))
	require.NoError(t, stk.StartEpoch(authority, 1000, 100, 2000))
	require.NoError(t, stk.StartEpoch(authority, 0, 100, 2100))

	rewards, err := stk.Claim(alice, 2100)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), rewards)

	aliceBalance, err := st.GetBalance(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000-100+1000), aliceBalance)

	// a second claim finds nothing
	_, err = stk.Claim(alice, 2100)
	assert.ErrorIs(t, err, ErrNothingToClaim)
}

// An elapsed funded epoch pays out at claim time, without waiting for the
// authority to start the next one.
func TestClaimAfterEpochElapsed(t *testing.T) {
	stk, _ := newTestStaking(t)

	require.NoError(t, stk.Deposit(alice, 100, 1000))
	require.NoError(t, stk.StartEpoch(authority, 10, 100, 2000))

	// claiming before the epoch elapsed finds nothing
	_, err := stk.Claim(alice, 2050)
	assert.ErrorIs(t, err, ErrNothingToClaim)

	rewards, err := stk.Claim(alice, 2100)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), rewards)

	// the epoch was closed and the rollover persisted
	m, err := stk.Manager()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), m.Epoch.Index)
	assert.Equal(t, uint64(0), m.Epoch.RewardPool)

	_, err = stk.Claim(alice, 2200)
	assert.ErrorIs(t, err, ErrNothingToClaim)
}

// The view projects an elapsed epoch's rewards before anything persists it.
func TestUserInfoProjectsElapsedEpoch(t *testing.T) {
	stk, _ := newTestStaking(t)

	require.NoError(t, stk.Deposit(alice, 100, 1000))
	require.NoError(t, stk.StartEpoch(authority, 10, 100, 2000))

	info, err := stk.UserInfo(alice, 2050)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), info.PendingRewards)

	info, err = stk.UserInfo(alice, 2100)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), info.PendingRewards)
}

func TestClaimNothing(t *testing.T) {
	stk, _ := newTestStaking(t)

	require.NoError(t, stk.Deposit(alice, 100, 1000))
	_, err := stk.Claim(alice, 1000)
	assert.ErrorIs(t, err, ErrNothingToClaim)
}

// No-staker epochs distribute nothing and settle cleanly.
func TestEmptyEpoch(t *testing.T) {
	stk, _ := newTestStaking(t)

	require.NoError(t, stk.StartEpoch(authority, 1000, 100, 2000))
	require.NoError(t, stk.StartEpoch(authority, 0, 100, 2100))

	require.NoError(t, stk.Deposit(alice, 100, 2100))
	info, err := stk.UserInfo(alice, 2100)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), info.PendingRewards)
}

// Distributed rewards never exceed the epoch's pool, rounding dust stays
// unclaimed.
func TestRewardConservation(t *testing.T) {
	stk, _ := newTestStaking(t)

	require.NoError(t, stk.Deposit(alice, 7, 1000))
	require.NoError(t, stk.Deposit(bob, 11, 1000))
	require.NoError(t, stk.StartEpoch(authority, 1000, 100, 2000))
	require.NoError(t, stk.StartEpoch(authority, 0, 100, 2100))

	aliceRewards, err := stk.Claim(alice, 2100)
	require.NoError(t, err)
	bobRewards, err := stk.Claim(bob, 2100)
	require.NoError(t, err)

	// 1000*7/18=388, 1000*11/18=611
	assert.Equal(t, uint64(388), aliceRewards)
	assert.Equal(t, uint64(611), bobRewards)
	assert.Less(t, aliceRewards+bobRewards, uint64(1001))
}

// Settlement spans multiple closed epochs in one pass.
func TestSettleMultipleEpochs(t *testing.T) {
	stk, _ := newTestStaking(t)

	require.NoError(t, stk.Deposit(alice, 100, 1000))
	require.NoError(t, stk.StartEpoch(authority, 100, 100, 2000))
	require.NoError(t, stk.StartEpoch(authority, 200, 100, 2100))
	require.NoError(t, stk.StartEpoch(authority, 300, 100, 2200))
	require.NoError(t, stk.StartEpoch(authority, 0, 100, 2300))

	info, err := stk.UserInfo(alice, 2300)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), info.PendingRewards)
	assert.Equal(t, uint64(4), info.LastSettledEpoch)
}

func TestUserStakedAmountUnknownUser(t *testing.T) {
	stk, _ := newTestStaking(t)
	_, err := stk.UserStakedAmount(alice)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestOperationsOnUninitialized(t *testing.T) {
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	st := state.New(store)
	stk := New(ManagerAddress, st, &stateTransferor{st})

	assert.ErrorIs(t, stk.Deposit(alice, 1, 1000), ErrUninitialized)
	assert.ErrorIs(t, stk.Unstake(alice, 1, 1000), ErrUninitialized)
	assert.ErrorIs(t, stk.StartEpoch(authority, 1, 1, 1), ErrUninitialized)
	_, err = stk.Claim(alice, 1000)
	assert.ErrorIs(t, err, ErrUninitialized)
}

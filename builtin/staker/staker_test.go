// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/builtin/staker/pool"
	"github.com/vechain/stakepool/builtin/staker/reverts"
	"github.com/vechain/stakepool/builtin/staker/userstake"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

func TestInitializePool(t *testing.T) {
	env := newTestEnv(t)

	p, err := env.staker.Pool()
	require.NoError(t, err)
	assert.Nil(t, p)

	env.initPool(t, 3600)
	assert.Equal(t, int64(initBalance-pool.Slots*testRent), env.balance(t, authority))
	assert.Equal(t, int64(pool.Slots*testRent), env.balance(t, thor.StakerAddress))

	p, err = env.staker.Pool()
	require.NoError(t, err)
	assert.Equal(t, &pool.Pool{Authority: authority, StakingPeriod: 3600}, p)

	// nobody may initialize twice, the authority included
	for _, caller := range []thor.Address{authority, alice} {
		err = env.staker.InitializePool(caller, 1)
		assert.ErrorIs(t, err, reverts.ErrAlreadyInitialized)
	}
	p, err = env.staker.Pool()
	require.NoError(t, err)
	assert.Equal(t, authority, p.Authority)
	assert.Equal(t, int64(3600), p.StakingPeriod)

	out := env.staker.Output()
	require.Len(t, out.Events, 1)
	assert.Equal(t, EventPoolInitialized, out.Events[0].Name)
	assert.Equal(t, thor.StakerAddress, out.Events[0].Address)
	assert.Equal(t, int64(3600), out.Events[0].StakingPeriod())
	require.Len(t, out.Transfers, 1)
	assert.Equal(t, authority, out.Transfers[0].Sender)
}

func TestInitializePoolRentUnpaid(t *testing.T) {
	env := newTestEnv(t)
	poor := thor.BytesToAddress([]byte("poor"))

	err := env.staker.InitializePool(poor, 100)
	assert.ErrorIs(t, err, reverts.ErrInsufficientFunds)

	p, err := env.staker.Pool()
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Empty(t, env.staker.Output().Events)
	assert.Empty(t, env.staker.Output().Transfers)

	err = env.staker.InitializePool(thor.Address{}, 100)
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)
}

func TestInitializePoolNonPositivePeriod(t *testing.T) {
	for _, period := range []int64{0, -100} {
		env := newTestEnv(t)
		env.initPool(t, period)
		require.NoError(t, env.staker.Stake(alice, 10, baseTime))

		amount, err := env.staker.Unstake(alice, baseTime)
		require.NoError(t, err)
		assert.Equal(t, uint64(10), amount)
	}
}

func TestAdjustPeriod(t *testing.T) {
	env := newTestEnv(t)

	err := env.staker.AdjustPeriod(authority, 10)
	assert.ErrorIs(t, err, reverts.ErrPoolNotInitialized)

	env.initPool(t, 100)

	err = env.staker.AdjustPeriod(alice, 10)
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)
	p, err := env.staker.Pool()
	require.NoError(t, err)
	assert.Equal(t, int64(100), p.StakingPeriod)

	require.NoError(t, env.staker.AdjustPeriod(authority, 200))
	p, err = env.staker.Pool()
	require.NoError(t, err)
	assert.Equal(t, int64(200), p.StakingPeriod)
	assert.Equal(t, authority, p.Authority)

	require.NoError(t, env.staker.AdjustPeriod(authority, -1))
	p, err = env.staker.Pool()
	require.NoError(t, err)
	assert.Equal(t, int64(-1), p.StakingPeriod)
}

func TestAdjustPeriodAppliesToLockedStakes(t *testing.T) {
	env := newTestEnv(t)
	env.initPool(t, 1000)
	require.NoError(t, env.staker.Stake(alice, 100, baseTime))

	_, err := env.staker.Unstake(alice, baseTime+10)
	assert.ErrorIs(t, err, reverts.ErrStakingPeriodNotComplete)

	require.NoError(t, env.staker.AdjustPeriod(authority, 10))
	amount, err := env.staker.Unstake(alice, baseTime+10)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), amount)
}

func TestStakeRejections(t *testing.T) {
	env := newTestEnv(t)

	err := env.staker.Stake(alice, 10, baseTime)
	assert.ErrorIs(t, err, reverts.ErrPoolNotInitialized)

	env.initPool(t, 100)
	staker := env.balance(t, thor.StakerAddress)

	tests := []struct {
		name   string
		amount uint64
		want   *reverts.ErrRevert
	}{
		{"zero amount", 0, reverts.ErrInvalidAmount},
		{"more than balance", initBalance + 1, reverts.ErrInsufficientFunds},
		// the rent leaves too little for the whole balance
		{"balance minus rent", initBalance, reverts.ErrInsufficientFunds},
		// the caller would keep a balance below the retained minimum
		{"dust left", initBalance - testRent - testRetain + 1, reverts.ErrTransferFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.staker.Stake(alice, tt.amount, baseTime)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.want.Kind(), reverts.KindOf(err))

			// nothing changed
			assert.Equal(t, int64(initBalance), env.balance(t, alice))
			assert.Equal(t, staker, env.balance(t, thor.StakerAddress))
			assert.Equal(t, uint64(0), env.totalStaked(t))
			allocated, err := env.staker.userService.Exists(alice)
			require.NoError(t, err)
			assert.False(t, allocated)
		})
	}

	// the retained minimum may be undercut by draining the balance completely
	require.NoError(t, env.staker.Stake(alice, initBalance-testRent, baseTime))
	assert.Equal(t, int64(0), env.balance(t, alice))

	assert.ErrorIs(t, env.staker.Stake(bob, 10, 0), errZeroTimestamp)
}

func TestStakeOverflow(t *testing.T) {
	env := newTestEnv(t)
	env.initPool(t, 100)

	rich := new(big.Int).Lsh(big.NewInt(1), 70)
	require.NoError(t, env.state.SetBalance(alice, rich))
	require.NoError(t, env.state.SetBalance(bob, rich))

	require.NoError(t, env.staker.Stake(alice, math.MaxUint64, baseTime))
	err := env.staker.Stake(alice, 1, baseTime+1)
	assert.ErrorIs(t, err, reverts.ErrOverflow)
	err = env.staker.Stake(bob, 1, baseTime+1)
	assert.ErrorIs(t, err, reverts.ErrOverflow)

	rec, err := env.staker.UserStake(alice)
	require.NoError(t, err)
	assert.Equal(t, &userstake.Record{StakedAmount: math.MaxUint64, StakeTimestamp: baseTime}, rec)
}

func TestTimeLockBoundary(t *testing.T) {
	env := newTestEnv(t)
	env.initPool(t, 100)
	require.NoError(t, env.staker.Stake(alice, 500, baseTime))

	_, err := env.staker.Unstake(alice, baseTime+99)
	assert.ErrorIs(t, err, reverts.ErrStakingPeriodNotComplete)
	assert.ErrorContains(t, err, "unlocks at 1700000100")

	amount, err := env.staker.Unstake(alice, baseTime+100)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), amount)
}

func TestStakeUnstakeScenario(t *testing.T) {
	env := newTestEnv(t)
	env.initPool(t, 3600)

	require.NoError(t, env.staker.Stake(alice, 500, baseTime))
	assert.Equal(t, uint64(500), env.totalStaked(t))
	afterStake := env.balance(t, alice)
	assert.Equal(t, int64(initBalance-500-testRent), afterStake)

	_, err := env.staker.Unstake(alice, baseTime+1800)
	assert.ErrorIs(t, err, reverts.ErrStakingPeriodNotComplete)
	assert.Equal(t, uint64(500), env.totalStaked(t))

	amount, err := env.staker.Unstake(alice, baseTime+3600)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), amount)
	assert.Equal(t, uint64(0), env.totalStaked(t))
	assert.Equal(t, afterStake+500, env.balance(t, alice))

	rec, err := env.staker.UserStake(alice)
	require.NoError(t, err)
	assert.Equal(t, &userstake.Record{}, rec)

	events := env.staker.Output().Events
	require.Len(t, events, 3)
	assert.Equal(t, EventStaked, events[1].Name)
	assert.Equal(t, EventUnstaked, events[2].Name)
	assert.Equal(t, uint64(500), events[2].Amount)
	assert.Equal(t, uint64(0), events[2].TotalStaked)
}

func TestTopUpResetsClock(t *testing.T) {
	env := newTestEnv(t)
	env.initPool(t, 100)

	require.NoError(t, env.staker.Stake(alice, 100, baseTime))
	require.NoError(t, env.staker.Stake(alice, 50, baseTime+50))

	rec, err := env.staker.UserStake(alice)
	require.NoError(t, err)
	assert.Equal(t, &userstake.Record{StakedAmount: 150, StakeTimestamp: baseTime + 50}, rec)

	info, err := env.staker.StakeInfo(alice)
	require.NoError(t, err)
	assert.Equal(t, baseTime+150, info.UnlockTime)

	_, err = env.staker.Unstake(alice, baseTime+100)
	assert.ErrorIs(t, err, reverts.ErrStakingPeriodNotComplete)

	amount, err := env.staker.Unstake(alice, baseTime+150)
	require.NoError(t, err)
	assert.Equal(t, uint64(150), amount)
}

func TestDoubleUnstake(t *testing.T) {
	env := newTestEnv(t)
	env.initPool(t, 10)

	_, err := env.staker.Unstake(alice, baseTime)
	assert.ErrorIs(t, err, reverts.ErrNoActiveStake)

	require.NoError(t, env.staker.Stake(alice, 42, baseTime))
	_, err = env.staker.Unstake(alice, baseTime+10)
	require.NoError(t, err)

	_, err = env.staker.Unstake(alice, baseTime+20)
	assert.ErrorIs(t, err, reverts.ErrNoActiveStake)
}

func TestRestakeReusesRecord(t *testing.T) {
	env := newTestEnv(t)
	env.initPool(t, 10)

	require.NoError(t, env.staker.Stake(alice, 100, baseTime))
	_, err := env.staker.Unstake(alice, baseTime+10)
	require.NoError(t, err)
	// rent was charged once
	assert.Equal(t, int64(initBalance-testRent), env.balance(t, alice))

	position := env.staker.userService.Position(alice)
	require.NoError(t, env.staker.Stake(alice, 100, baseTime+20))
	assert.Equal(t, int64(initBalance-testRent-100), env.balance(t, alice))
	assert.Equal(t, position, env.staker.userService.Position(alice))

	_, err = env.staker.Unstake(alice, baseTime+25)
	assert.ErrorIs(t, err, reverts.ErrStakingPeriodNotComplete)
	amount, err := env.staker.Unstake(alice, baseTime+30)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), amount)
}

func TestUnstakePoolShort(t *testing.T) {
	env := newTestEnv(t)
	env.initPool(t, 10)
	require.NoError(t, env.staker.Stake(alice, 100, baseTime))

	require.NoError(t, env.state.SetBalance(thor.StakerAddress, big.NewInt(99)))
	_, err := env.staker.Unstake(alice, baseTime+10)
	assert.ErrorIs(t, err, reverts.ErrTransferFailed)

	rec, err := env.staker.UserStake(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), rec.StakedAmount)
	assert.Equal(t, uint64(100), env.totalStaked(t))
	assert.Equal(t, int64(99), env.balance(t, thor.StakerAddress))
}

func TestStakeInfo(t *testing.T) {
	env := newTestEnv(t)
	stranger := thor.BytesToAddress([]byte("stranger"))

	info, err := env.staker.StakeInfo(stranger)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Balance.Int64())
	assert.False(t, info.Initialized)
	assert.Zero(t, info.StakedAmount)
	assert.Zero(t, info.UnlockTime)

	env.initPool(t, 60)
	require.NoError(t, env.staker.Stake(bob, 7, baseTime))

	info, err = env.staker.StakeInfo(bob)
	require.NoError(t, err)
	assert.True(t, info.Initialized)
	assert.Equal(t, uint64(7), info.StakedAmount)
	assert.Equal(t, baseTime, info.StakeTimestamp)
	assert.Equal(t, baseTime+60, info.UnlockTime)
	assert.Equal(t, uint64(7), info.TotalStaked)
	assert.Equal(t, int64(60), info.StakingPeriod)
	assert.Equal(t, int64(initBalance-7-testRent), info.Balance.Int64())
}

func TestOutputRevertedWithOperation(t *testing.T) {
	env := newTestEnv(t)
	env.initPool(t, 10)
	require.NoError(t, env.staker.Stake(alice, 5, baseTime))
	before := env.staker.Output()

	_, err := env.staker.Unstake(alice, baseTime+1)
	require.Error(t, err)

	after := env.staker.Output()
	assert.Len(t, after.Events, len(before.Events))
	assert.Len(t, after.Transfers, len(before.Transfers))
	assert.Equal(t, tx.Events{before.Events[0], before.Events[1]}, after.Events)
}

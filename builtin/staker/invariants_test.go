// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/builtin/staker/reverts"
	"github.com/vechain/stakepool/thor"
)

func checkInvariants(t *testing.T, env *testEnv, users []thor.Address) {
	var sum uint64
	for _, user := range users {
		rec, err := env.staker.UserStake(user)
		require.NoError(t, err)
		assert.Equal(t, rec.StakedAmount == 0, rec.StakeTimestamp == 0, "user %v", user)
		sum += rec.StakedAmount
	}
	total := env.totalStaked(t)
	assert.Equal(t, sum, total)

	poolBalance, err := env.state.GetBalance(thor.StakerAddress)
	require.NoError(t, err)
	assert.True(t, poolBalance.Cmp(new(big.Int).SetUint64(total)) >= 0)
}

func TestRandomOperationsKeepInvariants(t *testing.T) {
	env := newTestEnv(t)
	env.initPool(t, 50)

	users := []thor.Address{alice, bob, carol}
	rng := rand.New(rand.NewPCG(1, 2))
	now := baseTime

	for n := 0; n < 500; n++ {
		now += rng.Uint64N(20)
		user := users[rng.IntN(len(users))]

		switch rng.IntN(4) {
		case 0, 1:
			err := env.staker.Stake(user, rng.Uint64N(1000), now)
			if err != nil {
				assert.True(t, reverts.IsRevertErr(err), "%v", err)
			}
		case 2:
			_, err := env.staker.Unstake(user, now)
			if err != nil {
				kind := reverts.KindOf(err)
				assert.Contains(t, []reverts.Kind{reverts.KindNoActiveStake, reverts.KindStakingPeriodNotComplete}, kind)
			}
		case 3:
			require.NoError(t, env.staker.AdjustPeriod(authority, int64(rng.IntN(100))-10))
		}
		checkInvariants(t, env, users)
	}
}

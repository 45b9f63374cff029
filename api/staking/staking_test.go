// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking_test

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/api/staking"
	"github.com/vechain/stakepool/test/datagen"
	"github.com/vechain/stakepool/test/testchain"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

var ts *httptest.Server

func initStakingServer(t *testing.T) *testchain.Chain {
	chain, err := testchain.NewIntegrationTestChain()
	require.NoError(t, err)
	t.Cleanup(func() { chain.Close() })

	router := mux.NewRouter()
	staking.New(chain.Runtime()).Mount(router, "/staking")
	ts = httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return chain
}

func httpGetJSON(t *testing.T, url string, v any) int {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if res.StatusCode == http.StatusOK {
		require.NoError(t, json.Unmarshal(body, v), string(body))
	}
	return res.StatusCode
}

func TestPool(t *testing.T) {
	chain := initStakingServer(t)

	var p staking.Pool
	require.Equal(t, http.StatusOK, httpGetJSON(t, ts.URL+"/staking/pool", &p))
	assert.False(t, p.Initialized)
	assert.Nil(t, p.Authority)
	assert.Equal(t, thor.StakerAddress, p.Address)

	require.NoError(t, chain.InitializePool(3600))
	_, err := chain.Execute(chain.Accounts()[1], tx.NewClause(tx.OpStake).WithAmount(500))
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, httpGetJSON(t, ts.URL+"/staking/pool", &p))
	assert.True(t, p.Initialized)
	require.NotNil(t, p.Authority)
	assert.Equal(t, chain.Accounts()[0].Address, *p.Authority)
	assert.Equal(t, int64(3600), p.StakingPeriod)
	assert.Equal(t, uint64(500), p.TotalStaked)
	// stake plus the rent of both records
	assert.True(t, (*big.Int)(p.Balance).Cmp(big.NewInt(500)) > 0)
}

func TestStakeInfo(t *testing.T) {
	chain := initStakingServer(t)
	user := chain.Accounts()[2]

	var info staking.StakeInfo
	require.Equal(t, http.StatusOK, httpGetJSON(t, ts.URL+"/staking/users/"+datagen.RandAddress().String(), &info))
	assert.False(t, info.Initialized)
	assert.Equal(t, uint64(0), info.StakedAmount)
	assert.Equal(t, 0, (*big.Int)(info.Balance).Sign())

	require.NoError(t, chain.InitializePool(100))
	_, err := chain.Execute(user, tx.NewClause(tx.OpStake).WithAmount(700))
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, httpGetJSON(t, ts.URL+"/staking/users/"+user.Address.String(), &info))
	assert.True(t, info.Initialized)
	assert.Equal(t, user.Address, info.Address)
	assert.Equal(t, uint64(700), info.StakedAmount)
	assert.Equal(t, uint64(700), info.TotalStaked)
	assert.Equal(t, chain.Now(), info.StakeTimestamp)
	assert.Equal(t, chain.Now()+100, info.UnlockTime)
	assert.Equal(t, int64(100), info.StakingPeriod)

	assert.Equal(t, http.StatusBadRequest, httpGetJSON(t, ts.URL+"/staking/users/invalid", &info))
}

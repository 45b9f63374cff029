// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/builtin/params"
	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

const (
	baseTime    uint64 = 1_700_000_000
	testRent           = 2
	testRetain         = 10
	initBalance        = 1_000_000
)

var (
	authority = thor.BytesToAddress([]byte("authority"))
	alice     = thor.BytesToAddress([]byte("alice"))
	bob       = thor.BytesToAddress([]byte("bob"))
	carol     = thor.BytesToAddress([]byte("carol"))
)

type testEnv struct {
	state  *state.State
	staker *Staker
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := kv.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	p := params.New(thor.ParamsAddress, st)
	p.Set(thor.KeyRecordRent, big.NewInt(testRent))
	p.Set(thor.KeyMinRetainedBalance, big.NewInt(testRetain))

	for _, addr := range []thor.Address{authority, alice, bob, carol} {
		require.NoError(t, st.SetBalance(addr, big.NewInt(initBalance)))
	}
	return &testEnv{
		state:  st,
		staker: New(thor.StakerAddress, st, p),
	}
}

func (e *testEnv) initPool(t *testing.T, period int64) {
	require.NoError(t, e.staker.InitializePool(authority, period))
}

func (e *testEnv) balance(t *testing.T, addr thor.Address) int64 {
	bal, err := e.state.GetBalance(addr)
	require.NoError(t, err)
	return bal.Int64()
}

func (e *testEnv) totalStaked(t *testing.T) uint64 {
	p, err := e.staker.Pool()
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.TotalStaked
}

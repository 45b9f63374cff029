// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/tx"
)

func TestChainDefault(t *testing.T) {
	chain, err := NewIntegrationTestChain()
	require.NoError(t, err)
	defer chain.Close()

	require.NoError(t, chain.InitializePool(10))

	user := chain.Accounts()[1]
	_, err = chain.Execute(user, tx.NewClause(tx.OpStake).WithAmount(1000))
	require.NoError(t, err)

	_, err = chain.Execute(user, tx.NewClause(tx.OpUnstake))
	assert.ErrorContains(t, err, "unstake reverted")

	chain.AdvanceTime(10)
	_, err = chain.Execute(user, tx.NewClause(tx.OpUnstake))
	require.NoError(t, err)

	p, err := chain.Runtime().Staker().Pool()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), p.TotalStaked)
	assert.Equal(t, DefaultStartTime+10, chain.Now())
}

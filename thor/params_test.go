// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/stakepool/thor"
)

func TestBuiltinAddresses(t *testing.T) {
	assert.NotEqual(t, thor.ParamsAddress, thor.StakerAddress)
	assert.False(t, thor.ParamsAddress.IsZero())
	assert.Equal(t, "0x00000000000000000000000000005374616b6572", thor.StakerAddress.String())
}

func TestParamKeys(t *testing.T) {
	assert.NotEqual(t, thor.KeyRecordRent, thor.KeyMinRetainedBalance)
	assert.Equal(t, int64(6960), thor.InitialRecordRent.Int64())
	assert.Less(t, thor.InitialRecordRent.Int64()*3, thor.InitialMinRetainedBalance.Int64())
}

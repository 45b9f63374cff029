// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/stakepool/builtin/staker"
	"github.com/vechain/stakepool/builtin/staker/pool"
	"github.com/vechain/stakepool/thor"
)

// Pool for marshal the staking pool.
type Pool struct {
	Initialized   bool                  `json:"initialized"`
	Address       thor.Address          `json:"address"`
	Authority     *thor.Address         `json:"authority"`
	StakingPeriod int64                 `json:"stakingPeriod"`
	TotalStaked   uint64                `json:"totalStaked"`
	Balance       *math.HexOrDecimal256 `json:"balance"`
}

// StakeInfo for marshal the stake of a depositor.
type StakeInfo struct {
	Address        thor.Address          `json:"address"`
	Balance        *math.HexOrDecimal256 `json:"balance"`
	StakedAmount   uint64                `json:"stakedAmount"`
	StakeTimestamp uint64                `json:"stakeTimestamp"`
	UnlockTime     uint64                `json:"unlockTime"`
	TotalStaked    uint64                `json:"totalStaked"`
	StakingPeriod  int64                 `json:"stakingPeriod"`
	Initialized    bool                  `json:"initialized"`
}

func convertPool(p *pool.Pool, poolAddr thor.Address, balance *math.HexOrDecimal256) *Pool {
	out := &Pool{
		Address: poolAddr,
		Balance: balance,
	}
	if p != nil {
		authority := p.Authority
		out.Initialized = true
		out.Authority = &authority
		out.StakingPeriod = p.StakingPeriod
		out.TotalStaked = p.TotalStaked
	}
	return out
}

func convertStakeInfo(addr thor.Address, info *staker.StakeInfo) *StakeInfo {
	return &StakeInfo{
		Address:        addr,
		Balance:        (*math.HexOrDecimal256)(info.Balance),
		StakedAmount:   info.StakedAmount,
		StakeTimestamp: info.StakeTimestamp,
		UnlockTime:     info.UnlockTime,
		TotalStaked:    info.TotalStaked,
		StakingPeriod:  info.StakingPeriod,
		Initialized:    info.Initialized,
	}
}

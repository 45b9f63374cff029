// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math"

	"github.com/vechain/stakepool/metrics"
)

var (
	metricOperations  = metrics.LazyLoadCounterVec("staker_operations_count", []string{"op", "outcome"})
	metricTotalStaked = metrics.LazyLoadGauge("staker_total_staked")
)

func gaugeValue(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package userstake

import (
	"github.com/vechain/stakepool/builtin/solidity"
	"github.com/vechain/stakepool/thor"
)

// Namespace is the tag user record locations are derived from.
const Namespace = "user"

var basePos = thor.Blake2b([]byte(Namespace))

// Record is the locked balance of one depositor.
// StakedAmount and StakeTimestamp are set and cleared together.
type Record struct {
	StakedAmount   uint64
	StakeTimestamp uint64
}

// IsActive reports whether the record holds a locked balance.
func (r *Record) IsActive() bool {
	return r != nil && r.StakedAmount > 0
}

// UnlockTime is the earliest time the record may be withdrawn under the given period.
// The result saturates to the uint64 range.
func (r *Record) UnlockTime(period int64) uint64 {
	if period >= 0 {
		unlock := r.StakeTimestamp + uint64(period)
		if unlock < r.StakeTimestamp {
			return ^uint64(0)
		}
		return unlock
	}
	back := uint64(-(period + 1)) + 1
	if back > r.StakeTimestamp {
		return 0
	}
	return r.StakeTimestamp - back
}

// Service stores one record per depositor identity. Records are allocated on first
// use and zeroed, never deleted, so the allocation is reused by later deposits.
type Service struct {
	records *solidity.Mapping[thor.Address, *Record]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		records: solidity.NewMapping[thor.Address, *Record](sctx, basePos),
	}
}

// Position returns the storage slot of the depositor's record.
func (s *Service) Position(addr thor.Address) thor.Bytes32 {
	return s.records.Position(addr)
}

// Exists reports whether a record has been allocated for the depositor.
func (s *Service) Exists(addr thor.Address) (bool, error) {
	return s.records.Exists(addr)
}

// Get returns the depositor's record. Unallocated records read as zero.
func (s *Service) Get(addr thor.Address) (*Record, error) {
	return s.records.Get(addr)
}

// Set writes the record. When allocate is true rent is charged for the new slots.
func (s *Service) Set(addr thor.Address, record *Record, allocate bool) error {
	return s.records.Set(addr, record, allocate)
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/vechain/stakepool/builtin/solidity"
	"github.com/vechain/stakepool/thor"
)

// Namespace is the tag the pool location is derived from.
const Namespace = "staking_pool"

// Slots is the number of storage slots a pool record occupies.
const Slots = 3

var (
	Position          = thor.Blake2b([]byte(Namespace))
	slotAuthority     = Position
	slotStakingPeriod = thor.Blake2b(Position.Bytes(), []byte("staking_period"))
	slotTotalStaked   = thor.Blake2b(Position.Bytes(), []byte("total_staked"))
)

// Pool is the singleton staking configuration and aggregate.
type Pool struct {
	Authority     thor.Address
	StakingPeriod int64 // seconds, may be zero or negative
	TotalStaked   uint64
}

// Service reads and writes the pool record.
// A pool exists once its authority slot is set; the authority never changes afterwards.
type Service struct {
	sctx *solidity.Context

	authority     *solidity.Address
	stakingPeriod *solidity.Int64
	totalStaked   *solidity.Uint64
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		sctx:          sctx,
		authority:     solidity.NewAddress(sctx, slotAuthority),
		stakingPeriod: solidity.NewInt64(sctx, slotStakingPeriod),
		totalStaked:   solidity.NewUint64(sctx, slotTotalStaked),
	}
}

// IsInitialized checks whether the pool record has been allocated.
func (s *Service) IsInitialized() (bool, error) {
	authority, err := s.authority.Get()
	if err != nil {
		return false, err
	}
	return !authority.IsZero(), nil
}

// Get returns the pool, or nil when it has not been initialized.
func (s *Service) Get() (*Pool, error) {
	authority, err := s.authority.Get()
	if err != nil {
		return nil, err
	}
	if authority.IsZero() {
		return nil, nil
	}
	period, err := s.stakingPeriod.Get()
	if err != nil {
		return nil, err
	}
	total, err := s.totalStaked.Get()
	if err != nil {
		return nil, err
	}
	return &Pool{
		Authority:     authority,
		StakingPeriod: period,
		TotalStaked:   total,
	}, nil
}

// Initialize allocates the pool record, charging rent for its slots.
// Callers must check IsInitialized first.
func (s *Service) Initialize(authority thor.Address, period int64) error {
	if err := s.sctx.PayRent(Slots); err != nil {
		return err
	}
	s.authority.Set(&authority)
	s.stakingPeriod.Set(period)
	s.totalStaked.Set(0)
	return nil
}

// SetStakingPeriod replaces the lock period.
func (s *Service) SetStakingPeriod(period int64) {
	s.stakingPeriod.Set(period)
}

// AddStake increases the aggregate.
func (s *Service) AddStake(amount uint64) error {
	return s.totalStaked.Add(amount)
}

// SubStake decreases the aggregate.
func (s *Service) SubStake(amount uint64) error {
	return s.totalStaked.Sub(amount)
}

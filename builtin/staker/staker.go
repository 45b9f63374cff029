// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/params"
	"github.com/vechain/stakepool/builtin/solidity"
	"github.com/vechain/stakepool/builtin/staker/pool"
	"github.com/vechain/stakepool/builtin/staker/reverts"
	"github.com/vechain/stakepool/builtin/staker/userstake"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

// Names of the events emitted on success.
const (
	EventPoolInitialized = "PoolInitialized"
	EventPeriodAdjusted  = "PeriodAdjusted"
	EventStaked          = "Staked"
	EventUnstaked        = "Unstaked"
)

var (
	logger = log.WithContext("pkg", "staker")

	errZeroTimestamp = errors.New("stake timestamp must be non-zero")
)

func SetLogger(l log.Logger) {
	logger = l
}

// Staker implements native methods of the `Staker` contract.
// Each mutating method is atomic: on error every state change it made is reverted.
type Staker struct {
	addr   thor.Address
	state  *state.State
	params *params.Params

	poolService *pool.Service
	userService *userstake.Service

	// payer is charged storage rent for records allocated by the running operation.
	payer  thor.Address
	output tx.Output
}

// New create a new instance.
func New(addr thor.Address, state *state.State, params *params.Params) *Staker {
	s := &Staker{
		addr:   addr,
		state:  state,
		params: params,
	}
	sctx := solidity.NewContext(addr, state, s.payRent)
	s.poolService = pool.New(sctx)
	s.userService = userstake.New(sctx)
	return s
}

// StakeInfo is a depositor's view of the pool. Absent records read as zero.
type StakeInfo struct {
	Balance        *big.Int
	StakedAmount   uint64
	StakeTimestamp uint64
	UnlockTime     uint64 // zero without an active stake
	TotalStaked    uint64
	StakingPeriod  int64
	Initialized    bool
}

//
// Getters - no state change
//

// Pool returns the pool, or nil when it has not been initialized.
func (s *Staker) Pool() (*pool.Pool, error) {
	return s.poolService.Get()
}

// UserStake returns the depositor's record. Depositors who never staked read as zero.
func (s *Staker) UserStake(addr thor.Address) (*userstake.Record, error) {
	return s.userService.Get(addr)
}

// StakeInfo collects the balance, record and pool parameters of a depositor.
func (s *Staker) StakeInfo(addr thor.Address) (*StakeInfo, error) {
	balance, err := s.state.GetBalance(addr)
	if err != nil {
		return nil, err
	}
	info := &StakeInfo{Balance: balance}

	p, err := s.poolService.Get()
	if err != nil {
		return nil, err
	}
	if p != nil {
		info.Initialized = true
		info.TotalStaked = p.TotalStaked
		info.StakingPeriod = p.StakingPeriod
	}

	record, err := s.userService.Get(addr)
	if err != nil {
		return nil, err
	}
	info.StakedAmount = record.StakedAmount
	info.StakeTimestamp = record.StakeTimestamp
	if record.IsActive() {
		info.UnlockTime = record.UnlockTime(info.StakingPeriod)
	}
	return info, nil
}

// Output returns the events and transfers of the operations executed so far.
func (s *Staker) Output() *tx.Output {
	return &tx.Output{
		Events:    append(tx.Events(nil), s.output.Events...),
		Transfers: append(tx.Transfers(nil), s.output.Transfers...),
	}
}

//
// Setters - state change
//

// InitializePool creates the pool with the caller as its authority.
func (s *Staker) InitializePool(caller thor.Address, period int64) error {
	return s.execute(tx.OpInitializePool, caller, func() error {
		if caller.IsZero() {
			return reverts.ErrUnauthorized.Wrap("zero address")
		}
		initialized, err := s.poolService.IsInitialized()
		if err != nil {
			return err
		}
		if initialized {
			return reverts.ErrAlreadyInitialized
		}
		if err := s.poolService.Initialize(caller, period); err != nil {
			return err
		}
		if period <= 0 {
			logger.Warn("staking period is not positive, deposits unlock immediately", "period", period)
		}

		s.emit(&tx.Event{Name: EventPoolInitialized, Subject: caller, Period: uint64(period)})
		logger.Info("staking pool initialized", "authority", caller, "period", period)
		return nil
	})
}

// AdjustPeriod replaces the staking period. Only the pool authority may call it.
// Locked deposits are checked against the new period from now on.
func (s *Staker) AdjustPeriod(caller thor.Address, period int64) error {
	return s.execute(tx.OpAdjustPeriod, caller, func() error {
		p, err := s.poolService.Get()
		if err != nil {
			return err
		}
		if p == nil {
			return reverts.ErrPoolNotInitialized
		}
		if p.Authority != caller {
			return reverts.ErrUnauthorized
		}
		s.poolService.SetStakingPeriod(period)
		if period <= 0 {
			logger.Warn("staking period is not positive, deposits unlock immediately", "period", period)
		}

		s.emit(&tx.Event{Name: EventPeriodAdjusted, Subject: caller, Period: uint64(period), TotalStaked: p.TotalStaked})
		logger.Info("staking period adjusted", "from", p.StakingPeriod, "to", period)
		return nil
	})
}

// Stake locks amount from the caller's balance in the pool.
// The lock clock of the whole accumulated balance restarts at now.
func (s *Staker) Stake(caller thor.Address, amount uint64, now uint64) error {
	return s.execute(tx.OpStake, caller, func() error {
		if now == 0 {
			return errZeroTimestamp
		}
		if amount == 0 {
			return reverts.ErrInvalidAmount
		}
		p, err := s.poolService.Get()
		if err != nil {
			return err
		}
		if p == nil {
			return reverts.ErrPoolNotInitialized
		}

		value := new(big.Int).SetUint64(amount)
		balance, err := s.state.GetBalance(caller)
		if err != nil {
			return err
		}
		if balance.Cmp(value) < 0 {
			return reverts.ErrInsufficientFunds.Wrap("balance %v, stake %v", balance, amount)
		}

		allocated, err := s.userService.Exists(caller)
		if err != nil {
			return err
		}
		record, err := s.userService.Get(caller)
		if err != nil {
			return err
		}
		if record.StakedAmount > math.MaxUint64-amount || p.TotalStaked > math.MaxUint64-amount {
			return reverts.ErrOverflow
		}
		record.StakedAmount += amount
		record.StakeTimestamp = now
		// first stake allocates the record and charges the caller rent
		if err := s.userService.Set(caller, record, !allocated); err != nil {
			return err
		}

		if err := s.transfer(caller, s.addr, value, true); err != nil {
			return err
		}
		if err := s.poolService.AddStake(amount); err != nil {
			return errors.Wrap(err, "add total staked")
		}

		total := p.TotalStaked + amount
		s.emit(&tx.Event{Name: EventStaked, Subject: caller, Amount: amount, TotalStaked: total, Timestamp: now})
		metricTotalStaked().Set(gaugeValue(total))
		logger.Debug("stake recorded", "caller", caller, "amount", amount, "staked", record.StakedAmount, "total", total)
		return nil
	})
}

// Unstake returns the caller's whole locked balance once the staking period has elapsed.
func (s *Staker) Unstake(caller thor.Address, now uint64) (uint64, error) {
	var amount uint64
	err := s.execute(tx.OpUnstake, caller, func() error {
		record, err := s.userService.Get(caller)
		if err != nil {
			return err
		}
		if !record.IsActive() {
			return reverts.ErrNoActiveStake
		}
		p, err := s.poolService.Get()
		if err != nil {
			return err
		}
		if p == nil {
			return reverts.ErrPoolNotInitialized
		}

		unlock := record.UnlockTime(p.StakingPeriod)
		if now < unlock {
			return reverts.ErrStakingPeriodNotComplete.Wrap("unlocks at %d, now %d", unlock, now)
		}

		amount = record.StakedAmount
		if err := s.transfer(s.addr, caller, new(big.Int).SetUint64(amount), false); err != nil {
			return err
		}
		if err := s.poolService.SubStake(amount); err != nil {
			return errors.Wrap(err, "sub total staked")
		}
		// the record keeps its slot so a later stake needs no new rent
		if err := s.userService.Set(caller, &userstake.Record{}, false); err != nil {
			return err
		}

		total := p.TotalStaked - amount
		s.emit(&tx.Event{Name: EventUnstaked, Subject: caller, Amount: amount, TotalStaked: total, Timestamp: now})
		metricTotalStaked().Set(gaugeValue(total))
		logger.Debug("stake withdrawn", "caller", caller, "amount", amount, "total", total)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return amount, nil
}

// execute runs fn inside a state checkpoint, reverting state and output when it fails.
func (s *Staker) execute(op tx.Op, caller thor.Address, fn func() error) error {
	var (
		checkpoint = s.state.NewCheckpoint()
		events     = len(s.output.Events)
		transfers  = len(s.output.Transfers)
	)
	s.payer = caller
	defer func() { s.payer = thor.Address{} }()

	err := fn()
	if err != nil {
		s.state.RevertTo(checkpoint)
		s.output.Events = s.output.Events[:events]
		s.output.Transfers = s.output.Transfers[:transfers]

		outcome := "error"
		if reverts.IsRevertErr(err) {
			outcome = reverts.KindOf(err).String()
		}
		metricOperations().AddWithLabel(1, map[string]string{"op": op.String(), "outcome": outcome})
		logger.Debug("operation reverted", "op", op, "caller", caller, "err", err)
		return err
	}
	metricOperations().AddWithLabel(1, map[string]string{"op": op.String(), "outcome": "ok"})
	return nil
}

// transfer moves value between accounts. Outflows of the caller are held to the
// minimum retained balance rule, outflows of the pool only to its balance.
func (s *Staker) transfer(from, to thor.Address, value *big.Int, fromCaller bool) error {
	var minRetained *big.Int
	if fromCaller {
		var err error
		if minRetained, err = s.params.Get(thor.KeyMinRetainedBalance); err != nil {
			return err
		}
	}

	if err := s.state.Transfer(from, to, value, minRetained); err != nil {
		switch {
		case !fromCaller && errors.Is(err, state.ErrInsufficientBalance):
			return reverts.ErrTransferFailed.Wrap("pool balance short of %v", value)
		case errors.Is(err, state.ErrInsufficientBalance):
			return reverts.ErrInsufficientFunds
		case errors.Is(err, state.ErrRetainedBalance):
			return reverts.ErrTransferFailed.Wrap("%v", err)
		default:
			return err
		}
	}
	s.output.Transfers = append(s.output.Transfers, &tx.Transfer{
		Sender:    from,
		Recipient: to,
		Amount:    new(big.Int).Set(value),
	})
	return nil
}

// payRent charges the payer of the running operation for newly allocated slots.
func (s *Staker) payRent(slots uint64) error {
	rent, err := s.params.Get(thor.KeyRecordRent)
	if err != nil {
		return err
	}
	cost := rent.Mul(rent, new(big.Int).SetUint64(slots))
	if cost.Sign() == 0 {
		return nil
	}
	if err := s.transfer(s.payer, s.addr, cost, true); err != nil {
		if reverts.IsRevertErr(err) {
			return reverts.ErrInsufficientFunds.Wrap("storage rent %v", cost)
		}
		return err
	}
	return nil
}

func (s *Staker) emit(ev *tx.Event) {
	ev.Address = s.addr
	s.output.Events = append(s.output.Events, ev)
}

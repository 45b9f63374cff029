// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/builtin/staker"
	"github.com/vechain/stakepool/builtin/staker/reverts"
	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/metrics"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

const receiptCacheSize = 1024

var (
	logger = log.WithContext("pkg", "runtime")

	metricTxCount = metrics.LazyLoadCounterVec("runtime_tx_count", []string{"op", "reverted"})
)

// Runtime executes staking transactions against the persisted state.
// Each transaction is one atomic unit: its state changes and its receipt are
// committed in a single batch, or not at all.
type Runtime struct {
	lock     sync.Mutex
	db       kv.Store
	stater   *state.Stater
	clock    Clock
	receipts *lru.Cache

	listeners map[chan<- *tx.Receipt]struct{}
	mu        sync.RWMutex
}

// New creates a runtime over db.
func New(db kv.Store, clock Clock) *Runtime {
	receipts, _ := lru.New(receiptCacheSize)
	return &Runtime{
		db:       db,
		stater:   state.NewStater(db),
		clock:    clock,
		receipts: receipts,

		listeners: make(map[chan<- *tx.Receipt]struct{}),
	}
}

// SubscribeReceipts delivers the receipt of every executed transaction to ch, in
// execution order. Delivery does not block: receipts are dropped for a full channel.
// The returned func cancels the subscription.
func (rt *Runtime) SubscribeReceipts(ch chan<- *tx.Receipt) (unsubscribe func()) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.listeners[ch] = struct{}{}
	return func() {
		rt.mu.Lock()
		defer rt.mu.Unlock()

		delete(rt.listeners, ch)
	}
}

func (rt *Runtime) dispatchReceipt(receipt *tx.Receipt) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	for lsn := range rt.listeners {
		select {
		case lsn <- receipt:
		default:
			logger.Debug("receipt dropped for slow subscriber", "id", receipt.TxID)
		}
	}
}

// Clock returns the time source of the runtime.
func (rt *Runtime) Clock() Clock {
	return rt.clock
}

// State returns a fresh view of the committed state. Changes made to it are never persisted.
func (rt *Runtime) State() *state.State {
	return rt.stater.NewState()
}

// Staker binds the staker contract to a fresh view of the committed state.
func (rt *Runtime) Staker() *staker.Staker {
	return builtin.Staker.Native(rt.State())
}

// View runs fn against a snapshot of the committed state. Every read made inside fn
// observes the same commit, even when transactions are executed meanwhile.
func (rt *Runtime) View(fn func(st *state.State) error) error {
	st, release, err := rt.stater.NewSnapshotState()
	if err != nil {
		return errors.WithMessage(err, "snapshot state")
	}
	defer release()
	return fn(st)
}

// GetReceipt returns the receipt of an executed transaction.
func (rt *Runtime) GetReceipt(id thor.Bytes32) (*tx.Receipt, error) {
	if cached, ok := rt.receipts.Get(id); ok {
		return cached.(*tx.Receipt), nil
	}
	receipt, err := loadReceipt(rt.db, id)
	if err != nil {
		return nil, err
	}
	rt.receipts.Add(id, receipt)
	return receipt, nil
}

// ExecuteTransaction executes a signed transaction.
// A rejected staking operation still produces a reverted receipt, which is persisted
// so the same tx can not be replayed. Bad or known transactions return an error and
// leave no trace.
func (rt *Runtime) ExecuteTransaction(trx *tx.Transaction) (*tx.Receipt, error) {
	resolved, err := ResolveTransaction(trx)
	if err != nil {
		return nil, err
	}

	rt.lock.Lock()
	defer rt.lock.Unlock()

	if rt.receipts.Contains(resolved.ID) {
		return nil, errKnownTx
	}
	if known, err := receiptBucket.NewGetter(rt.db).Has(resolved.ID.Bytes()); err != nil {
		return nil, err
	} else if known {
		return nil, errKnownTx
	}

	now := rt.clock.Now()
	if err := resolved.CheckExpiration(now); err != nil {
		return nil, err
	}

	st := rt.stater.NewState()
	checkpoint := st.NewCheckpoint()

	stk := builtin.Staker.Native(st)
	receipt := &tx.Receipt{
		TxID:      resolved.ID,
		Origin:    resolved.Origin,
		Op:        resolved.Clause.Op(),
		Timestamp: now,
	}

	if err := dispatch(stk, resolved.Origin, resolved.Clause, now); err != nil {
		if !reverts.IsRevertErr(err) {
			return nil, errors.WithMessage(err, "execute "+resolved.Clause.Op().String())
		}
		st.RevertTo(checkpoint)
		receipt.Reverted = true
		receipt.RevertKind = reverts.KindOf(err).String()
		receipt.RevertReason = err.Error()
	} else {
		receipt.Output = stk.Output()
	}

	if err := rt.stater.Commit(st.Stage(), func(putter kv.Putter) error {
		return saveReceipt(putter, receipt)
	}); err != nil {
		return nil, err
	}
	rt.receipts.Add(receipt.TxID, receipt)
	rt.dispatchReceipt(receipt)

	metricTxCount().AddWithLabel(1, map[string]string{
		"op":       receipt.Op.String(),
		"reverted": strconv.FormatBool(receipt.Reverted),
	})
	logger.Debug("tx executed",
		"id", receipt.TxID,
		"origin", receipt.Origin,
		"op", receipt.Op,
		"reverted", receipt.Reverted,
	)
	return receipt, nil
}

// Simulate runs the clause on behalf of origin against a throwaway view of the
// committed state. Nothing is persisted; a rejected operation returns its revert error.
func (rt *Runtime) Simulate(origin thor.Address, clause *tx.Clause) (*tx.Output, error) {
	if !clause.Op().IsValid() {
		return nil, badTxError{"unknown op " + clause.Op().String()}
	}
	var output *tx.Output
	err := rt.View(func(st *state.State) error {
		stk := builtin.Staker.Native(st)
		if err := dispatch(stk, origin, clause, rt.clock.Now()); err != nil {
			return err
		}
		output = stk.Output()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}

func dispatch(stk *staker.Staker, origin thor.Address, clause *tx.Clause, now uint64) error {
	switch clause.Op() {
	case tx.OpInitializePool:
		return stk.InitializePool(origin, clause.Period())
	case tx.OpAdjustPeriod:
		return stk.AdjustPeriod(origin, clause.Period())
	case tx.OpStake:
		return stk.Stake(origin, clause.Amount(), now)
	case tx.OpUnstake:
		_, err := stk.Unstake(origin, now)
		return err
	default:
		return badTxError{"unknown op " + clause.Op().String()}
	}
}

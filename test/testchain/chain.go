// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"fmt"
	"sync/atomic"

	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/test/datagen"
	"github.com/vechain/stakepool/tx"
)

// DefaultStartTime is the clock reading of a new test chain.
const DefaultStartTime uint64 = 1_700_000_000

// Chain is an in-memory ledger with a manually driven clock.
type Chain struct {
	db       kv.Store
	genesis  *genesis.Genesis
	rt       *runtime.Runtime
	now      *atomic.Uint64
	accounts []genesis.DevAccount
}

// NewIntegrationTestChain creates a Chain over an in-memory database initialized
// with the development network genesis.
func NewIntegrationTestChain() (*Chain, error) {
	return NewIntegrationTestChainWithGenesis(genesis.NewDevnet())
}

// NewIntegrationTestChainWithGenesis creates a Chain over an in-memory database initialized with gene.
func NewIntegrationTestChainWithGenesis(gene *genesis.Genesis) (*Chain, error) {
	db, err := kv.NewMem()
	if err != nil {
		return nil, err
	}
	if err := gene.Init(db); err != nil {
		db.Close()
		return nil, err
	}

	now := new(atomic.Uint64)
	now.Store(DefaultStartTime)

	return &Chain{
		db:       db,
		genesis:  gene,
		rt:       runtime.New(db, runtime.ClockFunc(now.Load)),
		now:      now,
		accounts: genesis.DevAccounts(),
	}, nil
}

// Close releases the database.
func (c *Chain) Close() error {
	return c.db.Close()
}

// Genesis returns the genesis the chain was initialized with.
func (c *Chain) Genesis() *genesis.Genesis {
	return c.genesis
}

func (c *Chain) Database() kv.Store {
	return c.db
}

func (c *Chain) Runtime() *runtime.Runtime {
	return c.rt
}

// State returns a fresh view of the committed state.
func (c *Chain) State() *state.State {
	return c.rt.State()
}

// Accounts returns the funded development accounts.
func (c *Chain) Accounts() []genesis.DevAccount {
	return c.accounts
}

// Now returns the current clock reading.
func (c *Chain) Now() uint64 {
	return c.now.Load()
}

// AdvanceTime moves the clock forward by the given seconds.
func (c *Chain) AdvanceTime(seconds uint64) {
	c.now.Add(seconds)
}

// BuildTx creates a transaction carrying the clause, signed by the account.
func (c *Chain) BuildTx(account genesis.DevAccount, clause *tx.Clause) (*tx.Transaction, error) {
	trx, err := tx.NewBuilder(clause).
		Expiration(c.Now() + 100).
		Nonce(datagen.RandUint64()).
		Build()
	if err != nil {
		return nil, err
	}
	return tx.Sign(trx, account.PrivateKey)
}

// Execute signs and executes the clause, failing on a reverted receipt.
func (c *Chain) Execute(account genesis.DevAccount, clause *tx.Clause) (*tx.Receipt, error) {
	trx, err := c.BuildTx(account, clause)
	if err != nil {
		return nil, err
	}
	receipt, err := c.rt.ExecuteTransaction(trx)
	if err != nil {
		return nil, err
	}
	if receipt.Reverted {
		return receipt, fmt.Errorf("%s reverted: %s", clause.Op(), receipt.RevertReason)
	}
	return receipt, nil
}

// InitializePool initializes the pool with the first dev account as authority.
func (c *Chain) InitializePool(period int64) error {
	_, err := c.Execute(c.accounts[0], tx.NewClause(tx.OpInitializePool).WithPeriod(period))
	return err
}

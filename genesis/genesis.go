// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

const metaBucket = kv.Bucket("m")

var (
	genesisKey = []byte("genesis")
	logger     = log.WithContext("pkg", "genesis")
)

// Genesis is the initial allocation of a network.
type Genesis struct {
	name  string
	id    thor.Bytes32
	alloc *allocation
}

// allocation is everything applied to the empty state. Its rlp hash identifies the genesis.
type allocation struct {
	Accounts           []allocAccount
	RecordRent         *big.Int
	MinRetainedBalance *big.Int
	Pool               *allocPool `rlp:"nil"`
}

type allocAccount struct {
	Address thor.Address
	Balance *big.Int
}

type allocPool struct {
	Authority     thor.Address
	StakingPeriod uint64 // int64 in two's complement
}

func newGenesis(name string, alloc *allocation) (*Genesis, error) {
	data, err := rlp.EncodeToBytes(alloc)
	if err != nil {
		return nil, errors.Wrap(err, "encode genesis")
	}
	return &Genesis{name: name, id: thor.Blake2b(data), alloc: alloc}, nil
}

// Name returns the network name.
func (g *Genesis) Name() string {
	return g.name
}

// ID returns the hash identifying the allocation.
func (g *Genesis) ID() thor.Bytes32 {
	return g.id
}

// Apply writes the allocation to st.
func (g *Genesis) Apply(st *state.State) error {
	for _, acc := range g.alloc.Accounts {
		if err := st.SetBalance(acc.Address, acc.Balance); err != nil {
			return err
		}
	}
	params := builtin.Params.Native(st)
	params.Set(thor.KeyRecordRent, g.alloc.RecordRent)
	params.Set(thor.KeyMinRetainedBalance, g.alloc.MinRetainedBalance)

	if p := g.alloc.Pool; p != nil {
		if err := builtin.Staker.Native(st).InitializePool(p.Authority, int64(p.StakingPeriod)); err != nil {
			return errors.WithMessage(err, "initialize pool")
		}
	}
	return nil
}

// Init applies the genesis to an empty store, or checks a used store was set up with the same genesis.
func (g *Genesis) Init(db kv.Store) error {
	meta := metaBucket.NewGetter(db)
	stored, err := meta.Get(genesisKey)
	if err == nil {
		if !bytes.Equal(stored, g.id.Bytes()) {
			return fmt.Errorf("genesis mismatch: database was initialized with %v, want %v (%v)",
				thor.BytesToBytes32(stored), g.id, g.name)
		}
		return nil
	}
	if !meta.IsNotFound(err) {
		return errors.Wrap(err, "read genesis id")
	}

	stater := state.NewStater(db)
	st := stater.NewState()
	if err := g.Apply(st); err != nil {
		return err
	}
	if err := stater.Commit(st.Stage(), func(putter kv.Putter) error {
		return metaBucket.NewPutter(putter).Put(genesisKey, g.id.Bytes())
	}); err != nil {
		return err
	}
	logger.Info("genesis applied", "network", g.name, "id", g.id, "accounts", len(g.alloc.Accounts))
	return nil
}

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"

	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

// Params binder of `Params` contract.
type Params struct {
	addr  thor.Address
	state *state.State
}

func New(addr thor.Address, state *state.State) *Params {
	return &Params{addr, state}
}

// Get native way to get param.
func (p *Params) Get(key thor.Bytes32) (*big.Int, error) {
	storage, err := p.state.GetStorage(p.addr, key)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(storage.Bytes()), nil
}

// Set native way to set param.
func (p *Params) Set(key thor.Bytes32, value *big.Int) {
	p.state.SetStorage(p.addr, key, thor.BytesToBytes32(value.Bytes()))
}

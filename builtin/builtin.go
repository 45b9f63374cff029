// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/stakepool/builtin/params"
	"github.com/vechain/stakepool/builtin/staker"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

// Builtin contracts binding.
var (
	Params = &paramsContract{contract{thor.ParamsAddress}}
	Staker = &stakerContract{contract{thor.StakerAddress}}
)

type contract struct {
	Address thor.Address
}

type (
	paramsContract struct{ contract }
	stakerContract struct{ contract }
)

func (p *paramsContract) Native(state *state.State) *params.Params {
	return params.New(p.Address, state)
}

func (s *stakerContract) Native(state *state.State) *staker.Staker {
	return staker.New(s.Address, state, Params.Native(state))
}

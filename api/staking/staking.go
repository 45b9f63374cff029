// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/builtin"
	"github.com/vechain/stakepool/builtin/staker"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

// Staking serves read-only views of the staking pool.
type Staking struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Staking {
	return &Staking{rt}
}

func (s *Staking) handleGetPool(w http.ResponseWriter, _ *http.Request) error {
	var res *Pool
	if err := s.rt.View(func(st *state.State) error {
		p, err := builtin.Staker.Native(st).Pool()
		if err != nil {
			return err
		}
		balance, err := st.GetBalance(thor.StakerAddress)
		if err != nil {
			return err
		}
		res = convertPool(p, thor.StakerAddress, (*math.HexOrDecimal256)(balance))
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (s *Staking) handleGetStakeInfo(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(err, "address")
	}
	var info *staker.StakeInfo
	if err := s.rt.View(func(st *state.State) error {
		info, err = builtin.Staker.Native(st).StakeInfo(addr)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, convertStakeInfo(addr, info))
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/pool").
		Methods(http.MethodGet).
		Name("GET /staking/pool").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetPool))
	sub.Path("/users/{address}").
		Methods(http.MethodGet).
		Name("GET /staking/users/{address}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStakeInfo))
}

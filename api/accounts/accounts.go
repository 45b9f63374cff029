// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

type Accounts struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Accounts {
	return &Accounts{rt}
}

func (a *Accounts) getAccount(addr thor.Address) (*Account, error) {
	var acc *Account
	err := a.rt.View(func(st *state.State) error {
		balance, err := st.GetBalance(addr)
		if err != nil {
			return err
		}
		exists, err := st.Exists(addr)
		if err != nil {
			return err
		}
		acc = &Account{
			Balance: (*math.HexOrDecimal256)(balance),
			Exists:  exists,
		}
		return nil
	})
	return acc, err
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(err, "address")
	}
	acc, err := a.getAccount(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
}

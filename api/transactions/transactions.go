// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"math/rand"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

// defaultLifetime is the expiration offset of built txs which do not specify one.
const defaultLifetime = thor.MaxTxLifetime / 2

type Transactions struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Transactions {
	return &Transactions{rt}
}

func (t *Transactions) handleBuildTransaction(w http.ResponseWriter, req *http.Request) error {
	var body *BuildRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(err, "body")
	}
	if body == nil {
		return utils.BadRequest(errors.New("empty"), "body")
	}
	clause, err := body.clause()
	if err != nil {
		return utils.BadRequest(err, "clause")
	}

	if body.Origin != nil {
		if _, err := t.rt.Simulate(*body.Origin, clause); err != nil {
			if runtime.IsBadTx(err) {
				return utils.BadRequest(err, "bad tx")
			}
			return utils.Revert(err)
		}
	}

	builder := tx.NewBuilder(clause)
	exp := t.rt.Clock().Now() + defaultLifetime
	if body.Expiration != nil {
		exp = uint64(*body.Expiration)
	}
	nonce := rand.Uint64() //#nosec G404
	if body.Nonce != nil {
		nonce = uint64(*body.Nonce)
	}
	trx, err := builder.Expiration(exp).Nonce(nonce).Build()
	if err != nil {
		return utils.BadRequest(err, "tx")
	}
	raw, err := rlp.EncodeToBytes(trx)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &UnsignedTx{
		Raw:         hexutil.Encode(raw),
		SigningHash: trx.SigningHash(),
		Expiration:  math.HexOrDecimal64(exp),
		Nonce:       math.HexOrDecimal64(nonce),
	})
}

func (t *Transactions) handleSendTransaction(w http.ResponseWriter, req *http.Request) error {
	var raw *RawTx
	if err := utils.ParseJSON(req.Body, &raw); err != nil {
		return utils.BadRequest(err, "body")
	}
	if raw == nil {
		return utils.BadRequest(errors.New("empty"), "body")
	}
	trx, err := raw.decode()
	if err != nil {
		return utils.BadRequest(err, "raw")
	}

	receipt, err := t.rt.ExecuteTransaction(trx)
	if err != nil {
		if runtime.IsBadTx(err) {
			return utils.BadRequest(err, "bad tx")
		}
		if runtime.IsKnownTx(err) {
			return utils.Forbidden(err, "rejected tx")
		}
		return err
	}
	return utils.WriteJSON(w, ConvertReceipt(receipt))
}

func (t *Transactions) handleGetTransactionReceiptByID(w http.ResponseWriter, req *http.Request) error {
	txID, err := thor.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(err, "id")
	}
	receipt, err := t.rt.GetReceipt(txID)
	if err != nil {
		if runtime.IsNotFound(err) {
			return utils.WriteJSON(w, nil)
		}
		return err
	}
	return utils.WriteJSON(w, ConvertReceipt(receipt))
}

func (t *Transactions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /transactions").
		HandlerFunc(utils.WrapHandlerFunc(t.handleSendTransaction))
	sub.Path("/build").
		Methods(http.MethodPost).
		Name("POST /transactions/build").
		HandlerFunc(utils.WrapHandlerFunc(t.handleBuildTransaction))
	sub.Path("/{id}/receipt").
		Methods(http.MethodGet).
		Name("GET /transactions/{id}/receipt").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetTransactionReceiptByID))
}

// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

// ResolvedTransaction resolve the transaction and authenticates its origin.
type ResolvedTransaction struct {
	tx     *tx.Transaction
	ID     thor.Bytes32
	Origin thor.Address
	Clause *tx.Clause
}

// ResolveTransaction resolves the transaction and performs basic validation.
func ResolveTransaction(trx *tx.Transaction) (*ResolvedTransaction, error) {
	if err := trx.Validate(); err != nil {
		return nil, badTxError{err.Error()}
	}
	origin, err := trx.Origin()
	if err != nil {
		return nil, badTxError{"invalid signature: " + err.Error()}
	}
	return &ResolvedTransaction{
		tx:     trx,
		ID:     trx.ID(),
		Origin: origin,
		Clause: trx.Clause(),
	}, nil
}

// CheckExpiration rejects a tx which has expired or expires too far in the future.
func (r *ResolvedTransaction) CheckExpiration(now uint64) error {
	exp := r.tx.Expiration()
	if exp < now {
		return badTxError{"expired"}
	}
	if exp-now > thor.MaxTxLifetime {
		return badTxError{"expiration too far in the future"}
	}
	return nil
}

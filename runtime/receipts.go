// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

const receiptBucket = kv.Bucket("r")

func saveReceipt(putter kv.Putter, receipt *tx.Receipt) error {
	data, err := rlp.EncodeToBytes(receipt)
	if err != nil {
		return errors.Wrap(err, "encode receipt")
	}
	return receiptBucket.NewPutter(putter).Put(receipt.TxID.Bytes(), data)
}

func loadReceipt(getter kv.Getter, id thor.Bytes32) (*tx.Receipt, error) {
	data, err := receiptBucket.NewGetter(getter).Get(id.Bytes())
	if err != nil {
		if getter.IsNotFound(err) {
			return nil, errNotFound
		}
		return nil, err
	}
	var receipt tx.Receipt
	if err := rlp.DecodeBytes(data, &receipt); err != nil {
		return nil, errors.Wrap(err, "decode receipt")
	}
	return &receipt, nil
}

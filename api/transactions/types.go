// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

// BuildRequest describes the unsigned transaction to build.
// When Origin is set the operation is first simulated on its behalf.
type BuildRequest struct {
	Op         string               `json:"op"`
	Amount     *math.HexOrDecimal64 `json:"amount,omitempty"`
	Period     *int64               `json:"period,omitempty"`
	Expiration *math.HexOrDecimal64 `json:"expiration,omitempty"`
	Nonce      *math.HexOrDecimal64 `json:"nonce,omitempty"`
	Origin     *thor.Address        `json:"origin,omitempty"`
}

func (r *BuildRequest) clause() (*tx.Clause, error) {
	op, err := tx.ParseOp(r.Op)
	if err != nil {
		return nil, err
	}
	clause := tx.NewClause(op)
	switch op {
	case tx.OpInitializePool, tx.OpAdjustPeriod:
		if r.Period == nil {
			return nil, errors.New("period required")
		}
		clause = clause.WithPeriod(*r.Period)
	case tx.OpStake:
		if r.Amount == nil {
			return nil, errors.New("amount required")
		}
		clause = clause.WithAmount(uint64(*r.Amount))
	}
	return clause, nil
}

// UnsignedTx is a built transaction waiting for its signature.
type UnsignedTx struct {
	Raw         string              `json:"raw"`
	SigningHash thor.Bytes32        `json:"signingHash"`
	Expiration  math.HexOrDecimal64 `json:"expiration"`
	Nonce       math.HexOrDecimal64 `json:"nonce"`
}

type RawTx struct {
	Raw string `json:"raw"`
}

func (rtx *RawTx) decode() (*tx.Transaction, error) {
	data, err := hexutil.Decode(rtx.Raw)
	if err != nil {
		return nil, err
	}
	var trx *tx.Transaction
	if err := rlp.DecodeBytes(data, &trx); err != nil {
		return nil, err
	}
	return trx, nil
}

// Event for json marshal
type Event struct {
	Address       thor.Address `json:"address"`
	Name          string       `json:"name"`
	Subject       thor.Address `json:"subject"`
	Amount        uint64       `json:"amount"`
	TotalStaked   uint64       `json:"totalStaked"`
	StakingPeriod int64        `json:"stakingPeriod"`
	Timestamp     uint64       `json:"timestamp"`
}

// Transfer for json marshal
type Transfer struct {
	Sender    thor.Address          `json:"sender"`
	Recipient thor.Address          `json:"recipient"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
}

// Receipt for json marshal
type Receipt struct {
	TxID         thor.Bytes32 `json:"txID"`
	Origin       thor.Address `json:"origin"`
	Op           string       `json:"op"`
	Timestamp    uint64       `json:"timestamp"`
	Reverted     bool         `json:"reverted"`
	RevertKind   string       `json:"revertKind,omitempty"`
	RevertReason string       `json:"revertReason,omitempty"`
	Events       []*Event     `json:"events"`
	Transfers    []*Transfer  `json:"transfers"`
}

// ConvertReceipt converts a receipt into its json form.
func ConvertReceipt(receipt *tx.Receipt) *Receipt {
	r := &Receipt{
		TxID:         receipt.TxID,
		Origin:       receipt.Origin,
		Op:           receipt.Op.String(),
		Timestamp:    receipt.Timestamp,
		Reverted:     receipt.Reverted,
		RevertKind:   receipt.RevertKind,
		RevertReason: receipt.RevertReason,
		Events:       make([]*Event, 0),
		Transfers:    make([]*Transfer, 0),
	}
	if receipt.Output == nil {
		return r
	}
	for _, ev := range receipt.Output.Events {
		r.Events = append(r.Events, &Event{
			Address:       ev.Address,
			Name:          ev.Name,
			Subject:       ev.Subject,
			Amount:        ev.Amount,
			TotalStaked:   ev.TotalStaked,
			StakingPeriod: ev.StakingPeriod(),
			Timestamp:     ev.Timestamp,
		})
	}
	for _, tr := range receipt.Output.Transfers {
		r.Transfers = append(r.Transfers, &Transfer{
			Sender:    tr.Sender,
			Recipient: tr.Recipient,
			Amount:    (*math.HexOrDecimal256)(tr.Amount),
		})
	}
	return r
}

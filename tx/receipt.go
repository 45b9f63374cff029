// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"

	"github.com/vechain/stakepool/thor"
)

// Event is emitted by the staker for every successful operation.
type Event struct {
	Address     thor.Address // emitting contract
	Name        string
	Subject     thor.Address // caller the event is about
	Amount      uint64
	TotalStaked uint64
	Period      uint64 // int64 in two's complement
	Timestamp   uint64
}

// StakingPeriod returns the signed staking period carried by the event.
func (e *Event) StakingPeriod() int64 {
	return int64(e.Period)
}

// Events slice of event logs.
type Events []*Event

// Transfer token transfer log.
type Transfer struct {
	Sender    thor.Address
	Recipient thor.Address
	Amount    *big.Int
}

// Transfers slice of transfer logs.
type Transfers []*Transfer

// Output output of clause execution.
type Output struct {
	Events    Events
	Transfers Transfers
}

// Receipt represents the results of a transaction.
type Receipt struct {
	TxID      thor.Bytes32
	Origin    thor.Address
	Op        Op
	Timestamp uint64
	// Reverted is set when the operation was rejected and its state changes discarded.
	Reverted bool
	// RevertKind names the rejection, empty unless reverted.
	RevertKind   string
	RevertReason string
	// Output is nil when reverted.
	Output *Output `rlp:"nil"`
}

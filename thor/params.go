// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import "math/big"

// Built-in contract addresses.
var (
	ParamsAddress = BytesToAddress([]byte("Params"))
	StakerAddress = BytesToAddress([]byte("Staker"))
)

// Constants of the host ledger.
const (
	MaxTxLifetime uint64 = 60 * 60 // (unit: second) a tx may not expire further out than this.

	StorageSlotSize = 32 // rent is charged per started slot of an allocated record.
)

// Keys of governance params.
var (
	KeyRecordRent         = BytesToBytes32([]byte("record-rent"))
	KeyMinRetainedBalance = BytesToBytes32([]byte("min-retained-balance"))

	InitialRecordRent         = big.NewInt(6960)   // per storage slot, charged once on allocation.
	InitialMinRetainedBalance = big.NewInt(890880) // a sender may drain to zero, but never below this otherwise.
)

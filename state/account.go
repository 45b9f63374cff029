// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "math/big"

// Account is the host-side account data.
// Records of built-in contracts live in storage slots, not here.
type Account struct {
	Balance *big.Int
}

// IsEmpty returns if an account is empty.
// An empty account is not persisted.
func (a *Account) IsEmpty() bool {
	return a.Balance == nil || a.Balance.Sign() == 0
}

func emptyAccount() *Account {
	return &Account{Balance: &big.Int{}}
}

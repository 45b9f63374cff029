// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/ethereum/go-ethereum/common/math"
)

// Account for marshal account
type Account struct {
	Balance *math.HexOrDecimal256 `json:"balance"`
	Exists  bool                  `json:"exists"`
}

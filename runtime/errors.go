// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/pkg/errors"
)

var (
	errNotFound = errors.New("not found")
	errKnownTx  = errors.New("known transaction")
)

// badTxError is returned for transactions which are rejected without being executed.
type badTxError struct {
	msg string
}

func (e badTxError) Error() string {
	return "bad tx: " + e.msg
}

// IsBadTx returns whether the tx was rejected before execution.
func IsBadTx(err error) bool {
	var bad badTxError
	return errors.As(err, &bad)
}

// IsKnownTx returns whether the tx was executed before.
func IsKnownTx(err error) bool {
	return errors.Is(err, errKnownTx)
}

// IsNotFound returns whether an error indicates that the receipt is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

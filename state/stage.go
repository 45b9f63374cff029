// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/kv"
)

// Stage holds the net changes of a state, ready to be written.
type Stage struct {
	changes map[key][]byte
	order   []key
}

// Len returns the number of changed keys.
func (s *Stage) Len() int {
	return len(s.order)
}

// Commit writes all changes into the putter, usually a kv.Batch,
// so that they land together with anything else put into the same batch.
func (s *Stage) Commit(putter kv.Putter) error {
	accounts := accountBucket.NewPutter(putter)
	storage := storageBucket.NewPutter(putter)

	for _, k := range s.order {
		var (
			p      kv.Putter
			dbKey  []byte
			val    = s.changes[k]
			action = "put"
		)
		switch k.kind {
		case accountKind:
			p, dbKey = accounts, k.addr.Bytes()
		case storageKind:
			p, dbKey = storage, append(k.addr.Bytes(), k.slot.Bytes()...)
		}

		var err error
		if len(val) == 0 {
			action = "delete"
			err = p.Delete(dbKey)
		} else {
			err = p.Put(dbKey, val)
		}
		if err != nil {
			return &Error{errors.Wrapf(err, "stage %v", action)}
		}
	}
	return nil
}

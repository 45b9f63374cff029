// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"

	"github.com/vechain/stakepool/thor"
)

// Int64 stores a signed 64-bit value as its two's complement in the low 8 bytes of a slot.
type Int64 struct {
	context *Context
	pos     thor.Bytes32
}

func NewInt64(context *Context, pos thor.Bytes32) *Int64 {
	return &Int64{context: context, pos: pos}
}

func (i *Int64) Get() (int64, error) {
	storage, err := i.context.state.GetStorage(i.context.address, i.pos)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(storage[24:])), nil
}

func (i *Int64) Set(value int64) {
	var storage thor.Bytes32
	binary.BigEndian.PutUint64(storage[24:], uint64(value))
	i.context.state.SetStorage(i.context.address, i.pos, storage)
}

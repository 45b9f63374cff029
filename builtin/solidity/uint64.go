// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/thor"
)

var (
	ErrOverflow  = errors.New("uint64 overflow")
	ErrUnderflow = errors.New("uint64 underflow")
)

// Uint64 is a wrapper for storage and retrieval of an uint64 counter.
type Uint64 struct {
	context *Context
	pos     thor.Bytes32
}

func NewUint64(context *Context, pos thor.Bytes32) *Uint64 {
	return &Uint64{context: context, pos: pos}
}

func (u *Uint64) Get() (uint64, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(storage[24:]), nil
}

func (u *Uint64) Set(value uint64) {
	var storage thor.Bytes32
	binary.BigEndian.PutUint64(storage[24:], value)
	u.context.state.SetStorage(u.context.address, u.pos, storage)
}

// Add adds value to the stored counter. The counter is left untouched on overflow.
func (u *Uint64) Add(value uint64) error {
	cur, err := u.Get()
	if err != nil {
		return err
	}
	if cur > math.MaxUint64-value {
		return ErrOverflow
	}
	u.Set(cur + value)
	return nil
}

// Sub subtracts value from the stored counter. The counter is left untouched on underflow.
func (u *Uint64) Sub(value uint64) error {
	cur, err := u.Get()
	if err != nil {
		return err
	}
	if cur < value {
		return ErrUnderflow
	}
	u.Set(cur - value)
	return nil
}

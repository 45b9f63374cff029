// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/stakepool/thor"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction for built-in contracts, similar to the mapping in Solidity.
// The slot of each entry is Blake2b(key, basePos), so anyone knowing the key can locate it.
type Mapping[K Key, V any] struct {
	context *Context
	basePos thor.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos thor.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

// Position returns the storage slot of the entry for key.
func (m *Mapping[K, V]) Position(key K) thor.Bytes32 {
	return thor.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Exists returns whether the entry for key has ever been allocated.
func (m *Mapping[K, V]) Exists(key K) (bool, error) {
	raw, err := m.context.state.GetRawStorage(m.context.address, m.Position(key))
	if err != nil {
		return false, err
	}
	return len(raw) > 0, nil
}

// Get decodes the entry for key. A missing entry decodes to the zero value,
// or to a freshly allocated zero struct when V is a pointer.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.context.address, m.Position(key), func(raw []byte) error {
		if reflect.ValueOf(value).Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		}
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Set encodes value into the entry for key. When newValue is set the
// payer is charged rent for the slots the encoded value occupies.
func (m *Mapping[K, V]) Set(key K, value V, newValue bool) error {
	val, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	if newValue {
		if err := m.context.PayRent(slotsOf(len(val))); err != nil {
			return err
		}
	}
	return m.context.state.EncodeStorage(m.context.address, m.Position(key), func() ([]byte, error) {
		return val, nil
	})
}

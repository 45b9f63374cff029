// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

type TestStruct struct {
	Field1 uint64
	Field2 uint64
	Addr1  thor.Address
}

// newTestContext returns a fresh Context with in-memory DB, recording rent charges.
func newTestContext(t *testing.T, rent RentFunc) *Context {
	db, err := kv.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(thor.Address{1}, state.New(db), rent)
}

func TestMapping(t *testing.T) {
	var charged uint64
	ctx := newTestContext(t, func(slots uint64) error {
		charged += slots
		return nil
	})
	mapping := NewMapping[thor.Address, *TestStruct](ctx, thor.Bytes32{1})
	key := thor.BytesToAddress([]byte("key"))

	exists, err := mapping.Exists(key)
	require.NoError(t, err)
	assert.False(t, exists)

	empty, err := mapping.Get(key)
	require.NoError(t, err)
	require.NotNil(t, empty)
	assert.Equal(t, &TestStruct{}, empty)

	value := &TestStruct{Field1: 100, Field2: 200, Addr1: key}
	require.NoError(t, mapping.Set(key, value, true))
	assert.Equal(t, uint64(1), charged)

	got, err := mapping.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, got)

	// updates are not charged
	value.Field1 = 0
	require.NoError(t, mapping.Set(key, value, false))
	assert.Equal(t, uint64(1), charged)

	exists, err = mapping.Exists(key)
	require.NoError(t, err)
	assert.True(t, exists)

	assert.NotEqual(t, mapping.Position(key), mapping.Position(thor.BytesToAddress([]byte("other"))))
}

func TestMappingRentFailure(t *testing.T) {
	errNoFunds := errors.New("no funds")
	ctx := newTestContext(t, func(uint64) error { return errNoFunds })
	mapping := NewMapping[thor.Address, *TestStruct](ctx, thor.Bytes32{1})
	key := thor.BytesToAddress([]byte("key"))

	err := mapping.Set(key, &TestStruct{Field1: 1}, true)
	assert.ErrorIs(t, err, errNoFunds)

	exists, err := mapping.Exists(key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUint64(t *testing.T) {
	ctx := newTestContext(t, nil)
	u := NewUint64(ctx, thor.Bytes32{2})

	v, err := u.Get()
	require.NoError(t, err)
	assert.Zero(t, v)

	require.NoError(t, u.Add(10))
	require.NoError(t, u.Sub(3))
	v, _ = u.Get()
	assert.Equal(t, uint64(7), v)

	assert.ErrorIs(t, u.Sub(8), ErrUnderflow)
	assert.ErrorIs(t, u.Add(math.MaxUint64), ErrOverflow)
	v, _ = u.Get()
	assert.Equal(t, uint64(7), v)
}

func TestInt64(t *testing.T) {
	ctx := newTestContext(t, nil)
	i := NewInt64(ctx, thor.Bytes32{3})

	for _, want := range []int64{0, 3600, -1, math.MinInt64, math.MaxInt64} {
		i.Set(want)
		got, err := i.Get()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestAddress(t *testing.T) {
	ctx := newTestContext(t, nil)
	a := NewAddress(ctx, thor.Bytes32{4})

	got, err := a.Get()
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	addr := thor.BytesToAddress([]byte("authority"))
	a.Set(&addr)
	got, err = a.Get()
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	a.Set(nil)
	got, _ = a.Get()
	assert.True(t, got.IsZero())
}

func TestPayRent(t *testing.T) {
	assert.NoError(t, newTestContext(t, nil).PayRent(3))
	assert.Equal(t, uint64(0), slotsOf(0))
	assert.Equal(t, uint64(1), slotsOf(1))
	assert.Equal(t, uint64(1), slotsOf(32))
	assert.Equal(t, uint64(2), slotsOf(33))
}

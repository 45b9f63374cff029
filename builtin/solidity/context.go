// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

// RentFunc charges the current payer for newly allocated storage slots.
type RentFunc func(slots uint64) error

// Context binds a built-in contract address to the state it operates on
// and to the payer of storage allocations.
type Context struct {
	address thor.Address
	state   *state.State
	rent    RentFunc
}

func NewContext(address thor.Address, state *state.State, rent RentFunc) *Context {
	return &Context{
		address: address,
		state:   state,
		rent:    rent,
	}
}

func (c *Context) Address() thor.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

// PayRent charges rent for the given number of slots. A nil rent func is free.
func (c *Context) PayRent(slots uint64) error {
	if c.rent == nil || slots == 0 {
		return nil
	}
	return c.rent(slots)
}

// slotsOf converts an encoded length into the number of storage slots it occupies.
func slotsOf(length int) uint64 {
	return (uint64(length) + thor.StorageSlotSize - 1) / thor.StorageSlotSize
}

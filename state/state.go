// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/stackedmap"
	"github.com/vechain/stakepool/thor"
)

const (
	accountBucket = kv.Bucket("a")
	storageBucket = kv.Bucket("s")
)

var (
	// ErrInsufficientBalance is returned by Transfer when the sender cannot cover the amount.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrRetainedBalance is returned by Transfer when the sender would be left with a dust balance.
	ErrRetainedBalance = errors.New("sender would fall below minimum retained balance")
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type kind byte

const (
	accountKind kind = iota
	storageKind
)

// key addresses either an account or one storage slot of an account.
type key struct {
	kind kind
	addr thor.Address
	slot thor.Bytes32
}

// State is a revertable view over the accounts persisted in the kv store.
// Writes stay in memory until staged and committed.
type State struct {
	db kv.Getter
	sm *stackedmap.StackedMap[key, []byte]
}

// New create state object.
func New(db kv.Getter) *State {
	s := &State{db: db}
	s.sm = stackedmap.New(s.load)
	s.sm.Push()
	return s
}

func (s *State) load(k key) ([]byte, bool, error) {
	var (
		raw []byte
		err error
	)
	switch k.kind {
	case accountKind:
		raw, err = accountBucket.NewGetter(s.db).Get(k.addr.Bytes())
	case storageKind:
		raw, err = storageBucket.NewGetter(s.db).Get(append(k.addr.Bytes(), k.slot.Bytes()...))
	default:
		panic(fmt.Errorf("unexpected key kind %v", k.kind))
	}
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, true, nil
		}
		return nil, false, &Error{err}
	}
	return raw, true, nil
}

func (s *State) get(k key) ([]byte, error) {
	raw, _, err := s.sm.Get(k)
	return raw, err
}

func (s *State) getAccount(addr thor.Address) (*Account, error) {
	raw, err := s.get(key{kind: accountKind, addr: addr})
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return emptyAccount(), nil
	}
	var acc Account
	if err := rlp.DecodeBytes(raw, &acc); err != nil {
		return nil, &Error{errors.Wrap(err, "decode account")}
	}
	return &acc, nil
}

func (s *State) updateAccount(addr thor.Address, acc *Account) error {
	var raw []byte
	if !acc.IsEmpty() {
		enc, err := rlp.EncodeToBytes(acc)
		if err != nil {
			return &Error{errors.Wrap(err, "encode account")}
		}
		raw = enc
	}
	s.sm.Put(key{kind: accountKind, addr: addr}, raw)
	return nil
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr thor.Address) (*big.Int, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(acc.Balance), nil
}

// SetBalance set balance for the given address.
func (s *State) SetBalance(addr thor.Address, balance *big.Int) error {
	if balance.Sign() < 0 {
		return &Error{errors.New("negative balance")}
	}
	acc, err := s.getAccount(addr)
	if err != nil {
		return err
	}
	acc.Balance = new(big.Int).Set(balance)
	return s.updateAccount(addr, acc)
}

// AddBalance credits amount to the given address.
func (s *State) AddBalance(addr thor.Address, amount *big.Int) error {
	bal, err := s.GetBalance(addr)
	if err != nil {
		return err
	}
	return s.SetBalance(addr, bal.Add(bal, amount))
}

// Transfer moves amount from one account to another.
// The sender must keep either a zero balance or at least minRetained after the move.
// Nothing is written when an error is returned.
func (s *State) Transfer(from, to thor.Address, amount, minRetained *big.Int) error {
	fromBal, err := s.GetBalance(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	remain := new(big.Int).Sub(fromBal, amount)
	if remain.Sign() > 0 && minRetained != nil && remain.Cmp(minRetained) < 0 {
		return ErrRetainedBalance
	}
	if from == to {
		return nil
	}
	if err := s.SetBalance(from, remain); err != nil {
		return err
	}
	return s.AddBalance(to, amount)
}

// Exists returns whether an account holds any value.
func (s *State) Exists(addr thor.Address) (bool, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return false, err
	}
	return !acc.IsEmpty(), nil
}

// GetRawStorage returns the raw RLP value stored at the given slot. Empty means unset.
func (s *State) GetRawStorage(addr thor.Address, slot thor.Bytes32) (rlp.RawValue, error) {
	raw, err := s.get(key{kind: storageKind, addr: addr, slot: slot})
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// SetRawStorage sets the raw RLP value of the given slot. Empty value clears it.
func (s *State) SetRawStorage(addr thor.Address, slot thor.Bytes32, raw rlp.RawValue) {
	s.sm.Put(key{kind: storageKind, addr: addr, slot: slot}, append([]byte(nil), raw...))
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr thor.Address, slot thor.Bytes32) (thor.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, slot)
	if err != nil {
		return thor.Bytes32{}, err
	}
	if len(raw) == 0 {
		return thor.Bytes32{}, nil
	}
	_, content, _, err := rlp.Split(raw)
	if err != nil {
		return thor.Bytes32{}, &Error{errors.Wrap(err, "decode storage")}
	}
	return thor.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr thor.Address, slot, value thor.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, slot, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, slot, v)
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(addr thor.Address, slot thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, slot, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be passed through.
func (s *State) DecodeStorage(addr thor.Address, slot thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, slot)
	if err != nil {
		return err
	}
	return dec(raw)
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	if revision < 1 {
		panic("cannot revert the base level")
	}
	s.sm.PopTo(revision)
}

// Stage collects the effective changes made so far.
func (s *State) Stage() *Stage {
	changes := make(map[key][]byte)
	var order []key
	for _, entry := range s.sm.Journal() {
		if _, ok := changes[entry.Key]; !ok {
			order = append(order, entry.Key)
		}
		changes[entry.Key] = entry.Value
	}
	return &Stage{changes: changes, order: order}
}

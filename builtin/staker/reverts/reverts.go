// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies why a staking operation was rejected.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindAlreadyInitialized
	KindPoolNotInitialized
	KindUnauthorized
	KindInsufficientFunds
	KindTransferFailed
	KindNoActiveStake
	KindStakingPeriodNotComplete
	KindInvalidAmount
	KindOverflow
)

var kindNames = map[Kind]string{
	KindUnknown:                  "Unknown",
	KindAlreadyInitialized:       "AlreadyInitialized",
	KindPoolNotInitialized:       "PoolNotInitialized",
	KindUnauthorized:             "Unauthorized",
	KindInsufficientFunds:        "InsufficientFunds",
	KindTransferFailed:           "TransferFailed",
	KindNoActiveStake:            "NoActiveStake",
	KindStakingPeriodNotComplete: "StakingPeriodNotComplete",
	KindInvalidAmount:            "InvalidAmount",
	KindOverflow:                 "Overflow",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ErrRevert is a rejected operation. The state it touched must be reverted by the caller.
type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

// Is matches any revert of the same kind, so reverts with extra context still
// compare equal to the sentinels below.
func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	if !ok {
		return false
	}
	return t.kind == e.kind
}

// Wrap returns a revert of the same kind with extra context prepended to the message.
func (e *ErrRevert) Wrap(format string, args ...any) *ErrRevert {
	return &ErrRevert{
		kind:    e.kind,
		message: fmt.Sprintf(format, args...) + ": " + e.message,
	}
}

var (
	ErrAlreadyInitialized       = New(KindAlreadyInitialized, "staking pool already initialized")
	ErrPoolNotInitialized       = New(KindPoolNotInitialized, "staking pool not initialized")
	ErrUnauthorized             = New(KindUnauthorized, "caller is not the pool authority")
	ErrInsufficientFunds        = New(KindInsufficientFunds, "insufficient funds")
	ErrTransferFailed           = New(KindTransferFailed, "transfer failed")
	ErrNoActiveStake            = New(KindNoActiveStake, "no active stake")
	ErrStakingPeriodNotComplete = New(KindStakingPeriodNotComplete, "staking period not complete")
	ErrInvalidAmount            = New(KindInvalidAmount, "stake amount must be positive")
	ErrOverflow                 = New(KindOverflow, "amount overflow")
)

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of a revert error, or KindUnknown for anything else.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return KindUnknown
}

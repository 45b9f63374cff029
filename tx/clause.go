// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
)

// Op identifies the staking operation a clause invokes.
type Op uint8

const (
	OpInitializePool Op = iota + 1
	OpAdjustPeriod
	OpStake
	OpUnstake
)

var opNames = map[Op]string{
	OpInitializePool: "initializePool",
	OpAdjustPeriod:   "adjustPeriod",
	OpStake:          "stake",
	OpUnstake:        "unstake",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// IsValid reports whether the op is a known operation.
func (o Op) IsValid() bool {
	_, ok := opNames[o]
	return ok
}

// ParseOp converts an op name back to its Op.
func ParseOp(name string) (Op, error) {
	for op, n := range opNames {
		if n == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown op %q", name)
}

type clauseBody struct {
	Op     Op
	Amount uint64
	Period uint64 // int64 in two's complement, rlp has no signed integers
}

// Clause is the single staking call carried by a transaction.
type Clause struct {
	body clauseBody
}

// NewClause create a new clause instance.
func NewClause(op Op) *Clause {
	return &Clause{clauseBody{Op: op}}
}

// WithAmount create a new clause copy with amount changed.
func (c *Clause) WithAmount(amount uint64) *Clause {
	newClause := *c
	newClause.body.Amount = amount
	return &newClause
}

// WithPeriod create a new clause copy with staking period changed.
func (c *Clause) WithPeriod(period int64) *Clause {
	newClause := *c
	newClause.body.Period = uint64(period)
	return &newClause
}

// Op returns the operation.
func (c *Clause) Op() Op {
	return c.body.Op
}

// Amount returns the stake amount. Only meaningful for OpStake.
func (c *Clause) Amount() uint64 {
	return c.body.Amount
}

// Period returns the staking period in seconds. Only meaningful for OpInitializePool and OpAdjustPeriod.
func (c *Clause) Period() int64 {
	return int64(c.body.Period)
}

// EncodeRLP implements rlp.Encoder
func (c *Clause) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &c.body)
}

// DecodeRLP implements rlp.Decoder
func (c *Clause) DecodeRLP(s *rlp.Stream) error {
	var body clauseBody
	if err := s.Decode(&body); err != nil {
		return err
	}
	*c = Clause{body}
	return nil
}

func (c *Clause) String() string {
	return fmt.Sprintf(`
		(Op:	%v
		 Amount:	%v
		 Period:	%v)`, c.body.Op, c.body.Amount, c.Period())
}

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

// Builder to make it easy to build transaction.
type Builder struct {
	body body
}

// NewBuilder creates a builder for a transaction carrying the given clause.
func NewBuilder(clause *Clause) *Builder {
	return &Builder{body: body{Clause: clause}}
}

// Expiration set the unix time in seconds after which the tx is rejected.
func (b *Builder) Expiration(exp uint64) *Builder {
	b.body.Expiration = exp
	return b
}

// Nonce set nonce.
func (b *Builder) Nonce(nonce uint64) *Builder {
	b.body.Nonce = nonce
	return b
}

// Build build tx object.
func (b *Builder) Build() (*Transaction, error) {
	tx := &Transaction{body: b.body}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	return tx, nil
}

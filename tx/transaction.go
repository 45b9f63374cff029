// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/crypto/secp256k1"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/thor"
)

var errMissingClause = errors.New("missing clause")

// Transaction is an immutable tx type.
type Transaction struct {
	body body

	cache struct {
		signingHash atomic.Pointer[thor.Bytes32]
		origin      atomic.Pointer[thor.Address]
		id          atomic.Pointer[thor.Bytes32]
		size        atomic.Uint64
	}
}

// body describes details of a tx.
type body struct {
	Clause     *Clause
	Expiration uint64
	Nonce      uint64
	Signature  []byte
}

// Clause returns a copy of the clause.
func (t *Transaction) Clause() *Clause {
	if t.body.Clause == nil {
		return nil
	}
	cpy := *t.body.Clause
	return &cpy
}

// Expiration returns the unix time in seconds after which the tx is rejected.
func (t *Transaction) Expiration() uint64 {
	return t.body.Expiration
}

// Nonce returns nonce value.
func (t *Transaction) Nonce() uint64 {
	return t.body.Nonce
}

// Signature returns signature.
func (t *Transaction) Signature() []byte {
	return append([]byte(nil), t.body.Signature...)
}

// SigningHash returns hash of tx excludes signature.
func (t *Transaction) SigningHash() thor.Bytes32 {
	if cached := t.cache.signingHash.Load(); cached != nil {
		return *cached
	}

	hash := thor.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, []any{
			t.body.Clause,
			t.body.Expiration,
			t.body.Nonce,
		})
	})
	t.cache.signingHash.Store(&hash)
	return hash
}

// Origin extracts address of tx originator from signature.
func (t *Transaction) Origin() (thor.Address, error) {
	if cached := t.cache.origin.Load(); cached != nil {
		return *cached, nil
	}

	if len(t.body.Signature) != crypto.SignatureLength {
		return thor.Address{}, secp256k1.ErrInvalidSignatureLen
	}
	pub, err := crypto.SigToPub(t.SigningHash().Bytes(), t.body.Signature)
	if err != nil {
		return thor.Address{}, err
	}

	origin := thor.Address(crypto.PubkeyToAddress(*pub))
	t.cache.origin.Store(&origin)
	return origin, nil
}

// ID returns id of tx.
// ID = hash(signingHash, origin).
// It returns zero Bytes32 if origin not available.
func (t *Transaction) ID() (id thor.Bytes32) {
	if cached := t.cache.id.Load(); cached != nil {
		return *cached
	}
	defer func() { t.cache.id.Store(&id) }()

	origin, err := t.Origin()
	if err != nil {
		return
	}
	return thor.Blake2b(t.SigningHash().Bytes(), origin.Bytes())
}

// Validate checks the tx is well formed.
func (t *Transaction) Validate() error {
	if t.body.Clause == nil {
		return errMissingClause
	}
	if !t.body.Clause.Op().IsValid() {
		return fmt.Errorf("invalid op %v", t.body.Clause.Op())
	}
	return nil
}

// WithSignature create a new tx with signature set.
func (t *Transaction) WithSignature(sig []byte) *Transaction {
	newTx := Transaction{
		body: t.body,
	}
	// copy sig
	newTx.body.Signature = append([]byte(nil), sig...)
	return &newTx
}

// EncodeRLP implements rlp.Encoder
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	_, size, err := s.Kind()
	if err != nil {
		return err
	}
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	t.body = body
	t.cache.signingHash.Store(nil)
	t.cache.origin.Store(nil)
	t.cache.id.Store(nil)
	t.cache.size.Store(rlp.ListSize(size))
	return nil
}

// MarshalBinary returns the canonical encoding of the transaction.
func (t *Transaction) MarshalBinary() ([]byte, error) {
	return rlp.EncodeToBytes(t)
}

// UnmarshalBinary decodes the canonical encoding of transactions.
func (t *Transaction) UnmarshalBinary(b []byte) error {
	return rlp.DecodeBytes(b, t)
}

// Size returns size in bytes when RLP encoded.
func (t *Transaction) Size() uint64 {
	if size := t.cache.size.Load(); size != 0 {
		return size
	}
	enc, err := rlp.EncodeToBytes(t)
	if err != nil {
		return 0
	}
	size := uint64(len(enc))
	t.cache.size.Store(size)
	return size
}

func (t *Transaction) String() string {
	var (
		originStr = "N/A"
		origin, _ = t.Origin()
	)
	if !origin.IsZero() {
		originStr = origin.String()
	}

	return fmt.Sprintf(`
	Tx(%v, %v)
	Origin:         %v
	Clause:         %v
	Expiration:     %v
	Nonce:          %v
	Signature:      0x%x
`, t.ID(), t.Size(), originStr, t.body.Clause, t.body.Expiration, t.body.Nonce, t.body.Signature)
}

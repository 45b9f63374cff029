// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Getter wraps methods for getting kvs.
type Getter interface {
	// Get value for given key.
	// An error returned if key not found. It can be checked via IsNotFound.
	Get(key []byte) (value []byte, err error)
	Has(key []byte) (bool, error)
	IsNotFound(error) bool
}

// Putter wraps methods for putting kvs.
type Putter interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// GetPutter wraps methods for getting/putting kvs.
type GetPutter interface {
	Getter
	Putter
}

// Batch collects puts and writes them atomically.
type Batch interface {
	Putter

	Len() int
	Write() error
}

// Snapshot is a read-only view of a Store frozen at the time it was taken.
// It must be released after use.
type Snapshot interface {
	Getter
	Release()
}

// Store is the persistent backend of the host ledger.
type Store interface {
	GetPutter

	NewBatch() Batch
	NewSnapshot() (Snapshot, error)
	Close() error
}

// GetFunc implements Getter.Get.
type GetFunc func(key []byte) ([]byte, error)

// HasFunc implements Getter.Has.
type HasFunc func(key []byte) (bool, error)

// IsNotFoundFunc implements Getter.IsNotFound.
type IsNotFoundFunc func(err error) bool

// PutFunc implements Putter.Put.
type PutFunc func(key, val []byte) error

// DeleteFunc implements Putter.Delete.
type DeleteFunc func(key []byte) error

func (f GetFunc) Get(key []byte) ([]byte, error) { return f(key) }
func (f HasFunc) Has(key []byte) (bool, error) { return f(key) }
func (f IsNotFoundFunc) IsNotFound(err error) bool { return f(err) }
func (f PutFunc) Put(key, val []byte) error { return f(key, val) }
func (f DeleteFunc) Delete(key []byte) error { return f(key) }

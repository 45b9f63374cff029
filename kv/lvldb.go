// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

var (
	writeOpt = &opt.WriteOptions{Sync: true}
	readOpt  = &opt.ReadOptions{}
)

// Options for opening a level db.
type Options struct {
	CacheSize              int // MiB
	OpenFilesCacheCapacity int
}

// implements Batch interface
type lvldbBatch struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

func (b *lvldbBatch) Put(key, value []byte) error {
	b.batch.Put(key, value)
	return nil
}

func (b *lvldbBatch) Delete(key []byte) error {
	b.batch.Delete(key)
	return nil
}

func (b *lvldbBatch) Len() int {
	return b.batch.Len()
}

func (b *lvldbBatch) Write() error {
	return b.db.Write(b.batch, writeOpt)
}

// implements Snapshot interface
type lvldbSnapshot struct {
	snap *leveldb.Snapshot
}

func (s *lvldbSnapshot) Get(key []byte) ([]byte, error) {
	return s.snap.Get(key, readOpt)
}

func (s *lvldbSnapshot) Has(key []byte) (bool, error) {
	return s.snap.Has(key, readOpt)
}

func (s *lvldbSnapshot) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

func (s *lvldbSnapshot) Release() {
	s.snap.Release()
}

// implements Store interface
type lvldb struct {
	db *leveldb.DB
}

func openLevelDB(stg storage.Storage, opts Options) (*lvldb, error) {
	if opts.CacheSize < 16 {
		opts.CacheSize = 16
	}
	if opts.OpenFilesCacheCapacity < 64 {
		opts.OpenFilesCacheCapacity = 64
	}

	db, err := leveldb.Open(stg, &opt.Options{
		OpenFilesCacheCapacity: opts.OpenFilesCacheCapacity,
		BlockCacheCapacity:     opts.CacheSize / 2 * opt.MiB,
		WriteBuffer:            opts.CacheSize / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open level db")
	}
	return &lvldb{db: db}, nil
}

// NewMem creates a store backed by memory. Mainly for tests and non-persistent nodes.
func NewMem() (Store, error) {
	return openLevelDB(storage.NewMemStorage(), Options{})
}

// New opens or creates a persistent store at path.
func New(path string, opts Options) (Store, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "new persistent level db")
	}
	return openLevelDB(stg, opts)
}

func (ldb *lvldb) Get(key []byte) ([]byte, error) {
	return ldb.db.Get(key, readOpt)
}

func (ldb *lvldb) Has(key []byte) (bool, error) {
	return ldb.db.Has(key, readOpt)
}

func (ldb *lvldb) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

func (ldb *lvldb) Put(key, value []byte) error {
	return ldb.db.Put(key, value, writeOpt)
}

func (ldb *lvldb) Delete(key []byte) error {
	return ldb.db.Delete(key, writeOpt)
}

func (ldb *lvldb) NewBatch() Batch {
	return &lvldbBatch{
		ldb.db,
		&leveldb.Batch{},
	}
}

func (ldb *lvldb) NewSnapshot() (Snapshot, error) {
	snap, err := ldb.db.GetSnapshot()
	if err != nil {
		return nil, errors.Wrap(err, "get snapshot")
	}
	return &lvldbSnapshot{snap}, nil
}

func (ldb *lvldb) Close() error {
	return ldb.db.Close()
}

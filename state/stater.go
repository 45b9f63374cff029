// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/kv"
)

// Stater is the state creator.
type Stater struct {
	db kv.Store
}

// NewStater create a new stater.
func NewStater(db kv.Store) *Stater {
	return &Stater{db}
}

// NewState create a new state object on top of the latest committed data.
func (s *Stater) NewState() *State {
	return New(s.db)
}

// NewSnapshotState creates a state object reading from a snapshot of the committed data.
// Reads through it are unaffected by later commits. The returned func releases the snapshot.
func (s *Stater) NewSnapshotState() (*State, func(), error) {
	snap, err := s.db.NewSnapshot()
	if err != nil {
		return nil, nil, err
	}
	return New(snap), snap.Release, nil
}

// Commit writes the staged changes and any extra puts in one atomic batch.
func (s *Stater) Commit(stage *Stage, extra func(kv.Putter) error) error {
	batch := s.db.NewBatch()
	if err := stage.Commit(batch); err != nil {
		return err
	}
	if extra != nil {
		if err := extra(batch); err != nil {
			return err
		}
	}
	return errors.Wrap(batch.Write(), "write batch")
}

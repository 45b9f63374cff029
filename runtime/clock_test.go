// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonotonicClock(t *testing.T) {
	readings := []int64{0, -5, 100, 90, 150, 150}
	want := []uint64{1, 1, 100, 100, 150, 150}

	i := 0
	clock := newMonotonicClock(func() time.Time {
		defer func() { i++ }()
		return time.Unix(readings[i], 0)
	})
	for _, w := range want {
		assert.Equal(t, w, clock.Now())
	}
}

func TestSystemClock(t *testing.T) {
	clock := NewSystemClock()
	first := clock.Now()
	assert.Greater(t, first, uint64(1))
	assert.GreaterOrEqual(t, clock.Now(), first)
}

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"sync"
	"time"
)

// Clock supplies the current unix time in seconds. It never goes backwards and never returns zero.
type Clock interface {
	Now() uint64
}

// ClockFunc adapts a function into a Clock.
type ClockFunc func() uint64

func (f ClockFunc) Now() uint64 { return f() }

type monotonicClock struct {
	lock sync.Mutex
	src  func() time.Time
	last uint64
}

// NewSystemClock returns a clock over the system time which holds its last reading
// when the wall clock steps back.
func NewSystemClock() Clock {
	return newMonotonicClock(time.Now)
}

func newMonotonicClock(src func() time.Time) *monotonicClock {
	return &monotonicClock{src: src, last: 1}
}

func (c *monotonicClock) Now() uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	if unix := c.src().Unix(); unix > 0 && uint64(unix) > c.last {
		c.last = uint64(unix)
	}
	return c.last
}

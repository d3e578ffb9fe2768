//----------------------------------------------------------------------
// This file is part of vanity.
// Copyright (C) 2026 ton-org
//
// vanity is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// vanity is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package search

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContextStopIsIdempotentAndObservable(t *testing.T) {
	sc := NewContext(false)
	require.False(t, sc.Stopped())
	sc.Stop()
	sc.Stop()
	require.True(t, sc.Stopped())
}

func TestContextAddFoundAndFoundAgree(t *testing.T) {
	sc := NewContext(true)
	require.Equal(t, int64(1), sc.AddFound(1))
	require.Equal(t, int64(3), sc.AddFound(2))
	require.Equal(t, int64(3), sc.Found())
	require.True(t, sc.OnlyOne())
}

func TestContextAddItersIsConcurrencySafe(t *testing.T) {
	sc := NewContext(false)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sc.AddIters(10)
		}()
	}
	wg.Wait()
	require.Equal(t, uint64(1000), sc.Snapshot().TotalIters)
}

func TestContextSnapshotImplementsStatsSource(t *testing.T) {
	sc := NewContext(false)
	sc.AddFound(2)
	sc.AddIters(500)
	snap := sc.Snapshot()
	require.Equal(t, int64(2), snap.Found)
	require.Equal(t, uint64(500), snap.TotalIters)
}

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

package cldevice

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChooseParamsNvidiaAmd(t *testing.T) {
	for _, vendor := range []string{"NVIDIA", "AMD"} {
		p := ChooseParams(Info{Vendor: vendor, ComputeUnits: 4, MaxWorkGroupSize: 1024}, 0)
		require.Equal(t, 4*2048, p.GlobalThreads)
		require.Equal(t, 256, p.LocalSize)
		require.Equal(t, 4096, p.Iterations)
	}
}

func TestChooseParamsApple(t *testing.T) {
	p := ChooseParams(Info{Vendor: "Apple", ComputeUnits: 8, MaxWorkGroupSize: 1024}, 0)
	require.Equal(t, 8*1024, p.GlobalThreads)
	require.Equal(t, 256, p.LocalSize)
	require.Equal(t, 2048, p.Iterations)
}

func TestChooseParamsOther(t *testing.T) {
	p := ChooseParams(Info{Vendor: "Intel", ComputeUnits: 2, MaxWorkGroupSize: 1024}, 0)
	require.Equal(t, 2*1024, p.GlobalThreads)
	require.Equal(t, 128, p.LocalSize)
	require.Equal(t, 2048, p.Iterations)
}

func TestChooseParamsDividesIterationsByVariantsAndFloors(t *testing.T) {
	p := ChooseParams(Info{Vendor: "NVIDIA", ComputeUnits: 1, MaxWorkGroupSize: 1024}, 45)
	require.Equal(t, 512, p.Iterations) // 4096/45 < 512, floored
}

func TestChooseParamsClampsLocalSizeToDeviceMax(t *testing.T) {
	p := ChooseParams(Info{Vendor: "AMD", ComputeUnits: 1, MaxWorkGroupSize: 64}, 0)
	require.Equal(t, 64, p.LocalSize)
}

package main

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

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	vconfig "github.com/ton-org/vanity/config"
)

const testOwner = "EQAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAM9c"

// TestRunFindsOneAddressAndStops exercises the whole wiring — pattern
// compile, kernel render, simulated device discovery (no "opencl"
// build tag here), the device worker, and the sink — end to end
// against an unconstrained pattern, which makes every candidate in the
// first batch a genuine hit.
func TestRunFindsOneAddressAndStops(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "addresses.jsonl")
	cli := &vconfig.CLI{
		Owner:   testOwner,
		OnlyOne: true,
		OutFile: outPath,
	}

	require.NoError(t, run(cli))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.NotEmpty(t, data)
}

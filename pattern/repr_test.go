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

package pattern

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ton-org/vanity/tonaddr"
)

func TestBuildReprSetsFlagsAndCRC(t *testing.T) {
	cfg, err := Compile(Request{End: "AB", CaseSensitive: true, OwnerRaw: testOwnerRaw()})
	require.NoError(t, err)

	var mainHash [32]byte
	for i := range mainHash {
		mainHash[i] = byte(i)
	}
	repr := cfg.BuildRepr(mainHash)
	require.Equal(t, cfg.FlagsHi, repr[0])
	require.Equal(t, cfg.FlagsLo, repr[1])

	crc := tonaddr.CRC16(repr[0:34], cfg.CRC16Table)
	require.Equal(t, byte(crc>>8), repr[34])
	require.Equal(t, byte(crc), repr[35])
}

func TestPassesKernelFilterAcceptsConstructedMatch(t *testing.T) {
	cfg, err := Compile(Request{Start: "kQ", Testnet: true, CaseSensitive: true, OwnerRaw: testOwnerRaw()})
	require.NoError(t, err)

	// Build a mainHash whose first byte, after the free-byte rewrite,
	// still satisfies the mask — any value works since the start
	// pattern here falls entirely within the fixed flags bits.
	var mainHash [32]byte
	repr := cfg.BuildRepr(mainHash)
	require.True(t, cfg.PassesKernelFilter(repr))
}

func TestPassesKernelFilterRejectsMaskViolation(t *testing.T) {
	cfg, err := Compile(Request{End: "zzzz", CaseSensitive: true, OwnerRaw: testOwnerRaw()})
	require.NoError(t, err)

	var mainHash [32]byte
	repr := cfg.BuildRepr(mainHash)
	// An all-zero main hash is extremely unlikely to already encode
	// "zzzz" at the tail, so the mask check should reject it.
	require.False(t, cfg.PassesKernelFilter(repr))
}

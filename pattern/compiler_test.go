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

func testOwnerRaw() []byte {
	owner := make([]byte, 36)
	owner[1] = 0x00 // basechain
	for i := 2; i < 34; i++ {
		owner[i] = byte(i * 11)
	}
	return owner
}

// "kQ" is the well known bounceable-testnet prefix: flags 0x91 puts
// base64 digit 0 at value 36 ('k'), digit 1 at value 16 ('Q'), both
// fully inside the fixed flags/workchain bits, so alignment must pick
// offset 0 without needing to fall back.
func TestChooseStartAlignmentPicksOffsetZeroForKnownPrefix(t *testing.T) {
	flagsHi := tonaddr.FlagsByte(false, true) // bounceable, testnet
	flagsLo := tonaddr.WorkchainByte(false)   // basechain

	var prefixBits [16]int
	fb := tonaddr.BitsFromByte(flagsHi)
	wb := tonaddr.BitsFromByte(flagsLo)
	copy(prefixBits[0:8], fb[:])
	copy(prefixBits[8:16], wb[:])

	digitBase, _, err := chooseStartAlignment("kQ", true, prefixBits)
	require.NoError(t, err)
	require.Equal(t, 0, digitBase)
}

func TestChooseStartAlignmentFallsBackWhenIncompatible(t *testing.T) {
	flagsHi := tonaddr.FlagsByte(false, false) // bounceable, mainnet -> 'E' at digit 0
	flagsLo := tonaddr.WorkchainByte(false)

	var prefixBits [16]int
	fb := tonaddr.BitsFromByte(flagsHi)
	wb := tonaddr.BitsFromByte(flagsLo)
	copy(prefixBits[0:8], fb[:])
	copy(prefixBits[8:16], wb[:])

	// "kQBE" cannot be placed at offsets 0..2 against 0x11/0x00, so
	// alignment must fall back to offset 3.
	digitBase, _, err := chooseStartAlignment("kQBE", true, prefixBits)
	require.NoError(t, err)
	require.Equal(t, 3, digitBase)
}

func TestCompileStartAnchoredYieldsFiveVariants(t *testing.T) {
	cfg, err := Compile(Request{
		Start:         "kQ",
		CaseSensitive: true,
		Testnet:       true,
		OwnerRaw:      testOwnerRaw(),
	})
	require.NoError(t, err)
	require.Equal(t, 0, cfg.StartDigitBase)
	require.Equal(t, 5, cfg.NumVariants())
	require.Len(t, cfg.FixedPrefixLengths, 1)
	require.NotNil(t, cfg.FixedPrefixLengths[0])
	require.Equal(t, 8, *cfg.FixedPrefixLengths[0])
}

func TestCompileNoStartYieldsFortyFiveVariants(t *testing.T) {
	cfg, err := Compile(Request{
		End:           "AAAA",
		CaseSensitive: false,
		OwnerRaw:      testOwnerRaw(),
	})
	require.NoError(t, err)
	require.Equal(t, 45, cfg.NumVariants())
	require.Len(t, cfg.FixedPrefixLengths, 9)
}

func TestVariantPartsInvertsEnumeration(t *testing.T) {
	cfg, err := Compile(Request{OwnerRaw: testOwnerRaw()})
	require.NoError(t, err)
	for idx := 0; idx < cfg.NumVariants(); idx++ {
		fpl, special, err := cfg.VariantParts(idx)
		require.NoError(t, err)
		wantFpl := cfg.FixedPrefixLengths[idx/len(cfg.SpecialVariants)]
		wantSpecial := cfg.SpecialVariants[idx%len(cfg.SpecialVariants)]
		require.Equal(t, wantFpl, fpl)
		require.Equal(t, wantSpecial, special)
	}
}

func TestCompileEndPatternSetsCRCConstraint(t *testing.T) {
	cfg, err := Compile(Request{
		End:           "ABCD", // 24 bits, covers bytes 34,35 (the CRC)
		CaseSensitive: true,
		OwnerRaw:      testOwnerRaw(),
	})
	require.NoError(t, err)
	require.True(t, cfg.HasCRCConstraint)
	require.NotEmpty(t, cfg.ActivePos)
	require.Less(t, len(cfg.ActivePosNoCRC), len(cfg.ActivePos))
}

func TestCompileCaseInsensitiveEndProducesAmbiguities(t *testing.T) {
	cfg, err := Compile(Request{
		End:           "aA",
		CaseSensitive: false,
		OwnerRaw:      testOwnerRaw(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, cfg.Ambiguities)
	for _, a := range cfg.Ambiguities {
		require.NotEqual(t, a.Alt0, a.Alt1)
	}
}

// TestCompileMaskProducesMatchingAddress is the mask-correctness
// invariant from spec.md §8: any repr satisfying (repr & mask) == val
// must, once its free byte is rewritten, encode to a friendly address
// that starts and ends with the requested pattern.
func TestCompileMaskProducesMatchingAddress(t *testing.T) {
	cfg, err := Compile(Request{
		Start:         "kQ",
		End:           "rY",
		CaseSensitive: true,
		Testnet:       true,
		OwnerRaw:      testOwnerRaw(),
	})
	require.NoError(t, err)

	var repr [tonaddr.TotalBytes]byte
	copy(repr[:], cfg.PrefixVal[:])
	repr[0] = cfg.FlagsHi
	repr[1] = cfg.FlagsLo
	repr[2] = (repr[2] &^ cfg.FreeHashMask) | cfg.FreeHashVal

	addr := tonaddr.EncodeFriendly(repr)
	require.Len(t, addr, 48)
	require.Equal(t, "kQ", addr[cfg.StartDigitBase:cfg.StartDigitBase+2])
	require.Equal(t, "rY", addr[48-2:])
}

func TestCompilePrecomputesCodeStateBaseFromZeroSalt(t *testing.T) {
	owner := testOwnerRaw()
	cfg, err := Compile(Request{OwnerRaw: owner})
	require.NoError(t, err)

	zeroSalt := make([]byte, tonaddr.SaltBytes)
	repr, err := tonaddr.BuildCodeRepr(owner, zeroSalt)
	require.NoError(t, err)

	var want [64]byte
	copy(want[:], repr[:64])
	require.Equal(t, want, cfg.CodePrefixBytes)

	state, err := tonaddr.SHA256CompressBlock(cfg.CodePrefixBytes[:], nil)
	require.NoError(t, err)
	require.Equal(t, state, cfg.CodeStateBase)
}

func TestCompileRejectsBadOwner(t *testing.T) {
	_, err := Compile(Request{OwnerRaw: []byte{0x00}})
	require.Error(t, err)
}

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

// Package pattern turns a (start, end, address-family, case-sensitivity)
// request into a KernelConfig: the byte masks, free-byte rewrite rule,
// case-insensitive ambiguity table, StateInit variant enumeration, and
// SHA-256 midstate that both the OpenCL kernel and the host validator
// evaluate candidates against.
package pattern

import (
	"fmt"

	"github.com/ton-org/vanity/tonaddr"
)

// hashBitStart/hashBitEnd bound the 256 StateInit-hash bits (16..271)
// of the friendly address. The first 8 of them (byte 2) are rewritten
// post-hash by the host rather than mask-constrained in the kernel.
const (
	hashBitStart = 16
	hashBitEnd   = hashBitStart + 256 // exclusive
)

// Ambiguity records one case-insensitive base64 digit whose upper and
// lower forms produce different 6-bit values: the kernel (and
// validator) must accept either.
type Ambiguity struct {
	BitPos int // MSB bit-position of the digit within the 288-bit address
	Alt0   int // first allowed 6-bit value
	Alt1   int // second allowed 6-bit value
}

// Config is the complete, immutable bundle the kernel renderer and the
// hit validator both consume.
type Config struct {
	FlagsHi byte
	FlagsLo byte

	PrefixMask [tonaddr.TotalBytes]byte
	PrefixVal  [tonaddr.TotalBytes]byte

	FreeHashMask byte
	FreeHashVal  byte

	ActivePos      []int // nonzero mask byte indices
	ActivePosNoCRC []int // ActivePos excluding bytes 34,35
	HasCRCConstraint bool

	Ambiguities []Ambiguity

	// StateInit variants, in (fixedPrefixLength, special) enumeration
	// order. FixedPrefixLengths[i] is nil for "None".
	FixedPrefixLengths []*int
	SpecialVariants     []*tonaddr.Special
	StateInitVariants   [][]byte // raw prefix bytes, one per (fpl, special) pair
	StateInitPadded     [][]byte // zero-padded to StateInitMaxLen
	StateInitMaxLen     int
	PrefixWordMatrix    [][16]uint32 // StateInitPadded packed into 16 big-endian words each

	CodePrefixBytes [64]byte  // first 64 (salt-independent) bytes of the code cell
	CodeStateBase   [8]uint32 // SHA-256 midstate after CodePrefixBytes

	CRC16Table [256]uint16

	// StartDigitBase is the base64-digit offset at which Start is
	// anchored (0 when Start is empty).
	StartDigitBase int

	Start         string
	End           string
	CaseSensitive bool
}

// NumVariants is the number of enumerated StateInit variants.
func (c *Config) NumVariants() int {
	return len(c.StateInitVariants)
}

// VariantParts maps a variant index back to its (fixedPrefixLength,
// special) pair, the inverse of the enumeration order used to build
// StateInitVariants.
func (c *Config) VariantParts(variantIdx int) (*int, *tonaddr.Special, error) {
	n := len(c.SpecialVariants)
	if n == 0 || variantIdx < 0 || variantIdx >= len(c.StateInitVariants) {
		return nil, nil, fmt.Errorf("pattern: variant index %d out of range", variantIdx)
	}
	fplIdx := variantIdx / n
	specIdx := variantIdx % n
	return c.FixedPrefixLengths[fplIdx], c.SpecialVariants[specIdx], nil
}

// specialEnumeration is the fixed 5-way enumeration of StateInit
// "special" (tick,tock) choices: none, then all four boolean pairs.
func specialEnumeration() []*tonaddr.Special {
	t, f := true, false
	return []*tonaddr.Special{
		nil,
		{Tick: f, Tock: f},
		{Tick: f, Tock: t},
		{Tick: t, Tock: f},
		{Tick: t, Tock: t},
	}
}

// fixedPrefixLengthEnumeration is the 9-value set used when no start
// pattern is given: None plus 0..7. fpl=8 is reserved for the
// start-pattern alignment convention (see Compile) and intentionally
// excluded here, which is what keeps the no-start enumeration at
// 9*5 = 45 variants instead of 10*5 = 50 (see DESIGN.md).
func fixedPrefixLengthEnumeration() []*int {
	out := make([]*int, 0, 9)
	out = append(out, nil)
	for v := 0; v <= 7; v++ {
		v := v
		out = append(out, &v)
	}
	return out
}

// Request is the address-shaping input to Compile.
type Request struct {
	Start          string
	End            string
	CaseSensitive  bool
	Masterchain    bool
	NonBounceable  bool
	Testnet        bool
	OwnerRaw       []byte
}

// Compile builds the Config for a search request.
func Compile(req Request) (*Config, error) {
	cfg := &Config{
		FlagsHi:       tonaddr.FlagsByte(req.NonBounceable, req.Testnet),
		FlagsLo:       tonaddr.WorkchainByte(req.Masterchain),
		Start:         req.Start,
		End:           req.End,
		CaseSensitive: req.CaseSensitive,
	}

	var prefixBits [16]int
	fb := tonaddr.BitsFromByte(cfg.FlagsHi)
	wb := tonaddr.BitsFromByte(cfg.FlagsLo)
	copy(prefixBits[0:8], fb[:])
	copy(prefixBits[8:16], wb[:])

	var ambiguities []Ambiguity

	if req.Start != "" {
		digitBase, filtered, err := chooseStartAlignment(req.Start, req.CaseSensitive, prefixBits)
		if err != nil {
			return nil, err
		}
		cfg.StartDigitBase = digitBase
		if err := applyStartConstraints(cfg, req.Start, req.CaseSensitive, digitBase, filtered, &ambiguities); err != nil {
			return nil, err
		}
	}

	if req.End != "" {
		if err := applyEndConstraints(cfg, req.End, req.CaseSensitive, &ambiguities); err != nil {
			return nil, err
		}
	}
	cfg.Ambiguities = ambiguities

	cfg.HasCRCConstraint = cfg.PrefixMask[34] != 0 || cfg.PrefixMask[35] != 0
	for i, m := range cfg.PrefixMask {
		if m != 0 {
			cfg.ActivePos = append(cfg.ActivePos, i)
			if i < 34 {
				cfg.ActivePosNoCRC = append(cfg.ActivePosNoCRC, i)
			}
		}
	}

	// StateInit variant enumeration: a single fixed-prefix-length of 8
	// when a start pattern anchors the search (the "single-digit
	// prefix alignment convention" of spec.md §4.3/§9), otherwise the
	// full 9-value set.
	if req.Start != "" {
		eight := 8
		cfg.FixedPrefixLengths = []*int{&eight}
	} else {
		cfg.FixedPrefixLengths = fixedPrefixLengthEnumeration()
	}
	cfg.SpecialVariants = specialEnumeration()

	for _, fpl := range cfg.FixedPrefixLengths {
		for _, spec := range cfg.SpecialVariants {
			prefix, err := tonaddr.BuildStateInitPrefix(fpl, spec)
			if err != nil {
				return nil, err
			}
			cfg.StateInitVariants = append(cfg.StateInitVariants, prefix)
			if len(prefix) > cfg.StateInitMaxLen {
				cfg.StateInitMaxLen = len(prefix)
			}
		}
	}
	for _, v := range cfg.StateInitVariants {
		padded := make([]byte, cfg.StateInitMaxLen)
		copy(padded, v)
		cfg.StateInitPadded = append(cfg.StateInitPadded, padded)
		cfg.PrefixWordMatrix = append(cfg.PrefixWordMatrix, packPrefixWords(padded))
	}

	zeroSalt := make([]byte, tonaddr.SaltBytes)
	codeZero, err := tonaddr.BuildCodeRepr(req.OwnerRaw, zeroSalt)
	if err != nil {
		return nil, err
	}
	copy(cfg.CodePrefixBytes[:], codeZero[:64])
	state, err := tonaddr.SHA256CompressBlock(cfg.CodePrefixBytes[:], nil)
	if err != nil {
		return nil, err
	}
	cfg.CodeStateBase = state
	cfg.CRC16Table = tonaddr.CRC16Table()

	return cfg, nil
}

// packPrefixWords packs a (padded, <=64 byte) StateInit prefix into 16
// big-endian 32-bit words the way the kernel indexes stateinit data.
func packPrefixWords(prefix []byte) [16]uint32 {
	var words [16]uint32
	for i, b := range prefix {
		w := i >> 2
		shift := 24 - (i&3)*8
		words[w] |= uint32(b) << uint(shift)
	}
	return words
}

// setMaskBit records a single constrained bit in the byte-level mask.
func setMaskBit(mask, val *[tonaddr.TotalBytes]byte, bitIndex, bitValue int) {
	byteIdx := bitIndex / 8
	offset := uint(7 - bitIndex%8)
	mask[byteIdx] |= 1 << offset
	if bitValue != 0 {
		val[byteIdx] |= 1 << offset
	}
}

// chooseStartAlignment finds the smallest base64-digit offset at
// which start can be placed without contradicting the fixed
// flags/workchain bits (0..15). Offsets >= 3 never overlap those
// bits, so only offsets 0..2 need to be tried before falling back to
// offset 3 (ceil(16/6)).
func chooseStartAlignment(start string, caseSensitive bool, prefixBits [16]int) (int, [][][6]int, error) {
	charOpts := make([][][6]int, len(start))
	for i := 0; i < len(start); i++ {
		v, err := tonaddr.CharBitVariants(start[i], caseSensitive)
		if err != nil {
			return 0, nil, err
		}
		charOpts[i] = v
	}

	lenBits := len(start) * 6
	maxDigitOffset := (tonaddr.TotalBits - lenBits) / 6
	limit := maxDigitOffset
	if limit > 2 {
		limit = 2
	}

	for digitOffset := 0; digitOffset <= limit; digitOffset++ {
		bitOffset := 6 * digitOffset
		ok := true
		filtered := make([][][6]int, len(start))
		for ci, variants := range charOpts {
			charBitBase := bitOffset + ci*6
			var overlap []int
			for b := 0; b < 6; b++ {
				if charBitBase+b < 16 {
					overlap = append(overlap, b)
				}
			}
			if len(overlap) == 0 {
				filtered[ci] = variants
				continue
			}
			var valid [][6]int
			for _, v := range variants {
				match := true
				for _, b := range overlap {
					if v[b] != prefixBits[charBitBase+b] {
						match = false
						break
					}
				}
				if match {
					valid = append(valid, v)
				}
			}
			if len(valid) == 0 {
				ok = false
				break
			}
			filtered[ci] = valid
		}
		if ok {
			return digitOffset, filtered, nil
		}
	}

	fallback := 3 // ceil(16/6)
	if fallback > maxDigitOffset {
		fallback = maxDigitOffset
	}
	return fallback, charOpts, nil
}

// bitVal6 packs 6 big-endian bits into a 0..63 value.
func bitVal6(bits [6]int) int {
	v := 0
	for _, b := range bits {
		v = (v << 1) | b
	}
	return v
}

// applyStartConstraints folds the (already overlap-filtered) start
// pattern into the byte mask, the free-byte rewrite rule, and the
// ambiguity table.
func applyStartConstraints(cfg *Config, start string, caseSensitive bool, digitBase int, filtered [][][6]int, amb *[]Ambiguity) error {
	bitOffset := digitBase * 6
	for ci := 0; ci < len(start); ci++ {
		variants := filtered[ci]
		for bitInChar := 0; bitInChar < 6; bitInChar++ {
			bitIndex := bitOffset + ci*6 + bitInChar

			allowed := map[int]bool{}
			for _, v := range variants {
				allowed[v[bitInChar]] = true
			}

			if !caseSensitive && bitInChar == 0 {
				vals := map[int]bool{}
				for _, v := range variants {
					vals[bitVal6(v)] = true
				}
				if len(vals) == 2 {
					var vs []int
					for v := range vals {
						vs = append(vs, v)
					}
					*amb = append(*amb, Ambiguity{BitPos: bitIndex, Alt0: vs[0], Alt1: vs[1]})
				}
			}

			if bitIndex < 16 {
				continue // already satisfied by flags/workchain
			}
			if len(allowed) != 1 {
				continue // can't constrain without losing a variant
			}
			var bit int
			for b := range allowed {
				bit = b
			}

			if bitIndex >= hashBitStart && bitIndex < hashBitStart+8 {
				offset := uint(7 - bitIndex%8)
				cfg.FreeHashMask |= 1 << offset
				if bit != 0 {
					cfg.FreeHashVal |= 1 << offset
				}
			} else if bitIndex < tonaddr.TotalBits && bitIndex < hashBitEnd {
				setMaskBit(&cfg.PrefixMask, &cfg.PrefixVal, bitIndex, bit)
			}
		}
	}
	return nil
}

// applyEndConstraints folds the end pattern (always anchored at the
// tail of the address) into the byte mask and the ambiguity table.
func applyEndConstraints(cfg *Config, end string, caseSensitive bool, amb *[]Ambiguity) error {
	lenBits := len(end) * 6
	bitBase := tonaddr.TotalBits - lenBits

	for ci := 0; ci < len(end); ci++ {
		variants, err := tonaddr.CharBitVariants(end[ci], caseSensitive)
		if err != nil {
			return err
		}
		for bitInChar := 0; bitInChar < 6; bitInChar++ {
			bitIndex := bitBase + ci*6 + bitInChar

			allowed := map[int]bool{}
			for _, v := range variants {
				allowed[v[bitInChar]] = true
			}

			if !caseSensitive && bitInChar == 0 {
				vals := map[int]bool{}
				for _, v := range variants {
					vals[bitVal6(v)] = true
				}
				if len(vals) == 2 {
					var vs []int
					for v := range vals {
						vs = append(vs, v)
					}
					*amb = append(*amb, Ambiguity{BitPos: bitIndex, Alt0: vs[0], Alt1: vs[1]})
				}
			}

			if bitIndex < 16 {
				continue
			}
			if len(allowed) != 1 {
				continue
			}
			var bit int
			for b := range allowed {
				bit = b
			}
			setMaskBit(&cfg.PrefixMask, &cfg.PrefixVal, bitIndex, bit)
		}
	}
	return nil
}

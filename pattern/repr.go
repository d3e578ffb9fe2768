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

import "github.com/ton-org/vanity/tonaddr"

// BuildRepr assembles the 36-byte friendly-address representation from
// a candidate's main hash: flags_hi, flags_lo, the free-byte rewrite
// of main_hash[0], main_hash[1..32], and a freshly computed CRC16 over
// bytes 0..33.
func (c *Config) BuildRepr(mainHash [32]byte) [tonaddr.TotalBytes]byte {
	var repr [tonaddr.TotalBytes]byte
	repr[0] = c.FlagsHi
	repr[1] = c.FlagsLo
	repr[2] = (mainHash[0] &^ c.FreeHashMask) | (c.FreeHashVal & c.FreeHashMask)
	copy(repr[3:34], mainHash[1:32])

	crc := tonaddr.CRC16(repr[0:34], c.CRC16Table)
	repr[34] = byte(crc >> 8)
	repr[35] = byte(crc)
	return repr
}

// MatchesMask reports whether repr satisfies every byte-level mask
// constraint: (repr[i] & mask[i]) == val[i].
func (c *Config) MatchesMask(repr [tonaddr.TotalBytes]byte) bool {
	for i, m := range c.PrefixMask {
		if repr[i]&m != c.PrefixVal[i] {
			return false
		}
	}
	return true
}

// MatchesAmbiguities reports whether every case-insensitive digit
// ambiguity in repr takes one of its two allowed 6-bit values.
func (c *Config) MatchesAmbiguities(repr [tonaddr.TotalBytes]byte) bool {
	flat := repr[:]
	for _, a := range c.Ambiguities {
		v := tonaddr.Digit6At(flat, a.BitPos)
		if v != a.Alt0 && v != a.Alt1 {
			return false
		}
	}
	return true
}

// PassesKernelFilter is the cheap, necessary-but-not-sufficient check
// a kernel (real or simulated) applies before handing a candidate to
// the host validator: the byte mask plus the ambiguity table.
func (c *Config) PassesKernelFilter(repr [tonaddr.TotalBytes]byte) bool {
	return c.MatchesMask(repr) && c.MatchesAmbiguities(repr)
}

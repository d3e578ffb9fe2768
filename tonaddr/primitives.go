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

// Package tonaddr implements the bit/byte primitives and cell encoders
// that mirror a TON friendly address and its underlying StateInit/code
// cells: base64url digit expansion, TON cell-bit padding, CRC16-CCITT,
// a resumable single-block SHA-256 compression, the 80-byte vanity
// code cell, the StateInit prefix cell variants, and a minimal
// single-root Bag-of-Cells serializer.
package tonaddr

import (
	"fmt"

	"github.com/ton-org/vanity/apperr"
)

// ErrInvalidChar is returned for any byte outside the base64url alphabet.
var ErrInvalidChar = fmt.Errorf("invalid base64url character")

// TotalBytes is the length of a friendly address (flags, workchain,
// 32-byte hash, 2-byte CRC).
const TotalBytes = 36

// TotalBits is TotalBytes in bits.
const TotalBits = TotalBytes * 8

// Base64Value returns the 6-bit value of a base64url digit.
func Base64Value(c byte) (int, error) {
	switch {
	case c >= 'A' && c <= 'Z':
		return int(c - 'A'), nil
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 26, nil
	case c >= '0' && c <= '9':
		return int(c-'0') + 52, nil
	case c == '-':
		return 62, nil
	case c == '_':
		return 63, nil
	}
	return 0, apperr.New(ErrInvalidChar, "byte %q", c)
}

// base64Alphabet maps a 6-bit value back to its base64url digit.
const base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// Base64Digit returns the base64url character for a 6-bit value (0..63).
func Base64Digit(v int) byte {
	return base64Alphabet[v&0x3f]
}

// Base64Bits returns the 6 big-endian bits (MSB first) of a base64url digit.
func Base64Bits(c byte) ([6]int, error) {
	var bits [6]int
	v, err := Base64Value(c)
	if err != nil {
		return bits, err
	}
	for j := 0; j < 6; j++ {
		bits[j] = (v >> (5 - j)) & 1
	}
	return bits, nil
}

// BitsFromByte returns the 8 big-endian bits of a byte, MSB first.
func BitsFromByte(b byte) [8]int {
	var bits [8]int
	for i := 0; i < 8; i++ {
		bits[i] = int((b >> (7 - i)) & 1)
	}
	return bits
}

// IntToBits returns the n high-to-low bits of x, most significant first.
func IntToBits(x uint64, n int) []int {
	bits := make([]int, n)
	for i := 0; i < n; i++ {
		bits[i] = int((x >> uint(n-1-i)) & 1)
	}
	return bits
}

// CharVariants returns the base64url characters that satisfy ch under
// the given case sensitivity: a singleton for case-sensitive matching
// or non-alphabetic input, otherwise the upper/lower pair.
func CharVariants(ch byte, caseSensitive bool) []byte {
	if caseSensitive || !isAlpha(ch) {
		return []byte{ch}
	}
	lo, up := toLower(ch), toUpper(ch)
	if lo == up {
		return []byte{ch}
	}
	return []byte{up, lo}
}

func isAlpha(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 32
	}
	return c
}

func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 32
	}
	return c
}

// CharBitVariants returns the 6-bit patterns allowed for ch given case
// sensitivity — one entry per allowed character variant.
func CharBitVariants(ch byte, caseSensitive bool) ([][6]int, error) {
	variants := CharVariants(ch, caseSensitive)
	out := make([][6]int, 0, len(variants))
	for _, v := range variants {
		bits, err := Base64Bits(v)
		if err != nil {
			return nil, err
		}
		out = append(out, bits)
	}
	return out, nil
}

// IsBase64URL reports whether s consists only of base64url digits.
func IsBase64URL(s string) bool {
	for i := 0; i < len(s); i++ {
		if _, err := Base64Value(s[i]); err != nil {
			return false
		}
	}
	return true
}

// BitsToPaddedBytes applies TON cell padding: append a single 1 bit
// then zeros up to the next byte boundary, and pack into bytes.
func BitsToPaddedBytes(bits []int) []byte {
	byteLen := (len(bits) + 7) / 8
	if byteLen == 0 {
		return nil
	}
	padded := make([]int, 0, byteLen*8)
	padded = append(padded, bits...)
	padding := byteLen*8 - len(bits)
	if padding > 0 {
		padded = append(padded, 1)
		padded = append(padded, make([]int, padding-1)...)
	}
	out := make([]byte, byteLen)
	for i := 0; i < len(padded); i += 8 {
		var val byte
		for _, bit := range padded[i : i+8] {
			val = (val << 1) | byte(bit)
		}
		out[i/8] = val
	}
	return out
}

// PackBits packs a big-endian bit slice into bytes, rounding up with
// zero bits (no TON padding marker — used internally where the caller
// already knows the intended bit count is byte-aligned).
func PackBits(bits []int) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit != 0 {
			out[i/8] |= 1 << uint(7-(i%8))
		}
	}
	return out
}

// BitAt returns the bit at absolute bit-position pos (MSB-first) of
// data, treated as a contiguous big-endian bit string.
func BitAt(data []byte, pos int) int {
	byteIdx := pos / 8
	offset := uint(7 - pos%8)
	return int((data[byteIdx] >> offset) & 1)
}

// Digit6At reads the 6-bit base64 digit value starting at absolute
// bit-position pos (MSB-first) of data.
func Digit6At(data []byte, pos int) int {
	v := 0
	for b := 0; b < 6; b++ {
		v = (v << 1) | BitAt(data, pos+b)
	}
	return v
}

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

package kernel

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ton-org/vanity/pattern"
)

// ErrUnresolvedPlaceholder is returned when substitution leaves a
// <<TAG>>-shaped token in the rendered source.
var ErrUnresolvedPlaceholder = errors.New("kernel: unresolved placeholder after substitution")

var placeholderRe = regexp.MustCompile(`<<[A-Z0-9_]+>>`)

// Render substitutes every <<TAG>> in template against cfg and returns
// the patched OpenCL source. Bytes render as decimal, 32-bit words as
// "0x...u" hex literals, 16-word matrices as brace-delimited rows, and
// counts as plain decimals.
func Render(template string, cfg *pattern.Config) (string, error) {
	values := placeholderValues(cfg)

	out := template
	for tag, val := range values {
		out = strings.ReplaceAll(out, "<<"+tag+">>", val)
	}

	if loc := placeholderRe.FindStringIndex(out); loc != nil {
		return "", fmt.Errorf("%w: %s", ErrUnresolvedPlaceholder, out[loc[0]:loc[1]])
	}
	return out, nil
}

func placeholderValues(cfg *pattern.Config) map[string]string {
	bitposes := make([]int, len(cfg.Ambiguities))
	alt0s := make([]int, len(cfg.Ambiguities))
	alt1s := make([]int, len(cfg.Ambiguities))
	for i, a := range cfg.Ambiguities {
		bitposes[i] = a.BitPos
		alt0s[i] = a.Alt0
		alt1s[i] = a.Alt1
	}

	return map[string]string{
		"CODE_PREFIX_BYTES":       formatBytes(cfg.CodePrefixBytes[:]),
		"CODE_STATE_BASE":         formatWords(cfg.CodeStateBase[:]),
		"CRC16_TABLE":             formatWords16(cfg.CRC16Table[:]),
		"PREFIX_MASK":             formatBytes(cfg.PrefixMask[:]),
		"PREFIX_VAL":              formatBytes(cfg.PrefixVal[:]),
		"FLAGS_HI":                formatByte(cfg.FlagsHi),
		"FLAGS_LO":                formatByte(cfg.FlagsLo),
		"FREE_HASH_MASK":          formatByte(cfg.FreeHashMask),
		"FREE_HASH_VAL":           formatByte(cfg.FreeHashVal),
		"HAS_CRC_CONSTRAINT":      formatBool(cfg.HasCRCConstraint),
		"N_ACTIVE":                strconv.Itoa(len(cfg.ActivePos)),
		"N_ACTIVE_NOCRC":          strconv.Itoa(len(cfg.ActivePosNoCRC)),
		"PREFIX_POS":              formatInts(cfg.ActivePos),
		"PREFIX_POS_NOCRC":        formatInts(cfg.ActivePosNoCRC),
		"N_AMBIGUITIES":           strconv.Itoa(len(cfg.Ambiguities)),
		"AMBIG_BITPOS":            formatInts(bitposes),
		"AMBIG_ALT0":              formatInts(alt0s),
		"AMBIG_ALT1":              formatInts(alt1s),
		"N_STATEINIT_VARIANTS":    strconv.Itoa(cfg.NumVariants()),
		"STATEINIT_PREFIX_MAX_LEN": strconv.Itoa(cfg.StateInitMaxLen),
		"STATEINIT_PREFIX_MATRIX": formatWordMatrix(cfg.PrefixWordMatrix),
	}
}

func formatByte(b byte) string {
	return strconv.Itoa(int(b))
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func formatBytes(bs []byte) string {
	parts := make([]string, len(bs))
	for i, b := range bs {
		parts[i] = strconv.Itoa(int(b))
	}
	return strings.Join(parts, ",")
}

func formatWordHex(w uint32) string {
	return fmt.Sprintf("0x%08xu", w)
}

func formatWords(ws []uint32) string {
	parts := make([]string, len(ws))
	for i, w := range ws {
		parts[i] = formatWordHex(w)
	}
	return strings.Join(parts, ",")
}

func formatWords16(ws []uint16) string {
	parts := make([]string, len(ws))
	for i, w := range ws {
		parts[i] = fmt.Sprintf("0x%04xu", w)
	}
	return strings.Join(parts, ",")
}

func formatInts(is []int) string {
	parts := make([]string, len(is))
	for i, v := range is {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func formatWordMatrix(matrix [][16]uint32) string {
	rows := make([]string, len(matrix))
	for i, row := range matrix {
		rows[i] = "{" + formatWords(row[:]) + "}"
	}
	return strings.Join(rows, ",\n")
}

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

// Package validate re-derives a GPU-reported hit candidate on the host
// and, if it is genuine, builds the JSON record the sink appends. A
// false hit here means the kernel and the host disagree and is always
// fatal (see search.RunDevice).
package validate

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"strings"

	"github.com/ton-org/vanity/apperr"
	"github.com/ton-org/vanity/pattern"
	"github.com/ton-org/vanity/tonaddr"
)

// ErrValidationFailed is wrapped with the specific mismatch reason and
// returned by Validate when a candidate does not hold up on the host.
var ErrValidationFailed = errors.New("validate: candidate failed host validation")

// HitTask is one candidate a device worker hands to the validator.
type HitTask struct {
	BaseSalt   [16]byte
	IterIdx    uint32
	Idx        uint32
	VariantIdx uint32
	DeviceName string
}

// Special mirrors tonaddr.Special for JSON serialization.
type Special struct {
	Tick bool `json:"tick"`
	Tock bool `json:"tock"`
}

// Init is the "init" object of a result record.
type Init struct {
	Code              string   `json:"code"`
	FixedPrefixLength int      `json:"fixedPrefixLength"`
	Special           *Special `json:"special"`
}

// RequestConfig echoes the CLI request that produced a record.
type RequestConfig struct {
	Owner         string `json:"owner"`
	Start         string `json:"start"`
	End           string `json:"end"`
	Masterchain   bool   `json:"masterchain"`
	NonBounceable bool   `json:"non_bounceable"`
	Testnet       bool   `json:"testnet"`
	CaseSensitive bool   `json:"case_sensitive"`
	OnlyOne       bool   `json:"only_one"`
}

// Record is one self-contained JSONL line appended to the sink.
type Record struct {
	Address   string        `json:"address"`
	Init      Init          `json:"init"`
	Config    RequestConfig `json:"config"`
	Timestamp float64       `json:"timestamp"`
}

// HitResult is what the validator reports back for one task.
type HitResult struct {
	OK         bool
	Reason     string
	Record     *Record
	DeviceName string
}

// Validate re-derives the actual salt, code cell, StateInit hash, and
// friendly address for task, and checks it against cfg's constraints.
// now is the unix timestamp (seconds) to stamp a successful record
// with — passed in rather than read from the clock so callers control
// it explicitly.
func Validate(cfg *pattern.Config, ownerRaw []byte, reqCfg RequestConfig, task HitTask, now float64) (*Record, error) {
	salt := deriveSalt(task.BaseSalt, task.IterIdx, task.Idx)

	code, err := tonaddr.BuildCodeRepr(ownerRaw, salt[:])
	if err != nil {
		return nil, apperr.New(err, "validate: build_code_repr")
	}
	codeHash := sha256.Sum256(code)

	fpl, special, err := cfg.VariantParts(int(task.VariantIdx))
	if err != nil {
		return nil, apperr.New(err, "validate: variant %d", task.VariantIdx)
	}
	variant := cfg.StateInitVariants[task.VariantIdx]
	main := make([]byte, 0, len(variant)+len(codeHash))
	main = append(main, variant...)
	main = append(main, codeHash[:]...)
	mainHash := sha256.Sum256(main)

	repr := cfg.BuildRepr(mainHash)
	if !cfg.MatchesMask(repr) {
		return nil, apperr.New(ErrValidationFailed, "mask mismatch")
	}

	addrStr := tonaddr.EncodeFriendly(repr)

	if cfg.Start != "" {
		got := addrStr[cfg.StartDigitBase : cfg.StartDigitBase+len(cfg.Start)]
		if !textMatches(got, cfg.Start, cfg.CaseSensitive) {
			return nil, apperr.New(ErrValidationFailed, "start mismatch: %q", got)
		}
	}
	if cfg.End != "" {
		got := addrStr[len(addrStr)-len(cfg.End):]
		if !textMatches(got, cfg.End, cfg.CaseSensitive) {
			return nil, apperr.New(ErrValidationFailed, "end mismatch: %q", got)
		}
	}

	fixedPrefixLength := 0
	if fpl != nil {
		fixedPrefixLength = *fpl
	}
	var specialOut *Special
	if special != nil {
		specialOut = &Special{Tick: special.Tick, Tock: special.Tock}
	}

	return &Record{
		Address: addrStr,
		Init: Init{
			Code:              base64.RawURLEncoding.EncodeToString(tonaddr.ToBOCSingleCell(code)),
			FixedPrefixLength: fixedPrefixLength,
			Special:           specialOut,
		},
		Config:    reqCfg,
		Timestamp: now,
	}, nil
}

// deriveSalt XORs iter into salt word 0 and idx into salt word 1
// (32-bit little-endian), recovering the actual per-candidate salt
// from a batch's base salt.
func deriveSalt(base [16]byte, iter, idx uint32) [16]byte {
	out := base
	w0 := binary.LittleEndian.Uint32(out[0:4]) ^ iter
	w1 := binary.LittleEndian.Uint32(out[4:8]) ^ idx
	binary.LittleEndian.PutUint32(out[0:4], w0)
	binary.LittleEndian.PutUint32(out[4:8], w1)
	return out
}

func textMatches(got, want string, caseSensitive bool) bool {
	if caseSensitive {
		return got == want
	}
	return strings.EqualFold(got, want)
}

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

// Package sink appends validated hit records to addresses.jsonl, one
// self-contained JSON object per line, flushed immediately.
package sink

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/ton-org/vanity/apperr"
	"github.com/ton-org/vanity/validate"
)

// DefaultFileName is the result file spec.md §6 names.
const DefaultFileName = "addresses.jsonl"

// Sink serializes appends to the result file with a lock; every write
// is flushed before the call returns.
type Sink struct {
	mu   sync.Mutex
	file *os.File
}

// Open opens (creating if needed) the append-only result file at path.
func Open(path string) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, apperr.New(err, "sink: open %s", path)
	}
	return &Sink{file: f}, nil
}

// Append writes one record as a single JSON line, then flushes.
func (s *Sink) Append(rec *validate.Record) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return apperr.New(err, "sink: marshal record")
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.file.Write(line); err != nil {
		return apperr.New(err, "sink: write record")
	}
	return s.file.Sync()
}

// Close closes the underlying file.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

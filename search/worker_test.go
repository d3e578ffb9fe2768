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

package search

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ton-org/vanity/cldevice"
	"github.com/ton-org/vanity/pattern"
	"github.com/ton-org/vanity/sink"
	"github.com/ton-org/vanity/validate"
)

func testOwnerRaw() []byte {
	owner := make([]byte, 36)
	owner[1] = 0x00
	for i := 2; i < 34; i++ {
		owner[i] = byte(i * 7)
	}
	return owner
}

// fakeDevice lets tests hand RunDevice canned batch results without
// paying for a real (or simulated) dispatch loop.
type fakeDevice struct {
	info     cldevice.Info
	dispatch func(ctx context.Context, globalThreads, iterations int, baseSalt [16]byte) (cldevice.BatchResult, error)
	calls    int
}

func (d *fakeDevice) Info() cldevice.Info { return d.info }
func (d *fakeDevice) Close() error        { return nil }
func (d *fakeDevice) Dispatch(ctx context.Context, globalThreads, iterations int, baseSalt [16]byte) (cldevice.BatchResult, error) {
	d.calls++
	return d.dispatch(ctx, globalThreads, iterations, baseSalt)
}

func readJSONLines(t *testing.T, path string) []validate.Record {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var recs []validate.Record
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		var rec validate.Record
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		recs = append(recs, rec)
	}
	return recs
}

func TestRunDeviceStopsImmediatelyWhenAlreadyStopped(t *testing.T) {
	owner := testOwnerRaw()
	cfg, err := pattern.Compile(pattern.Request{OwnerRaw: owner})
	require.NoError(t, err)

	sc := NewContext(false)
	sc.Stop()

	dev := &fakeDevice{
		info: cldevice.Info{Name: "never-called", Vendor: "Other", ComputeUnits: 1, MaxWorkGroupSize: 64},
		dispatch: func(ctx context.Context, globalThreads, iterations int, baseSalt [16]byte) (cldevice.BatchResult, error) {
			t.Fatal("Dispatch should not be called once the context is already stopped")
			return cldevice.BatchResult{}, nil
		},
	}

	sk, err := sink.Open(filepath.Join(t.TempDir(), sink.DefaultFileName))
	require.NoError(t, err)
	defer sk.Close()

	err = RunDevice(context.Background(), sc, dev, cfg, owner, validate.RequestConfig{Owner: "x"}, sk, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, 0, dev.calls)
}

func TestRunDevicePersistsHitsAndStopsOnOnlyOne(t *testing.T) {
	owner := testOwnerRaw()
	cfg, err := pattern.Compile(pattern.Request{OwnerRaw: owner})
	require.NoError(t, err)

	sc := NewContext(true)
	path := filepath.Join(t.TempDir(), sink.DefaultFileName)
	sk, err := sink.Open(path)
	require.NoError(t, err)
	defer sk.Close()

	dev := &fakeDevice{
		info: cldevice.Info{Name: "fake-gpu", Vendor: "Other", ComputeUnits: 1, MaxWorkGroupSize: 64},
		dispatch: func(ctx context.Context, globalThreads, iterations int, baseSalt [16]byte) (cldevice.BatchResult, error) {
			// Every variant index here satisfies the (empty) constraint
			// set, so all three are genuine, host-verifiable hits — a
			// single batch surfacing more than one hit, as a real
			// kernel dispatch can.
			return cldevice.BatchResult{
				FoundCount: 3,
				Slots: []cldevice.ResultSlot{
					{IterIdx: 0, Idx: 0, VariantIdx: 0},
					{IterIdx: 0, Idx: 0, VariantIdx: 1},
					{IterIdx: 0, Idx: 0, VariantIdx: 2},
				},
			}, nil
		},
	}

	reqCfg := validate.RequestConfig{Owner: "owner-base64"}
	err = RunDevice(context.Background(), sc, dev, cfg, owner, reqCfg, sk, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, 1, dev.calls)
	require.True(t, sc.Stopped())
	require.Equal(t, int64(1), sc.Found())

	// only_one must stop after the very first persisted hit within the
	// batch, not after validating every slot the batch returned.
	recs := readJSONLines(t, path)
	require.Len(t, recs, 1)
	require.Equal(t, reqCfg, recs[0].Config)
}

func TestRunDeviceReturnsFatalErrorOnKernelHostDisagreement(t *testing.T) {
	owner := testOwnerRaw()
	cfg, err := pattern.Compile(pattern.Request{OwnerRaw: owner})
	require.NoError(t, err)

	sc := NewContext(false)
	sk, err := sink.Open(filepath.Join(t.TempDir(), sink.DefaultFileName))
	require.NoError(t, err)
	defer sk.Close()

	dev := &fakeDevice{
		info: cldevice.Info{Name: "buggy-gpu", Vendor: "Other", ComputeUnits: 1, MaxWorkGroupSize: 64},
		dispatch: func(ctx context.Context, globalThreads, iterations int, baseSalt [16]byte) (cldevice.BatchResult, error) {
			// VariantIdx out of range: the kernel reported a slot the
			// host cannot even re-derive, simulating a kernel/host
			// disagreement.
			return cldevice.BatchResult{
				FoundCount: 1,
				Slots:      []cldevice.ResultSlot{{IterIdx: 0, Idx: 0, VariantIdx: 9999}},
			}, nil
		},
	}

	err = RunDevice(context.Background(), sc, dev, cfg, owner, validate.RequestConfig{}, sk, zerolog.Nop())
	require.Error(t, err)
	require.ErrorIs(t, err, ErrKernelHostDisagreement)
	require.True(t, sc.Stopped())
}

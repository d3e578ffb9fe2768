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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const validOwner = "EQAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAM9c"

func TestValidateRejectsMissingOwner(t *testing.T) {
	cli := &CLI{Start: "kQ"}
	err := Validate(cli)
	require.ErrorIs(t, err, ErrArgument)
}

func TestValidateRejectsMissingStartAndEnd(t *testing.T) {
	cli := &CLI{Owner: validOwner}
	err := Validate(cli)
	require.ErrorIs(t, err, ErrArgument)
}

func TestValidateRejectsNonBase64URLStart(t *testing.T) {
	cli := &CLI{Owner: validOwner, Start: "not valid!"}
	err := Validate(cli)
	require.ErrorIs(t, err, ErrArgument)
}

func TestValidateAcceptsWellFormedRequest(t *testing.T) {
	cli := &CLI{Owner: validOwner, Start: "kQ"}
	require.NoError(t, Validate(cli))
}

func TestMergeConfigFileFillsOnlyZeroFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vanity.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"owner: \""+validOwner+"\"\n"+
			"end: \"AB\"\n"+
			"testnet: true\n"), 0o644))

	cli := &CLI{ConfigFile: path, Start: "kQ"} // Start already set on the command line
	require.NoError(t, mergeConfigFile(cli))

	require.Equal(t, validOwner, cli.Owner)
	require.Equal(t, "AB", cli.End)
	require.True(t, cli.Testnet)
	require.Equal(t, "kQ", cli.Start) // untouched: flag already won
}

func TestMergeConfigFileRejectsUnreadableFile(t *testing.T) {
	cli := &CLI{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")}
	err := mergeConfigFile(cli)
	require.ErrorIs(t, err, ErrArgument)
}

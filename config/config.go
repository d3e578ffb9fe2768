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

// Package config builds the CLI surface of spec.md §6: a cobra command
// whose flags can be pre-seeded from an optional YAML file, and the
// validation they must pass before the search starts.
package config

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ton-org/vanity/apperr"
	"github.com/ton-org/vanity/tonaddr"
)

// ErrArgument is the sentinel for every CLI-level validation failure;
// callers exit with code 2 when they see it (spec.md §6).
var ErrArgument = errors.New("config: invalid argument")

// CLI mirrors the flags of spec.md §6, plus the ambient additions
// SPEC_FULL.md adds (config file, log format, optional metrics
// listener, kernel template override, result file path).
type CLI struct {
	Owner         string `yaml:"owner"`
	Start         string `yaml:"start"`
	End           string `yaml:"end"`
	Masterchain   bool   `yaml:"masterchain"`
	NonBounceable bool   `yaml:"non_bounceable"`
	Testnet       bool   `yaml:"testnet"`
	CaseSensitive bool   `yaml:"case_sensitive"`
	OnlyOne       bool   `yaml:"only_one"`

	ConfigFile  string `yaml:"-"`
	LogJSON     bool   `yaml:"log_json"`
	MetricsAddr string `yaml:"metrics_addr"`
	KernelPath  string `yaml:"kernel_path"`
	OutFile     string `yaml:"out_file"`
}

// fileOverlay is the subset of CLI that a YAML config file may set;
// it only fills fields the command line left at their zero value.
type fileOverlay struct {
	Owner         *string `yaml:"owner"`
	Start         *string `yaml:"start"`
	End           *string `yaml:"end"`
	Masterchain   *bool   `yaml:"masterchain"`
	NonBounceable *bool   `yaml:"non_bounceable"`
	Testnet       *bool   `yaml:"testnet"`
	CaseSensitive *bool   `yaml:"case_sensitive"`
	OnlyOne       *bool   `yaml:"only_one"`
	LogJSON       *bool   `yaml:"log_json"`
	MetricsAddr   *string `yaml:"metrics_addr"`
	KernelPath    *string `yaml:"kernel_path"`
	OutFile       *string `yaml:"out_file"`
}

// NewCommand builds the cobra command. run is invoked with the fully
// merged and validated CLI once flag parsing succeeds; any error it
// returns is surfaced by cobra as the command's own failure.
func NewCommand(run func(*CLI) error) *cobra.Command {
	cli := &CLI{}

	cmd := &cobra.Command{
		Use:           "vanity",
		Short:         "Search for a TON vanity contract address",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := mergeConfigFile(cli); err != nil {
				return err
			}
			if err := Validate(cli); err != nil {
				return err
			}
			return run(cli)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cli.Owner, "owner", "o", "", "owner address, base64url (required)")
	flags.StringVarP(&cli.Start, "start", "s", "", "required address prefix, base64url")
	flags.StringVarP(&cli.End, "end", "e", "", "required address suffix, base64url")
	flags.BoolVarP(&cli.Masterchain, "masterchain", "m", false, "target the masterchain instead of a basechain")
	flags.BoolVarP(&cli.NonBounceable, "non-bounceable", "n", false, "produce a non-bounceable address")
	flags.BoolVarP(&cli.Testnet, "testnet", "t", false, "produce a testnet address")
	flags.BoolVar(&cli.CaseSensitive, "case-sensitive", false, "match start/end patterns case-sensitively")
	flags.BoolVar(&cli.OnlyOne, "only-one", false, "stop after the first match")
	flags.StringVar(&cli.ConfigFile, "config", "", "optional YAML file to seed flags from")
	flags.BoolVar(&cli.LogJSON, "log-json", false, "emit structured JSON logs instead of a console writer")
	flags.StringVar(&cli.MetricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics on this address")
	flags.StringVar(&cli.KernelPath, "kernel", "", "override the embedded OpenCL kernel template")
	flags.StringVar(&cli.OutFile, "out", "", "result file path (default addresses.jsonl in the working directory)")

	return cmd
}

// mergeConfigFile loads cli.ConfigFile, if set, and fills in any field
// still at its zero value from the file's overlay. Cobra has already
// populated the flags by the time RunE runs, so a flag given a non-zero
// value on the command line is kept; a flag passed with its zero value
// (for example --testnet=false) cannot be told apart from an unset one
// and takes the file's value.
func mergeConfigFile(cli *CLI) error {
	if cli.ConfigFile == "" {
		return nil
	}
	data, err := os.ReadFile(cli.ConfigFile)
	if err != nil {
		return apperr.New(ErrArgument, "read config file %s: %v", cli.ConfigFile, err)
	}
	var overlay fileOverlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return apperr.New(ErrArgument, "parse config file %s: %v", cli.ConfigFile, err)
	}

	if cli.Owner == "" && overlay.Owner != nil {
		cli.Owner = *overlay.Owner
	}
	if cli.Start == "" && overlay.Start != nil {
		cli.Start = *overlay.Start
	}
	if cli.End == "" && overlay.End != nil {
		cli.End = *overlay.End
	}
	if !cli.Masterchain && overlay.Masterchain != nil {
		cli.Masterchain = *overlay.Masterchain
	}
	if !cli.NonBounceable && overlay.NonBounceable != nil {
		cli.NonBounceable = *overlay.NonBounceable
	}
	if !cli.Testnet && overlay.Testnet != nil {
		cli.Testnet = *overlay.Testnet
	}
	if !cli.CaseSensitive && overlay.CaseSensitive != nil {
		cli.CaseSensitive = *overlay.CaseSensitive
	}
	if !cli.OnlyOne && overlay.OnlyOne != nil {
		cli.OnlyOne = *overlay.OnlyOne
	}
	if !cli.LogJSON && overlay.LogJSON != nil {
		cli.LogJSON = *overlay.LogJSON
	}
	if cli.MetricsAddr == "" && overlay.MetricsAddr != nil {
		cli.MetricsAddr = *overlay.MetricsAddr
	}
	if cli.KernelPath == "" && overlay.KernelPath != nil {
		cli.KernelPath = *overlay.KernelPath
	}
	if cli.OutFile == "" && overlay.OutFile != nil {
		cli.OutFile = *overlay.OutFile
	}
	return nil
}

// Validate checks cli against spec.md §6's CLI contract: owner is
// required and must decode to at least 34 bytes, at least one of
// start/end is required, and both must be base64url.
func Validate(cli *CLI) error {
	if cli.Owner == "" {
		return apperr.New(ErrArgument, "--owner is required")
	}
	owner, err := tonaddr.DecodeOwner(cli.Owner)
	if err != nil {
		return apperr.New(ErrArgument, "--owner: %v", err)
	}
	if len(owner) < 34 {
		return apperr.New(ErrArgument, "--owner decodes to %d bytes, need at least 34", len(owner))
	}

	if cli.Start == "" && cli.End == "" {
		return apperr.New(ErrArgument, "at least one of --start or --end is required")
	}
	if cli.Start != "" && !tonaddr.IsBase64URL(cli.Start) {
		return apperr.New(ErrArgument, "--start %q is not valid base64url", cli.Start)
	}
	if cli.End != "" && !tonaddr.IsBase64URL(cli.End) {
		return apperr.New(ErrArgument, "--end %q is not valid base64url", cli.End)
	}
	return nil
}

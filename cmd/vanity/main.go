package main

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

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/ton-org/vanity/cldevice"
	vconfig "github.com/ton-org/vanity/config"
	"github.com/ton-org/vanity/kernel"
	"github.com/ton-org/vanity/pattern"
	"github.com/ton-org/vanity/reporter"
	"github.com/ton-org/vanity/search"
	"github.com/ton-org/vanity/sink"
	"github.com/ton-org/vanity/tonaddr"
	"github.com/ton-org/vanity/validate"
)

func main() {
	cmd := vconfig.NewCommand(run)
	if err := cmd.Execute(); err != nil {
		os.Exit(2)
	}
}

func newLogger(jsonOutput bool) zerolog.Logger {
	if jsonOutput {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(w).With().Timestamp().Logger()
}

// run is the CLI entry point handed to config.NewCommand; cli has
// already passed config.Validate by the time this is called.
func run(cli *vconfig.CLI) error {
	log := newLogger(cli.LogJSON)

	ownerRaw, err := tonaddr.DecodeOwner(cli.Owner)
	if err != nil {
		return err
	}

	cfg, err := pattern.Compile(pattern.Request{
		Start:         cli.Start,
		End:           cli.End,
		CaseSensitive: cli.CaseSensitive,
		Masterchain:   cli.Masterchain,
		NonBounceable: cli.NonBounceable,
		Testnet:       cli.Testnet,
		OwnerRaw:      ownerRaw,
	})
	if err != nil {
		return err
	}
	log.Info().Int("state_init_variants", cfg.NumVariants()).Int("start_digit_base", cfg.StartDigitBase).
		Msg("pattern compiled")

	tmpl := kernel.DefaultTemplate()
	if cli.KernelPath != "" {
		raw, err := os.ReadFile(cli.KernelPath)
		if err != nil {
			return err
		}
		tmpl = string(raw)
	}
	source, err := kernel.Render(tmpl, cfg)
	if err != nil {
		return err
	}

	devices, err := cldevice.Discover(source, cfg, ownerRaw)
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		return cldevice.ErrNoDevices
	}
	log.Info().Int("devices", len(devices)).Msg("devices ready")

	outPath := cli.OutFile
	if outPath == "" {
		outPath = sink.DefaultFileName
	}
	sk, err := sink.Open(outPath)
	if err != nil {
		return err
	}
	defer sk.Close()

	sc := search.NewContext(cli.OnlyOne)
	reqCfg := validate.RequestConfig{
		Owner:         cli.Owner,
		Start:         cli.Start,
		End:           cli.End,
		Masterchain:   cli.Masterchain,
		NonBounceable: cli.NonBounceable,
		Testnet:       cli.Testnet,
		CaseSensitive: cli.CaseSensitive,
		OnlyOne:       cli.OnlyOne,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var metrics *reporter.Metrics
	if cli.MetricsAddr != "" {
		metrics = reporter.NewMetrics(len(devices))
		go func() {
			if err := metrics.Serve(ctx, cli.MetricsAddr); err != nil {
				log.Warn().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	rep := reporter.New(sc, os.Stdout, true)
	if metrics != nil {
		rep.AttachMetrics(metrics)
	}
	done := make(chan struct{})
	go rep.Run(done)

	runErr := search.RunAll(ctx, sc, devices, cfg, ownerRaw, reqCfg, sk, log)
	close(done)

	if runErr != nil {
		return runErr
	}
	log.Info().Int64("found", sc.Found()).Msg("search finished")
	return nil
}

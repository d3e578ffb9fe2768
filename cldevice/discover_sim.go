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

//go:build !opencl

package cldevice

import "github.com/ton-org/vanity/pattern"

// Discover returns the pure-Go simulated device when this binary was
// built without the "opencl" tag (no cgo/OpenCL toolchain available).
func Discover(kernelSource string, cfg *pattern.Config, ownerRaw []byte) ([]Device, error) {
	return []Device{NewSimDevice(cfg, ownerRaw)}, nil
}

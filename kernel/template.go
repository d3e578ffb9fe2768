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

// Package kernel renders the OpenCL search kernel's source template
// against a compiled pattern.Config. The embedded default template
// declares every placeholder this package fills in, but its hash_main
// body evaluates no candidates; a different template can be passed at
// run time with --kernel.
package kernel

import _ "embed"

//go:embed template.cl
var defaultTemplate string

// DefaultTemplate returns the built-in kernel source template.
func DefaultTemplate() string {
	return defaultTemplate
}

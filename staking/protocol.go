// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "github.com/meridianchain/meridian/meridian"

// ManagerAddress is the well-known address of the staking manager account.
var ManagerAddress = meridian.BytesToAddress([]byte("staking-manager"))

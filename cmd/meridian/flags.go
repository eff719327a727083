// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Usage: "directory for the state database (in-memory when empty)",
	}
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "path to a yaml genesis file (built-in dev genesis when empty)",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: ":8669",
		Usage: "API service listening address",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Usage: "metrics service listening address (disabled when empty)",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-4)",
	}
	enableReqLoggerFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enable api request logging",
	}
)

// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	isatty "github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/meridianchain/meridian/api"
	"github.com/meridianchain/meridian/kv"
	"github.com/meridianchain/meridian/log"
	"github.com/meridianchain/meridian/lvldb"
	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/metrics"
	"github.com/meridianchain/meridian/solo"
	"github.com/meridianchain/meridian/staking"
)

var (
	version   string
	gitCommit string
	release   = "dev"

	logger = log.WithContext("pkg", "main")
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-commit%s", release, version, gitCommit)
	app.Name = "meridian"
	app.Usage = "epoch-staking engine with a standalone host for test & dev"
	app.Flags = []cli.Flag{
		dataDirFlag,
		genesisFlag,
		apiAddrFlag,
		metricsAddrFlag,
		verbosityFlag,
		enableReqLoggerFlag,
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	initLogger(ctx.Int(verbosityFlag.Name))

	store, err := openStore(ctx.String(dataDirFlag.Name))
	if err != nil {
		return err
	}
	defer store.Close()

	host := solo.New(store, staking.ManagerAddress, func() uint64 {
		return uint64(time.Now().Unix())
	})

	gene, err := loadGenesis(ctx.String(genesisFlag.Name))
	if err != nil {
		return err
	}
	if err := host.ApplyGenesis(gene); err != nil {
		return err
	}

	if addr := ctx.String(metricsAddrFlag.Name); addr != "" {
		metrics.InitializePrometheusMetrics()
		go func() {
			srv := &http.Server{Addr: addr, Handler: metrics.HTTPHandler()}
			logger.Info("metrics service started", "addr", addr)
			if err := srv.ListenAndServe(); err != http.ErrServerClosed {
				logger.Warn("metrics service stopped", "err", err)
			}
		}()
	}

	apiSrv := &http.Server{
		Addr: ctx.String(apiAddrFlag.Name),
		Handler: api.New(host, api.Options{
			EnableReqLogger: ctx.Bool(enableReqLoggerFlag.Name),
		}),
	}

	var group errgroup.Group
	group.Go(func() error {
		logger.Info("api service started", "addr", apiSrv.Addr)
		if err := apiSrv.ListenAndServe(); err != http.ErrServerClosed {
			return errors.Wrap(err, "api service")
		}
		return nil
	})
	group.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		s := <-sig
		logger.Info("shutting down", "signal", s)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return apiSrv.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

func initLogger(verbosity int) {
	var lvl slog.Level
	switch {
	case verbosity <= 0:
		lvl = slog.LevelError
	case verbosity == 1:
		lvl = slog.LevelWarn
	case verbosity == 2 || verbosity == 3:
		lvl = slog.LevelInfo
	default:
		lvl = slog.LevelDebug
	}
	useColor := isatty.IsTerminal(os.Stderr.Fd())
	log.SetDefault(log.NewTerminalHandlerWithLevel(os.Stderr, lvl, useColor))
}

func openStore(dataDir string) (kv.GetPutCloser, error) {
	if dataDir == "" {
		logger.Warn("data-dir unset, using in-memory state")
		return lvldb.NewMem()
	}
	return lvldb.New(filepath.Join(dataDir, "state.db"), lvldb.Options{})
}

func loadGenesis(path string) (*solo.Genesis, error) {
	if path != "" {
		return solo.LoadGenesis(path)
	}
	return devGenesis(), nil
}

// devGenesis declares well-known dev accounts, mirroring the setup a local
// operator would put in a genesis file.
func devGenesis() *solo.Genesis {
	gene := &solo.Genesis{
		Authority:   meridian.BytesToAddress([]byte("dev-authority")),
		StakeVault:  meridian.BytesToAddress([]byte("dev-stake-vault")),
		RewardVault: meridian.BytesToAddress([]byte("dev-reward-vault")),
	}
	gene.Accounts = append(gene.Accounts, solo.GenesisAccount{
		Address: gene.RewardVault,
		Balance: 1_000_000_000,
	})
	for i := range 10 {
		gene.Accounts = append(gene.Accounts, solo.GenesisAccount{
			Address: meridian.BytesToAddress([]byte{0xde, 0x7, byte(i)}),
			Balance: 1_000_000_000,
		})
	}
	return gene
}

// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/api"
	"github.com/vechain/stakepool/cmd/stakepool/httpserver"
	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/metrics"
	"github.com/vechain/stakepool/runtime"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "StakePool",
		Usage:     "Time-locked staking ledger",
		Copyright: "2018 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			genesisFlag,
			dataDirFlag,
			persistFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			skipNTPFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { log.Info("exited") }()

	logLevel := initLogger(ctx)
	gene := selectGenesis(ctx)

	var (
		mainDB      kv.Store
		instanceDir string
	)
	if ctx.Bool(persistFlag.Name) {
		instanceDir = makeInstanceDir(ctx, gene)
		mainDB = openMainDB(ctx, instanceDir)
	} else {
		instanceDir = "Memory"
		mainDB = openMemMainDB()
	}
	defer func() { log.Info("closing main database..."); mainDB.Close() }()

	if err := gene.Init(mainDB); err != nil {
		return errors.Wrap(err, "init genesis")
	}
	rt := runtime.New(mainDB, runtime.NewSystemClock())

	var metricsURL string
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return fmt.Errorf("unable to start metrics server - %w", err)
		}
		metricsURL = url
		defer func() { log.Info("stopping metrics server..."); closeFunc() }()
	}

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	var adminURL string
	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := httpserver.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, apiLogs)
		if err != nil {
			return fmt.Errorf("unable to start admin server - %w", err)
		}
		adminURL = url
		defer func() { log.Info("stopping admin server..."); closeFunc() }()
	}

	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	handler, closeSubscriptions := api.New(rt, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
	})
	defer func() { log.Info("closing subscriptions..."); closeSubscriptions() }()

	printStartupMessage(gene, instanceDir, "http://"+listener.Addr().String()+"/", metricsURL, adminURL)

	g, gctx := errgroup.WithContext(exitSignal)
	g.Go(func() error {
		return httpserver.ServeAPI(gctx, listener, handler)
	})
	if !ctx.Bool(skipNTPFlag.Name) {
		g.Go(func() error {
			clockSyncLoop(gctx)
			return nil
		})
	}
	return g.Wait()
}

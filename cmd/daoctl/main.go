// Copyright 2024 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// daoctl deploys and drives a voting DAO kept in a local database.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/votingdao/votingdao/internal/config"
	"github.com/votingdao/votingdao/internal/logging"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	dataDirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "Data directory for the database (overrides the config file)",
	}
	fromFlag = &cli.StringFlag{
		Name:    "from",
		Aliases: []string{"f"},
		Usage:   "Address sending the transaction",
	}
	verbosityFlag = &cli.StringFlag{
		Name:  "verbosity",
		Usage: "Log level: trace, debug, info, warn, error, crit (overrides the config file)",
	}
)

func newApp() *cli.App {
	app := &cli.App{
		Name:  "daoctl",
		Usage: "token-stake-weighted voting DAO",
		Flags: []cli.Flag{configFlag, dataDirFlag, fromFlag, verbosityFlag},
		Commands: []*cli.Command{
			deployCommand,
			dumpConfigCommand,
			depositCommand,
			withdrawCommand,
			stakeholderCommand,
			proposeCommand,
			voteCommand,
			finishCommand,
			describeCommand,
			proposalCommand,
			resultsCommand,
			balanceCommand,
			mintCommand,
			approveCommand,
			transferCommand,
			callCommand,
			encodeCommand,
			setQuorumCommand,
			setPeriodCommand,
			changeChairmanCommand,
			transferOwnershipCommand,
			timeCommand,
			advanceCommand,
		},
		Before: setupLogging,
		After:  closeLogging,
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration file and applies the global flags.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx.String(configFlag.Name))
	if err != nil {
		return nil, err
	}
	if ctx.IsSet(dataDirFlag.Name) {
		cfg.Node.DataDir = ctx.String(dataDirFlag.Name)
	}
	if ctx.IsSet(verbosityFlag.Name) {
		cfg.Log.Level = ctx.String(verbosityFlag.Name)
	}
	return cfg, nil
}

func setupLogging(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	closer, err := logging.Setup(cfg.Log)
	if err != nil {
		return err
	}
	ctx.App.Metadata = map[string]interface{}{"logCloser": closer}
	return nil
}

func closeLogging(ctx *cli.Context) error {
	if closer, ok := ctx.App.Metadata["logCloser"].(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

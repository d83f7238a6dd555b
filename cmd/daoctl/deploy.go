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

package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/votingdao/votingdao/genesis"
	"github.com/votingdao/votingdao/internal/config"
)

var (
	genesisTimeFlag = &cli.Uint64Flag{
		Name:  "time",
		Usage: "Initial chain time in unix seconds (default: now)",
	}

	deployCommand = &cli.Command{
		Name:  "deploy",
		Usage: "Deploy the token and the DAO into an empty data directory",
		Description: `Deploys the token at the first and the DAO at the second contract address of
the --from account, mints the initial supply to it and hands token ownership
to the DAO. Roles not set in the config file go to the deployer.`,
		Flags:  []cli.Flag{genesisTimeFlag},
		Action: deploy,
	}
	dumpConfigCommand = &cli.Command{
		Name:   "dumpconfig",
		Usage:  "Print the effective configuration as TOML",
		Action: dumpConfig,
	}
)

func deploy(ctx *cli.Context) error {
	from, err := sender(ctx)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	now := uint64(time.Now().Unix())
	if ctx.IsSet(genesisTimeFlag.Name) {
		now = ctx.Uint64(genesisTimeFlag.Name)
	}
	gen, err := cfg.Genesis(from, now)
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	d, err := genesis.Init(db, gen)
	if err != nil {
		return err
	}
	defer d.Close()

	daoConfig := d.Dao.Config()
	fmt.Fprintf(ctx.App.Writer, "token    %s\n", d.TokenAddr.Hex())
	fmt.Fprintf(ctx.App.Writer, "dao      %s\n", d.DaoAddr.Hex())
	fmt.Fprintf(ctx.App.Writer, "chairman %s\n", daoConfig.Chairman.Hex())
	fmt.Fprintf(ctx.App.Writer, "owner    %s\n", daoConfig.Owner.Hex())
	fmt.Fprintf(ctx.App.Writer, "quorum   %d%%\n", daoConfig.MinimumQuorumPercent)
	fmt.Fprintf(ctx.App.Writer, "period   %ds\n", daoConfig.DebatingPeriodDuration)
	return nil
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	return config.Write(ctx.App.Writer, cfg)
}

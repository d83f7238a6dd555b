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
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
)

var (
	setQuorumCommand = &cli.Command{
		Name:      "set-quorum",
		Usage:     "Set the minimum quorum in percent (owner only)",
		ArgsUsage: "<percent>",
		Action:    setQuorum,
	}
	setPeriodCommand = &cli.Command{
		Name:      "set-period",
		Usage:     "Set the debating period of new proposals (owner only)",
		ArgsUsage: "<duration, e.g. 72h>",
		Action:    setPeriod,
	}
	changeChairmanCommand = &cli.Command{
		Name:      "change-chairman",
		Usage:     "Hand the chairman role to another account (chairman only)",
		ArgsUsage: "<address>",
		Action: roleAction(func(n *node, from, to common.Address) error {
			return n.Dao.ChangeChairman(from, to)
		}),
	}
	transferOwnershipCommand = &cli.Command{
		Name:      "transfer-ownership",
		Usage:     "Hand the owner role to another account (owner only)",
		ArgsUsage: "<address>",
		Action: roleAction(func(n *node, from, to common.Address) error {
			return n.Dao.TransferOwnership(from, to)
		}),
	}
	timeCommand = &cli.Command{
		Name:   "time",
		Usage:  "Print the chain time",
		Action: showTime,
	}
	advanceCommand = &cli.Command{
		Name:      "advance",
		Usage:     "Move the chain clock forward",
		ArgsUsage: "<duration, e.g. 72h>",
		Action:    advance,
	}
)

func setQuorum(ctx *cli.Context) error {
	a, err := args(ctx, 1)
	if err != nil {
		return err
	}
	from, err := sender(ctx)
	if err != nil {
		return err
	}
	percent, err := strconv.ParseUint(a[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid percent %q", a[0])
	}
	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	if err := n.transact(from, func() error { return n.Dao.SetMinimumQuorumPercent(from, percent) }); err != nil {
		return err
	}
	fmt.Fprintf(n.out, "minimum quorum %d%%\n", percent)
	return nil
}

func setPeriod(ctx *cli.Context) error {
	a, err := args(ctx, 1)
	if err != nil {
		return err
	}
	from, err := sender(ctx)
	if err != nil {
		return err
	}
	period, err := parseDuration(a[0])
	if err != nil {
		return err
	}
	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	if err := n.transact(from, func() error { return n.Dao.SetDebatingPeriodDuration(from, period) }); err != nil {
		return err
	}
	fmt.Fprintf(n.out, "debating period %ds\n", period)
	return nil
}

func roleAction(change func(n *node, from, to common.Address) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		a, err := args(ctx, 1)
		if err != nil {
			return err
		}
		from, err := sender(ctx)
		if err != nil {
			return err
		}
		to, err := parseAddress(a[0])
		if err != nil {
			return err
		}
		n, err := openNode(ctx)
		if err != nil {
			return err
		}
		defer n.Close()

		if err := n.transact(from, func() error { return change(n, from, to) }); err != nil {
			return err
		}
		config := n.Dao.Config()
		fmt.Fprintf(n.out, "chairman %s\nowner    %s\n", config.Chairman.Hex(), config.Owner.Hex())
		return nil
	}
}

func showTime(ctx *cli.Context) error {
	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	now := n.Chain.Now()
	fmt.Fprintf(n.out, "%d %s\n", now, formatTime(now))
	return nil
}

func advance(ctx *cli.Context) error {
	a, err := args(ctx, 1)
	if err != nil {
		return err
	}
	seconds, err := parseDuration(a[0])
	if err != nil {
		return err
	}
	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	now := n.Chain.AdvanceTime(seconds)
	if err := n.Save(n.db); err != nil {
		return err
	}
	fmt.Fprintf(n.out, "%d %s\n", now, formatTime(now))
	return nil
}

// parseDuration accepts Go durations ("72h") or plain seconds.
func parseDuration(s string) (uint64, error) {
	if seconds, err := strconv.ParseUint(s, 10, 64); err == nil {
		return seconds, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return uint64(d / time.Second), nil
}

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

	"github.com/urfave/cli/v2"
)

var (
	depositCommand = &cli.Command{
		Name:      "deposit",
		Usage:     "Deposit tokens into the DAO pool (approve the DAO first)",
		ArgsUsage: "<amount>",
		Action:    deposit,
	}
	withdrawCommand = &cli.Command{
		Name:      "withdraw",
		Usage:     "Withdraw deposited tokens once no voted proposal is open",
		ArgsUsage: "<amount>",
		Action:    withdraw,
	}
	stakeholderCommand = &cli.Command{
		Name:      "stakeholder",
		Usage:     "Show the deposit and open votes of an account",
		ArgsUsage: "<address>",
		Action:    showStakeholder,
	}
)

func deposit(ctx *cli.Context) error {
	return stake(ctx, true)
}

func withdraw(ctx *cli.Context) error {
	return stake(ctx, false)
}

func stake(ctx *cli.Context, in bool) error {
	a, err := args(ctx, 1)
	if err != nil {
		return err
	}
	from, err := sender(ctx)
	if err != nil {
		return err
	}
	amount, err := parseAmount(a[0])
	if err != nil {
		return err
	}
	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	err = n.transact(from, func() error {
		if in {
			return n.Dao.Deposit(from, amount)
		}
		return n.Dao.Withdraw(from, amount)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(n.out, "deposited %s\n", n.Dao.WeightOf(from).Dec())
	return nil
}

func showStakeholder(ctx *cli.Context) error {
	a, err := args(ctx, 1)
	if err != nil {
		return err
	}
	account, err := parseAddress(a[0])
	if err != nil {
		return err
	}
	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	holder, err := n.Dao.Stakeholder(account)
	if err != nil {
		return err
	}
	fmt.Fprintf(n.out, "address   %s\n", holder.Address.Hex())
	fmt.Fprintf(n.out, "deposited %s\n", holder.Deposited.Dec())
	fmt.Fprintf(n.out, "open      %v\n", holder.OpenVotes)
	return nil
}

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

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
	"github.com/votingdao/votingdao/token"
)

var (
	balanceCommand = &cli.Command{
		Name:      "balance",
		Usage:     "Show the token balance, allowance for the DAO and deposit of an account",
		ArgsUsage: "<address>",
		Action:    showBalance,
	}
	mintCommand = &cli.Command{
		Name:      "mint",
		Usage:     "Mint tokens (token owner only, which is the DAO after deploy)",
		ArgsUsage: "<to> <amount>",
		Action:    tokenAction("mint"),
	}
	approveCommand = &cli.Command{
		Name:      "approve",
		Usage:     "Allow a spender to move tokens of --from",
		ArgsUsage: "<spender> <amount>",
		Action:    tokenAction("approve"),
	}
	transferCommand = &cli.Command{
		Name:      "transfer",
		Usage:     "Transfer tokens from --from",
		ArgsUsage: "<to> <amount>",
		Action:    tokenAction("transfer"),
	}
	callCommand = &cli.Command{
		Name:      "call",
		Usage:     "Send raw call data to a contract",
		ArgsUsage: "<contract> <calldata hex>",
		Action:    rawCall,
	}
)

func showBalance(ctx *cli.Context) error {
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

	fmt.Fprintf(n.out, "balance   %s %s\n", n.Token.BalanceOf(account).Dec(), n.Token.Symbol())
	fmt.Fprintf(n.out, "allowance %s\n", n.Token.Allowance(account, n.DaoAddr).Dec())
	fmt.Fprintf(n.out, "deposited %s\n", n.Dao.WeightOf(account).Dec())
	return nil
}

// tokenAction sends a (address, amount) method of the token contract.
func tokenAction(method string) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		a, err := args(ctx, 2)
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
		amount, err := parseAmount(a[1])
		if err != nil {
			return err
		}
		input, err := token.ABI.Pack(method, to, amount.ToBig())
		if err != nil {
			return err
		}
		n, err := openNode(ctx)
		if err != nil {
			return err
		}
		defer n.Close()

		ret, err := n.call(from, n.TokenAddr, input)
		if err != nil {
			return err
		}
		if out, err := token.ABI.Unpack(method, ret); err == nil && len(out) == 1 {
			if ok, _ := out[0].(bool); !ok {
				return fmt.Errorf("%s returned false", method)
			}
		}
		fmt.Fprintf(n.out, "%s %s to %s\n", method, amount.Dec(), to.Hex())
		return nil
	}
}

// call performs a contract call as one transaction. A call returning false
// is not reverted by the chain, so callers check results themselves.
func (n *node) call(from, to common.Address, input []byte) ([]byte, error) {
	var ret []byte
	err := n.transact(from, func() error {
		var err error
		ret, err = n.Chain.Call(from, to, input)
		return err
	})
	return ret, err
}

func rawCall(ctx *cli.Context) error {
	a, err := args(ctx, 2)
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
	input, err := hexutil.Decode(a[1])
	if err != nil {
		return fmt.Errorf("invalid calldata: %w", err)
	}
	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	ret, err := n.call(from, to, input)
	if err != nil {
		return err
	}
	fmt.Fprintln(n.out, hexutil.Encode(ret))
	return nil
}

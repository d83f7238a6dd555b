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
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
	"github.com/votingdao/votingdao/governance"
	"github.com/votingdao/votingdao/token"
)

var encodeCommand = &cli.Command{
	Name:      "encode",
	Usage:     "ABI encode call data for a token or DAO method",
	ArgsUsage: "<token|dao> <method> [args...]",
	Description: `Prints call data usable with propose and call, for example

   daoctl encode token mint 0x00000000000000000000000000000000000000a1 100
   daoctl encode dao setMinimumQuorum 51`,
	Action: encode,
}

func encode(ctx *cli.Context) error {
	if ctx.NArg() < 2 {
		return fmt.Errorf("encode: expected contract and method (usage: encode %s)", ctx.Command.ArgsUsage)
	}
	var parsed *abi.ABI
	switch contract := ctx.Args().Get(0); contract {
	case "token":
		parsed = token.ABI
	case "dao":
		parsed = governance.ABI
	default:
		return fmt.Errorf("unknown contract %q, want token or dao", contract)
	}
	input, err := packCall(parsed, ctx.Args().Get(1), ctx.Args().Slice()[2:])
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, hexutil.Encode(input))
	return nil
}

// packCall encodes a method call from textual arguments.
func packCall(parsed *abi.ABI, name string, args []string) ([]byte, error) {
	method, ok := parsed.Methods[name]
	if !ok {
		return nil, fmt.Errorf("unknown method %q", name)
	}
	if len(args) != len(method.Inputs) {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", method.Sig, len(method.Inputs), len(args))
	}
	values := make([]interface{}, len(args))
	for i, input := range method.Inputs {
		v, err := parseArg(input.Type, args[i])
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", input.Name, err)
		}
		values[i] = v
	}
	return parsed.Pack(name, values...)
}

func parseArg(typ abi.Type, s string) (interface{}, error) {
	switch typ.T {
	case abi.AddressTy:
		return parseAddress(s)
	case abi.UintTy:
		if typ.Size == 8 {
			v, err := strconv.ParseUint(s, 10, 8)
			return uint8(v), err
		}
		v, ok := new(big.Int).SetString(s, 0)
		if !ok || v.Sign() < 0 {
			return nil, fmt.Errorf("invalid unsigned integer %q", s)
		}
		return v, nil
	case abi.BoolTy:
		return strconv.ParseBool(s)
	case abi.StringTy:
		return s, nil
	case abi.BytesTy:
		return hexutil.Decode(s)
	}
	return nil, fmt.Errorf("unsupported type %s", typ)
}

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

package token

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/votingdao/votingdao/chain"
)

// ABIJSON is the contract interface of Token.
const ABIJSON = `[
{"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
{"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"transferFrom","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]},
{"type":"function","name":"transferOwnership","stateMutability":"nonpayable","inputs":[{"name":"newOwner","type":"address"}],"outputs":[]}
]`

// ABI is the parsed form of ABIJSON.
var ABI = mustParseABI(ABIJSON)

func mustParseABI(def string) *abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(fmt.Sprintf("invalid token ABI: %v", err))
	}
	return &parsed
}

// Run implements chain.Contract.
func (t *Token) Run(ctx *chain.CallContext, input []byte) ([]byte, error) {
	method, args, err := chain.UnpackCall(ABI, input)
	if err != nil {
		return nil, err
	}
	caller := ctx.Caller

	switch method.Name {
	case "name":
		return method.Outputs.Pack(t.name)
	case "symbol":
		return method.Outputs.Pack(t.symbol)
	case "decimals":
		return method.Outputs.Pack(t.decimals)
	case "totalSupply":
		return method.Outputs.Pack(t.TotalSupply().ToBig())
	case "owner":
		return method.Outputs.Pack(t.Owner())
	case "balanceOf":
		return method.Outputs.Pack(t.BalanceOf(args[0].(common.Address)).ToBig())
	case "allowance":
		return method.Outputs.Pack(t.Allowance(args[0].(common.Address), args[1].(common.Address)).ToBig())
	case "approve":
		amount, err := toAmount(args[1])
		if err != nil {
			return nil, err
		}
		return method.Outputs.Pack(t.Approve(caller, args[0].(common.Address), amount))
	case "transfer":
		amount, err := toAmount(args[1])
		if err != nil {
			return nil, err
		}
		return method.Outputs.Pack(t.Transfer(caller, args[0].(common.Address), amount))
	case "transferFrom":
		amount, err := toAmount(args[2])
		if err != nil {
			return nil, err
		}
		return method.Outputs.Pack(t.TransferFrom(caller, args[0].(common.Address), args[1].(common.Address), amount))
	case "mint":
		amount, err := toAmount(args[1])
		if err != nil {
			return nil, err
		}
		return nil, t.Mint(caller, args[0].(common.Address), amount)
	case "transferOwnership":
		return nil, t.TransferOwnership(caller, args[0].(common.Address))
	}
	return nil, fmt.Errorf("%w: %s", chain.ErrUnknownMethod, method.Name)
}

func toAmount(arg interface{}) (*uint256.Int, error) {
	b, ok := arg.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected amount type %T", arg)
	}
	amount, overflow := uint256.FromBig(b)
	if overflow {
		return nil, fmt.Errorf("amount %v overflows uint256", b)
	}
	return amount, nil
}

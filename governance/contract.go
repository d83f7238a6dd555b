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

package governance

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/votingdao/votingdao/chain"
)

// ABIJSON is the contract interface of the DAO.
const ABIJSON = `[
{"type":"function","name":"deposit","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
{"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
{"type":"function","name":"addProposal","stateMutability":"nonpayable","inputs":[{"name":"callData","type":"bytes"},{"name":"recipient","type":"address"},{"name":"description","type":"string"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"vote","stateMutability":"nonpayable","inputs":[{"name":"proposalId","type":"uint256"},{"name":"inFavor","type":"bool"}],"outputs":[]},
{"type":"function","name":"finishProposal","stateMutability":"nonpayable","inputs":[{"name":"proposalId","type":"uint256"}],"outputs":[]},
{"type":"function","name":"description","stateMutability":"view","inputs":[{"name":"proposalId","type":"uint256"}],"outputs":[{"name":"","type":"string"}]},
{"type":"function","name":"deposited","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"proposalCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"token","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"chairman","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"minimumQuorum","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"debatingPeriodDuration","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"changeChairman","stateMutability":"nonpayable","inputs":[{"name":"newChairman","type":"address"}],"outputs":[]},
{"type":"function","name":"setMinimumQuorum","stateMutability":"nonpayable","inputs":[{"name":"minimumQuorum","type":"uint256"}],"outputs":[]},
{"type":"function","name":"setDebatingPeriodDuration","stateMutability":"nonpayable","inputs":[{"name":"duration","type":"uint256"}],"outputs":[]},
{"type":"function","name":"transferOwnership","stateMutability":"nonpayable","inputs":[{"name":"newOwner","type":"address"}],"outputs":[]}
]`

// ABI is the parsed form of ABIJSON.
var ABI = mustParseABI(ABIJSON)

func mustParseABI(def string) *abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(fmt.Sprintf("invalid dao ABI: %v", err))
	}
	return &parsed
}

// Name implements chain.Contract.
func (d *Dao) Name() string {
	return "VotingDAO"
}

// Run implements chain.Contract. Governance errors revert the call and can
// be matched with errors.Is on the result of chain.Call.
func (d *Dao) Run(ctx *chain.CallContext, input []byte) ([]byte, error) {
	method, args, err := chain.UnpackCall(ABI, input)
	if err != nil {
		return nil, err
	}
	caller := ctx.Caller

	switch method.Name {
	case "deposit":
		amount, err := toAmount(args[0])
		if err != nil {
			return nil, err
		}
		return nil, d.Deposit(caller, amount)
	case "withdraw":
		amount, err := toAmount(args[0])
		if err != nil {
			return nil, err
		}
		return nil, d.Withdraw(caller, amount)
	case "addProposal":
		id, err := d.AddProposal(caller, args[1].(common.Address), args[0].([]byte), args[2].(string))
		if err != nil {
			return nil, err
		}
		return method.Outputs.Pack(new(big.Int).SetUint64(id))
	case "vote":
		id, err := toID(args[0])
		if err != nil {
			return nil, err
		}
		return nil, d.Vote(caller, id, args[1].(bool))
	case "finishProposal":
		id, err := toID(args[0])
		if err != nil {
			return nil, err
		}
		_, err = d.FinishProposal(id)
		return nil, err
	case "description":
		id, err := toID(args[0])
		if err != nil {
			return nil, err
		}
		desc, err := d.Description(id)
		if err != nil {
			return nil, err
		}
		return method.Outputs.Pack(desc)
	case "deposited":
		return method.Outputs.Pack(d.WeightOf(args[0].(common.Address)).ToBig())
	case "proposalCount":
		return method.Outputs.Pack(new(big.Int).SetUint64(d.ProposalCount()))
	case "token":
		return method.Outputs.Pack(d.Config().Token)
	case "chairman":
		return method.Outputs.Pack(d.Config().Chairman)
	case "owner":
		return method.Outputs.Pack(d.Config().Owner)
	case "minimumQuorum":
		return method.Outputs.Pack(new(big.Int).SetUint64(d.Config().MinimumQuorumPercent))
	case "debatingPeriodDuration":
		return method.Outputs.Pack(new(big.Int).SetUint64(d.Config().DebatingPeriodDuration))
	case "changeChairman":
		return nil, d.ChangeChairman(caller, args[0].(common.Address))
	case "setMinimumQuorum":
		percent, err := toUint64(args[0])
		if err != nil {
			return nil, ErrQuorumOutOfRange
		}
		return nil, d.SetMinimumQuorumPercent(caller, percent)
	case "setDebatingPeriodDuration":
		seconds, err := toUint64(args[0])
		if err != nil {
			return nil, err
		}
		return nil, d.SetDebatingPeriodDuration(caller, seconds)
	case "transferOwnership":
		return nil, d.TransferOwnership(caller, args[0].(common.Address))
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

func toUint64(arg interface{}) (uint64, error) {
	b, ok := arg.(*big.Int)
	if !ok {
		return 0, fmt.Errorf("unexpected integer type %T", arg)
	}
	if !b.IsUint64() {
		return 0, fmt.Errorf("value %v overflows uint64", b)
	}
	return b.Uint64(), nil
}

// toID converts a proposal id argument. Ids that do not fit in uint64 are
// reported as ErrProposalNotFound.
func toID(arg interface{}) (uint64, error) {
	id, err := toUint64(arg)
	if err != nil {
		return 0, ErrProposalNotFound
	}
	return id, nil
}

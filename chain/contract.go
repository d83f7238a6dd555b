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

package chain

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ErrUnknownMethod is returned when call data does not select any method of
// the contract ABI.
var ErrUnknownMethod = errors.New("unknown method selector")

// Contract is a Go value deployed on the chain.
type Contract interface {
	// Name identifies the contract kind, e.g. "ERC20".
	Name() string

	// Run executes ABI encoded call data. A returned error reverts every
	// state change made during the call.
	Run(ctx *CallContext, input []byte) ([]byte, error)
}

// Snapshotter is implemented by contracts that hold state. The chain takes
// a snapshot before each call and restores it when the call fails.
type Snapshotter interface {
	Snapshot() any
	RevertToSnapshot(snap any)
}

// CallContext carries the environment of a single contract call.
type CallContext struct {
	Chain   *Chain
	Caller  common.Address // msg.sender
	Address common.Address // address of the executing contract
	Time    uint64         // block timestamp
}

// Call performs a nested call from the executing contract.
func (ctx *CallContext) Call(to common.Address, input []byte) ([]byte, error) {
	return ctx.Chain.Call(ctx.Address, to, input)
}

// UnpackCall resolves the method selected by input and decodes its
// arguments.
func UnpackCall(parsed *abi.ABI, input []byte) (*abi.Method, []interface{}, error) {
	if len(input) < 4 {
		return nil, nil, fmt.Errorf("%w: short input (%d bytes)", ErrUnknownMethod, len(input))
	}
	method, err := parsed.MethodById(input[:4])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %x", ErrUnknownMethod, input[:4])
	}
	args, err := method.Inputs.Unpack(input[4:])
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s arguments: %w", method.Name, err)
	}
	return method, args, nil
}

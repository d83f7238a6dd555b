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
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// Backend executes contract calls. *chain.Chain satisfies it.
type Backend interface {
	Call(from, to common.Address, input []byte) ([]byte, error)
}

// Binding talks to a token contract deployed at a fixed address on behalf
// of a fixed sender, going through the ABI like any external caller would.
// Call failures are reported the ERC-20 way: zero balances and false
// transfer results.
type Binding struct {
	backend Backend
	address common.Address
	from    common.Address
}

// Bind returns a binding of the token at address used by from.
func Bind(backend Backend, address, from common.Address) *Binding {
	return &Binding{backend: backend, address: address, from: from}
}

// Address returns the token contract address.
func (b *Binding) Address() common.Address { return b.address }

// BalanceOf returns the balance of account.
func (b *Binding) BalanceOf(account common.Address) *uint256.Int {
	return b.amount("balanceOf", account)
}

// Allowance returns the amount spender may move on behalf of owner.
func (b *Binding) Allowance(owner, spender common.Address) *uint256.Int {
	return b.amount("allowance", owner, spender)
}

// TransferFrom moves amount from from to to using the sender's allowance.
func (b *Binding) TransferFrom(from, to common.Address, amount *uint256.Int) bool {
	return b.transact("transferFrom", from, to, amount.ToBig())
}

// Transfer moves amount from the sender to to.
func (b *Binding) Transfer(to common.Address, amount *uint256.Int) bool {
	return b.transact("transfer", to, amount.ToBig())
}

func (b *Binding) call(method string, args ...interface{}) ([]interface{}, error) {
	input, err := ABI.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	ret, err := b.backend.Call(b.from, b.address, input)
	if err != nil {
		return nil, err
	}
	return ABI.Unpack(method, ret)
}

func (b *Binding) amount(method string, args ...interface{}) *uint256.Int {
	out, err := b.call(method, args...)
	if err != nil || len(out) != 1 {
		log.Warn("Token: Call failed", "token", b.address, "method", method, "err", err)
		return new(uint256.Int)
	}
	v, ok := out[0].(*big.Int)
	if !ok || v == nil {
		return new(uint256.Int)
	}
	amount, overflow := uint256.FromBig(v)
	if overflow {
		return new(uint256.Int)
	}
	return amount
}

func (b *Binding) transact(method string, args ...interface{}) bool {
	out, err := b.call(method, args...)
	if err != nil || len(out) != 1 {
		log.Debug("Token: Transfer call failed", "token", b.address, "method", method, "err", err)
		return false
	}
	ok, _ := out[0].(bool)
	return ok
}

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
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// TokenTransfer is the staked token as seen from the DAO pool. Transfers
// report failure through their boolean result and must be checked.
type TokenTransfer interface {
	// BalanceOf returns the token balance of account
	BalanceOf(account common.Address) *uint256.Int

	// Allowance returns how much spender may move on behalf of owner
	Allowance(owner, spender common.Address) *uint256.Int

	// TransferFrom pulls amount from from to to using the pool's allowance
	TransferFrom(from, to common.Address, amount *uint256.Int) bool

	// Transfer pushes amount from the pool to to
	Transfer(to common.Address, amount *uint256.Int) bool
}

// Dispatcher delivers approved proposal calls to their target contracts.
type Dispatcher interface {
	// CodeSize returns the code size of addr, zero for plain accounts
	CodeSize(addr common.Address) int

	// Call invokes to with the opaque input on behalf of from
	Call(from, to common.Address, input []byte) ([]byte, error)
}

// Clock supplies the current block timestamp in seconds.
type Clock interface {
	Now() uint64
}

// proposalView lets the stake ledger check proposal state lazily. It is
// called with the engine lock held.
type proposalView interface {
	finished(id uint64) bool
}

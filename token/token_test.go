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
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/votingdao/votingdao/chain"
)

var (
	owner = common.HexToAddress("0x100")
	alice = common.HexToAddress("0x200")
	bob   = common.HexToAddress("0x300")
)

func newTestToken(t *testing.T) *Token {
	tok := New("Test Token", "TST", 18, owner)
	require.NoError(t, tok.Mint(owner, alice, uint256.NewInt(100)))
	return tok
}

func TestToken_Mint(t *testing.T) {
	tok := newTestToken(t)

	require.ErrorIs(t, tok.Mint(alice, alice, uint256.NewInt(1)), ErrNotOwner)
	require.ErrorIs(t, tok.Mint(owner, common.Address{}, uint256.NewInt(1)), ErrZeroAddress)
	require.Equal(t, uint64(100), tok.TotalSupply().Uint64())
	require.Equal(t, uint64(100), tok.BalanceOf(alice).Uint64())

	huge := new(uint256.Int).SetAllOne()
	require.ErrorIs(t, tok.Mint(owner, bob, huge), ErrOverflow)
}

func TestToken_Transfer(t *testing.T) {
	tok := newTestToken(t)

	require.True(t, tok.Transfer(alice, bob, uint256.NewInt(40)))
	require.Equal(t, uint64(60), tok.BalanceOf(alice).Uint64())
	require.Equal(t, uint64(40), tok.BalanceOf(bob).Uint64())

	require.False(t, tok.Transfer(alice, bob, uint256.NewInt(61)), "transfer above balance")
	require.False(t, tok.Transfer(alice, common.Address{}, uint256.NewInt(1)), "transfer to zero address")
	require.Equal(t, uint64(60), tok.BalanceOf(alice).Uint64())
}

func TestToken_TransferFrom(t *testing.T) {
	tok := newTestToken(t)

	require.False(t, tok.TransferFrom(bob, alice, bob, uint256.NewInt(1)), "no allowance")
	require.True(t, tok.Approve(alice, bob, uint256.NewInt(30)))
	require.Equal(t, uint64(30), tok.Allowance(alice, bob).Uint64())

	require.False(t, tok.TransferFrom(bob, alice, bob, uint256.NewInt(31)), "above allowance")
	require.True(t, tok.TransferFrom(bob, alice, bob, uint256.NewInt(20)))
	require.Equal(t, uint64(10), tok.Allowance(alice, bob).Uint64())
	require.Equal(t, uint64(80), tok.BalanceOf(alice).Uint64())
	require.Equal(t, uint64(20), tok.BalanceOf(bob).Uint64())

	// Allowance above balance still fails and leaves the allowance intact.
	require.True(t, tok.Approve(alice, bob, uint256.NewInt(1000)))
	require.False(t, tok.TransferFrom(bob, alice, bob, uint256.NewInt(81)))
	require.Equal(t, uint64(1000), tok.Allowance(alice, bob).Uint64())
}

func TestToken_TransferOwnership(t *testing.T) {
	tok := newTestToken(t)

	require.ErrorIs(t, tok.TransferOwnership(alice, bob), ErrNotOwner)
	require.ErrorIs(t, tok.TransferOwnership(owner, common.Address{}), ErrZeroAddress)
	require.NoError(t, tok.TransferOwnership(owner, bob))
	require.Equal(t, bob, tok.Owner())
	require.NoError(t, tok.Mint(bob, bob, uint256.NewInt(5)))
}

func TestToken_SnapshotRevert(t *testing.T) {
	tok := newTestToken(t)
	require.True(t, tok.Approve(alice, bob, uint256.NewInt(7)))

	snap := tok.Snapshot()
	require.True(t, tok.Transfer(alice, bob, uint256.NewInt(50)))
	require.True(t, tok.Approve(alice, bob, uint256.NewInt(0)))
	require.NoError(t, tok.Mint(owner, owner, uint256.NewInt(5)))

	tok.RevertToSnapshot(snap)
	require.Equal(t, uint64(100), tok.BalanceOf(alice).Uint64())
	require.True(t, tok.BalanceOf(bob).IsZero())
	require.Equal(t, uint64(7), tok.Allowance(alice, bob).Uint64())
	require.Equal(t, uint64(100), tok.TotalSupply().Uint64())
}

func TestBinding(t *testing.T) {
	c := chain.New(0)
	tok := newTestToken(t)
	addr, err := c.Deploy(owner, tok)
	require.NoError(t, err)

	pool := common.HexToAddress("0x999")
	require.True(t, tok.Approve(alice, pool, uint256.NewInt(25)))

	b := Bind(c, addr, pool)
	require.Equal(t, addr, b.Address())
	require.Equal(t, uint64(100), b.BalanceOf(alice).Uint64())
	require.Equal(t, uint64(25), b.Allowance(alice, pool).Uint64())

	require.False(t, b.TransferFrom(alice, pool, uint256.NewInt(26)))
	require.True(t, b.TransferFrom(alice, pool, uint256.NewInt(25)))
	require.Equal(t, uint64(25), tok.BalanceOf(pool).Uint64())

	require.True(t, b.Transfer(bob, uint256.NewInt(5)))
	require.False(t, b.Transfer(bob, uint256.NewInt(21)))
	require.Equal(t, uint64(5), tok.BalanceOf(bob).Uint64())

	// Bindings to a missing contract fail closed.
	missing := Bind(c, common.HexToAddress("0xdead"), pool)
	require.True(t, missing.BalanceOf(alice).IsZero())
	require.False(t, missing.Transfer(bob, uint256.NewInt(1)))
}

func TestToken_RunMint(t *testing.T) {
	c := chain.New(0)
	tok := newTestToken(t)
	addr, err := c.Deploy(owner, tok)
	require.NoError(t, err)

	input, err := ABI.Pack("mint", bob, uint256.NewInt(9).ToBig())
	require.NoError(t, err)

	_, err = c.Call(alice, addr, input)
	require.ErrorIs(t, err, chain.ErrExecutionReverted)
	require.ErrorIs(t, err, ErrNotOwner)

	_, err = c.Call(owner, addr, input)
	require.NoError(t, err)
	require.Equal(t, uint64(9), tok.BalanceOf(bob).Uint64())

	_, err = c.Call(owner, addr, []byte{0xde, 0xad, 0xbe, 0xef})
	require.ErrorIs(t, err, chain.ErrUnknownMethod)
}

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

// Package token implements a standard fungible (ERC-20) token contract used
// as the stake asset of the voting DAO.
package token

import (
	"errors"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

var (
	ErrNotOwner    = errors.New("caller is not the owner")
	ErrZeroAddress = errors.New("zero address")
	ErrOverflow    = errors.New("total supply overflow")
)

// Token is an ERC-20 token with an owner allowed to mint. Transfers report
// failure by returning false rather than an error.
type Token struct {
	mu          sync.RWMutex
	name        string
	symbol      string
	decimals    uint8
	owner       common.Address
	totalSupply *uint256.Int
	balances    map[common.Address]*uint256.Int
	allowances  map[common.Address]map[common.Address]*uint256.Int
}

// New creates a token with zero supply owned by owner.
func New(name, symbol string, decimals uint8, owner common.Address) *Token {
	return &Token{
		name:        name,
		symbol:      symbol,
		decimals:    decimals,
		owner:       owner,
		totalSupply: new(uint256.Int),
		balances:    make(map[common.Address]*uint256.Int),
		allowances:  make(map[common.Address]map[common.Address]*uint256.Int),
	}
}

// Name returns the contract kind.
func (t *Token) Name() string { return "ERC20" }

// TokenName returns the human readable token name.
func (t *Token) TokenName() string { return t.name }

// Symbol returns the token ticker.
func (t *Token) Symbol() string { return t.symbol }

// Decimals returns the number of decimals of the token.
func (t *Token) Decimals() uint8 { return t.decimals }

// Owner returns the account allowed to mint.
func (t *Token) Owner() common.Address {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.owner
}

// TotalSupply returns the amount of tokens in existence.
func (t *Token) TotalSupply() *uint256.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.totalSupply.Clone()
}

// BalanceOf returns the balance of account.
func (t *Token) BalanceOf(account common.Address) *uint256.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.balance(account).Clone()
}

// Allowance returns the amount spender may still move on behalf of owner.
func (t *Token) Allowance(owner, spender common.Address) *uint256.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.allowance(owner, spender).Clone()
}

// Approve sets the allowance of spender over the caller's tokens.
func (t *Token) Approve(caller, spender common.Address, amount *uint256.Int) bool {
	if spender == (common.Address{}) {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.setAllowance(caller, spender, amount.Clone())
	return true
}

// Transfer moves amount from the caller to to.
func (t *Token) Transfer(caller, to common.Address, amount *uint256.Int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.move(caller, to, amount)
}

// TransferFrom moves amount from from to to, spending the caller's
// allowance.
func (t *Token) TransferFrom(caller, from, to common.Address, amount *uint256.Int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	allowed := t.allowance(from, caller)
	if allowed.Lt(amount) {
		return false
	}
	if !t.move(from, to, amount) {
		return false
	}
	t.setAllowance(from, caller, new(uint256.Int).Sub(allowed, amount))
	return true
}

// Mint creates amount new tokens for to. Only the owner may mint.
func (t *Token) Mint(caller, to common.Address, amount *uint256.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if caller != t.owner {
		return ErrNotOwner
	}
	if to == (common.Address{}) {
		return ErrZeroAddress
	}
	supply, overflow := new(uint256.Int).AddOverflow(t.totalSupply, amount)
	if overflow {
		return ErrOverflow
	}
	t.totalSupply = supply
	t.balances[to] = new(uint256.Int).Add(t.balance(to), amount)

	log.Debug("Token: Minted", "to", to, "amount", amount)
	return nil
}

// TransferOwnership hands the minting right to newOwner.
func (t *Token) TransferOwnership(caller, newOwner common.Address) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if caller != t.owner {
		return ErrNotOwner
	}
	if newOwner == (common.Address{}) {
		return ErrZeroAddress
	}
	log.Info("Token: Ownership transferred", "from", t.owner, "to", newOwner)
	t.owner = newOwner
	return nil
}

func (t *Token) move(from, to common.Address, amount *uint256.Int) bool {
	if to == (common.Address{}) {
		return false
	}
	balance := t.balance(from)
	if balance.Lt(amount) {
		return false
	}
	t.balances[from] = new(uint256.Int).Sub(balance, amount)
	t.balances[to] = new(uint256.Int).Add(t.balance(to), amount)
	return true
}

func (t *Token) balance(account common.Address) *uint256.Int {
	if b, ok := t.balances[account]; ok {
		return b
	}
	return new(uint256.Int)
}

func (t *Token) allowance(owner, spender common.Address) *uint256.Int {
	if a, ok := t.allowances[owner][spender]; ok {
		return a
	}
	return new(uint256.Int)
}

func (t *Token) setAllowance(owner, spender common.Address, amount *uint256.Int) {
	if t.allowances[owner] == nil {
		t.allowances[owner] = make(map[common.Address]*uint256.Int)
	}
	t.allowances[owner][spender] = amount
}

// Balance is a single balance entry of State.
type Balance struct {
	Account common.Address
	Amount  *uint256.Int
}

// Approval is a single allowance entry of State.
type Approval struct {
	Owner   common.Address
	Spender common.Address
	Amount  *uint256.Int
}

// State is the rlp encodable content of a token.
type State struct {
	Name        string
	Symbol      string
	Decimals    uint8
	Owner       common.Address
	TotalSupply *uint256.Int
	Balances    []Balance
	Approvals   []Approval
}

// Export returns a deep copy of the token state with entries sorted by
// address.
func (t *Token) Export() *State {
	t.mu.RLock()
	defer t.mu.RUnlock()

	st := &State{
		Name:        t.name,
		Symbol:      t.symbol,
		Decimals:    t.decimals,
		Owner:       t.owner,
		TotalSupply: t.totalSupply.Clone(),
		Balances:    make([]Balance, 0, len(t.balances)),
	}
	for account, amount := range t.balances {
		st.Balances = append(st.Balances, Balance{Account: account, Amount: amount.Clone()})
	}
	sort.Slice(st.Balances, func(i, j int) bool {
		return st.Balances[i].Account.Cmp(st.Balances[j].Account) < 0
	})
	for owner, spenders := range t.allowances {
		for spender, amount := range spenders {
			st.Approvals = append(st.Approvals, Approval{Owner: owner, Spender: spender, Amount: amount.Clone()})
		}
	}
	sort.Slice(st.Approvals, func(i, j int) bool {
		if c := st.Approvals[i].Owner.Cmp(st.Approvals[j].Owner); c != 0 {
			return c < 0
		}
		return st.Approvals[i].Spender.Cmp(st.Approvals[j].Spender) < 0
	})
	return st
}

// Import replaces the token state with st.
func (t *Token) Import(st *State) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.name, t.symbol, t.decimals, t.owner = st.Name, st.Symbol, st.Decimals, st.Owner
	t.totalSupply = new(uint256.Int)
	if st.TotalSupply != nil {
		t.totalSupply.Set(st.TotalSupply)
	}
	t.balances = make(map[common.Address]*uint256.Int, len(st.Balances))
	for _, b := range st.Balances {
		t.balances[b.Account] = b.Amount.Clone()
	}
	t.allowances = make(map[common.Address]map[common.Address]*uint256.Int)
	for _, a := range st.Approvals {
		t.setAllowance(a.Owner, a.Spender, a.Amount.Clone())
	}
}

// NewFromState creates a token holding st.
func NewFromState(st *State) *Token {
	t := New(st.Name, st.Symbol, st.Decimals, st.Owner)
	t.Import(st)
	return t
}

// Snapshot implements chain.Snapshotter.
func (t *Token) Snapshot() any { return t.Export() }

// RevertToSnapshot implements chain.Snapshotter.
func (t *Token) RevertToSnapshot(snap any) { t.Import(snap.(*State)) }

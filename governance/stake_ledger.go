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
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// StakeLedger tracks the tokens each stakeholder deposited into the pool
// and the proposals they voted on. Every change of a deposit is matched by
// a token transfer to or from the pool, so the deposits never exceed the
// pool balance.
//
// The ledger shares the engine lock with the proposal registry. The lock is
// never held while the token is called.
type StakeLedger struct {
	mu           *sync.Mutex
	pool         common.Address
	token        TokenTransfer
	proposals    proposalView
	stakeholders map[common.Address]*Stakeholder
}

func newStakeLedger(mu *sync.Mutex, pool common.Address, token TokenTransfer) *StakeLedger {
	return &StakeLedger{
		mu:           mu,
		pool:         pool,
		token:        token,
		stakeholders: make(map[common.Address]*Stakeholder),
	}
}

// Deposit pulls amount tokens from account into the pool and credits them
// to the account's deposit.
func (l *StakeLedger) Deposit(account common.Address, amount *uint256.Int) error {
	if l.token.BalanceOf(account).Lt(amount) {
		return ErrInsufficientBalance
	}
	if l.token.Allowance(account, l.pool).Lt(amount) {
		return ErrInsufficientAllowance
	}
	if !l.token.TransferFrom(account, l.pool, amount) {
		return ErrTransferFailed
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	holder := l.holder(account)
	holder.Deposited = new(uint256.Int).Add(holder.Deposited, amount)

	log.Debug("StakeLedger: Deposited", "account", account, "amount", amount, "total", holder.Deposited)
	return nil
}

// Withdraw pays amount tokens back to account. It fails while the account
// has voted on a proposal that is not finished yet.
func (l *StakeLedger) Withdraw(account common.Address, amount *uint256.Int) error {
	l.mu.Lock()
	holder, exists := l.stakeholders[account]
	if !exists {
		l.mu.Unlock()
		return ErrNotAStakeholder
	}
	if l.participating(holder) {
		l.mu.Unlock()
		return ErrParticipatingInOpenProposals
	}
	if holder.Deposited.Lt(amount) {
		l.mu.Unlock()
		return ErrAmountExceedsDeposit
	}
	// Debit before paying out so that a reentrant withdrawal sees the
	// reduced deposit.
	holder.Deposited = new(uint256.Int).Sub(holder.Deposited, amount)
	l.mu.Unlock()

	if !l.token.Transfer(account, amount) {
		l.mu.Lock()
		holder = l.holder(account)
		holder.Deposited = new(uint256.Int).Add(holder.Deposited, amount)
		l.mu.Unlock()
		return ErrTransferFailed
	}
	log.Debug("StakeLedger: Withdrawn", "account", account, "amount", amount)
	return nil
}

// WeightOf returns the voting weight of account, which is its current
// deposit.
func (l *StakeLedger) WeightOf(account common.Address) *uint256.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.weightOf(account)
}

// Stakeholder returns a copy of the ledger entry of account. Only proposals
// that are still open are listed in OpenVotes.
func (l *StakeLedger) Stakeholder(account common.Address) (*Stakeholder, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	holder, exists := l.stakeholders[account]
	if !exists {
		return nil, ErrNotAStakeholder
	}
	cpy := holder.Copy()
	cpy.OpenVotes = cpy.OpenVotes[:0]
	for _, id := range holder.OpenVotes {
		if !l.proposals.finished(id) {
			cpy.OpenVotes = append(cpy.OpenVotes, id)
		}
	}
	return cpy, nil
}

// TotalDeposited returns the sum of all deposits.
func (l *StakeLedger) TotalDeposited() *uint256.Int {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := new(uint256.Int)
	for _, holder := range l.stakeholders {
		total.Add(total, holder.Deposited)
	}
	return total
}

// recordVote remembers that account voted on proposal id. Caller holds the
// engine lock.
func (l *StakeLedger) recordVote(account common.Address, id uint64) {
	holder := l.holder(account)
	for _, open := range holder.OpenVotes {
		if open == id {
			return
		}
	}
	holder.OpenVotes = append(holder.OpenVotes, id)
}

// weightOf is WeightOf for callers holding the engine lock.
func (l *StakeLedger) weightOf(account common.Address) *uint256.Int {
	if holder, exists := l.stakeholders[account]; exists {
		return holder.Deposited.Clone()
	}
	return new(uint256.Int)
}

// participating reports whether any proposal the holder voted on is still
// unfinished, dropping the finished ones from its open votes.
func (l *StakeLedger) participating(holder *Stakeholder) bool {
	open := holder.OpenVotes[:0]
	for _, id := range holder.OpenVotes {
		if !l.proposals.finished(id) {
			open = append(open, id)
		}
	}
	holder.OpenVotes = open
	return len(open) > 0
}

func (l *StakeLedger) holder(account common.Address) *Stakeholder {
	holder, exists := l.stakeholders[account]
	if !exists {
		holder = &Stakeholder{Address: account, Deposited: new(uint256.Int)}
		l.stakeholders[account] = holder
	}
	return holder
}

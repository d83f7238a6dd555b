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
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Resolution reasons carried by ProposalFailedEvent.
const (
	ReasonNoVotes    = "No votes for proposal"
	ReasonNoQuorum   = "Minimum quorum is not reached"
	ReasonCallFailed = "Function call failed"
)

// Config holds the roles and parameters of the DAO.
type Config struct {
	Chairman               common.Address // proposes and hands over the chairman role
	Owner                  common.Address // adjusts quorum and debating period
	Token                  common.Address // staked token contract
	MinimumQuorumPercent   uint64         // percentage of the pool balance, 0..100
	DebatingPeriodDuration uint64         // seconds a proposal accepts votes
}

// DefaultConfig returns the default DAO parameters: 30% quorum and a three
// day debate window.
func DefaultConfig() *Config {
	return &Config{
		MinimumQuorumPercent:   30,
		DebatingPeriodDuration: 3 * 24 * 60 * 60,
	}
}

// Validate checks the parameter bounds.
func (c *Config) Validate() error {
	if c.MinimumQuorumPercent > 100 {
		return ErrQuorumOutOfRange
	}
	return nil
}

// Copy returns a copy of the configuration.
func (c *Config) Copy() *Config {
	cpy := *c
	return &cpy
}

// Stakeholder is the ledger entry of an account that deposited tokens.
type Stakeholder struct {
	Address   common.Address
	Deposited *uint256.Int
	OpenVotes []uint64 // ids of proposals voted on, in voting order
}

// Copy returns a deep copy of the entry.
func (s *Stakeholder) Copy() *Stakeholder {
	cpy := &Stakeholder{
		Address:   s.Address,
		Deposited: s.Deposited.Clone(),
		OpenVotes: make([]uint64, len(s.OpenVotes)),
	}
	copy(cpy.OpenVotes, s.OpenVotes)
	return cpy
}

// Proposal is a call to an external contract put to the vote.
type Proposal struct {
	ID           uint64
	Target       common.Address
	CallData     []byte
	Description  string
	CreatedAt    uint64
	Deadline     uint64
	VotesFor     *uint256.Int
	VotesAgainst *uint256.Int
	Voters       mapset.Set[common.Address]
	Finished     bool
}

// Votable reports whether the proposal accepts votes at time now.
func (p *Proposal) Votable(now uint64) bool {
	return !p.Finished && now < p.Deadline
}

// Resolvable reports whether the proposal may be finished at time now.
func (p *Proposal) Resolvable(now uint64) bool {
	return !p.Finished && now >= p.Deadline
}

// TotalVotes returns the weight of all votes cast.
func (p *Proposal) TotalVotes() *uint256.Int {
	return new(uint256.Int).Add(p.VotesFor, p.VotesAgainst)
}

// HasVoted reports whether account voted on the proposal.
func (p *Proposal) HasVoted(account common.Address) bool {
	return p.Voters.Contains(account)
}

// Copy returns a deep copy of the proposal.
func (p *Proposal) Copy() *Proposal {
	cpy := *p
	cpy.CallData = common.CopyBytes(p.CallData)
	cpy.VotesFor = p.VotesFor.Clone()
	cpy.VotesAgainst = p.VotesAgainst.Clone()
	cpy.Voters = p.Voters.Clone()
	return &cpy
}

// ProposalCreatedEvent is posted when the chairman adds a proposal.
type ProposalCreatedEvent struct {
	ID uint64
}

// ProposalFailedEvent is posted when a proposal is finished without
// reaching a decision or when its approved call fails.
type ProposalFailedEvent struct {
	ID          uint64
	Description string
	Reason      string
}

// ProposalFinishedEvent is posted when a quorate proposal is rejected, or
// approved and its call succeeded.
type ProposalFinishedEvent struct {
	ID          uint64
	Description string
	Approved    bool
}

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

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// ProposalRegistry owns the proposals, their tallies and the DAO
// configuration. Proposal ids are allocated sequentially from zero.
type ProposalRegistry struct {
	mu         *sync.Mutex
	config     *Config
	pool       common.Address
	clock      Clock
	token      TokenTransfer
	dispatcher Dispatcher
	ledger     *StakeLedger
	proposals  []*Proposal
}

func newProposalRegistry(mu *sync.Mutex, config *Config, pool common.Address, clock Clock, token TokenTransfer, dispatcher Dispatcher, ledger *StakeLedger) *ProposalRegistry {
	return &ProposalRegistry{
		mu:         mu,
		config:     config,
		pool:       pool,
		clock:      clock,
		token:      token,
		dispatcher: dispatcher,
		ledger:     ledger,
	}
}

// AddProposal stores a new proposal to call target with callData. Only the
// chairman may propose, and target must be a contract.
func (r *ProposalRegistry) AddProposal(caller, target common.Address, callData []byte, description string) (uint64, error) {
	r.mu.Lock()
	chairman := r.config.Chairman
	r.mu.Unlock()

	if caller != chairman {
		return 0, ErrNotChairman
	}
	if r.dispatcher.CodeSize(target) == 0 {
		return 0, ErrRecipientNotAContract
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	deadline := now + r.config.DebatingPeriodDuration
	if deadline < now {
		return 0, ErrDeadlineOverflow
	}
	proposal := &Proposal{
		ID:           uint64(len(r.proposals)),
		Target:       target,
		CallData:     common.CopyBytes(callData),
		Description:  description,
		CreatedAt:    now,
		Deadline:     deadline,
		VotesFor:     new(uint256.Int),
		VotesAgainst: new(uint256.Int),
		Voters:       mapset.NewThreadUnsafeSet[common.Address](),
	}
	r.proposals = append(r.proposals, proposal)

	log.Info("ProposalRegistry: Proposal created", "id", proposal.ID, "target", target, "deadline", proposal.Deadline)
	return proposal.ID, nil
}

// Vote adds the caller's current deposit to the for or against tally of
// proposal id and locks the deposit until the proposal is finished.
func (r *ProposalRegistry) Vote(caller common.Address, id uint64, inFavor bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	proposal, err := r.get(id)
	if err != nil {
		return err
	}
	if !proposal.Votable(r.clock.Now()) {
		return ErrProposalFinished
	}
	if proposal.HasVoted(caller) {
		return ErrAlreadyVoted
	}

	weight := r.ledger.weightOf(caller)
	if inFavor {
		proposal.VotesFor = new(uint256.Int).Add(proposal.VotesFor, weight)
	} else {
		proposal.VotesAgainst = new(uint256.Int).Add(proposal.VotesAgainst, weight)
	}
	proposal.Voters.Add(caller)
	r.ledger.recordVote(caller, id)

	log.Debug("ProposalRegistry: Vote cast", "id", id, "voter", caller, "inFavor", inFavor, "weight", weight)
	return nil
}

// FinishProposal resolves proposal id once its deadline has passed. The
// proposal is marked finished before anything else happens, so the pool
// balance read and the dispatched call only ever see a resolved proposal.
// Failures of the dispatched call are reported in the resolution, never as
// an error.
func (r *ProposalRegistry) FinishProposal(id uint64) (*Resolution, error) {
	r.mu.Lock()
	proposal, err := r.get(id)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	if proposal.Finished {
		r.mu.Unlock()
		return nil, ErrProposalFinished
	}
	if !proposal.Resolvable(r.clock.Now()) {
		r.mu.Unlock()
		return nil, ErrProposalInProgress
	}
	proposal.Finished = true
	final := proposal.Copy()
	minimumQuorum := r.config.MinimumQuorumPercent
	r.mu.Unlock()

	res := &Resolution{ProposalID: final.ID, Description: final.Description}
	if !final.TotalVotes().IsZero() {
		res.PoolBalance = r.token.BalanceOf(r.pool)
	}
	res.Outcome, res.QuorumPercent = tally(final.VotesFor, final.VotesAgainst, res.PoolBalance, minimumQuorum)

	if res.Outcome == OutcomeApproved {
		ret, err := r.dispatcher.Call(r.pool, final.Target, final.CallData)
		if err != nil {
			res.Outcome = OutcomeCallFailed
			res.CallErr = err
		}
		res.ReturnData = ret
	}
	log.Info("ProposalRegistry: Proposal finished", "id", id, "outcome", res.Outcome, "for", final.VotesFor, "against", final.VotesAgainst, "quorum", res.QuorumPercent)
	return res, nil
}

// Description returns the description of proposal id.
func (r *ProposalRegistry) Description(id uint64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	proposal, err := r.get(id)
	if err != nil {
		return "", err
	}
	return proposal.Description, nil
}

// Proposal returns a copy of proposal id.
func (r *ProposalRegistry) Proposal(id uint64) (*Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	proposal, err := r.get(id)
	if err != nil {
		return nil, err
	}
	return proposal.Copy(), nil
}

// Count returns the number of proposals ever created.
func (r *ProposalRegistry) Count() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return uint64(len(r.proposals))
}

// ActiveProposals returns copies of the proposals still accepting votes.
func (r *ProposalRegistry) ActiveProposals() []*Proposal {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	active := make([]*Proposal, 0)
	for _, p := range r.proposals {
		if p.Votable(now) {
			active = append(active, p.Copy())
		}
	}
	return active
}

func (r *ProposalRegistry) get(id uint64) (*Proposal, error) {
	if id >= uint64(len(r.proposals)) {
		return nil, ErrProposalNotFound
	}
	return r.proposals[id], nil
}

// finished implements proposalView. Unknown ids count as finished so they
// never lock a deposit.
func (r *ProposalRegistry) finished(id uint64) bool {
	proposal, err := r.get(id)
	if err != nil {
		return true
	}
	return proposal.Finished
}

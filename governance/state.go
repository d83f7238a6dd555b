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
	"bytes"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// ProposalRecord is the serializable form of a Proposal. Voters are sorted
// by address.
type ProposalRecord struct {
	ID           uint64
	Target       common.Address
	CallData     []byte
	Description  string
	CreatedAt    uint64
	Deadline     uint64
	VotesFor     *uint256.Int
	VotesAgainst *uint256.Int
	Voters       []common.Address
	Finished     bool
}

// State is the complete state of a DAO, encodable with rlp.
type State struct {
	Config       *Config
	Stakeholders []*Stakeholder // sorted by address
	Proposals    []*ProposalRecord
}

func newProposalRecord(p *Proposal) *ProposalRecord {
	voters := p.Voters.ToSlice()
	sort.Slice(voters, func(i, j int) bool {
		return bytes.Compare(voters[i][:], voters[j][:]) < 0
	})
	return &ProposalRecord{
		ID:           p.ID,
		Target:       p.Target,
		CallData:     common.CopyBytes(p.CallData),
		Description:  p.Description,
		CreatedAt:    p.CreatedAt,
		Deadline:     p.Deadline,
		VotesFor:     p.VotesFor.Clone(),
		VotesAgainst: p.VotesAgainst.Clone(),
		Voters:       voters,
		Finished:     p.Finished,
	}
}

func (r *ProposalRecord) proposal() *Proposal {
	return &Proposal{
		ID:           r.ID,
		Target:       r.Target,
		CallData:     common.CopyBytes(r.CallData),
		Description:  r.Description,
		CreatedAt:    r.CreatedAt,
		Deadline:     r.Deadline,
		VotesFor:     amountOrZero(r.VotesFor),
		VotesAgainst: amountOrZero(r.VotesAgainst),
		Voters:       mapset.NewThreadUnsafeSet[common.Address](r.Voters...),
		Finished:     r.Finished,
	}
}

func amountOrZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v.Clone()
}

// Export returns a deep copy of the DAO state.
func (d *Dao) Export() *State {
	d.mu.Lock()
	defer d.mu.Unlock()

	state := &State{
		Config:       d.registry.config.Copy(),
		Stakeholders: make([]*Stakeholder, 0, len(d.ledger.stakeholders)),
		Proposals:    make([]*ProposalRecord, 0, len(d.registry.proposals)),
	}
	for _, holder := range d.ledger.stakeholders {
		state.Stakeholders = append(state.Stakeholders, holder.Copy())
	}
	sort.Slice(state.Stakeholders, func(i, j int) bool {
		return bytes.Compare(state.Stakeholders[i].Address[:], state.Stakeholders[j].Address[:]) < 0
	})
	for _, p := range d.registry.proposals {
		state.Proposals = append(state.Proposals, newProposalRecord(p))
	}
	return state
}

// Import replaces the DAO state with a copy of state. Proposal ids must be
// their positions in state.Proposals.
func (d *Dao) Import(state *State) error {
	if state.Config == nil {
		return ErrMissingConfig
	}
	if err := state.Config.Validate(); err != nil {
		return err
	}
	proposals := make([]*Proposal, len(state.Proposals))
	for i, record := range state.Proposals {
		if record.ID != uint64(i) {
			return ErrProposalOrder
		}
		proposals[i] = record.proposal()
	}
	stakeholders := make(map[common.Address]*Stakeholder, len(state.Stakeholders))
	for _, holder := range state.Stakeholders {
		cpy := &Stakeholder{
			Address:   holder.Address,
			Deposited: amountOrZero(holder.Deposited),
			OpenVotes: append([]uint64{}, holder.OpenVotes...),
		}
		stakeholders[holder.Address] = cpy
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	*d.registry.config = *state.Config
	d.registry.proposals = proposals
	d.ledger.stakeholders = stakeholders
	return nil
}

// Snapshot implements chain.Snapshotter.
func (d *Dao) Snapshot() any {
	return d.Export()
}

// RevertToSnapshot implements chain.Snapshotter.
func (d *Dao) RevertToSnapshot(snap any) {
	if err := d.Import(snap.(*State)); err != nil {
		panic(err)
	}
}

// NewFromState recreates a DAO from exported state.
func NewFromState(state *State, address common.Address, token TokenTransfer, dispatcher Dispatcher, clock Clock) (*Dao, error) {
	if state.Config == nil {
		return nil, ErrMissingConfig
	}
	d, err := New(state.Config, address, token, dispatcher, clock)
	if err != nil {
		return nil, err
	}
	if err := d.Import(state); err != nil {
		return nil, err
	}
	return d, nil
}

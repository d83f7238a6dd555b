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
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// Dao is the voting DAO: a stake ledger and a proposal registry sharing one
// engine lock, plus the events announcing proposal life cycle changes.
//
// The engine lock is released whenever the DAO calls out to the token or to
// a proposal target, so contracts called by the DAO may call back into it.
type Dao struct {
	mu       sync.Mutex
	address  common.Address
	ledger   *StakeLedger
	registry *ProposalRegistry

	createdFeed  event.Feed
	failedFeed   event.Feed
	finishedFeed event.Feed
	resolvedFeed event.Feed
	scope        event.SubscriptionScope
}

// New creates a DAO whose pool lives at address. The token must be bound to
// that address as sender.
func New(config *Config, address common.Address, token TokenTransfer, dispatcher Dispatcher, clock Clock) (*Dao, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	d := &Dao{address: address}
	d.ledger = newStakeLedger(&d.mu, address, token)
	d.registry = newProposalRegistry(&d.mu, config.Copy(), address, clock, token, dispatcher, d.ledger)
	d.ledger.proposals = d.registry

	log.Info("Dao: Created", "address", address, "chairman", config.Chairman, "owner", config.Owner,
		"token", config.Token, "quorum", config.MinimumQuorumPercent, "period", config.DebatingPeriodDuration)
	return d, nil
}

// Address returns the pool address of the DAO.
func (d *Dao) Address() common.Address {
	return d.address
}

// Ledger returns the stake ledger.
func (d *Dao) Ledger() *StakeLedger {
	return d.ledger
}

// Registry returns the proposal registry.
func (d *Dao) Registry() *ProposalRegistry {
	return d.registry
}

// Deposit moves amount tokens from account into the pool.
func (d *Dao) Deposit(account common.Address, amount *uint256.Int) error {
	if err := d.ledger.Deposit(account, amount); err != nil {
		return err
	}
	depositCounter.Inc(1)
	return nil
}

// Withdraw pays amount deposited tokens back to account.
func (d *Dao) Withdraw(account common.Address, amount *uint256.Int) error {
	if err := d.ledger.Withdraw(account, amount); err != nil {
		return err
	}
	withdrawalCounter.Inc(1)
	return nil
}

// AddProposal creates a proposal to call target with callData and returns
// its id.
func (d *Dao) AddProposal(caller, target common.Address, callData []byte, description string) (uint64, error) {
	id, err := d.registry.AddProposal(caller, target, callData, description)
	if err != nil {
		return 0, err
	}
	proposalCreatedCounter.Inc(1)
	d.createdFeed.Send(ProposalCreatedEvent{ID: id})
	return id, nil
}

// Vote casts the caller's stake for or against proposal id.
func (d *Dao) Vote(caller common.Address, id uint64, inFavor bool) error {
	if err := d.registry.Vote(caller, id, inFavor); err != nil {
		return err
	}
	voteCounter.Inc(1)
	return nil
}

// FinishProposal resolves proposal id and announces the result. It only
// fails when the proposal cannot be finished; a failing proposal call is
// reported through a ProposalFailedEvent.
func (d *Dao) FinishProposal(id uint64) (*Resolution, error) {
	res, err := d.registry.FinishProposal(id)
	if err != nil {
		return nil, err
	}
	switch ev := res.Event().(type) {
	case ProposalFailedEvent:
		proposalFailedCounter.Inc(1)
		d.failedFeed.Send(ev)
	case ProposalFinishedEvent:
		if ev.Approved {
			proposalApprovedCounter.Inc(1)
		} else {
			proposalRejectedCounter.Inc(1)
		}
		d.finishedFeed.Send(ev)
	}
	d.resolvedFeed.Send(res)
	return res, nil
}

// Description returns the description of proposal id.
func (d *Dao) Description(id uint64) (string, error) {
	return d.registry.Description(id)
}

// Proposal returns a copy of proposal id.
func (d *Dao) Proposal(id uint64) (*Proposal, error) {
	return d.registry.Proposal(id)
}

// ProposalCount returns the number of proposals created so far.
func (d *Dao) ProposalCount() uint64 {
	return d.registry.Count()
}

// ActiveProposals returns the proposals still accepting votes.
func (d *Dao) ActiveProposals() []*Proposal {
	return d.registry.ActiveProposals()
}

// Stakeholder returns the ledger entry of account.
func (d *Dao) Stakeholder(account common.Address) (*Stakeholder, error) {
	return d.ledger.Stakeholder(account)
}

// WeightOf returns the current voting weight of account.
func (d *Dao) WeightOf(account common.Address) *uint256.Int {
	return d.ledger.WeightOf(account)
}

// Config returns a copy of the DAO configuration.
func (d *Dao) Config() *Config {
	return d.registry.Config()
}

// ChangeChairman hands the chairman role to newChairman.
func (d *Dao) ChangeChairman(caller, newChairman common.Address) error {
	return d.registry.ChangeChairman(caller, newChairman)
}

// TransferOwnership hands the owner role to newOwner.
func (d *Dao) TransferOwnership(caller, newOwner common.Address) error {
	return d.registry.TransferOwnership(caller, newOwner)
}

// SetMinimumQuorumPercent updates the minimum quorum.
func (d *Dao) SetMinimumQuorumPercent(caller common.Address, percent uint64) error {
	return d.registry.SetMinimumQuorumPercent(caller, percent)
}

// SetDebatingPeriodDuration updates the debate window in seconds.
func (d *Dao) SetDebatingPeriodDuration(caller common.Address, seconds uint64) error {
	return d.registry.SetDebatingPeriodDuration(caller, seconds)
}

// SubscribeProposalCreated registers a subscription of ProposalCreatedEvent.
func (d *Dao) SubscribeProposalCreated(ch chan<- ProposalCreatedEvent) event.Subscription {
	return d.scope.Track(d.createdFeed.Subscribe(ch))
}

// SubscribeProposalFailed registers a subscription of ProposalFailedEvent.
func (d *Dao) SubscribeProposalFailed(ch chan<- ProposalFailedEvent) event.Subscription {
	return d.scope.Track(d.failedFeed.Subscribe(ch))
}

// SubscribeProposalFinished registers a subscription of ProposalFinishedEvent.
func (d *Dao) SubscribeProposalFinished(ch chan<- ProposalFinishedEvent) event.Subscription {
	return d.scope.Track(d.finishedFeed.Subscribe(ch))
}

// SubscribeProposalResolved registers a subscription of the full
// resolution of every finished proposal, including proposals finished by a
// dispatched call.
func (d *Dao) SubscribeProposalResolved(ch chan<- *Resolution) event.Subscription {
	return d.scope.Track(d.resolvedFeed.Subscribe(ch))
}

// Close unsubscribes all event subscribers.
func (d *Dao) Close() {
	d.scope.Close()
}

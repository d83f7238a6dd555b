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
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

func TestNew_QuorumOutOfRange(t *testing.T) {
	config := testConfig()
	config.MinimumQuorumPercent = 101
	if _, err := New(config, testPool, NewMockToken(), NewMockDispatcher(), &MockClock{}); err != ErrQuorumOutOfRange {
		t.Fatalf("expected ErrQuorumOutOfRange, got %v", err)
	}

	config.MinimumQuorumPercent = 100
	dao, err := New(config, testPool, NewMockToken(), NewMockDispatcher(), &MockClock{})
	if err != nil {
		t.Fatalf("quorum of 100 should be accepted: %v", err)
	}
	dao.Close()
}

func TestNew_ConfigIsCopied(t *testing.T) {
	config := testConfig()
	dao, err := New(config, testPool, NewMockToken(), NewMockDispatcher(), &MockClock{})
	if err != nil {
		t.Fatalf("failed to create dao: %v", err)
	}
	defer dao.Close()

	config.Chairman = testAlice
	if dao.Config().Chairman != testChairman {
		t.Errorf("dao config changed through the caller's copy")
	}
	dao.Config().Owner = testAlice
	if dao.Config().Owner != testOwner {
		t.Errorf("dao config changed through a returned copy")
	}
	if dao.Address() != testPool {
		t.Errorf("address = %x, want %x", dao.Address(), testPool)
	}
}

func TestDao_ChangeChairman(t *testing.T) {
	env := newTestEnv(t)

	if err := env.dao.ChangeChairman(testAlice, testAlice); err != ErrNotChairman {
		t.Fatalf("expected ErrNotChairman, got %v", err)
	}
	if err := env.dao.ChangeChairman(testChairman, common.Address{}); err != ErrZeroAddress {
		t.Fatalf("expected ErrZeroAddress, got %v", err)
	}
	if err := env.dao.ChangeChairman(testChairman, testAlice); err != nil {
		t.Fatalf("failed to change chairman: %v", err)
	}
	if _, err := env.dao.AddProposal(testChairman, testTarget, nil, "old"); err != ErrNotChairman {
		t.Fatalf("old chairman: expected ErrNotChairman, got %v", err)
	}
	if _, err := env.dao.AddProposal(testAlice, testTarget, nil, "new"); err != nil {
		t.Fatalf("new chairman failed to propose: %v", err)
	}
}

func TestDao_OwnerSetters(t *testing.T) {
	env := newTestEnv(t)

	if err := env.dao.SetMinimumQuorumPercent(testChairman, 50); err != ErrNotOwner {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := env.dao.SetMinimumQuorumPercent(testOwner, 101); err != ErrQuorumOutOfRange {
		t.Fatalf("expected ErrQuorumOutOfRange, got %v", err)
	}
	if err := env.dao.SetMinimumQuorumPercent(testOwner, 100); err != nil {
		t.Fatalf("failed to set quorum: %v", err)
	}
	if err := env.dao.SetDebatingPeriodDuration(testAlice, 1); err != ErrNotOwner {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := env.dao.SetDebatingPeriodDuration(testOwner, 0); err != nil {
		t.Fatalf("failed to set period: %v", err)
	}
	config := env.dao.Config()
	if config.MinimumQuorumPercent != 100 || config.DebatingPeriodDuration != 0 {
		t.Errorf("unexpected config %+v", config)
	}

	// With a zero debate window proposals are resolvable at once
	id := env.propose(t)
	if err := env.dao.Vote(testAlice, id, true); err != ErrProposalFinished {
		t.Errorf("expected ErrProposalFinished, got %v", err)
	}
	if _, err := env.dao.FinishProposal(id); err != nil {
		t.Errorf("finish failed: %v", err)
	}
}

func TestDao_TransferOwnership(t *testing.T) {
	env := newTestEnv(t)

	if err := env.dao.TransferOwnership(testAlice, testAlice); err != ErrNotOwner {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := env.dao.TransferOwnership(testOwner, common.Address{}); err != ErrZeroAddress {
		t.Fatalf("expected ErrZeroAddress, got %v", err)
	}
	if err := env.dao.TransferOwnership(testOwner, testAlice); err != nil {
		t.Fatalf("failed to transfer ownership: %v", err)
	}
	if err := env.dao.SetMinimumQuorumPercent(testOwner, 10); err != ErrNotOwner {
		t.Fatalf("old owner: expected ErrNotOwner, got %v", err)
	}
	if err := env.dao.SetMinimumQuorumPercent(testAlice, 10); err != nil {
		t.Fatalf("new owner failed: %v", err)
	}
}

func TestDao_Events(t *testing.T) {
	env := newTestEnv(t)

	created := make(chan ProposalCreatedEvent, 4)
	failed := make(chan ProposalFailedEvent, 4)
	finished := make(chan ProposalFinishedEvent, 4)
	resolved := make(chan *Resolution, 4)
	sub1 := env.dao.SubscribeProposalCreated(created)
	sub2 := env.dao.SubscribeProposalFailed(failed)
	sub3 := env.dao.SubscribeProposalFinished(finished)
	sub4 := env.dao.SubscribeProposalResolved(resolved)
	defer sub1.Unsubscribe()
	defer sub2.Unsubscribe()
	defer sub3.Unsubscribe()
	defer sub4.Unsubscribe()

	env.deposit(t, testAlice, 10)
	quiet := env.propose(t)
	passed := env.propose(t)
	if ev := <-created; ev.ID != quiet {
		t.Fatalf("created id = %d, want %d", ev.ID, quiet)
	}
	if ev := <-created; ev.ID != passed {
		t.Fatalf("created id = %d, want %d", ev.ID, passed)
	}

	env.dao.Vote(testAlice, passed, true)
	env.expire(t, passed)
	if _, err := env.dao.FinishProposal(quiet); err != nil {
		t.Fatalf("finish failed: %v", err)
	}
	if _, err := env.dao.FinishProposal(passed); err != nil {
		t.Fatalf("finish failed: %v", err)
	}

	ev := <-failed
	if ev.ID != quiet || ev.Reason != ReasonNoVotes || ev.Description != "test proposal" {
		t.Errorf("unexpected failed event %+v", ev)
	}
	fin := <-finished
	if fin.ID != passed || !fin.Approved {
		t.Errorf("unexpected finished event %+v", fin)
	}
	if res := <-resolved; res.ProposalID != quiet || res.Outcome != OutcomeNoVotes {
		t.Errorf("unexpected resolution %+v", res)
	}
	if res := <-resolved; res.ProposalID != passed || !res.Approved() || !res.PoolBalance.Eq(uint256.NewInt(10)) {
		t.Errorf("unexpected resolution %+v", res)
	}

	// A rejected finish emits nothing
	if _, err := env.dao.FinishProposal(passed); err != ErrProposalFinished {
		t.Fatalf("expected ErrProposalFinished, got %v", err)
	}
	select {
	case ev := <-failed:
		t.Errorf("unexpected failed event %+v", ev)
	case ev := <-finished:
		t.Errorf("unexpected finished event %+v", ev)
	case res := <-resolved:
		t.Errorf("unexpected resolution %+v", res)
	default:
	}
}

func TestDao_ExportImport(t *testing.T) {
	env := newTestEnv(t)
	env.deposit(t, testAlice, 7)
	env.deposit(t, testBob, 3)
	first := env.propose(t)
	env.clock.now += 100
	second := env.propose(t)
	env.dao.Vote(testAlice, first, true)
	env.dao.Vote(testBob, first, false)
	env.dao.Vote(testBob, second, true)
	env.expire(t, first)
	if _, err := env.dao.FinishProposal(first); err != nil {
		t.Fatalf("finish failed: %v", err)
	}

	state := env.dao.Export()
	if len(state.Stakeholders) != 2 || state.Stakeholders[0].Address != testAlice {
		t.Fatalf("stakeholders not sorted: %+v", state.Stakeholders)
	}
	if len(state.Proposals) != 2 || len(state.Proposals[0].Voters) != 2 {
		t.Fatalf("unexpected proposals %+v", state.Proposals)
	}

	blob, err := rlp.EncodeToBytes(state)
	if err != nil {
		t.Fatalf("failed to encode state: %v", err)
	}
	var decoded State
	if err := rlp.DecodeBytes(blob, &decoded); err != nil {
		t.Fatalf("failed to decode state: %v", err)
	}

	restored, err := NewFromState(&decoded, testPool, env.token, env.dispatcher, env.clock)
	if err != nil {
		t.Fatalf("failed to restore dao: %v", err)
	}
	defer restored.Close()

	if restored.ProposalCount() != 2 {
		t.Fatalf("proposal count = %d, want 2", restored.ProposalCount())
	}
	p, _ := restored.Proposal(first)
	if open, _ := restored.Proposal(second); open.Finished || !open.Votable(env.clock.now) {
		t.Fatalf("second proposal must still be open after import")
	}
	if !p.Finished || !p.VotesFor.Eq(uint256.NewInt(7)) || !p.HasVoted(testBob) {
		t.Errorf("restored proposal differs: %+v", p)
	}
	if err := restored.Vote(testBob, second, true); err != ErrAlreadyVoted {
		t.Errorf("expected ErrAlreadyVoted, got %v", err)
	}
	if err := restored.Withdraw(testBob, uint256.NewInt(1)); err != ErrParticipatingInOpenProposals {
		t.Errorf("expected ErrParticipatingInOpenProposals, got %v", err)
	}
	if got := restored.WeightOf(testAlice); !got.Eq(uint256.NewInt(7)) {
		t.Errorf("alice weight = %v, want 7", got)
	}
	if restored.Config().Chairman != testChairman {
		t.Errorf("chairman not restored")
	}
}

func TestDao_ImportErrors(t *testing.T) {
	env := newTestEnv(t)

	if err := env.dao.Import(&State{}); err != ErrMissingConfig {
		t.Errorf("expected ErrMissingConfig, got %v", err)
	}
	bad := testConfig()
	bad.MinimumQuorumPercent = 200
	if err := env.dao.Import(&State{Config: bad}); err != ErrQuorumOutOfRange {
		t.Errorf("expected ErrQuorumOutOfRange, got %v", err)
	}
	state := &State{
		Config:    testConfig(),
		Proposals: []*ProposalRecord{{ID: 1}},
	}
	if err := env.dao.Import(state); err != ErrProposalOrder {
		t.Errorf("expected ErrProposalOrder, got %v", err)
	}
}

func TestDao_SnapshotRevert(t *testing.T) {
	env := newTestEnv(t)
	env.deposit(t, testAlice, 5)
	snap := env.dao.Snapshot()

	id := env.propose(t)
	env.dao.Vote(testAlice, id, true)
	env.dao.ChangeChairman(testChairman, testBob)

	env.dao.RevertToSnapshot(snap)
	if env.dao.ProposalCount() != 0 {
		t.Errorf("proposal survived revert")
	}
	if env.dao.Config().Chairman != testChairman {
		t.Errorf("chairman change survived revert")
	}
	holder, _ := env.dao.Stakeholder(testAlice)
	if len(holder.OpenVotes) != 0 || !holder.Deposited.Eq(uint256.NewInt(5)) {
		t.Errorf("unexpected stakeholder after revert %+v", holder)
	}
}

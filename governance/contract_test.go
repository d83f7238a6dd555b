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
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/votingdao/votingdao/chain"
	"github.com/votingdao/votingdao/token"
)

var testDeployer = common.HexToAddress("0xde9")

type chainEnv struct {
	chain     *chain.Chain
	token     *token.Token
	dao       *Dao
	tokenAddr common.Address
	daoAddr   common.Address
}

// newChainEnv deploys a token and a DAO owning it, and gives alice and bob
// 100 tokens each, approved for the DAO.
func newChainEnv(t *testing.T) *chainEnv {
	t.Helper()

	env := &chainEnv{chain: chain.New(1000)}
	env.tokenAddr = chain.CalculateContractAddress(testDeployer, 0)
	env.daoAddr = chain.CalculateContractAddress(testDeployer, 1)

	env.token = token.New("Vote", "VOTE", 18, testDeployer)
	if _, err := env.chain.Deploy(testDeployer, env.token); err != nil {
		t.Fatalf("failed to deploy token: %v", err)
	}
	config := testConfig()
	config.Owner = env.daoAddr
	config.Token = env.tokenAddr

	dao, err := New(config, env.daoAddr, token.Bind(env.chain, env.tokenAddr, env.daoAddr), env.chain, env.chain)
	if err != nil {
		t.Fatalf("failed to create dao: %v", err)
	}
	t.Cleanup(dao.Close)
	env.dao = dao
	if addr, err := env.chain.Deploy(testDeployer, dao); err != nil || addr != env.daoAddr {
		t.Fatalf("failed to deploy dao at %x: %x %v", env.daoAddr, addr, err)
	}

	for _, account := range []common.Address{testAlice, testBob} {
		if err := env.token.Mint(testDeployer, account, uint256.NewInt(100)); err != nil {
			t.Fatalf("failed to mint: %v", err)
		}
		env.call(t, account, env.tokenAddr, token.ABI, "approve", env.daoAddr, big.NewInt(100))
	}
	if err := env.token.TransferOwnership(testDeployer, env.daoAddr); err != nil {
		t.Fatalf("failed to hand the token to the dao: %v", err)
	}
	return env
}

func (env *chainEnv) call(t *testing.T, from, to common.Address, parsed *abi.ABI, method string, args ...interface{}) []byte {
	t.Helper()
	ret, err := env.try(t, from, to, parsed, method, args...)
	if err != nil {
		t.Fatalf("%s failed: %v", method, err)
	}
	return ret
}

func (env *chainEnv) try(t *testing.T, from, to common.Address, parsed *abi.ABI, method string, args ...interface{}) ([]byte, error) {
	t.Helper()
	input, err := parsed.Pack(method, args...)
	if err != nil {
		t.Fatalf("failed to pack %s: %v", method, err)
	}
	return env.chain.Call(from, to, input)
}

func TestContract_FullLifecycle(t *testing.T) {
	env := newChainEnv(t)

	env.call(t, testAlice, env.daoAddr, ABI, "deposit", big.NewInt(60))
	env.call(t, testBob, env.daoAddr, ABI, "deposit", big.NewInt(20))
	if got := env.token.BalanceOf(env.daoAddr); !got.Eq(uint256.NewInt(80)) {
		t.Fatalf("pool balance = %v, want 80", got)
	}

	mint, err := token.ABI.Pack("mint", testCarol, big.NewInt(5))
	if err != nil {
		t.Fatalf("failed to pack mint: %v", err)
	}
	ret := env.call(t, testChairman, env.daoAddr, ABI, "addProposal", mint, env.tokenAddr, "mint 5 to carol")
	out, err := ABI.Unpack("addProposal", ret)
	if err != nil || out[0].(*big.Int).Sign() != 0 {
		t.Fatalf("unexpected proposal id %v (%v)", out, err)
	}

	env.call(t, testAlice, env.daoAddr, ABI, "vote", big.NewInt(0), true)
	env.call(t, testBob, env.daoAddr, ABI, "vote", big.NewInt(0), false)

	if _, err := env.try(t, testAlice, env.daoAddr, ABI, "withdraw", big.NewInt(1)); !errors.Is(err, ErrParticipatingInOpenProposals) {
		t.Fatalf("expected ErrParticipatingInOpenProposals, got %v", err)
	}
	if _, err := env.try(t, testAlice, env.daoAddr, ABI, "finishProposal", big.NewInt(0)); !errors.Is(err, ErrProposalInProgress) {
		t.Fatalf("expected ErrProposalInProgress, got %v", err)
	}

	env.chain.AdvanceTime(env.dao.Config().DebatingPeriodDuration)
	env.call(t, testCarol, env.daoAddr, ABI, "finishProposal", big.NewInt(0))
	if got := env.token.BalanceOf(testCarol); !got.Eq(uint256.NewInt(5)) {
		t.Fatalf("carol balance = %v, want 5", got)
	}

	env.call(t, testAlice, env.daoAddr, ABI, "withdraw", big.NewInt(60))
	if got := env.token.BalanceOf(testAlice); !got.Eq(uint256.NewInt(100)) {
		t.Fatalf("alice balance = %v, want 100", got)
	}

	ret = env.call(t, testCarol, env.daoAddr, ABI, "description", big.NewInt(0))
	out, err = ABI.Unpack("description", ret)
	if err != nil || out[0].(string) != "mint 5 to carol" {
		t.Fatalf("unexpected description %v (%v)", out, err)
	}
	ret = env.call(t, testCarol, env.daoAddr, ABI, "deposited", testBob)
	out, _ = ABI.Unpack("deposited", ret)
	if out[0].(*big.Int).Int64() != 20 {
		t.Errorf("bob deposited = %v, want 20", out[0])
	}
}

func TestContract_FailedDepositReverts(t *testing.T) {
	env := newChainEnv(t)

	if _, err := env.try(t, testAlice, env.daoAddr, ABI, "deposit", big.NewInt(101)); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if _, err := env.dao.Stakeholder(testAlice); err != ErrNotAStakeholder {
		t.Errorf("failed deposit left a ledger entry: %v", err)
	}
	if got := env.token.BalanceOf(testAlice); !got.Eq(uint256.NewInt(100)) {
		t.Errorf("alice balance = %v, want 100", got)
	}
}

func TestContract_FailedCallIsContained(t *testing.T) {
	env := newChainEnv(t)
	env.call(t, testAlice, env.daoAddr, ABI, "deposit", big.NewInt(10))

	// Minting the whole uint256 range overflows the total supply
	huge := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	bad, _ := token.ABI.Pack("mint", testCarol, huge)
	env.call(t, testChairman, env.daoAddr, ABI, "addProposal", bad, env.tokenAddr, "impossible mint")
	env.call(t, testAlice, env.daoAddr, ABI, "vote", big.NewInt(0), true)
	env.chain.AdvanceTime(env.dao.Config().DebatingPeriodDuration)

	failed := make(chan ProposalFailedEvent, 1)
	sub := env.dao.SubscribeProposalFailed(failed)
	defer sub.Unsubscribe()

	env.call(t, testCarol, env.daoAddr, ABI, "finishProposal", big.NewInt(0))
	if ev := <-failed; ev.Reason != ReasonCallFailed {
		t.Fatalf("unexpected failure reason %q", ev.Reason)
	}
	p, _ := env.dao.Proposal(0)
	if !p.Finished {
		t.Fatal("proposal should be finished")
	}
	if got := env.token.TotalSupply(); !got.Eq(uint256.NewInt(200)) {
		t.Errorf("total supply = %v, want 200", got)
	}
	env.call(t, testAlice, env.daoAddr, ABI, "withdraw", big.NewInt(10))
}

func TestContract_SelfGovernance(t *testing.T) {
	env := newChainEnv(t)
	env.call(t, testAlice, env.daoAddr, ABI, "deposit", big.NewInt(10))

	setQuorum, _ := ABI.Pack("setMinimumQuorum", big.NewInt(75))
	env.call(t, testChairman, env.daoAddr, ABI, "addProposal", setQuorum, env.daoAddr, "raise quorum")
	env.call(t, testAlice, env.daoAddr, ABI, "vote", big.NewInt(0), true)
	env.chain.AdvanceTime(env.dao.Config().DebatingPeriodDuration)
	env.call(t, testCarol, env.daoAddr, ABI, "finishProposal", big.NewInt(0))

	ret := env.call(t, testCarol, env.daoAddr, ABI, "minimumQuorum")
	out, _ := ABI.Unpack("minimumQuorum", ret)
	if out[0].(*big.Int).Int64() != 75 {
		t.Fatalf("minimum quorum = %v, want 75", out[0])
	}

	// Only the DAO itself is the owner
	if _, err := env.try(t, testChairman, env.daoAddr, ABI, "setMinimumQuorum", big.NewInt(10)); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestContract_ReentrantFinishFails(t *testing.T) {
	env := newChainEnv(t)
	env.call(t, testAlice, env.daoAddr, ABI, "deposit", big.NewInt(10))

	finish, _ := ABI.Pack("finishProposal", big.NewInt(0))
	env.call(t, testChairman, env.daoAddr, ABI, "addProposal", finish, env.daoAddr, "finish myself")
	env.call(t, testAlice, env.daoAddr, ABI, "vote", big.NewInt(0), true)
	env.chain.AdvanceTime(env.dao.Config().DebatingPeriodDuration)

	res, err := env.dao.FinishProposal(0)
	if err != nil {
		t.Fatalf("finish failed: %v", err)
	}
	if res.Outcome != OutcomeCallFailed || !errors.Is(res.CallErr, ErrProposalFinished) {
		t.Fatalf("outcome = %v (%v), want call-failed with ErrProposalFinished", res.Outcome, res.CallErr)
	}
}

func TestContract_Views(t *testing.T) {
	env := newChainEnv(t)

	for method, want := range map[string]common.Address{
		"token":    env.tokenAddr,
		"chairman": testChairman,
		"owner":    env.daoAddr,
	} {
		ret := env.call(t, testCarol, env.daoAddr, ABI, method)
		out, err := ABI.Unpack(method, ret)
		if err != nil || out[0].(common.Address) != want {
			t.Errorf("%s = %v (%v), want %x", method, out, err, want)
		}
	}
	ret := env.call(t, testCarol, env.daoAddr, ABI, "debatingPeriodDuration")
	out, _ := ABI.Unpack("debatingPeriodDuration", ret)
	if out[0].(*big.Int).Uint64() != 3*24*60*60 {
		t.Errorf("debating period = %v", out[0])
	}
	if _, err := env.chain.Call(testCarol, env.daoAddr, []byte{1, 2, 3, 4}); !errors.Is(err, chain.ErrUnknownMethod) {
		t.Errorf("expected ErrUnknownMethod, got %v", err)
	}
	if _, err := env.try(t, testCarol, env.daoAddr, ABI, "description", big.NewInt(7)); !errors.Is(err, ErrProposalNotFound) {
		t.Errorf("expected ErrProposalNotFound, got %v", err)
	}
}

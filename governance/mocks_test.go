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
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	testPool     = common.HexToAddress("0xda0")
	testChairman = common.HexToAddress("0xc4a1")
	testOwner    = common.HexToAddress("0x0e")
	testTarget   = common.HexToAddress("0x7a")
	testAlice    = common.HexToAddress("0xa1")
	testBob      = common.HexToAddress("0xb0b")
	testCarol    = common.HexToAddress("0xca")
)

// MockToken is an in-memory token held by testPool.
type MockToken struct {
	balances       map[common.Address]*uint256.Int
	allowances     map[common.Address]map[common.Address]*uint256.Int
	failTransfer   bool
	failTransferTo bool
	calls          int
}

func NewMockToken() *MockToken {
	return &MockToken{
		balances:   make(map[common.Address]*uint256.Int),
		allowances: make(map[common.Address]map[common.Address]*uint256.Int),
	}
}

// Fund gives account amount tokens and approves the pool for all of them.
func (m *MockToken) Fund(account common.Address, amount uint64) {
	m.balances[account] = uint256.NewInt(amount)
	m.Approve(account, amount)
}

func (m *MockToken) Approve(account common.Address, amount uint64) {
	if m.allowances[account] == nil {
		m.allowances[account] = make(map[common.Address]*uint256.Int)
	}
	m.allowances[account][testPool] = uint256.NewInt(amount)
}

func (m *MockToken) BalanceOf(account common.Address) *uint256.Int {
	if b, ok := m.balances[account]; ok {
		return b.Clone()
	}
	return new(uint256.Int)
}

func (m *MockToken) Allowance(owner, spender common.Address) *uint256.Int {
	if a, ok := m.allowances[owner][spender]; ok {
		return a.Clone()
	}
	return new(uint256.Int)
}

func (m *MockToken) TransferFrom(from, to common.Address, amount *uint256.Int) bool {
	m.calls++
	if m.failTransfer {
		return false
	}
	allowance := m.Allowance(from, testPool)
	balance := m.BalanceOf(from)
	if allowance.Lt(amount) || balance.Lt(amount) {
		return false
	}
	m.allowances[from][testPool] = allowance.Sub(allowance, amount)
	m.balances[from] = balance.Sub(balance, amount)
	m.balances[to] = new(uint256.Int).Add(m.BalanceOf(to), amount)
	return true
}

func (m *MockToken) Transfer(to common.Address, amount *uint256.Int) bool {
	m.calls++
	if m.failTransferTo {
		return false
	}
	balance := m.BalanceOf(testPool)
	if balance.Lt(amount) {
		return false
	}
	m.balances[testPool] = balance.Sub(balance, amount)
	m.balances[to] = new(uint256.Int).Add(m.BalanceOf(to), amount)
	return true
}

// MockDispatcher records dispatched calls. Contracts are the addresses in
// code.
type MockDispatcher struct {
	code  map[common.Address]bool
	calls []mockCall
	fail  bool
	hook  func()
}

type mockCall struct {
	from, to common.Address
	input    []byte
}

func NewMockDispatcher(contracts ...common.Address) *MockDispatcher {
	d := &MockDispatcher{code: make(map[common.Address]bool)}
	for _, addr := range contracts {
		d.code[addr] = true
	}
	return d
}

func (d *MockDispatcher) CodeSize(addr common.Address) int {
	if d.code[addr] {
		return 32
	}
	return 0
}

func (d *MockDispatcher) Call(from, to common.Address, input []byte) ([]byte, error) {
	d.calls = append(d.calls, mockCall{from: from, to: to, input: common.CopyBytes(input)})
	if d.hook != nil {
		d.hook()
	}
	if d.fail {
		return nil, errors.New("execution reverted")
	}
	return []byte{0x01}, nil
}

type MockClock struct {
	now uint64
}

func (c *MockClock) Now() uint64 { return c.now }

type testEnv struct {
	dao        *Dao
	token      *MockToken
	dispatcher *MockDispatcher
	clock      *MockClock
}

func testConfig() *Config {
	config := DefaultConfig()
	config.Chairman = testChairman
	config.Owner = testOwner
	config.Token = common.HexToAddress("0x70c")
	return config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		token:      NewMockToken(),
		dispatcher: NewMockDispatcher(testTarget),
		clock:      &MockClock{now: 1000},
	}
	dao, err := New(testConfig(), testPool, env.token, env.dispatcher, env.clock)
	if err != nil {
		t.Fatalf("failed to create dao: %v", err)
	}
	t.Cleanup(dao.Close)
	env.dao = dao
	return env
}

// deposit funds account and deposits amount.
func (env *testEnv) deposit(t *testing.T, account common.Address, amount uint64) {
	t.Helper()
	env.token.Fund(account, amount)
	if err := env.dao.Deposit(account, uint256.NewInt(amount)); err != nil {
		t.Fatalf("deposit of %d by %x failed: %v", amount, account, err)
	}
}

// propose adds a proposal calling testTarget.
func (env *testEnv) propose(t *testing.T) uint64 {
	t.Helper()
	id, err := env.dao.AddProposal(testChairman, testTarget, []byte{0xde, 0xad}, "test proposal")
	if err != nil {
		t.Fatalf("failed to add proposal: %v", err)
	}
	return id
}

// expire moves the clock to the deadline of proposal id.
func (env *testEnv) expire(t *testing.T, id uint64) {
	t.Helper()
	p, err := env.dao.Proposal(id)
	if err != nil {
		t.Fatalf("failed to get proposal: %v", err)
	}
	env.clock.now = p.Deadline
}

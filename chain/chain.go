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

// Package chain implements the in-process execution environment the voting
// DAO runs on: a simulated clock, a contract registry keyed by address and
// call dispatch with all-or-nothing state semantics.
package chain

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
)

// MaxCallDepth bounds nested contract calls, as the EVM does.
const MaxCallDepth = 1024

var (
	ErrNoCode            = errors.New("no contract code at address")
	ErrExecutionReverted = errors.New("execution reverted")
	ErrMaxCallDepth      = errors.New("max call depth exceeded")
	ErrAddressInUse      = errors.New("contract address already in use")
)

// Chain is a single-process settlement environment. Contracts are plain Go
// values registered under an address; calls between them go through Call so
// that a failing call never leaves partial state behind.
type Chain struct {
	txMu sync.Mutex // serializes transactions

	mu        sync.RWMutex
	time      uint64
	depth     int
	contracts map[common.Address]Contract
	order     []common.Address
	nonces    map[common.Address]uint64
}

// New creates an empty chain whose clock starts at the given unix time.
func New(time uint64) *Chain {
	return &Chain{
		time:      time,
		contracts: make(map[common.Address]Contract),
		nonces:    make(map[common.Address]uint64),
	}
}

// Now returns the current block timestamp.
func (c *Chain) Now() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.time
}

// SetTime moves the clock to an absolute timestamp. The clock never runs
// backwards.
func (c *Chain) SetTime(time uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time < c.time {
		log.Warn("Chain: Refusing to rewind clock", "now", c.time, "requested", time)
		return
	}
	c.time = time
}

// AdvanceTime moves the clock forward by the given number of seconds.
func (c *Chain) AdvanceTime(seconds uint64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.time += seconds
	return c.time
}

// Nonce returns the deployment nonce of an account.
func (c *Chain) Nonce(addr common.Address) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nonces[addr]
}

// SetNonce overrides the deployment nonce of an account. Used when
// restoring a chain from storage.
func (c *Chain) SetNonce(addr common.Address, nonce uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nonces[addr] = nonce
}

// Deploy registers a contract at the CREATE address derived from the
// deployer and its current nonce, and bumps the nonce.
func (c *Chain) Deploy(deployer common.Address, contract Contract) (common.Address, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	nonce := c.nonces[deployer]
	addr := CalculateContractAddress(deployer, nonce)
	if _, exists := c.contracts[addr]; exists {
		return common.Address{}, ErrAddressInUse
	}
	c.nonces[deployer] = nonce + 1
	c.register(addr, contract)

	log.Info("Chain: Contract deployed", "name", contract.Name(), "address", addr, "deployer", deployer, "nonce", nonce)
	return addr, nil
}

// DeployAt registers a contract at a fixed address.
func (c *Chain) DeployAt(addr common.Address, contract Contract) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.contracts[addr]; exists {
		return ErrAddressInUse
	}
	c.register(addr, contract)
	return nil
}

func (c *Chain) register(addr common.Address, contract Contract) {
	c.contracts[addr] = contract
	c.order = append(c.order, addr)
}

// Contract returns the contract deployed at addr, if any.
func (c *Chain) Contract(addr common.Address) (Contract, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	contract, ok := c.contracts[addr]
	return contract, ok
}

// Code returns the code tag of the contract at addr. Contracts here are Go
// values without bytecode; the tag is the keccak256 of the contract name so
// that code size checks behave as they would on a real chain.
func (c *Chain) Code(addr common.Address) []byte {
	contract, ok := c.Contract(addr)
	if !ok {
		return nil
	}
	return crypto.Keccak256([]byte(contract.Name()))
}

// CodeSize returns the size of the code at addr, zero for plain accounts.
func (c *Chain) CodeSize(addr common.Address) int {
	return len(c.Code(addr))
}

// Call invokes the contract at to with the given input on behalf of from.
// If the contract fails, every stateful contract is reverted to the state
// it had when the call started and the error is wrapped in
// ErrExecutionReverted.
func (c *Chain) Call(from, to common.Address, input []byte) ([]byte, error) {
	c.mu.Lock()
	contract, ok := c.contracts[to]
	if !ok {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNoCode, to.Hex())
	}
	if c.depth >= MaxCallDepth {
		c.mu.Unlock()
		return nil, ErrMaxCallDepth
	}
	c.depth++
	ctx := &CallContext{Chain: c, Caller: from, Address: to, Time: c.time}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.depth--
		c.mu.Unlock()
	}()

	snap := c.snapshot()
	ret, err := contract.Run(ctx, input)
	if err != nil {
		c.revert(snap)
		log.Debug("Chain: Call reverted", "from", from, "to", to, "err", err)
		if errors.Is(err, ErrExecutionReverted) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrExecutionReverted, err)
	}
	return ret, nil
}

// Transact runs fn as a single transaction sent by from. Any error returned
// by fn discards every state change made while it ran. Transactions never
// interleave; fn must not start another transaction.
func (c *Chain) Transact(from common.Address, fn func() error) error {
	c.txMu.Lock()
	defer c.txMu.Unlock()

	snap := c.snapshot()
	if err := fn(); err != nil {
		c.revert(snap)
		log.Debug("Chain: Transaction reverted", "from", from, "err", err)
		return err
	}
	return nil
}

type worldSnapshot map[common.Address]any

func (c *Chain) snapshot() worldSnapshot {
	c.mu.RLock()
	contracts := make([]common.Address, len(c.order))
	copy(contracts, c.order)
	c.mu.RUnlock()

	snap := make(worldSnapshot)
	for _, addr := range contracts {
		contract, _ := c.Contract(addr)
		if s, ok := contract.(Snapshotter); ok {
			snap[addr] = s.Snapshot()
		}
	}
	return snap
}

func (c *Chain) revert(snap worldSnapshot) {
	for addr, state := range snap {
		contract, _ := c.Contract(addr)
		contract.(Snapshotter).RevertToSnapshot(state)
	}
}

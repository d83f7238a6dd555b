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

package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/votingdao/votingdao/governance"
	"github.com/votingdao/votingdao/token"
)

// Nonce is the deployment nonce of one account.
type Nonce struct {
	Account common.Address
	Nonce   uint64
}

// Meta describes a deployment: who deployed it, where the contracts live and
// the state of the chain clock.
type Meta struct {
	Deployer common.Address
	Token    common.Address
	Dao      common.Address
	Time     uint64
	Nonces   []Nonce
}

// Result is the stored outcome of a finished proposal.
type Result struct {
	ProposalID    uint64
	Outcome       uint8
	Reason        string // failure reason, empty when the proposal finished
	PoolBalance   *uint256.Int
	QuorumPercent *uint256.Int
	ReturnData    []byte
	CallError     string
	FinishedAt    uint64
}

// NewResult converts a resolution into its stored form.
func NewResult(res *governance.Resolution, finishedAt uint64) *Result {
	r := &Result{
		ProposalID:    res.ProposalID,
		Outcome:       uint8(res.Outcome),
		PoolBalance:   new(uint256.Int),
		QuorumPercent: new(uint256.Int),
		ReturnData:    common.CopyBytes(res.ReturnData),
		FinishedAt:    finishedAt,
	}
	if res.PoolBalance != nil {
		r.PoolBalance.Set(res.PoolBalance)
	}
	if res.QuorumPercent != nil {
		r.QuorumPercent.Set(res.QuorumPercent)
	}
	if ev, ok := res.Event().(governance.ProposalFailedEvent); ok {
		r.Reason = ev.Reason
	}
	if res.CallErr != nil {
		r.CallError = res.CallErr.Error()
	}
	return r
}

// Approved reports whether the stored proposal passed.
func (r *Result) Approved() bool {
	return governance.Outcome(r.Outcome) == governance.OutcomeApproved
}

func read(db ethdb.KeyValueReader, key []byte, val interface{}) error {
	ok, err := db.Has(key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	blob, err := db.Get(key)
	if err != nil {
		return err
	}
	if err := rlp.DecodeBytes(blob, val); err != nil {
		return fmt.Errorf("decode %q: %w", key, err)
	}
	return nil
}

func write(db ethdb.KeyValueWriter, key []byte, val interface{}) error {
	blob, err := rlp.EncodeToBytes(val)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return db.Put(key, blob)
}

// ReadMeta loads the deployment metadata.
func ReadMeta(db ethdb.KeyValueReader) (*Meta, error) {
	meta := new(Meta)
	if err := read(db, metaKey, meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// WriteMeta stores the deployment metadata.
func WriteMeta(db ethdb.KeyValueWriter, meta *Meta) error {
	return write(db, metaKey, meta)
}

// HasDeployment reports whether the database holds a deployment.
func HasDeployment(db ethdb.KeyValueReader) bool {
	ok, _ := db.Has(metaKey)
	return ok
}

// ReadTokenState loads the state of the token at addr.
func ReadTokenState(db ethdb.KeyValueReader, addr common.Address) (*token.State, error) {
	state := new(token.State)
	if err := read(db, tokenStateKey(addr), state); err != nil {
		return nil, err
	}
	return state, nil
}

// WriteTokenState stores the state of the token at addr.
func WriteTokenState(db ethdb.KeyValueWriter, addr common.Address, state *token.State) error {
	return write(db, tokenStateKey(addr), state)
}

// ReadDaoState loads the state of the DAO at addr.
func ReadDaoState(db ethdb.KeyValueReader, addr common.Address) (*governance.State, error) {
	state := new(governance.State)
	if err := read(db, daoStateKey(addr), state); err != nil {
		return nil, err
	}
	return state, nil
}

// WriteDaoState stores the state of the DAO at addr.
func WriteDaoState(db ethdb.KeyValueWriter, addr common.Address, state *governance.State) error {
	return write(db, daoStateKey(addr), state)
}

// ReadResult loads the outcome of proposal id of the DAO at addr.
func ReadResult(db ethdb.KeyValueReader, addr common.Address, id uint64) (*Result, error) {
	result := new(Result)
	if err := read(db, resultKey(addr, id), result); err != nil {
		return nil, err
	}
	return result, nil
}

// WriteResult stores the outcome of a finished proposal of the DAO at addr.
func WriteResult(db ethdb.KeyValueWriter, addr common.Address, result *Result) error {
	return write(db, resultKey(addr, result.ProposalID), result)
}

// ReadResults loads every stored outcome of the DAO at addr, ordered by
// proposal id.
func ReadResults(db ethdb.Iteratee, addr common.Address) ([]*Result, error) {
	prefix := resultKeyPrefix(addr)
	it := db.NewIterator(prefix, nil)
	defer it.Release()

	var results []*Result
	for it.Next() {
		if len(it.Key()) != len(prefix)+8 {
			continue
		}
		result := new(Result)
		if err := rlp.DecodeBytes(it.Value(), result); err != nil {
			return nil, fmt.Errorf("decode result %d: %w", binary.BigEndian.Uint64(it.Key()[len(prefix):]), err)
		}
		results = append(results, result)
	}
	return results, it.Error()
}

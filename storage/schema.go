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

	"github.com/ethereum/go-ethereum/common"
)

// Storage key prefixes. State keys are the prefix followed by the contract
// address; result keys append the proposal id as uint64 big endian.
var (
	metaKey          = []byte("votingdao-meta")
	tokenStatePrefix = []byte("token-state-")
	daoStatePrefix   = []byte("dao-state-")
	resultPrefix     = []byte("dao-result-")
)

func tokenStateKey(addr common.Address) []byte {
	return append(append([]byte{}, tokenStatePrefix...), addr.Bytes()...)
}

func daoStateKey(addr common.Address) []byte {
	return append(append([]byte{}, daoStatePrefix...), addr.Bytes()...)
}

func resultKey(addr common.Address, id uint64) []byte {
	key := append(resultKeyPrefix(addr), make([]byte, 8)...)
	binary.BigEndian.PutUint64(key[len(key)-8:], id)
	return key
}

func resultKeyPrefix(addr common.Address) []byte {
	return append(append([]byte{}, resultPrefix...), addr.Bytes()...)
}

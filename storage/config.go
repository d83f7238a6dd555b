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

// Package storage persists the voting DAO deployment in a key-value store.
// Records are rlp encoded and live under prefixed keys.
package storage

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/ethdb/leveldb"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/log"
)

// ErrNotFound is returned when a record is missing from the database.
var ErrNotFound = errors.New("record not found")

// Config defines where and how the database is opened.
type Config struct {
	DataDir   string // leveldb directory, in-memory when empty
	Cache     int    // leveldb cache in megabytes
	Handles   int    // open file handles
	Namespace string // metrics namespace
	ReadOnly  bool
}

// DefaultConfig returns the database settings used by the CLI.
func DefaultConfig(dataDir string) *Config {
	return &Config{
		DataDir:   dataDir,
		Cache:     16,
		Handles:   16,
		Namespace: "votingdao/db/",
	}
}

// Open opens the database described by config.
func Open(config *Config) (ethdb.KeyValueStore, error) {
	if config.DataDir == "" {
		log.Debug("Storage: Using in-memory database")
		return memorydb.New(), nil
	}
	db, err := leveldb.New(config.DataDir, config.Cache, config.Handles, config.Namespace, config.ReadOnly)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", config.DataDir, err)
	}
	log.Info("Storage: Opened database", "path", config.DataDir, "cache", config.Cache, "readonly", config.ReadOnly)
	return db, nil
}

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

package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"
	"github.com/votingdao/votingdao/genesis"
	"github.com/votingdao/votingdao/governance"
	"github.com/votingdao/votingdao/internal/config"
	"github.com/votingdao/votingdao/storage"
)

var errNoSender = errors.New("--from is required")

// node is a deployment loaded from the data directory.
type node struct {
	cfg *config.Config
	db  ethdb.KeyValueStore
	*genesis.Deployment

	out    io.Writer
	events *eventLog
}

func openDatabase(cfg *config.Config) (ethdb.KeyValueStore, error) {
	dbConfig := storage.DefaultConfig(cfg.Node.DataDir)
	dbConfig.Cache = cfg.Node.Cache
	dbConfig.Handles = cfg.Node.Handles
	return storage.Open(dbConfig)
}

// openNode loads the deployment from the data directory and subscribes to
// the DAO events.
func openNode(ctx *cli.Context) (*node, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}
	d, err := genesis.Load(db)
	if err != nil {
		db.Close()
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("no deployment in %q, run daoctl deploy first", cfg.Node.DataDir)
		}
		return nil, err
	}
	n := &node{
		cfg:        cfg,
		db:         db,
		Deployment: d,
		out:        ctx.App.Writer,
		events:     newEventLog(d.Dao),
	}
	return n, nil
}

func (n *node) Close() {
	n.Deployment.Close()
	n.events.stop()
	n.db.Close()
}

// transact runs fn as one transaction of from and persists the result
// together with the resolutions of the proposals it finished. Events
// emitted by a reverted transaction are dropped.
func (n *node) transact(from common.Address, fn func() error) error {
	err := n.Chain.Transact(from, fn)
	batch := n.events.take()
	if err != nil {
		return err
	}
	for _, line := range batch.lines {
		fmt.Fprintln(n.out, line)
	}
	var results []*storage.Result
	for _, res := range batch.resolved {
		// A nested call may have finished a proposal and then been reverted.
		if p, err := n.Dao.Proposal(res.ProposalID); err != nil || !p.Finished {
			continue
		}
		results = append(results, storage.NewResult(res, n.Chain.Now()))
	}
	return n.Save(n.db, results...)
}

// eventLog collects the DAO events of a transaction on its own goroutine.
// The channels are unbuffered, so once a feed's Send returns the event has
// been taken by the loop and no number of events can fill a buffer.
type eventLog struct {
	created  chan governance.ProposalCreatedEvent
	failed   chan governance.ProposalFailedEvent
	finished chan governance.ProposalFinishedEvent
	resolved chan *governance.Resolution
	flush    chan chan emitted
	quit     chan struct{}
	done     chan struct{}
}

// emitted is what a transaction announced, in emission order.
type emitted struct {
	lines    []string
	resolved []*governance.Resolution
}

func newEventLog(dao *governance.Dao) *eventLog {
	l := &eventLog{
		created:  make(chan governance.ProposalCreatedEvent),
		failed:   make(chan governance.ProposalFailedEvent),
		finished: make(chan governance.ProposalFinishedEvent),
		resolved: make(chan *governance.Resolution),
		flush:    make(chan chan emitted),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	dao.SubscribeProposalCreated(l.created)
	dao.SubscribeProposalFailed(l.failed)
	dao.SubscribeProposalFinished(l.finished)
	dao.SubscribeProposalResolved(l.resolved)
	go l.loop()
	return l
}

func (l *eventLog) loop() {
	defer close(l.done)

	var pending emitted
	for {
		select {
		case ev := <-l.created:
			pending.lines = append(pending.lines, fmt.Sprintf("event ProposalCreated id=%d", ev.ID))
		case ev := <-l.failed:
			pending.lines = append(pending.lines, fmt.Sprintf("event ProposalFailed id=%d description=%q reason=%q", ev.ID, ev.Description, ev.Reason))
		case ev := <-l.finished:
			pending.lines = append(pending.lines, fmt.Sprintf("event ProposalFinished id=%d description=%q approved=%t", ev.ID, ev.Description, ev.Approved))
		case res := <-l.resolved:
			pending.resolved = append(pending.resolved, res)
		case reply := <-l.flush:
			reply <- pending
			pending = emitted{}
		case <-l.quit:
			return
		}
	}
}

// take returns and clears everything collected since the last call.
func (l *eventLog) take() emitted {
	reply := make(chan emitted)
	l.flush <- reply
	return <-reply
}

// stop ends the loop. The DAO subscriptions must be closed first.
func (l *eventLog) stop() {
	close(l.quit)
	<-l.done
}

// sender returns the address given with --from.
func sender(ctx *cli.Context) (common.Address, error) {
	if !ctx.IsSet(fromFlag.Name) {
		return common.Address{}, errNoSender
	}
	return parseAddress(ctx.String(fromFlag.Name))
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func parseAmount(s string) (*uint256.Int, error) {
	amount, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return amount, nil
}

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid proposal id %q", s)
	}
	return id, nil
}

func parseBool(s string) (bool, error) {
	switch s {
	case "for", "yes", "true":
		return true, nil
	case "against", "no", "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid vote %q, want for or against", s)
}

// args checks the number of positional arguments.
func args(ctx *cli.Context, want int) ([]string, error) {
	if ctx.NArg() != want {
		return nil, fmt.Errorf("%s: expected %d arguments, got %d (usage: %s %s)", ctx.Command.Name, want, ctx.NArg(), ctx.Command.Name, ctx.Command.ArgsUsage)
	}
	return ctx.Args().Slice(), nil
}

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
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
	"github.com/votingdao/votingdao/governance"
	"github.com/votingdao/votingdao/storage"
)

var (
	proposeCommand = &cli.Command{
		Name:      "propose",
		Usage:     "Add a proposal calling a contract (chairman only)",
		ArgsUsage: "<recipient> <calldata hex> <description>",
		Action:    propose,
	}
	voteCommand = &cli.Command{
		Name:      "vote",
		Usage:     "Vote for or against a proposal with the whole deposit",
		ArgsUsage: "<proposal id> <for|against>",
		Action:    vote,
	}
	finishCommand = &cli.Command{
		Name:      "finish",
		Usage:     "Resolve a proposal after its deadline and run its call if approved",
		ArgsUsage: "<proposal id>",
		Action:    finish,
	}
	describeCommand = &cli.Command{
		Name:      "describe",
		Usage:     "Print the description of a proposal",
		ArgsUsage: "<proposal id>",
		Action:    describe,
	}
	proposalCommand = &cli.Command{
		Name:      "proposal",
		Usage:     "Show a proposal and its tally",
		ArgsUsage: "<proposal id>",
		Action:    showProposal,
	}
	resultsCommand = &cli.Command{
		Name:   "results",
		Usage:  "List the outcomes of finished proposals",
		Action: showResults,
	}
)

func propose(ctx *cli.Context) error {
	a, err := args(ctx, 3)
	if err != nil {
		return err
	}
	from, err := sender(ctx)
	if err != nil {
		return err
	}
	recipient, err := parseAddress(a[0])
	if err != nil {
		return err
	}
	callData, err := hexutil.Decode(a[1])
	if err != nil {
		return fmt.Errorf("invalid calldata: %w", err)
	}
	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	var id uint64
	err = n.transact(from, func() error {
		id, err = n.Dao.AddProposal(from, recipient, callData, a[2])
		return err
	})
	if err != nil {
		return err
	}
	p, _ := n.Dao.Proposal(id)
	fmt.Fprintf(n.out, "proposal %d open until %s\n", id, formatTime(p.Deadline))
	return nil
}

func vote(ctx *cli.Context) error {
	a, err := args(ctx, 2)
	if err != nil {
		return err
	}
	from, err := sender(ctx)
	if err != nil {
		return err
	}
	id, err := parseID(a[0])
	if err != nil {
		return err
	}
	inFavor, err := parseBool(a[1])
	if err != nil {
		return err
	}
	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	weight := n.Dao.WeightOf(from)
	if err := n.transact(from, func() error { return n.Dao.Vote(from, id, inFavor) }); err != nil {
		return err
	}
	side := "against"
	if inFavor {
		side = "for"
	}
	fmt.Fprintf(n.out, "voted %s proposal %d with weight %s\n", side, id, weight.Dec())
	return nil
}

func finish(ctx *cli.Context) error {
	a, err := args(ctx, 1)
	if err != nil {
		return err
	}
	id, err := parseID(a[0])
	if err != nil {
		return err
	}
	// Anyone may finish a proposal; --from is optional.
	from, err := sender(ctx)
	if err != nil && !errors.Is(err, errNoSender) {
		return err
	}
	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	var res *governance.Resolution
	err = n.transact(from, func() error {
		res, err = n.Dao.FinishProposal(id)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(n.out, "proposal %d: %s\n", id, res.Outcome)
	if res.CallErr != nil {
		fmt.Fprintf(n.out, "call error: %v\n", res.CallErr)
	}
	return nil
}

func describe(ctx *cli.Context) error {
	a, err := args(ctx, 1)
	if err != nil {
		return err
	}
	id, err := parseID(a[0])
	if err != nil {
		return err
	}
	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	desc, err := n.Dao.Description(id)
	if err != nil {
		return err
	}
	fmt.Fprintln(n.out, desc)
	return nil
}

func showProposal(ctx *cli.Context) error {
	a, err := args(ctx, 1)
	if err != nil {
		return err
	}
	id, err := parseID(a[0])
	if err != nil {
		return err
	}
	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	p, err := n.Dao.Proposal(id)
	if err != nil {
		return err
	}
	status := "open"
	switch {
	case p.Finished:
		status = "finished"
	case p.Resolvable(n.Chain.Now()):
		status = "awaiting finish"
	}
	fmt.Fprintf(n.out, "id          %d\n", p.ID)
	fmt.Fprintf(n.out, "description %s\n", p.Description)
	fmt.Fprintf(n.out, "recipient   %s\n", p.Target.Hex())
	fmt.Fprintf(n.out, "calldata    %s\n", hexutil.Encode(p.CallData))
	fmt.Fprintf(n.out, "created     %s\n", formatTime(p.CreatedAt))
	fmt.Fprintf(n.out, "deadline    %s\n", formatTime(p.Deadline))
	fmt.Fprintf(n.out, "for         %s\n", p.VotesFor.Dec())
	fmt.Fprintf(n.out, "against     %s\n", p.VotesAgainst.Dec())
	fmt.Fprintf(n.out, "voters      %d\n", p.Voters.Cardinality())
	fmt.Fprintf(n.out, "status      %s\n", status)
	if p.Finished {
		if result, err := storage.ReadResult(n.db, n.DaoAddr, id); err == nil {
			fmt.Fprintf(n.out, "outcome     %s\n", governance.Outcome(result.Outcome))
		}
	}
	return nil
}

func showResults(ctx *cli.Context) error {
	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	results, err := storage.ReadResults(n.db, n.DaoAddr)
	if err != nil {
		return err
	}
	for _, r := range results {
		line := fmt.Sprintf("%d\t%s\tquorum=%s%%\tpool=%s\tat=%s", r.ProposalID, governance.Outcome(r.Outcome), r.QuorumPercent.Dec(), r.PoolBalance.Dec(), formatTime(r.FinishedAt))
		if r.Reason != "" {
			line += fmt.Sprintf("\treason=%q", r.Reason)
		}
		fmt.Fprintln(n.out, line)
	}
	return nil
}

func formatTime(unix uint64) string {
	return time.Unix(int64(unix), 0).UTC().Format(time.RFC3339)
}

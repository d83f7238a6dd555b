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
	"github.com/holiman/uint256"
)

// Outcome is the result of resolving a proposal.
type Outcome uint8

const (
	OutcomeNoVotes    Outcome = iota // nobody voted
	OutcomeNoQuorum                  // turnout below the minimum quorum
	OutcomeRejected                  // quorate, not more votes for than against
	OutcomeApproved                  // quorate majority, call succeeded
	OutcomeCallFailed                // quorate majority, call failed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoVotes:
		return "no-votes"
	case OutcomeNoQuorum:
		return "no-quorum"
	case OutcomeRejected:
		return "rejected"
	case OutcomeApproved:
		return "approved"
	case OutcomeCallFailed:
		return "call-failed"
	}
	return "unknown"
}

// Resolution describes how a proposal was finished.
type Resolution struct {
	ProposalID    uint64
	Description   string
	Outcome       Outcome
	PoolBalance   *uint256.Int // pool balance read at resolution, nil without votes
	QuorumPercent *uint256.Int // turnout in percent of the pool balance
	ReturnData    []byte       // output of the dispatched call
	CallErr       error        // failure of the dispatched call
}

// Approved reports whether the proposal passed and its call succeeded.
func (r *Resolution) Approved() bool {
	return r.Outcome == OutcomeApproved
}

// Event returns the event announcing the resolution: a
// ProposalFailedEvent when no decision was reached or the call failed,
// otherwise a ProposalFinishedEvent.
func (r *Resolution) Event() interface{} {
	switch r.Outcome {
	case OutcomeNoVotes:
		return ProposalFailedEvent{ID: r.ProposalID, Description: r.Description, Reason: ReasonNoVotes}
	case OutcomeNoQuorum:
		return ProposalFailedEvent{ID: r.ProposalID, Description: r.Description, Reason: ReasonNoQuorum}
	case OutcomeCallFailed:
		return ProposalFailedEvent{ID: r.ProposalID, Description: r.Description, Reason: ReasonCallFailed}
	}
	return ProposalFinishedEvent{ID: r.ProposalID, Description: r.Description, Approved: r.Approved()}
}

// tally applies the quorum and majority rules. The turnout is
// (for+against)*100/poolBalance with integer division; an empty pool never
// reaches quorum. A tie is a rejection. OutcomeApproved means the call may
// be dispatched.
func tally(votesFor, votesAgainst, poolBalance *uint256.Int, minimumQuorum uint64) (Outcome, *uint256.Int) {
	total := new(uint256.Int).Add(votesFor, votesAgainst)
	if total.IsZero() {
		return OutcomeNoVotes, new(uint256.Int)
	}
	if poolBalance == nil || poolBalance.IsZero() {
		return OutcomeNoQuorum, new(uint256.Int)
	}
	percent, overflow := new(uint256.Int).MulOverflow(total, uint256.NewInt(100))
	if overflow {
		percent.SetAllOne()
	} else {
		percent.Div(percent, poolBalance)
	}
	if percent.Lt(uint256.NewInt(minimumQuorum)) {
		return OutcomeNoQuorum, percent
	}
	if !votesFor.Gt(votesAgainst) {
		return OutcomeRejected, percent
	}
	return OutcomeApproved, percent
}

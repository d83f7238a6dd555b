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

import "errors"

// Stake errors
var (
	ErrInsufficientBalance          = errors.New("not enough balance")
	ErrInsufficientAllowance        = errors.New("not enough allowance")
	ErrTransferFailed               = errors.New("transfer failed")
	ErrNotAStakeholder              = errors.New("sender is not a stakeholder")
	ErrParticipatingInOpenProposals = errors.New("sender is participating in proposals")
	ErrAmountExceedsDeposit         = errors.New("amount is greater than deposited")
)

// Proposal errors
var (
	ErrRecipientNotAContract = errors.New("recipient is not a contract")
	ErrProposalNotFound      = errors.New("proposal not found")
	ErrProposalFinished      = errors.New("proposal is finished")
	ErrProposalInProgress    = errors.New("proposal is in progress")
	ErrAlreadyVoted          = errors.New("sender has already voted")
	ErrDeadlineOverflow      = errors.New("debating period overflows the proposal deadline")
)

// Access and configuration errors
var (
	ErrNotChairman      = errors.New("caller is not the chairman")
	ErrNotOwner         = errors.New("caller is not the owner")
	ErrQuorumOutOfRange = errors.New("minimum quorum must be between 0 and 100 percent")
	ErrZeroAddress      = errors.New("zero address")
)

// State errors
var (
	ErrMissingConfig = errors.New("state has no configuration")
	ErrProposalOrder = errors.New("proposal ids do not match their positions")
)

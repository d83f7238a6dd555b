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
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// ChangeChairman hands the chairman role to newChairman.
func (r *ProposalRegistry) ChangeChairman(caller, newChairman common.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.config.Chairman {
		return ErrNotChairman
	}
	if newChairman == (common.Address{}) {
		return ErrZeroAddress
	}
	log.Info("ProposalRegistry: Chairman changed", "from", r.config.Chairman, "to", newChairman)
	r.config.Chairman = newChairman
	return nil
}

// TransferOwnership hands the owner role to newOwner.
func (r *ProposalRegistry) TransferOwnership(caller, newOwner common.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.config.Owner {
		return ErrNotOwner
	}
	if newOwner == (common.Address{}) {
		return ErrZeroAddress
	}
	log.Info("ProposalRegistry: Ownership transferred", "from", r.config.Owner, "to", newOwner)
	r.config.Owner = newOwner
	return nil
}

// SetMinimumQuorumPercent updates the minimum quorum, at most 100.
func (r *ProposalRegistry) SetMinimumQuorumPercent(caller common.Address, percent uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.config.Owner {
		return ErrNotOwner
	}
	if percent > 100 {
		return ErrQuorumOutOfRange
	}
	log.Info("ProposalRegistry: Minimum quorum updated", "old", r.config.MinimumQuorumPercent, "new", percent)
	r.config.MinimumQuorumPercent = percent
	return nil
}

// SetDebatingPeriodDuration updates the debate window of future proposals.
func (r *ProposalRegistry) SetDebatingPeriodDuration(caller common.Address, seconds uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.config.Owner {
		return ErrNotOwner
	}
	log.Info("ProposalRegistry: Debating period updated", "old", r.config.DebatingPeriodDuration, "new", seconds)
	r.config.DebatingPeriodDuration = seconds
	return nil
}

// Config returns a copy of the current configuration.
func (r *ProposalRegistry) Config() *Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.config.Copy()
}

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

package genesis

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/votingdao/votingdao/chain"
)

// Deployment nonces of the deployer account
const (
	tokenNonce = 0
	daoNonce   = 1
)

// PredictTokenAddress predicts the token contract address. The token is
// the first contract the deployer creates.
func PredictTokenAddress(deployer common.Address) common.Address {
	return chain.CalculateContractAddress(deployer, tokenNonce)
}

// PredictDaoAddress predicts the DAO contract address. The DAO is deployed
// right after the token.
func PredictDaoAddress(deployer common.Address) common.Address {
	return chain.CalculateContractAddress(deployer, daoNonce)
}

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

// Package genesis deploys the voting DAO together with its staked token and
// restores deployments from storage.
package genesis

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/votingdao/votingdao/chain"
	"github.com/votingdao/votingdao/governance"
	"github.com/votingdao/votingdao/storage"
	"github.com/votingdao/votingdao/token"
)

var (
	ErrNoDeployer      = errors.New("deployer address is required")
	ErrAddressMismatch = errors.New("deployed address differs from prediction")
	ErrAlreadyDeployed = errors.New("database already holds a deployment")
)

// TokenConfig describes the staked token.
type TokenConfig struct {
	Name          string
	Symbol        string
	Decimals      uint8
	InitialSupply *uint256.Int // minted to the deployer
}

// Config holds the deployment parameters.
type Config struct {
	Deployer common.Address
	Time     uint64 // initial chain time
	Token    TokenConfig
	Dao      governance.Config // Token is filled in during deployment
}

// DefaultConfig returns a deployment in which the deployer is both chairman
// and owner, with the default DAO parameters and a supply of one million
// tokens with 18 decimals.
func DefaultConfig(deployer common.Address) *Config {
	supply := new(uint256.Int).Mul(uint256.NewInt(1_000_000), new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(18)))
	dao := governance.DefaultConfig()
	dao.Chairman = deployer
	dao.Owner = deployer
	return &Config{
		Deployer: deployer,
		Token: TokenConfig{
			Name:          "Voting Token",
			Symbol:        "VOTE",
			Decimals:      18,
			InitialSupply: supply,
		},
		Dao: *dao,
	}
}

// Deployment is a chain holding a token and the DAO staking it.
type Deployment struct {
	Chain     *chain.Chain
	Token     *token.Token
	Dao       *governance.Dao
	Deployer  common.Address
	TokenAddr common.Address
	DaoAddr   common.Address
}

// Deploy creates a fresh chain, deploys the token and the DAO, mints the
// initial supply to the deployer and hands token ownership to the DAO.
func Deploy(config *Config) (*Deployment, error) {
	if config.Deployer == (common.Address{}) {
		return nil, ErrNoDeployer
	}
	d := &Deployment{
		Chain:     chain.New(config.Time),
		Deployer:  config.Deployer,
		TokenAddr: PredictTokenAddress(config.Deployer),
		DaoAddr:   PredictDaoAddress(config.Deployer),
	}

	d.Token = token.New(config.Token.Name, config.Token.Symbol, config.Token.Decimals, config.Deployer)
	if err := d.deploy(d.Token, d.TokenAddr); err != nil {
		return nil, err
	}

	daoConfig := config.Dao.Copy()
	daoConfig.Token = d.TokenAddr
	dao, err := governance.New(daoConfig, d.DaoAddr, token.Bind(d.Chain, d.TokenAddr, d.DaoAddr), d.Chain, d.Chain)
	if err != nil {
		return nil, err
	}
	d.Dao = dao
	if err := d.deploy(d.Dao, d.DaoAddr); err != nil {
		dao.Close()
		return nil, err
	}

	if supply := config.Token.InitialSupply; supply != nil && !supply.IsZero() {
		if err := d.Token.Mint(config.Deployer, config.Deployer, supply); err != nil {
			dao.Close()
			return nil, fmt.Errorf("mint initial supply: %w", err)
		}
	}
	if err := d.Token.TransferOwnership(config.Deployer, d.DaoAddr); err != nil {
		dao.Close()
		return nil, fmt.Errorf("hand token to dao: %w", err)
	}

	log.Info("Genesis: Deployed", "deployer", d.Deployer, "token", d.TokenAddr, "dao", d.DaoAddr,
		"chairman", daoConfig.Chairman, "owner", daoConfig.Owner)
	return d, nil
}

func (d *Deployment) deploy(contract chain.Contract, want common.Address) error {
	addr, err := d.Chain.Deploy(d.Deployer, contract)
	if err != nil {
		return fmt.Errorf("deploy %s: %w", contract.Name(), err)
	}
	if addr != want {
		return fmt.Errorf("%w: %s at %s, predicted %s", ErrAddressMismatch, contract.Name(), addr.Hex(), want.Hex())
	}
	return nil
}

// Init deploys into an empty database and saves the result.
func Init(db ethdb.KeyValueStore, config *Config) (*Deployment, error) {
	if storage.HasDeployment(db) {
		return nil, ErrAlreadyDeployed
	}
	d, err := Deploy(config)
	if err != nil {
		return nil, err
	}
	if err := d.Save(db); err != nil {
		d.Close()
		return nil, fmt.Errorf("save deployment: %w", err)
	}
	return d, nil
}

// Load restores the deployment stored in db.
func Load(db ethdb.KeyValueReader) (*Deployment, error) {
	meta, err := storage.ReadMeta(db)
	if err != nil {
		return nil, fmt.Errorf("read deployment: %w", err)
	}
	tokenState, err := storage.ReadTokenState(db, meta.Token)
	if err != nil {
		return nil, fmt.Errorf("read token state: %w", err)
	}
	daoState, err := storage.ReadDaoState(db, meta.Dao)
	if err != nil {
		return nil, fmt.Errorf("read dao state: %w", err)
	}

	d := &Deployment{
		Chain:     chain.New(meta.Time),
		Deployer:  meta.Deployer,
		TokenAddr: meta.Token,
		DaoAddr:   meta.Dao,
	}
	for _, n := range meta.Nonces {
		d.Chain.SetNonce(n.Account, n.Nonce)
	}
	d.Token = token.NewFromState(tokenState)
	if err := d.Chain.DeployAt(meta.Token, d.Token); err != nil {
		return nil, err
	}
	dao, err := governance.NewFromState(daoState, meta.Dao, token.Bind(d.Chain, meta.Token, meta.Dao), d.Chain, d.Chain)
	if err != nil {
		return nil, fmt.Errorf("restore dao: %w", err)
	}
	d.Dao = dao
	if err := d.Chain.DeployAt(meta.Dao, dao); err != nil {
		dao.Close()
		return nil, err
	}
	log.Debug("Genesis: Loaded deployment", "token", meta.Token, "dao", meta.Dao, "time", meta.Time)
	return d, nil
}

// Save writes the deployment and the given proposal results to db in a
// single batch.
func (d *Deployment) Save(db ethdb.Batcher, results ...*storage.Result) error {
	batch := db.NewBatch()
	meta := &storage.Meta{
		Deployer: d.Deployer,
		Token:    d.TokenAddr,
		Dao:      d.DaoAddr,
		Time:     d.Chain.Now(),
		Nonces:   []storage.Nonce{{Account: d.Deployer, Nonce: d.Chain.Nonce(d.Deployer)}},
	}
	if err := storage.WriteMeta(batch, meta); err != nil {
		return err
	}
	if err := storage.WriteTokenState(batch, d.TokenAddr, d.Token.Export()); err != nil {
		return err
	}
	if err := storage.WriteDaoState(batch, d.DaoAddr, d.Dao.Export()); err != nil {
		return err
	}
	for _, result := range results {
		if err := storage.WriteResult(batch, d.DaoAddr, result); err != nil {
			return err
		}
	}
	return batch.Write()
}

// Close releases the event subscriptions of the DAO.
func (d *Deployment) Close() {
	d.Dao.Close()
}

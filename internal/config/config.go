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

// Package config loads the daoctl configuration: a TOML file, overridden by
// environment variables, overridden by command line flags.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/votingdao/votingdao/genesis"
	"github.com/votingdao/votingdao/governance"
)

// Environment variables overriding the configuration file
const (
	EnvDataDir  = "VOTINGDAO_DATADIR"
	EnvLogLevel = "VOTINGDAO_LOG_LEVEL"
	EnvLogFile  = "VOTINGDAO_LOG_FILE"
)

// Config is the content of the configuration file.
type Config struct {
	Node       NodeConfig
	Governance GovernanceConfig
	Token      TokenConfig
	Log        LogConfig
}

// NodeConfig locates the database.
type NodeConfig struct {
	DataDir string // empty keeps everything in memory
	Cache   int    // database cache in megabytes
	Handles int    // database file handles
}

// GovernanceConfig holds the DAO parameters used at deployment.
type GovernanceConfig struct {
	Chairman             common.Address // defaults to the deployer
	Owner                common.Address // defaults to the deployer
	MinimumQuorumPercent uint64
	DebatingPeriod       Duration
}

// TokenConfig describes the token deployed with the DAO.
type TokenConfig struct {
	Name          string
	Symbol        string
	Decimals      uint8
	InitialSupply string // whole tokens minted to the deployer
}

// LogConfig controls logging.
type LogConfig struct {
	Level      string // trace, debug, info, warn, error, crit
	File       string // rotated log file, stderr only when empty
	MaxSizeMB  int
	MaxBackups int
	JSON       bool // JSON records in the log file
}

// Duration is a time.Duration written as a string such as "72h".
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Default returns the configuration used without a file: a 30% quorum, a
// three day debate window and one million tokens.
func Default() *Config {
	return &Config{
		Node: NodeConfig{
			DataDir: defaultDataDir(),
			Cache:   16,
			Handles: 16,
		},
		Governance: GovernanceConfig{
			MinimumQuorumPercent: 30,
			DebatingPeriod:       Duration{3 * 24 * time.Hour},
		},
		Token: TokenConfig{
			Name:          "Voting Token",
			Symbol:        "VOTE",
			Decimals:      18,
			InitialSupply: "1000000",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home + string(os.PathSeparator) + ".votingdao"
	}
	return ".votingdao"
}

// Load reads the configuration file at path on top of the defaults and
// applies the environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, key := range undecoded {
				keys[i] = key.String()
			}
			return nil, fmt.Errorf("config %s: unknown fields %s", path, strings.Join(keys, ", "))
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Node.DataDir = getEnvOrDefault(EnvDataDir, c.Node.DataDir)
	c.Log.Level = getEnvOrDefault(EnvLogLevel, c.Log.Level)
	c.Log.File = getEnvOrDefault(EnvLogFile, c.Log.File)
}

// getEnvOrDefault retrieves an environment variable or returns a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Write encodes the configuration as TOML.
func Write(w io.Writer, c *Config) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks the parameter bounds.
func (c *Config) Validate() error {
	if c.Governance.MinimumQuorumPercent > 100 {
		return fmt.Errorf("minimum quorum %d%%: %w", c.Governance.MinimumQuorumPercent, governance.ErrQuorumOutOfRange)
	}
	if c.Governance.DebatingPeriod.Duration < 0 {
		return fmt.Errorf("negative debating period %v", c.Governance.DebatingPeriod)
	}
	if _, err := c.Token.supply(); err != nil {
		return err
	}
	if c.Node.Cache < 0 || c.Node.Handles < 0 {
		return fmt.Errorf("invalid database limits: cache=%d handles=%d", c.Node.Cache, c.Node.Handles)
	}
	return nil
}

// supply returns the initial supply in base units.
func (t *TokenConfig) supply() (*uint256.Int, error) {
	if t.InitialSupply == "" {
		return new(uint256.Int), nil
	}
	whole, err := uint256.FromDecimal(t.InitialSupply)
	if err != nil {
		return nil, fmt.Errorf("invalid initial supply %q: %w", t.InitialSupply, err)
	}
	// 10^77 is the largest power of ten below 2^256
	if t.Decimals > 77 {
		return nil, fmt.Errorf("initial supply %s with %d decimals overflows", t.InitialSupply, t.Decimals)
	}
	unit := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(t.Decimals)))
	supply, overflow := new(uint256.Int).MulOverflow(whole, unit)
	if overflow {
		return nil, fmt.Errorf("initial supply %s with %d decimals overflows", t.InitialSupply, t.Decimals)
	}
	return supply, nil
}

// Genesis converts the configuration into deployment parameters. Unset
// roles go to the deployer.
func (c *Config) Genesis(deployer common.Address, now uint64) (*genesis.Config, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	supply, _ := c.Token.supply()

	gen := genesis.DefaultConfig(deployer)
	gen.Time = now
	gen.Token = genesis.TokenConfig{
		Name:          c.Token.Name,
		Symbol:        c.Token.Symbol,
		Decimals:      c.Token.Decimals,
		InitialSupply: supply,
	}
	gen.Dao.MinimumQuorumPercent = c.Governance.MinimumQuorumPercent
	gen.Dao.DebatingPeriodDuration = uint64(c.Governance.DebatingPeriod.Seconds())
	if c.Governance.Chairman != (common.Address{}) {
		gen.Dao.Chairman = c.Governance.Chairman
	}
	if c.Governance.Owner != (common.Address{}) {
		gen.Dao.Owner = c.Governance.Owner
	}
	return gen, nil
}

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

// Package logging installs the root logger of daoctl.
package logging

import (
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/votingdao/votingdao/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup configures the default logger from cfg. Records go to stderr, in
// colour when stderr is a terminal, and are copied to a rotated log file
// when one is configured. The returned closer flushes the log file.
func Setup(cfg config.LogConfig) (io.Closer, error) {
	return setup(cfg, os.Stderr)
}

func setup(cfg config.LogConfig, stderr *os.File) (io.Closer, error) {
	level, err := log.LvlFromString(cfg.Level)
	if err != nil {
		return nil, err
	}

	output := io.Writer(stderr)
	closer := io.Closer(nopCloser{})
	useColor := isatty.IsTerminal(stderr.Fd()) || isatty.IsCygwinTerminal(stderr.Fd())
	if useColor {
		output = colorable.NewColorable(stderr)
	}
	if cfg.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		}
		output = io.MultiWriter(output, rotating)
		closer = rotating
		useColor = false
	}

	var handler *log.GlogHandler
	if cfg.JSON {
		handler = log.NewGlogHandler(log.JSONHandlerWithLevel(output, log.LevelTrace))
	} else {
		handler = log.NewGlogHandler(log.NewTerminalHandlerWithLevel(output, log.LevelTrace, useColor))
	}
	handler.Verbosity(level)
	log.SetDefault(log.NewLogger(handler))
	return closer, nil
}

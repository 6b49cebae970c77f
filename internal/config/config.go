// SPDX-License-Identifier: GPL-3.0-or-later

// Package config handles the parsing and validation of the minestat command
// line from arguments and environment variables.
package config

import (
	"errors"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/molanp/minestat"
	"github.com/molanp/minestat/internal/logger"
)

// ErrNoAddress is returned when the server address is missing.
var ErrNoAddress = errors.New("config: the server address is required")

// Config represents the complete command line configuration.
type Config struct {
	Probe  Probe         `group:"Probe Options" env-namespace:"MINESTAT"`
	DNS    DNS           `group:"DNS Options" namespace:"dns" env-namespace:"MINESTAT_DNS"`
	Logger logger.Config `group:"Logger Options" namespace:"log" env-namespace:"MINESTAT_LOG"`

	Output  string `short:"o" long:"output" env:"MINESTAT_OUTPUT" description:"Result format" choice:"text" choice:"json" default:"text"`
	Version bool   `short:"v" long:"version" description:"Print version and build info"`

	Args struct {
		Address string `positional-arg-name:"address" description:"Server host name or IP address"`
	} `positional-args:"yes"`
}

// Probe holds the poll options.
type Probe struct {
	Port    uint16        `short:"p" long:"port" env:"PORT" description:"Server port (0 for the dialect default)" default:"0"`
	Timeout time.Duration `short:"t" long:"timeout" env:"TIMEOUT" description:"Timeout of each dialect attempt" default:"5s"`
	Dialect string        `short:"d" long:"dialect" env:"DIALECT" description:"Dialect: auto, beta, legacy, extended, json, bedrock or query" default:"auto"`
	Debug   bool          `long:"debug" env:"DEBUG" description:"Log the handshake of every attempt"`
}

// DNS holds the SRV lookup options.
type DNS struct {
	SRV    bool   `long:"srv" env:"SRV" description:"Resolve the _minecraft._tcp SRV record of the address first"`
	Server string `long:"server" env:"SERVER" description:"DNS server host:port (default: first nameserver in /etc/resolv.conf)"`
}

// Parse reads the configuration from args and environment variables.
//
// The returned error is a [*flags.Error] for invalid flags and for the
// help request (type [flags.ErrHelp]); go-flags already printed it.
func Parse(args []string) (*Config, error) {
	var cfg Config
	parser := flags.NewParser(&cfg, flags.Default)
	parser.NamespaceDelimiter = "-"

	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	if cfg.Version {
		return &cfg, nil
	}

	if cfg.Args.Address == "" {
		return nil, ErrNoAddress
	}
	if _, err := minestat.ParseDialect(cfg.Probe.Dialect); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Request returns the poll request described by cfg.
func (cfg *Config) Request() minestat.Request {
	dialect, _ := minestat.ParseDialect(cfg.Probe.Dialect)
	return minestat.Request{
		Address:    cfg.Args.Address,
		Port:       cfg.Probe.Port,
		Timeout:    cfg.Probe.Timeout,
		Dialect:    dialect,
		Debug:      cfg.Probe.Debug,
		ResolveSRV: cfg.DNS.SRV,
	}
}

// PollConfig returns the library configuration described by cfg.
func (cfg *Config) PollConfig() *minestat.Config {
	pc := minestat.NewConfig()
	pc.DNSServer = cfg.DNS.Server
	return pc
}

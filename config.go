// SPDX-License-Identifier: GPL-3.0-or-later

package minestat

import (
	"net"
	"time"
)

// Config holds the dependencies shared by every poll.
//
// Pass this to [NewSession] and [NewTransport] to pre-wire dependencies.
// All fields have sensible defaults set by [NewConfig].
type Config struct {
	// DNSServer is the "host:port" of the DNS server used by [*SRVResolver].
	//
	// Set by [NewConfig] to the empty string, meaning the first
	// nameserver listed in /etc/resolv.conf.
	DNSServer string

	// Dialer is used by [*ConnectFunc].
	//
	// Set by [NewConfig] to [*net.Dialer].
	Dialer Dialer

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewConfig] to [DefaultErrClassifier].
	ErrClassifier ErrClassifier

	// TimeNow returns the current time.
	//
	// Set by [NewConfig] to [time.Now].
	TimeNow func() time.Time
}

// NewConfig creates a [*Config] with sensible defaults.
func NewConfig() *Config {
	return &Config{
		DNSServer:     "",
		Dialer:        &net.Dialer{},
		ErrClassifier: DefaultErrClassifier,
		TimeNow:       time.Now,
	}
}

// SPDX-License-Identifier: GPL-3.0-or-later

package minestat

import (
	"context"
	"time"
)

// NewTransport returns a new [*Transport].
func NewTransport(cfg *Config, logger SLogger) *Transport {
	return &Transport{
		Config: cfg,
		Logger: logger,
	}
}

// Transport opens the connection a dialect attempt runs on.
//
// Each call composes the pipeline
//
//	ConnectFunc -> ObserveConnFunc -> DeadlineWatchFunc -> Handle
//
// and times it. The only blocking step is the dial, so the measured
// duration is the connect latency.
type Transport struct {
	// Config provides the dialer, the classifier and the clock.
	Config *Config

	// Logger receives the connect and I/O events.
	Logger SLogger
}

// Connect opens a connection to endpoint using the network of dialect.
//
// The context deadline bounds the dial and every later I/O on the
// returned [*Handle]. On failure the error is an [*AttemptError] whose
// outcome is [OutcomeConnectionFailed] for a refused or unreachable host
// and [OutcomeUnknown] otherwise.
func (t *Transport) Connect(ctx context.Context, dialect Dialect, endpoint Endpoint) (*Handle, error) {
	network := dialect.Network()
	pipeline := Compose4(
		NewConnectFunc(t.Config, network, t.Logger),
		NewObserveConnFunc(t.Config, dialect.String(), t.Logger),
		NewDeadlineWatchFunc(),
		NewHandleFunc(network),
	)

	t0 := t.Config.TimeNow()
	handle, err := pipeline.Call(ctx, endpoint)
	if err != nil {
		return nil, newConnectError(dialect, err)
	}
	handle.latency = max(t.Config.TimeNow().Sub(t0), time.Duration(0))
	return handle, nil
}

// SPDX-License-Identifier: GPL-3.0-or-later

package minestat

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewTransport keeps the config and the logger.
func TestNewTransport(t *testing.T) {
	cfg := NewConfig()
	logger := DefaultSLogger()

	txp := NewTransport(cfg, logger)

	assert.Same(t, cfg, txp.Config)
	assert.Equal(t, logger, txp.Logger)
}

// Connect dials the dialect's network and measures the connect latency.
func TestTransportConnect(t *testing.T) {
	dialer := newPipeDialer(func(network, address string, conn net.Conn) {
		conn.Write([]byte{0x1c})
	}, nil)
	cfg := newTestConfig(dialer)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	h, err := NewTransport(cfg, DefaultSLogger()).Connect(ctx, DialectBedrock, Endpoint{Host: "example.com", Port: 19132})
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, []dialRecord{{Network: "udp", Address: "example.com:19132"}}, dialer.Dials())
	assert.Equal(t, "udp", h.Network())
	assert.Positive(t, h.Latency())

	b, err := h.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x1c), b)
}

// A failed dial becomes an AttemptError of the dialect.
func TestTransportConnectError(t *testing.T) {
	wantErr := errors.New("mocked")
	cfg := newTestConfig(newPipeDialer(nil, wantErr))

	h, err := NewTransport(cfg, DefaultSLogger()).Connect(context.Background(), DialectJSON, Endpoint{Host: "127.0.0.1", Port: 25565})

	assert.Nil(t, h)
	var attemptErr *AttemptError
	require.ErrorAs(t, err, &attemptErr)
	assert.Equal(t, DialectJSON, attemptErr.Dialect)
	assert.Equal(t, OutcomeUnknown, attemptErr.Outcome)
	require.ErrorIs(t, err, wantErr)
}

// Closing the handle emits the close events tagged with the dialect.
func TestTransportLogging(t *testing.T) {
	logger, records := newCapturingLogger()
	dialer := newPipeDialer(func(network, address string, conn net.Conn) {}, nil)

	h, err := NewTransport(newTestConfig(dialer), logger).Connect(context.Background(), DialectLegacy, Endpoint{Host: "127.0.0.1", Port: 25565})
	require.NoError(t, err)
	require.NoError(t, h.Close())

	assert.Equal(t, []string{"connectStart", "connectDone", "closeStart", "closeDone"}, recordMessages(*records))
	assert.Equal(t, "legacy", recordAttr((*records)[2], "operation"))
}

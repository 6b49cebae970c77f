// SPDX-License-Identifier: GPL-3.0-or-later

package minestat

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/bassosimone/netstub"
	"github.com/bassosimone/slogstub"
)

// newCapturingLogger returns a logger that captures all log records into the
// returned slice. The caller can inspect the slice after exercising the code
// under test to verify which events were emitted.
func newCapturingLogger() (*slog.Logger, *[]slog.Record) {
	var (
		mu      sync.Mutex
		records []slog.Record
	)
	handler := &slogstub.FuncHandler{
		EnabledFunc: func(ctx context.Context, level slog.Level) bool {
			return true
		},
		HandleFunc: func(ctx context.Context, record slog.Record) error {
			mu.Lock()
			records = append(records, record)
			mu.Unlock()
			return nil
		},
	}
	return slog.New(handler), &records
}

// recordMessages returns the messages of the captured records, in order.
func recordMessages(records []slog.Record) []string {
	var out []string
	for _, r := range records {
		out = append(out, r.Message)
	}
	return out
}

// recordAttr returns the value of the named attribute of r as a string.
func recordAttr(r slog.Record, key string) string {
	var value string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			value = a.Value.String()
			return false
		}
		return true
	})
	return value
}

// newMinimalConn returns a [*netstub.FuncConn] with only LocalAddrFunc and
// RemoteAddrFunc set. This is the minimum needed for code that calls
// [safeconn.LocalAddr], [safeconn.RemoteAddr], and [safeconn.Network]
// during construction.
func newMinimalConn() *netstub.FuncConn {
	return &netstub.FuncConn{
		LocalAddrFunc:  func() net.Addr { return &net.TCPAddr{} },
		RemoteAddrFunc: func() net.Addr { return &net.TCPAddr{} },
	}
}

// dialRecord is a dial observed by [newPipeDialer].
type dialRecord struct {
	Network string
	Address string
}

// pipeDialer is a [Dialer] connecting to in-memory servers.
type pipeDialer struct {
	*netstub.FuncDialer

	mu    sync.Mutex
	dials []dialRecord
}

// Dials returns the dials performed so far.
func (d *pipeDialer) Dials() []dialRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]dialRecord(nil), d.dials...)
}

// newPipeDialer returns a dialer whose connections are [net.Pipe] ends.
//
// For each dial, serve runs in its own goroutine with the server end. A
// single server Write is delivered to a single client Read, which keeps
// datagram boundaries for the "udp" dialects. The server end is closed when
// serve returns. When serve is nil the dial fails with dialErr.
func newPipeDialer(serve func(network, address string, conn net.Conn), dialErr error) *pipeDialer {
	d := &pipeDialer{}
	d.FuncDialer = &netstub.FuncDialer{
		DialContextFunc: func(ctx context.Context, network, address string) (net.Conn, error) {
			d.mu.Lock()
			d.dials = append(d.dials, dialRecord{Network: network, Address: address})
			d.mu.Unlock()
			if serve == nil {
				return nil, dialErr
			}
			client, server := net.Pipe()
			go func() {
				defer server.Close()
				serve(network, address, server)
			}()
			return client, nil
		},
	}
	return d
}

// newTestConfig returns a [*Config] using dialer and a clock that advances
// by one millisecond per call.
func newTestConfig(dialer Dialer) *Config {
	cfg := NewConfig()
	cfg.Dialer = dialer
	var (
		mu  sync.Mutex
		now = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	)
	cfg.TimeNow = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Millisecond)
		return now
	}
	return cfg
}

// readRequest reads one client write from conn.
func readRequest(conn net.Conn) []byte {
	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil {
		return nil
	}
	return buf[:n]
}

// runAttempt connects to an in-memory server through [*Transport] and runs
// the parser of dialect against it.
func runAttempt(d Dialect, target Endpoint, timeout time.Duration,
	serve func(conn net.Conn)) (*StatusFields, error) {
	dialer := newPipeDialer(func(network, address string, conn net.Conn) {
		serve(conn)
	}, nil)
	cfg := newTestConfig(dialer)
	parser, err := NewWireParser(cfg, d)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	h, err := NewTransport(cfg, DefaultSLogger()).Connect(ctx, d, target)
	if err != nil {
		return nil, err
	}
	defer h.Close()
	return parser.Attempt(ctx, h, target)
}

// waitClosed blocks until the peer closes conn.
func waitClosed(conn net.Conn) {
	buf := make([]byte, 512)
	for {
		if _, err := conn.Read(buf); err != nil {
			return
		}
	}
}

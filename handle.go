// SPDX-License-Identifier: GPL-3.0-or-later

package minestat

import (
	"bufio"
	"context"
	"io"
	"net"
	"time"
)

const (
	// streamBufferSize is the read buffer of TCP handles.
	streamBufferSize = 4096

	// datagramBufferSize holds any UDP datagram, so one fill is one datagram.
	datagramBufferSize = 65535
)

// Handle is an open connection as seen by a [WireParser].
//
// Reads go through a buffer so that parsers can [Handle.Peek] at marker
// bytes without consuming them. On a "udp" handle each buffer fill holds
// exactly one datagram, so [Handle.Buffered] tells how much of the current
// datagram is left. Writes are not buffered and need no flush.
//
// The handle owns the connection. It is not safe for concurrent use.
type Handle struct {
	conn    net.Conn
	latency time.Duration
	network string
	readErr error
	reader  *bufio.Reader
}

// NewHandleFunc returns a [Func] wrapping a connection into a [*Handle].
func NewHandleFunc(network string) Func[net.Conn, *Handle] {
	return FuncAdapter[net.Conn, *Handle](func(ctx context.Context, conn net.Conn) (*Handle, error) {
		return newHandle(conn, network), nil
	})
}

func newHandle(conn net.Conn, network string) *Handle {
	size := streamBufferSize
	if network == "udp" {
		size = datagramBufferSize
	}
	return &Handle{
		conn:    conn,
		network: network,
		reader:  bufio.NewReaderSize(conn, size),
	}
}

// Latency returns the time it took to establish the connection.
func (h *Handle) Latency() time.Duration {
	return h.latency
}

// Network returns "tcp" or "udp".
func (h *Handle) Network() string {
	return h.network
}

// Err returns the last read error, if any.
//
// [DecodeVarint] hides read errors behind a 0 value; this tells a
// timeout apart from a short stream.
func (h *Handle) Err() error {
	return h.readErr
}

func (h *Handle) track(err error) error {
	if err != nil {
		h.readErr = err
	}
	return err
}

// Peek returns the next n bytes without consuming them.
func (h *Handle) Peek(n int) ([]byte, error) {
	data, err := h.reader.Peek(n)
	return data, h.track(err)
}

// ReadByte implements [io.ByteReader].
func (h *Handle) ReadByte() (byte, error) {
	b, err := h.reader.ReadByte()
	return b, h.track(err)
}

// ReadFull reads exactly n bytes, issuing as many reads as needed.
func (h *Handle) ReadFull(n int) ([]byte, error) {
	buf := make([]byte, n)
	_, err := io.ReadFull(h.reader, buf)
	if err != nil {
		return nil, h.track(err)
	}
	return buf, nil
}

// Buffered returns the number of bytes that can be read without I/O.
func (h *Handle) Buffered() int {
	return h.reader.Buffered()
}

// ReadBuffered consumes and returns whatever is buffered.
//
// On a "udp" handle, after a successful [Handle.Peek], this is the rest
// of the current datagram.
func (h *Handle) ReadBuffered() []byte {
	buf := make([]byte, h.reader.Buffered())
	n, _ := h.reader.Read(buf)
	return buf[:n]
}

// Write sends data. A short write is an error.
func (h *Handle) Write(data []byte) error {
	_, err := h.conn.Write(data)
	return err
}

// Close closes the underlying connection.
func (h *Handle) Close() error {
	return h.conn.Close()
}

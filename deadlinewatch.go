// SPDX-License-Identifier: GPL-3.0-or-later

package minestat

import (
	"context"
	"net"
)

// NewDeadlineWatchFunc returns a new [*DeadlineWatchFunc].
func NewDeadlineWatchFunc() *DeadlineWatchFunc {
	return &DeadlineWatchFunc{}
}

// DeadlineWatchFunc binds the lifetime of a connection to the attempt context.
//
// The context deadline, if any, becomes the I/O deadline of the
// connection, so a blocked read fails with [os.ErrDeadlineExceeded] and is
// reported as a timeout. In addition the connection is closed as soon as
// the context is done, which also covers cancellation (e.g. ^C).
//
// Closing the returned connection unregisters the watcher, so no
// goroutine outlives the attempt.
type DeadlineWatchFunc struct{}

var _ Func[net.Conn, net.Conn] = &DeadlineWatchFunc{}

// Call applies the deadline and registers the watcher. On failure to set
// the deadline the connection is closed.
func (op *DeadlineWatchFunc) Call(ctx context.Context, conn net.Conn) (net.Conn, error) {
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return nil, err
		}
	}
	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	return &watchedConn{Conn: conn, stop: stop}, nil
}

type watchedConn struct {
	net.Conn
	stop func() bool
}

// Close unregisters the watcher and closes the underlying connection.
func (c *watchedConn) Close() error {
	c.stop()
	return c.Conn.Close()
}

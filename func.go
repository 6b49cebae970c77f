// SPDX-License-Identifier: GPL-3.0-or-later

package minestat

import "context"

// Func is a single step of a connection pipeline.
//
// Steps are chained with [Compose2] and friends so that the output of one
// step flows into the next. The [Transport] dials through such a chain and
// the [SRVResolver] reuses the same chain to reach its DNS server.
//
// A Func that receives a closeable value and fails must close it before
// returning, so a broken chain never leaks a connection.
type Func[A, B any] interface {
	Call(ctx context.Context, input A) (B, error)
}

// FuncAdapter turns a plain function into a [Func].
type FuncAdapter[A, B any] func(ctx context.Context, input A) (B, error)

// Call implements [Func].
func (f FuncAdapter[A, B]) Call(ctx context.Context, input A) (B, error) {
	return f(ctx, input)
}

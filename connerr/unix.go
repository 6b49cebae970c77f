//go:build unix

//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: https://github.com/rbmk-project/rbmk/blob/v0.17.0/pkg/common/errclass/unix.go
//

package connerr

import "golang.org/x/sys/unix"

const (
	errECONNREFUSED = unix.ECONNREFUSED
	errEHOSTDOWN    = unix.EHOSTDOWN
	errEHOSTUNREACH = unix.EHOSTUNREACH
	errENETDOWN     = unix.ENETDOWN
	errENETUNREACH  = unix.ENETUNREACH
)

//go:build windows

//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: https://github.com/rbmk-project/rbmk/blob/v0.17.0/pkg/common/errclass/windows.go
//

package connerr

import "golang.org/x/sys/windows"

const (
	errECONNREFUSED = windows.WSAECONNREFUSED
	errEHOSTDOWN    = windows.WSAEHOSTDOWN
	errEHOSTUNREACH = windows.WSAEHOSTUNREACH
	errENETDOWN     = windows.WSAENETDOWN
	errENETUNREACH  = windows.WSAENETUNREACH
)

// SPDX-License-Identifier: GPL-3.0-or-later

// Package connerr tells apart connection errors meaning "this host cannot
// be reached" from every other failure to open a connection.
//
// The distinction drives probing: a refused or unreachable host is not
// going to answer any other dialect either.
package connerr

import "errors"

// hardFailures are the errno values meaning the host is refused or unreachable.
var hardFailures = []error{
	errECONNREFUSED,
	errEHOSTDOWN,
	errEHOSTUNREACH,
	errENETDOWN,
	errENETUNREACH,
}

// IsConnectionFailure reports whether err wraps a refused or unreachable errno.
func IsConnectionFailure(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range hardFailures {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}


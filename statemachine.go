// SPDX-License-Identifier: GPL-3.0-or-later

package minestat

// step is a state of the probing state machine.
type step int

const (
	stepLegacy = step(iota)
	stepLegacyBeta
	stepExtendedLegacy
	stepJSON
	stepBedrock
	stepQuery
	stepDone
)

// dialect returns the dialect a step attempts.
func (s step) dialect() Dialect {
	switch s {
	case stepLegacy:
		return DialectLegacy
	case stepLegacyBeta:
		return DialectLegacyBeta
	case stepExtendedLegacy:
		return DialectExtendedLegacy
	case stepJSON:
		return DialectJSON
	case stepBedrock:
		return DialectBedrock
	case stepQuery:
		return DialectQuery
	default:
		return DialectAuto
	}
}

// firstStep returns the initial step for a requested dialect.
func firstStep(requested Dialect) step {
	switch requested {
	case DialectLegacyBeta:
		return stepLegacyBeta
	case DialectExtendedLegacy:
		return stepExtendedLegacy
	case DialectJSON:
		return stepJSON
	case DialectBedrock:
		return stepBedrock
	case DialectQuery:
		return stepQuery
	default:
		return stepLegacy
	}
}

// nextStep returns the step following current.
//
// A refused or unreachable host ends probing whatever the dialect. A
// concrete requested dialect runs exactly one step. In auto mode the
// beta ping only follows a failed legacy ping, and the UDP dialects only
// run while nothing has succeeded.
func nextStep(current step, requested Dialect, outcome ConnectionOutcome, anySuccess bool) step {
	if requested != DialectAuto || outcome == OutcomeConnectionFailed {
		return stepDone
	}
	switch current {
	case stepLegacy:
		if outcome == OutcomeSuccess {
			return stepExtendedLegacy
		}
		return stepLegacyBeta
	case stepLegacyBeta:
		return stepExtendedLegacy
	case stepExtendedLegacy:
		return stepJSON
	case stepJSON:
		if anySuccess {
			return stepDone
		}
		return stepBedrock
	case stepBedrock:
		if anySuccess {
			return stepDone
		}
		return stepQuery
	default:
		return stepDone
	}
}

package action

import "strings"

// Trust is the confidence level attached to an invocation. Higher values
// mean the invocation came from a more direct user gesture.
type Trust int

// Trust levels, lowest first.
const (
	TrustLow Trust = iota
	TrustDefault
	TrustHigh
)

// String returns the lowercase trust name.
func (t Trust) String() string {
	switch t {
	case TrustLow:
		return "low"
	case TrustDefault:
		return "default"
	case TrustHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ParseTrust maps a trust name to its level.
// Returns TrustDefault and false for unrecognized names.
func ParseTrust(s string) (Trust, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return TrustLow, true
	case "default", "":
		return TrustDefault, true
	case "high":
		return TrustHigh, true
	default:
		return TrustDefault, false
	}
}

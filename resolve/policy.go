// Package resolve implements the collision resolver: the bin table that
// owns UMI-keyed pair state and the per-policy insertion/flush rules that
// decide what gets written and when.
package resolve

import "fmt"

// Policy is the collision-resolution method applied to pairs sharing a
// bin. The variants are a small closed set that change together, so
// dispatch happens on the tag rather than through an interface.
type Policy int

const (
	None Policy = iota
	KeepFirst
	KeepLast
	KeepLongestLeft
	KeepLongestRight
	KeepLongestExtend
	QualityVote
)

func (p Policy) String() string {
	switch p {
	case None:
		return "none"
	case KeepFirst:
		return "first"
	case KeepLast:
		return "last"
	case KeepLongestLeft:
		return "keep-longest-left"
	case KeepLongestRight:
		return "keep-longest-right"
	case KeepLongestExtend:
		return "keep-longest-extend"
	case QualityVote:
		return "quality-vote"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses the --collision-resolution-mode flag value.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "none":
		return None, nil
	case "first":
		return KeepFirst, nil
	case "last":
		return KeepLast, nil
	case "keep-longest-left":
		return KeepLongestLeft, nil
	case "keep-longest-right":
		return KeepLongestRight, nil
	case "keep-longest-extend":
		return KeepLongestExtend, nil
	case "quality-vote":
		return QualityVote, nil
	default:
		return None, fmt.Errorf("unknown collision resolution mode %q", s)
	}
}

// holdsUntilFlush reports whether p buffers a bin's representative state
// and defers the physical write to flush time, rather than writing
// immediately on the admitting insertion.
func (p Policy) holdsUntilFlush() bool {
	switch p {
	case KeepLast, KeepLongestLeft, KeepLongestRight, KeepLongestExtend, QualityVote:
		return true
	default:
		return false
	}
}

package assets

import (
	"strings"

	"github.com/pkg/errors"
)

// DepthMode selects how far the walker follows data references.
type DepthMode int

const (
	// DepthInfinite follows references without a bound.
	DepthInfinite DepthMode = iota
	// DepthDirect reports only the objects a root references directly.
	DepthDirect
	// DepthCustom uses the configured custom depth.
	DepthCustom
)

func (m DepthMode) String() string {
	switch m {
	case DepthDirect:
		return "direct"
	case DepthCustom:
		return "custom"
	default:
		return "infinite"
	}
}

// ParseDepthMode accepts direct, infinite or custom.
func ParseDepthMode(value string) (DepthMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "infinite":
		return DepthInfinite, nil
	case "direct":
		return DepthDirect, nil
	case "custom":
		return DepthCustom, nil
	default:
		return DepthInfinite, errors.Errorf("unsupported depth mode %q (supported: direct, infinite, custom)", value)
	}
}

// MaxDepth converts the mode into a walker bound; 0 means unbounded.
func (m DepthMode) MaxDepth(custom int) int {
	switch m {
	case DepthDirect:
		return 1
	case DepthCustom:
		if custom < 0 {
			return 0
		}
		return custom
	default:
		return 0
	}
}

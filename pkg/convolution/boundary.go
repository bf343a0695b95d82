package convolution

import (
	"fmt"
	"strconv"
	"strings"
)

// BoundaryPolicy selects how samples beyond the volume edge are synthesized.
//
// The numeric values match the integer codes used by existing drivers.
// Values other than BoundaryConstant and BoundaryClamp are accepted and
// behave like BoundaryIgnore.
type BoundaryPolicy int

const (
	// BoundaryIgnore omits out-of-range terms from the weighted sum.
	BoundaryIgnore BoundaryPolicy = iota

	// BoundaryConstant substitutes the caller-supplied boundary value.
	BoundaryConstant

	// BoundaryClamp replicates the nearest edge voxel along the convolved axis.
	BoundaryClamp
)

// String returns a human-readable name for the policy.
func (p BoundaryPolicy) String() string {
	switch p {
	case BoundaryIgnore:
		return "ignore"
	case BoundaryConstant:
		return "constant"
	case BoundaryClamp:
		return "clamp"
	default:
		return "unknown(" + strconv.Itoa(int(p)) + ")"
	}
}

// IsKnown reports whether p is one of the named policies.
func (p BoundaryPolicy) IsKnown() bool {
	return p == BoundaryIgnore || p == BoundaryConstant || p == BoundaryClamp
}

// ParseBoundaryPolicy parses a policy name or its integer code.
// "zero" and "fill" are accepted as aliases for constant.
func ParseBoundaryPolicy(s string) (BoundaryPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ignore", "none", "":
		return BoundaryIgnore, nil
	case "constant", "zero", "fill":
		return BoundaryConstant, nil
	case "clamp", "edge", "replicate":
		return BoundaryClamp, nil
	}

	// Raw integer codes pass through unchanged, including unrecognized ones.
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return BoundaryIgnore, fmt.Errorf("convolution: unknown boundary policy %q", s)
	}
	return BoundaryPolicy(n), nil
}

// MarshalText implements encoding.TextMarshaler.
func (p BoundaryPolicy) MarshalText() ([]byte, error) {
	if !p.IsKnown() {
		return []byte(strconv.Itoa(int(p))), nil
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *BoundaryPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseBoundaryPolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

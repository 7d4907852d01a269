package portrange

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/giantswarm/netfixture/internal/sentinel"
)

// ErrSyntax is returned by Parse for malformed specifications.
const ErrSyntax = sentinel.Error("invalid port specification")

// Parse builds a Set from a comma-separated list of items. Each item is a
// single port "N", a closed range "N1-N2", or an open range "-N2" (from 1)
// or "N1-" (up to 65535). Whitespace around items is ignored.
func Parse(spec string) (*Set, error) {
	s := &Set{}
	if strings.TrimSpace(spec) == "" {
		return nil, fmt.Errorf("%w: empty", ErrSyntax)
	}

	for item := range strings.SplitSeq(spec, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			return nil, fmt.Errorf("%w: empty item in %q", ErrSyntax, spec)
		}

		lo, hi, isRange := strings.Cut(item, "-")
		if !isRange {
			p, err := parsePort(item)
			if err != nil {
				return nil, err
			}
			s.Insert(p, p)
			continue
		}

		first, last := uint16(1), uint16(MaxPort)
		if lo != "" {
			p, err := parsePort(lo)
			if err != nil {
				return nil, err
			}
			first = p
		}
		if hi != "" {
			p, err := parsePort(hi)
			if err != nil {
				return nil, err
			}
			last = p
		}
		if lo == "" && hi == "" {
			return nil, fmt.Errorf("%w: %q has no bounds", ErrSyntax, item)
		}
		if first > last {
			return nil, fmt.Errorf("%w: %q is inverted", ErrSyntax, item)
		}
		s.Insert(first, last)
	}

	return s, nil
}

func parsePort(str string) (uint16, error) {
	n, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrSyntax, str)
	}
	if n < 1 || n > MaxPort {
		return 0, fmt.Errorf("%w: port %d out of range 1-%d", ErrSyntax, n, MaxPort)
	}
	return uint16(n), nil
}

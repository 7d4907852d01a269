package portrange

import (
	"strconv"
	"strings"
)

// MaxPort is the highest valid TCP port.
const MaxPort = 65535

// Range is an inclusive port interval.
type Range struct {
	First uint16
	Last  uint16
}

// Len returns the number of ports in r.
func (r Range) Len() int {
	return int(r.Last) - int(r.First) + 1
}

func (r Range) String() string {
	if r.First == r.Last {
		return strconv.Itoa(int(r.First))
	}
	return strconv.Itoa(int(r.First)) + "-" + strconv.Itoa(int(r.Last))
}

// Set is a collection of ports. The zero value is an empty set ready to use.
// Ranges are kept sorted by First with no overlapping or touching neighbors.
// A Set is not safe for concurrent mutation.
type Set struct {
	ranges []Range
}

// New returns a set holding the given ranges.
func New(ranges ...Range) *Set {
	s := &Set{}
	for _, r := range ranges {
		s.Insert(r.First, r.Last)
	}
	return s
}

// Insert adds [first, last] to the set, merging with any range it overlaps or
// touches. Inverted bounds are swapped.
func (s *Set) Insert(first, last uint16) {
	if first > last {
		first, last = last, first
	}

	// Index of the first range that could merge: its Last+1 >= first.
	i := 0
	for i < len(s.ranges) && int(s.ranges[i].Last)+1 < int(first) {
		i++
	}

	merged := Range{First: first, Last: last}
	j := i
	for j < len(s.ranges) && int(s.ranges[j].First) <= int(merged.Last)+1 {
		merged.First = min(merged.First, s.ranges[j].First)
		merged.Last = max(merged.Last, s.ranges[j].Last)
		j++
	}

	out := make([]Range, 0, len(s.ranges)-(j-i)+1)
	out = append(out, s.ranges[:i]...)
	out = append(out, merged)
	out = append(out, s.ranges[j:]...)
	s.ranges = out
}

// Count returns the number of ports in the set.
func (s *Set) Count() int {
	n := 0
	for _, r := range s.ranges {
		n += r.Len()
	}
	return n
}

// Empty reports whether the set holds no ports.
func (s *Set) Empty() bool {
	return len(s.ranges) == 0
}

// First returns the lowest port in the set, or 0 when empty.
func (s *Set) First() uint16 {
	if len(s.ranges) == 0 {
		return 0
	}
	return s.ranges[0].First
}

// Next returns the smallest port in the set greater than port, or 0 when
// there is none. port itself need not be in the set.
func (s *Set) Next(port uint16) uint16 {
	for _, r := range s.ranges {
		if port < r.First {
			return r.First
		}
		if port < r.Last {
			return port + 1
		}
	}
	return 0
}

// Nth returns the i-th port of the set in ascending order (0-based). It
// returns 0 when i is out of bounds.
func (s *Set) Nth(i int) uint16 {
	if i < 0 {
		return 0
	}
	for _, r := range s.ranges {
		if i < r.Len() {
			return r.First + uint16(i)
		}
		i -= r.Len()
	}
	return 0
}

// String renders the set in the syntax accepted by Parse.
func (s *Set) String() string {
	parts := make([]string, len(s.ranges))
	for i, r := range s.ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}

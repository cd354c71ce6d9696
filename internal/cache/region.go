package cache

import (
	"fmt"
	"sort"
)

// Region is an inclusive range of lines.
type Region struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

func (r Region) String() string {
	return fmt.Sprintf("[%d,%d]", r.Start, r.End)
}

// Contains reports whether line falls inside r.
func (r Region) Contains(line int) bool {
	return line >= r.Start && line <= r.End
}

// touches reports whether r and o overlap or are adjacent.
func (r Region) touches(o Region) bool {
	return o.Start <= r.End+1 && r.Start <= o.End+1
}

// Merge sorts regions and coalesces the ones that overlap or are adjacent.
// The input slice is reordered.
func Merge(regions []Region) []Region {
	if len(regions) < 2 {
		return regions
	}
	sort.Slice(regions, func(i, j int) bool {
		return regions[i].Start < regions[j].Start
	})
	out := regions[:1]
	for _, r := range regions[1:] {
		last := &out[len(out)-1]
		if last.touches(r) {
			last.End = max(last.End, r.End)
			continue
		}
		out = append(out, r)
	}
	return out
}

// translate maps r through an edit at line cs that replaced removed+1 old
// lines with added+1 new ones. ok is false when nothing of r survives.
func (r Region) translate(cs, removed, added, lineCount int) (Region, bool) {
	delta := added - removed
	switch {
	case r.End < cs:
	case r.Start >= cs+removed:
		r.Start += delta
		r.End += delta
	default:
		r.Start = min(r.Start, cs)
		if r.End >= cs+removed {
			r.End += delta
		} else {
			r.End = cs + added
		}
	}
	return r.clamp(lineCount)
}

func (r Region) clamp(lineCount int) (Region, bool) {
	r.Start = max(r.Start, 0)
	r.End = min(r.End, lineCount-1)
	return r, r.Start <= r.End
}

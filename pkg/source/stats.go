package source

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Stats captures what a Cleaner changed.
type Stats struct {
	ElementsRemoved   map[string]int `json:"elements_removed"`
	ElementsRenamed   map[string]int `json:"elements_renamed"`
	SelectorMatches   map[string]int `json:"selector_matches"`
	ElementsUnwrapped int            `json:"elements_unwrapped"`
	AttributesRemoved int            `json:"attributes_removed"`
	ClassesRemoved    int            `json:"classes_removed"`
	ReservedRemoved   int            `json:"reserved_removed"`

	Duration time.Duration `json:"duration_ms"`
}

// NewStats creates a Stats with initialized maps.
func NewStats() *Stats {
	return &Stats{
		ElementsRemoved: make(map[string]int),
		ElementsRenamed: make(map[string]int),
		SelectorMatches: make(map[string]int),
	}
}

// RecordRemoval records that an element was removed.
func (s *Stats) RecordRemoval(tag string) {
	s.ElementsRemoved[strings.ToLower(tag)]++
}

// RecordRename records that an element was renamed.
func (s *Stats) RecordRename(tag string) {
	s.ElementsRenamed[strings.ToLower(tag)]++
}

// RecordSelectorMatch records that a selector removed count elements.
func (s *Stats) RecordSelectorMatch(selector string, count int) {
	s.SelectorMatches[selector] += count
}

// TotalRemoved returns the number of elements removed by tag or selector.
func (s *Stats) TotalRemoved() int {
	total := 0
	for _, n := range s.ElementsRemoved {
		total += n
	}
	for _, n := range s.SelectorMatches {
		total += n
	}
	return total
}

func counts(m map[string]int) string {
	parts := make([]string, 0, len(m))
	for k, n := range m {
		parts = append(parts, fmt.Sprintf("%s=%d", k, n))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

// String returns a human-readable summary.
func (s *Stats) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Removed: %d elements", s.TotalRemoved())
	if len(s.ElementsRemoved) > 0 {
		fmt.Fprintf(&sb, " (%s)", counts(s.ElementsRemoved))
	}
	sb.WriteString("\n")
	if len(s.ElementsRenamed) > 0 {
		fmt.Fprintf(&sb, "Renamed: %s\n", counts(s.ElementsRenamed))
	}
	fmt.Fprintf(&sb, "Unwrapped: %d, attributes removed: %d, classes removed: %d\n",
		s.ElementsUnwrapped, s.AttributesRemoved, s.ClassesRemoved)
	if s.ReservedRemoved > 0 {
		fmt.Fprintf(&sb, "Reserved scalars removed: %d\n", s.ReservedRemoved)
	}
	fmt.Fprintf(&sb, "Duration: %v", s.Duration.Round(time.Microsecond))
	return sb.String()
}

// MarshalJSON reports the duration in milliseconds.
func (s Stats) MarshalJSON() ([]byte, error) {
	type plain Stats
	return json.Marshal(struct {
		plain
		Duration float64 `json:"duration_ms"`
	}{plain(s), float64(s.Duration) / float64(time.Millisecond)})
}

package normalise

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Stats captures what a pipeline run did.
type Stats struct {
	Steps         []StepStats   `json:"steps"`
	TotalDuration time.Duration `json:"total_duration_ms"`
}

// StepStats captures one step's effect on the entry count.
type StepStats struct {
	Name          string        `json:"name"`
	EntriesBefore int           `json:"entries_before"`
	EntriesAfter  int           `json:"entries_after"`
	Duration      time.Duration `json:"duration_ms"`
}

// Delta returns the change in entry count; negative when entries were removed.
func (s StepStats) Delta() int {
	return s.EntriesAfter - s.EntriesBefore
}

// Step returns the stats recorded for the named step.
func (s *Stats) Step(name string) (StepStats, bool) {
	for _, st := range s.Steps {
		if st.Name == name {
			return st, true
		}
	}
	return StepStats{}, false
}

// String returns a human-readable summary of the stats.
func (s *Stats) String() string {
	var sb strings.Builder
	for _, st := range s.Steps {
		sb.WriteString(fmt.Sprintf("%s: %d -> %d entries (%v)\n",
			st.Name, st.EntriesBefore, st.EntriesAfter, st.Duration.Round(time.Microsecond)))
	}
	sb.WriteString(fmt.Sprintf("Total: %v\n", s.TotalDuration.Round(time.Microsecond)))
	return sb.String()
}

// MarshalJSON reports durations in milliseconds.
func (s Stats) MarshalJSON() ([]byte, error) {
	type plain Stats
	return json.Marshal(struct {
		plain
		TotalDuration float64 `json:"total_duration_ms"`
	}{plain(s), millis(s.TotalDuration)})
}

// MarshalJSON reports the duration in milliseconds.
func (s StepStats) MarshalJSON() ([]byte, error) {
	type plain StepStats
	return json.Marshal(struct {
		plain
		Duration float64 `json:"duration_ms"`
	}{plain(s), millis(s.Duration)})
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

package analyze

import (
	"sort"
	"time"

	"github.com/netlogs/netincident/pkg/incident"
)

// Summary holds aggregate counts over a list of incidents.
type Summary struct {
	Total    int
	BySource map[incident.Source]int
	ByType   map[incident.Type]int

	// First is the earliest start and Last the latest end. Both are zero when
	// there are no incidents.
	First time.Time
	Last  time.Time

	// Longest is the widest incident; zero-valued when there are none.
	Longest incident.Event
}

// Count is one entry of a sorted breakdown.
type Count struct {
	Name  string
	Count int
}

// Summarize builds the Summary for incidents.
func Summarize(incidents []incident.Event) Summary {
	s := Summary{
		Total:    len(incidents),
		BySource: make(map[incident.Source]int),
		ByType:   make(map[incident.Type]int),
	}
	for i, ev := range incidents {
		s.BySource[ev.Source]++
		s.ByType[ev.Type]++
		if i == 0 || ev.Start.Before(s.First) {
			s.First = ev.Start
		}
		if i == 0 || ev.End.After(s.Last) {
			s.Last = ev.End
		}
		if i == 0 || ev.Duration() > s.Longest.Duration() {
			s.Longest = ev
		}
	}
	return s
}

// Span returns Last - First.
func (s Summary) Span() time.Duration {
	return s.Last.Sub(s.First)
}

// SourceCounts returns BySource sorted by descending count, then name.
func (s Summary) SourceCounts() []Count {
	out := make([]Count, 0, len(s.BySource))
	for k, v := range s.BySource {
		out = append(out, Count{Name: string(k), Count: v})
	}
	sortCounts(out)
	return out
}

// TypeCounts returns ByType sorted by descending count, then name.
func (s Summary) TypeCounts() []Count {
	out := make([]Count, 0, len(s.ByType))
	for k, v := range s.ByType {
		out = append(out, Count{Name: string(k), Count: v})
	}
	sortCounts(out)
	return out
}

func sortCounts(c []Count) {
	sort.Slice(c, func(i, j int) bool {
		if c[i].Count != c[j].Count {
			return c[i].Count > c[j].Count
		}
		return c[i].Name < c[j].Name
	})
}

package burst

import (
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/netlogs/netincident/pkg/incident"
)

// DefaultGap is the merge gap used when none is configured.
const DefaultGap = 60 * time.Second

// maxDetailsLen stops further details from being appended once reached.
const maxDetailsLen = 120

// detailsSep joins the details of merged events.
const detailsSep = " | "

// Aggregate merges temporally close events of the same group and returns the
// result sorted by start time. Two events merge when the later one starts at
// most gap after the aggregate's current end (inclusive). events is not
// modified.
func Aggregate(events []incident.Event, gap time.Duration) []incident.Event {
	if len(events) == 0 {
		return nil
	}

	groups := partition(events)

	// Each group writes only its own slot.
	folded := make([][]incident.Event, len(groups))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, grp := range groups {
		g.Go(func() error {
			folded[i] = fold(grp, gap)
			return nil
		})
	}
	_ = g.Wait() // fold never fails

	var out []incident.Event
	for _, f := range folded {
		out = append(out, f...)
	}
	sortIncidents(out)
	return out
}

// partition splits events by GroupKey, keeping groups in order of first
// appearance and events in input order.
func partition(events []incident.Event) [][]incident.Event {
	index := make(map[GroupKey]int)
	var groups [][]incident.Event
	for _, ev := range events {
		k := KeyOf(ev)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], ev)
	}
	return groups
}

// fold walks one group in start order and emits its sealed aggregates.
func fold(group []incident.Event, gap time.Duration) []incident.Event {
	sorted := make([]incident.Event, len(group))
	copy(sorted, group)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	var out []incident.Event
	cur := sorted[0]
	for _, ev := range sorted[1:] {
		if ev.Start.Sub(cur.End) > gap {
			out = append(out, cur)
			cur = ev
			continue
		}
		if ev.End.After(cur.End) {
			cur.End = ev.End
		}
		if ev.Details != "" && !strings.Contains(cur.Details, ev.Details) && len(cur.Details) < maxDetailsLen {
			cur.Details += detailsSep + ev.Details
		}
	}
	return append(out, cur)
}

// sortIncidents orders by start, then source, type and key.
func sortIncidents(events []incident.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		ka, kb := KeyOf(a), KeyOf(b)
		if ka.Source != kb.Source {
			return ka.Source < kb.Source
		}
		if ka.Type != kb.Type {
			return ka.Type < kb.Type
		}
		return ka.Key < kb.Key
	})
}

package burst

import (
	"strings"

	"github.com/netlogs/netincident/pkg/incident"
)

// keySeparators are checked in order; the first one present wins.
var keySeparators = []string{":", " -> "}

// DetailKey extracts a grouping key from a details string: the trimmed text
// before the first ":" or, failing that, before the first " -> ". Details
// without either separator are their own key.
func DetailKey(details string) string {
	if details == "" {
		return ""
	}
	for _, sep := range keySeparators {
		if i := strings.Index(details, sep); i >= 0 {
			return strings.TrimSpace(details[:i])
		}
	}
	return strings.TrimSpace(details)
}

// GroupKey identifies the events that may merge with each other.
type GroupKey struct {
	Source incident.Source
	Type   incident.Type
	Key    string
}

// KeyOf returns the group of ev. The structured Event.Key is preferred; events
// built without one fall back to DetailKey.
func KeyOf(ev incident.Event) GroupKey {
	k := ev.Key
	if k == "" {
		k = DetailKey(ev.Details)
	}
	return GroupKey{Source: ev.Source, Type: ev.Type, Key: k}
}

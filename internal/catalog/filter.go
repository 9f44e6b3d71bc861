package catalog

import "strings"

// Filter is a declaratively-composable set of predicates over a snapshot's
// records. Every field is optional (zero value imposes no constraint) and
// all set predicates combine with logical AND. Applying a filter never
// mutates the snapshot and never errors: a predicate that matches nothing
// simply yields an empty result.
type Filter struct {
	// Rarity keeps records whose Rarity equals it exactly.
	Rarity string

	// Location keeps records whose FoundIn contains it (case-sensitive).
	// The literal value "Unknown" instead keeps records whose FoundIn is
	// exactly "Unknown".
	Location string

	// UsedIn keeps records whose UsedIn text contains it (case-sensitive).
	UsedIn string

	// DismantlesTo is a component name; records are kept when they dismantle
	// into that component. An unresolvable name yields an empty result set.
	DismantlesTo string

	// NameSearch keeps records whose Name contains it, case-insensitively.
	NameSearch string

	// HideUnknownLocation drops records whose FoundIn is "Unknown".
	HideUnknownLocation bool
}

// Apply returns the records of s that pass every set predicate, in snapshot
// order. The result is always a freshly allocated, non-nil slice.
func (f Filter) Apply(s *Snapshot) []DisplayRecord {
	out := make([]DisplayRecord, 0, len(s.Records))

	// Resolve the dismantle target once against the current snapshot. A name
	// not present in the data selects nothing.
	var dismantleSources map[string]struct{}
	if f.DismantlesTo != "" {
		targetID, ok := s.ComponentIDByName(f.DismantlesTo)
		if !ok {
			return out
		}
		dismantleSources = s.dismantleSources(targetID)
		if len(dismantleSources) == 0 {
			return out
		}
	}

	nameSearch := strings.ToLower(f.NameSearch)

	for _, rec := range s.Records {
		if f.Rarity != "" && rec.Rarity != f.Rarity {
			continue
		}
		if f.Location != "" {
			if f.Location == PlaceholderUnknown {
				if rec.FoundIn != PlaceholderUnknown {
					continue
				}
			} else if !strings.Contains(rec.FoundIn, f.Location) {
				continue
			}
		}
		if f.UsedIn != "" && !strings.Contains(rec.UsedIn, f.UsedIn) {
			continue
		}
		if dismantleSources != nil {
			if _, ok := dismantleSources[rec.ComponentID]; !ok {
				continue
			}
		}
		if nameSearch != "" && !strings.Contains(strings.ToLower(rec.Name), nameSearch) {
			continue
		}
		if f.HideUnknownLocation && rec.FoundIn == PlaceholderUnknown {
			continue
		}
		out = append(out, rec)
	}

	return out
}

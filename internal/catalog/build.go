package catalog

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BuildSnapshot joins the normalized relations around the Component entity
// and returns a new immutable Snapshot. Input relations are not mutated.
//
// Aggregation policy:
//   - FoundIn is the sorted, de-duplicated set of resolved location names;
//     rows whose LocationID has no match are dropped silently.
//   - UsedIn and DismantlesInto preserve source-row order, duplicates
//     included, so two usage rows for the same craftable render twice.
//     Counterpart IDs with no match fall back to the raw ID text.
//
// Records are ordered by Component row order.
func BuildSnapshot(rel *Relations) *Snapshot {
	locationName := make(map[string]string, len(rel.Locations))
	for _, l := range rel.Locations {
		locationName[l.ID] = l.Name
	}
	craftableName := make(map[string]string, len(rel.Craftables))
	for _, c := range rel.Craftables {
		craftableName[c.ID] = c.Name
	}
	componentName := make(map[string]string, len(rel.Components))
	for _, c := range rel.Components {
		componentName[c.ID] = c.Name
	}

	foundIn := aggregateLocations(rel.ComponentLocations, locationName)
	usedIn, totalNeeded := aggregateUsages(rel.Usages, craftableName)
	dismantles, sourcesByResult := aggregateDismantles(rel.Dismantles, componentName)

	records := make([]DisplayRecord, 0, len(rel.Components))
	idByName := make(map[string]string, len(rel.Components))
	rarities := make(map[string]struct{})
	dismantleTargets := make([]string, 0, len(rel.Components))

	for _, c := range rel.Components {
		rec := DisplayRecord{
			ComponentID:    c.ID,
			Name:           c.Name,
			Rarity:         c.Rarity,
			SellPrice:      c.SellPrice,
			TotalNeeded:    totalNeeded[c.ID],
			UsedIn:         PlaceholderNoUse,
			FoundIn:        PlaceholderUnknown,
			DismantlesInto: PlaceholderNoDismantle,
		}
		if v, ok := usedIn[c.ID]; ok {
			rec.UsedIn = v
		}
		if v, ok := foundIn[c.ID]; ok {
			rec.FoundIn = v
		}
		if v, ok := dismantles[c.ID]; ok {
			rec.DismantlesInto = v
		}
		records = append(records, rec)

		if c.Name != "" {
			if _, seen := idByName[c.Name]; !seen {
				idByName[c.Name] = c.ID
				dismantleTargets = append(dismantleTargets, c.Name)
			}
		}
		if c.Rarity != "" && c.Rarity != PlaceholderUnknown {
			rarities[c.Rarity] = struct{}{}
		}
	}

	return &Snapshot{
		ID:       uuid.NewString(),
		LoadedAt: time.Now().UTC(),
		Records:  records,
		Facets: Facets{
			Rarities:         sortedKeys(rarities),
			Locations:        locationFacet(rel.Locations),
			Craftables:       craftableFacet(rel.Craftables),
			DismantleTargets: dismantleTargets,
		},
		idByName:        idByName,
		sourcesByResult: sourcesByResult,
	}
}

// aggregateLocations groups component-location links by component and joins
// the sorted unique set of resolved location names. Links whose LocationID
// is unknown are dropped.
func aggregateLocations(links []ComponentLocation, locationName map[string]string) map[string]string {
	names := make(map[string]map[string]struct{})
	for _, link := range links {
		name, ok := locationName[link.LocationID]
		if !ok {
			continue
		}
		set, exists := names[link.ComponentID]
		if !exists {
			set = make(map[string]struct{})
			names[link.ComponentID] = set
		}
		set[name] = struct{}{}
	}

	out := make(map[string]string, len(names))
	for compID, set := range names {
		out[compID] = strings.Join(sortedKeys(set), ", ")
	}
	return out
}

// aggregateUsages builds the per-component usage text (row order preserved)
// and the total quantity needed across all craftables.
func aggregateUsages(usages []ComponentUsage, craftableName map[string]string) (map[string]string, map[string]float64) {
	parts := make(map[string][]string)
	totals := make(map[string]float64)

	for _, u := range usages {
		name, ok := craftableName[u.CraftableID]
		if !ok {
			name = u.CraftableID
		}
		parts[u.ComponentID] = append(parts[u.ComponentID],
			fmt.Sprintf("%s (%sx)", name, FormatQuantity(u.Quantity)))
		totals[u.ComponentID] += u.Quantity
	}

	out := make(map[string]string, len(parts))
	for compID, p := range parts {
		out[compID] = strings.Join(p, ", ")
	}
	return out, totals
}

// aggregateDismantles builds the per-source dismantle text (row order
// preserved) plus the reverse index used by the dismantle-target filter.
func aggregateDismantles(dismantles []DismantleResult, componentName map[string]string) (map[string]string, map[string]map[string]struct{}) {
	parts := make(map[string][]string)
	sourcesByResult := make(map[string]map[string]struct{})

	for _, d := range dismantles {
		name, ok := componentName[d.ResultID]
		if !ok {
			name = d.ResultID
		}
		parts[d.SourceID] = append(parts[d.SourceID],
			fmt.Sprintf("%s (%sx)", name, FormatQuantity(d.Quantity)))

		set, exists := sourcesByResult[d.ResultID]
		if !exists {
			set = make(map[string]struct{})
			sourcesByResult[d.ResultID] = set
		}
		set[d.SourceID] = struct{}{}
	}

	out := make(map[string]string, len(parts))
	for srcID, p := range parts {
		out[srcID] = strings.Join(p, ", ")
	}
	return out, sourcesByResult
}

// locationFacet returns the sorted distinct location names.
func locationFacet(locations []Location) []string {
	set := make(map[string]struct{}, len(locations))
	for _, l := range locations {
		if l.Name != "" {
			set[l.Name] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// craftableFacet returns distinct craftable names in first-seen row order.
func craftableFacet(craftables []Craftable) []string {
	seen := make(map[string]struct{}, len(craftables))
	var out []string
	for _, c := range craftables {
		if c.Name == "" {
			continue
		}
		if _, ok := seen[c.Name]; ok {
			continue
		}
		seen[c.Name] = struct{}{}
		out = append(out, c.Name)
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package catalog

import (
	"testing"
)

// testRelations returns a small but representative dataset:
//   - Scrap (1): used twice by Widget, found in two locations (one duplicated,
//     one link dangling), not dismantlable.
//   - Wire (2): fractional usage, only a dangling location link.
//   - Battery (3): unused, dismantles into Scrap and Wire.
func testRelations() *Relations {
	return &Relations{
		Craftables: []Craftable{
			{ID: "10", Name: "Widget"},
			{ID: "11", Name: "Gadget"},
		},
		Locations: []Location{
			{ID: "L1", Name: "Dam"},
			{ID: "L2", Name: "Spaceport"},
		},
		Components: []Component{
			{ID: "1", Name: "Scrap", Rarity: "Common", SellPrice: "5"},
			{ID: "2", Name: "Wire", Rarity: "Uncommon", SellPrice: "12"},
			{ID: "3", Name: "Battery", Rarity: "Rare", SellPrice: "40"},
		},
		Usages: []ComponentUsage{
			{ComponentID: "1", CraftableID: "10", Quantity: 2},
			{ComponentID: "1", CraftableID: "10", Quantity: 3},
			{ComponentID: "2", CraftableID: "11", Quantity: 1.5},
		},
		ComponentLocations: []ComponentLocation{
			{ComponentID: "1", LocationID: "L2"},
			{ComponentID: "1", LocationID: "L1"},
			{ComponentID: "1", LocationID: "L2"},
			{ComponentID: "2", LocationID: "L9"}, // dangling, dropped
		},
		Dismantles: []DismantleResult{
			{SourceID: "3", ResultID: "1", Quantity: 2},
			{SourceID: "3", ResultID: "2", Quantity: 1},
		},
	}
}

func recordByName(t *testing.T, snap *Snapshot, name string) DisplayRecord {
	t.Helper()
	for _, rec := range snap.Records {
		if rec.Name == name {
			return rec
		}
	}
	t.Fatalf("no record named %q", name)
	return DisplayRecord{}
}

func TestBuildSnapshot_UsageAggregation(t *testing.T) {
	snap := BuildSnapshot(testRelations())

	scrap := recordByName(t, snap, "Scrap")
	if scrap.TotalNeeded != 5 {
		t.Errorf("Scrap.TotalNeeded = %v, want 5", scrap.TotalNeeded)
	}
	// Row order preserved, duplicates kept, not pre-aggregated per craftable
	if want := "Widget (2x), Widget (3x)"; scrap.UsedIn != want {
		t.Errorf("Scrap.UsedIn = %q, want %q", scrap.UsedIn, want)
	}

	wire := recordByName(t, snap, "Wire")
	if wire.TotalNeeded != 1.5 {
		t.Errorf("Wire.TotalNeeded = %v, want 1.5", wire.TotalNeeded)
	}
	if want := "Gadget (1.5x)"; wire.UsedIn != want {
		t.Errorf("Wire.UsedIn = %q, want %q", wire.UsedIn, want)
	}
}

func TestBuildSnapshot_Placeholders(t *testing.T) {
	snap := BuildSnapshot(testRelations())

	battery := recordByName(t, snap, "Battery")
	if battery.UsedIn != PlaceholderNoUse {
		t.Errorf("Battery.UsedIn = %q, want %q", battery.UsedIn, PlaceholderNoUse)
	}
	if battery.TotalNeeded != 0 {
		t.Errorf("Battery.TotalNeeded = %v, want 0", battery.TotalNeeded)
	}
	if battery.FoundIn != PlaceholderUnknown {
		t.Errorf("Battery.FoundIn = %q, want %q", battery.FoundIn, PlaceholderUnknown)
	}

	scrap := recordByName(t, snap, "Scrap")
	if scrap.DismantlesInto != PlaceholderNoDismantle {
		t.Errorf("Scrap.DismantlesInto = %q, want %q", scrap.DismantlesInto, PlaceholderNoDismantle)
	}

	// Wire's only location link is dangling; the drop leaves no group.
	wire := recordByName(t, snap, "Wire")
	if wire.FoundIn != PlaceholderUnknown {
		t.Errorf("Wire.FoundIn = %q, want %q", wire.FoundIn, PlaceholderUnknown)
	}
}

func TestBuildSnapshot_FoundInSortedDeduped(t *testing.T) {
	snap := BuildSnapshot(testRelations())

	scrap := recordByName(t, snap, "Scrap")
	if want := "Dam, Spaceport"; scrap.FoundIn != want {
		t.Errorf("Scrap.FoundIn = %q, want %q", scrap.FoundIn, want)
	}
}

func TestBuildSnapshot_FoundInOrderIndependent(t *testing.T) {
	rel := testRelations()
	reversed := testRelations()
	for i, j := 0, len(reversed.ComponentLocations)-1; i < j; i, j = i+1, j-1 {
		reversed.ComponentLocations[i], reversed.ComponentLocations[j] =
			reversed.ComponentLocations[j], reversed.ComponentLocations[i]
	}

	a := recordByName(t, BuildSnapshot(rel), "Scrap")
	b := recordByName(t, BuildSnapshot(reversed), "Scrap")
	if a.FoundIn != b.FoundIn {
		t.Errorf("FoundIn depends on input row order: %q vs %q", a.FoundIn, b.FoundIn)
	}
}

func TestBuildSnapshot_DismantleText(t *testing.T) {
	snap := BuildSnapshot(testRelations())

	battery := recordByName(t, snap, "Battery")
	if want := "Scrap (2x), Wire (1x)"; battery.DismantlesInto != want {
		t.Errorf("Battery.DismantlesInto = %q, want %q", battery.DismantlesInto, want)
	}
}

func TestBuildSnapshot_UnknownCounterpartFallsBackToID(t *testing.T) {
	rel := testRelations()
	rel.Usages = append(rel.Usages, ComponentUsage{ComponentID: "3", CraftableID: "99", Quantity: 1})
	rel.Dismantles = append(rel.Dismantles, DismantleResult{SourceID: "1", ResultID: "404", Quantity: 2})

	snap := BuildSnapshot(rel)

	battery := recordByName(t, snap, "Battery")
	if want := "99 (1x)"; battery.UsedIn != want {
		t.Errorf("Battery.UsedIn = %q, want %q", battery.UsedIn, want)
	}
	scrap := recordByName(t, snap, "Scrap")
	if want := "404 (2x)"; scrap.DismantlesInto != want {
		t.Errorf("Scrap.DismantlesInto = %q, want %q", scrap.DismantlesInto, want)
	}
}

func TestBuildSnapshot_RecordOrderFollowsComponents(t *testing.T) {
	snap := BuildSnapshot(testRelations())

	want := []string{"Scrap", "Wire", "Battery"}
	if len(snap.Records) != len(want) {
		t.Fatalf("got %d records, want %d", len(snap.Records), len(want))
	}
	for i, name := range want {
		if snap.Records[i].Name != name {
			t.Errorf("record[%d].Name = %q, want %q", i, snap.Records[i].Name, name)
		}
	}
}

func TestBuildSnapshot_Facets(t *testing.T) {
	snap := BuildSnapshot(testRelations())

	wantRarities := []string{"Common", "Rare", "Uncommon"}
	if !equalStrings(snap.Facets.Rarities, wantRarities) {
		t.Errorf("Facets.Rarities = %v, want %v", snap.Facets.Rarities, wantRarities)
	}

	wantLocations := []string{"Dam", "Spaceport"}
	if !equalStrings(snap.Facets.Locations, wantLocations) {
		t.Errorf("Facets.Locations = %v, want %v", snap.Facets.Locations, wantLocations)
	}

	// Craftables and dismantle targets keep row order
	wantCraftables := []string{"Widget", "Gadget"}
	if !equalStrings(snap.Facets.Craftables, wantCraftables) {
		t.Errorf("Facets.Craftables = %v, want %v", snap.Facets.Craftables, wantCraftables)
	}
	wantTargets := []string{"Scrap", "Wire", "Battery"}
	if !equalStrings(snap.Facets.DismantleTargets, wantTargets) {
		t.Errorf("Facets.DismantleTargets = %v, want %v", snap.Facets.DismantleTargets, wantTargets)
	}
}

func TestBuildSnapshot_SnapshotIdentity(t *testing.T) {
	a := BuildSnapshot(testRelations())
	b := BuildSnapshot(testRelations())

	if a.ID == "" || b.ID == "" {
		t.Fatal("snapshot ID must not be empty")
	}
	if a.ID == b.ID {
		t.Error("two builds must have distinct snapshot IDs")
	}
	if a.LoadedAt.IsZero() {
		t.Error("LoadedAt must be set")
	}
}

func equalStrings(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

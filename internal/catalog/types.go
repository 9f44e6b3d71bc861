// Package catalog turns the raw workbook relations into the denormalized,
// filterable component catalog. This package has no network or UI
// dependencies and can be used by any frontend.
package catalog

import "time"

// Placeholder text for derived fields that have no backing rows. Every
// DisplayRecord always carries a value for each derived field; these are the
// defined defaults, never empty strings.
const (
	PlaceholderUnknown     = "Unknown"
	PlaceholderNoUse       = "No known use"
	PlaceholderNoDismantle = "Cannot be dismantled"
)

// Craftable is a recipe/output entity that consumes components.
type Craftable struct {
	ID   string
	Name string
}

// Location is a place a component can be found.
type Location struct {
	ID   string
	Name string
}

// Component is the central record of the dataset. Rarity and SellPrice are
// optional in the source and default to PlaceholderUnknown.
type Component struct {
	ID        string
	Name      string
	Rarity    string
	SellPrice string
}

// ComponentUsage links a component to a craftable that consumes it.
// The (ComponentID, CraftableID) pair is not unique in the source data.
type ComponentUsage struct {
	ComponentID string
	CraftableID string
	Quantity    float64
}

// ComponentLocation links a component to a location where it can be found.
type ComponentLocation struct {
	ComponentID string
	LocationID  string
}

// DismantleResult records that dismantling SourceID yields Quantity of ResultID.
type DismantleResult struct {
	SourceID string
	ResultID string
	Quantity float64
}

// Relations holds the six normalized relations produced by Normalize.
type Relations struct {
	Craftables         []Craftable
	Locations          []Location
	Components         []Component
	Usages             []ComponentUsage
	ComponentLocations []ComponentLocation
	Dismantles         []DismantleResult
}

// DisplayRecord is the denormalized, presentation-ready aggregate of one
// component plus its derived text fields.
type DisplayRecord struct {
	ComponentID    string  `json:"componentId"`
	Name           string  `json:"name"`
	Rarity         string  `json:"rarity"`
	SellPrice      string  `json:"sellPrice"`
	TotalNeeded    float64 `json:"totalNeeded"`
	UsedIn         string  `json:"usedIn"`
	FoundIn        string  `json:"foundIn"`
	DismantlesInto string  `json:"dismantlesInto"`
}

// Facets are the distinct values offered to the UI's filter controls.
type Facets struct {
	Rarities         []string `json:"rarities"`
	Locations        []string `json:"locations"`
	Craftables       []string `json:"craftables"`
	DismantleTargets []string `json:"dismantleTargets"`
}

// Snapshot is one immutable build of the catalog. A refresh always produces
// a new Snapshot; existing snapshots are never patched in place.
type Snapshot struct {
	ID       string          `json:"id"`
	LoadedAt time.Time       `json:"loadedAt"`
	Records  []DisplayRecord `json:"records"`
	Facets   Facets          `json:"facets"`

	// idByName resolves a component name to its ID for the dismantle-target
	// filter. Built from the same records the filter runs over.
	idByName map[string]string

	// sourcesByResult maps a result component ID to the set of source
	// component IDs that dismantle into it.
	sourcesByResult map[string]map[string]struct{}
}

// ComponentIDByName resolves a component display name to its ID.
func (s *Snapshot) ComponentIDByName(name string) (string, bool) {
	id, ok := s.idByName[name]
	return id, ok
}

// dismantleSources returns the set of component IDs that dismantle into the
// given result component. The returned map must not be mutated.
func (s *Snapshot) dismantleSources(resultID string) map[string]struct{} {
	return s.sourcesByResult[resultID]
}

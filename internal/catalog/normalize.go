package catalog

import (
	"github.com/arclabs/componentdb/internal/sheet"
)

// Candidate column spellings per logical field, tried in order. Data-source
// revisions have shipped several of these.
var (
	componentIDCols     = []string{"ComponentID", "Component Id", "ID"}
	componentNameCols   = []string{"ComponentName", "Component Name", "Name"}
	componentRarityCols = []string{"ComponentRarity", "Rarity"}
	componentPriceCols  = []string{"ComponentSellPrice", "Sell Price", "Price"}

	craftableIDCols   = []string{"CraftableID", "Craftable Id", "ID"}
	craftableNameCols = []string{"CraftableName", "Craftable Name", "Name"}

	locationIDCols   = []string{"LocationID", "Location Id", "ID"}
	locationNameCols = []string{"LocationName", "Location Name", "Name"}

	usageQuantityCols     = []string{"UsageQuantity", "Usage Quantity", "Quantity", "Qty"}
	dismantleSourceCols   = []string{"SourceComponentID", "Source Component ID", "Source"}
	dismantleResultCols   = []string{"ResultComponentID", "Result Component ID", "Result"}
	dismantleQuantityCols = []string{"Quantity", "Qty"}
)

// Normalize resolves every raw table to its canonical column set and returns
// the typed relations.
//
// The Component sheet's ID and Name columns, and the Location sheet's ID and
// Name columns (when the sheet is present), are required: failure to resolve
// them returns a *SchemaError and no relations. Optional columns (Rarity,
// SellPrice, quantities) degrade to documented defaults. Link sheets whose
// key columns cannot be resolved yield an empty relation, not an error, since
// the catalog is still useful without them.
func Normalize(tables []sheet.Table) (*Relations, error) {
	byName := make(map[string]sheet.Table, len(tables))
	for _, t := range tables {
		byName[t.Name] = t
	}

	rel := &Relations{}

	comp, ok := byName[sheet.SheetComponent]
	if !ok {
		return nil, &SchemaError{
			Sheet:   sheet.SheetComponent,
			Missing: []string{"Component ID", "Component Name"},
		}
	}
	if err := normalizeComponents(comp, rel); err != nil {
		return nil, err
	}

	if loc, ok := byName[sheet.SheetLocation]; ok {
		if err := normalizeLocations(loc, rel); err != nil {
			return nil, err
		}
	}
	if craft, ok := byName[sheet.SheetCraftable]; ok {
		normalizeCraftables(craft, rel)
	}
	if usage, ok := byName[sheet.SheetComponentUsage]; ok {
		normalizeUsages(usage, rel)
	}
	if compLoc, ok := byName[sheet.SheetComponentLocation]; ok {
		normalizeComponentLocations(compLoc, rel)
	}
	if dis, ok := byName[sheet.SheetDismantleResult]; ok {
		normalizeDismantles(dis, rel)
	}

	return rel, nil
}

func normalizeComponents(t sheet.Table, rel *Relations) error {
	idIdx, idOK := ResolveColumn(t.Columns, componentIDCols)
	nameIdx, nameOK := ResolveColumn(t.Columns, componentNameCols)
	if !idOK || !nameOK {
		var missing []string
		if !idOK {
			missing = append(missing, "Component ID")
		}
		if !nameOK {
			missing = append(missing, "Component Name")
		}
		return &SchemaError{Sheet: t.Name, Missing: missing, Available: t.Columns}
	}

	rarityIdx, rarityOK := ResolveColumn(t.Columns, componentRarityCols)
	priceIdx, priceOK := ResolveColumn(t.Columns, componentPriceCols)

	for i := range t.Rows {
		id := CleanCell(t.Cell(i, idIdx))
		if id == "" {
			continue
		}
		c := Component{
			ID:        id,
			Name:      CleanCell(t.Cell(i, nameIdx)),
			Rarity:    PlaceholderUnknown,
			SellPrice: PlaceholderUnknown,
		}
		if rarityOK {
			if v := CleanCell(t.Cell(i, rarityIdx)); v != "" {
				c.Rarity = v
			}
		}
		if priceOK {
			if v := CleanCell(t.Cell(i, priceIdx)); v != "" {
				c.SellPrice = v
			}
		}
		rel.Components = append(rel.Components, c)
	}
	return nil
}

func normalizeLocations(t sheet.Table, rel *Relations) error {
	idIdx, idOK := ResolveColumn(t.Columns, locationIDCols)
	nameIdx, nameOK := ResolveColumn(t.Columns, locationNameCols)
	if !idOK || !nameOK {
		var missing []string
		if !idOK {
			missing = append(missing, "Location ID")
		}
		if !nameOK {
			missing = append(missing, "Location Name")
		}
		return &SchemaError{Sheet: t.Name, Missing: missing, Available: t.Columns}
	}

	for i := range t.Rows {
		id := CleanCell(t.Cell(i, idIdx))
		if id == "" {
			continue
		}
		rel.Locations = append(rel.Locations, Location{
			ID:   id,
			Name: CleanCell(t.Cell(i, nameIdx)),
		})
	}
	return nil
}

func normalizeCraftables(t sheet.Table, rel *Relations) {
	idIdx, idOK := ResolveColumn(t.Columns, craftableIDCols)
	nameIdx, nameOK := ResolveColumn(t.Columns, craftableNameCols)
	if !idOK || !nameOK {
		return
	}

	for i := range t.Rows {
		id := CleanCell(t.Cell(i, idIdx))
		if id == "" {
			continue
		}
		rel.Craftables = append(rel.Craftables, Craftable{
			ID:   id,
			Name: CleanCell(t.Cell(i, nameIdx)),
		})
	}
}

func normalizeUsages(t sheet.Table, rel *Relations) {
	compIdx, compOK := ResolveColumn(t.Columns, componentIDCols)
	craftIdx, craftOK := ResolveColumn(t.Columns, craftableIDCols)
	if !compOK || !craftOK {
		return
	}
	qtyIdx, qtyOK := ResolveColumn(t.Columns, usageQuantityCols)

	for i := range t.Rows {
		compID := CleanCell(t.Cell(i, compIdx))
		if compID == "" {
			continue
		}
		u := ComponentUsage{
			ComponentID: compID,
			CraftableID: CleanCell(t.Cell(i, craftIdx)),
		}
		if qtyOK {
			u.Quantity = Quantity(t.Cell(i, qtyIdx))
		}
		rel.Usages = append(rel.Usages, u)
	}
}

func normalizeComponentLocations(t sheet.Table, rel *Relations) {
	compIdx, compOK := ResolveColumn(t.Columns, componentIDCols)
	locIdx, locOK := ResolveColumn(t.Columns, locationIDCols)
	if !compOK || !locOK {
		return
	}

	for i := range t.Rows {
		compID := CleanCell(t.Cell(i, compIdx))
		if compID == "" {
			continue
		}
		rel.ComponentLocations = append(rel.ComponentLocations, ComponentLocation{
			ComponentID: compID,
			LocationID:  CleanCell(t.Cell(i, locIdx)),
		})
	}
}

func normalizeDismantles(t sheet.Table, rel *Relations) {
	srcIdx, srcOK := ResolveColumn(t.Columns, dismantleSourceCols)
	resIdx, resOK := ResolveColumn(t.Columns, dismantleResultCols)
	if !srcOK || !resOK {
		return
	}
	qtyIdx, qtyOK := ResolveColumn(t.Columns, dismantleQuantityCols)

	for i := range t.Rows {
		srcID := CleanCell(t.Cell(i, srcIdx))
		if srcID == "" {
			continue
		}
		d := DismantleResult{
			SourceID: srcID,
			ResultID: CleanCell(t.Cell(i, resIdx)),
		}
		if qtyOK {
			d.Quantity = Quantity(t.Cell(i, qtyIdx))
		}
		rel.Dismantles = append(rel.Dismantles, d)
	}
}

package catalog

import (
	"encoding/csv"
	"io"
)

// ExportHeader is the column order of the CSV export.
var ExportHeader = []string{
	"Name", "Rarity", "SellPrice", "TotalNeeded", "UsedIn", "FoundIn", "DismantlesInto",
}

// WriteCSV serializes records as UTF-8 CSV with a header row, one record per
// line. TotalNeeded uses the same whole-number display rule as the aggregated
// text fields.
func WriteCSV(w io.Writer, records []DisplayRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ExportHeader); err != nil {
		return err
	}

	for _, rec := range records {
		row := []string{
			rec.Name,
			rec.Rarity,
			rec.SellPrice,
			FormatQuantity(rec.TotalNeeded),
			rec.UsedIn,
			rec.FoundIn,
			rec.DismantlesInto,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

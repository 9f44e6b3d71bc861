package sheet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestCanonicalSheet(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		wantMatch bool
	}{
		{name: "numeric prefix", input: "01_Craftable", want: SheetCraftable, wantMatch: true},
		{name: "plural with prefix", input: "06_DismantleResults", want: SheetDismantleResult, wantMatch: true},
		{name: "exact canonical", input: "Component", want: SheetComponent, wantMatch: true},
		{name: "spaces and case", input: "component location", want: SheetComponentLocation, wantMatch: true},
		{name: "usage", input: "04_ComponentUsage", want: SheetComponentUsage, wantMatch: true},
		{name: "location plural", input: "Locations", want: SheetLocation, wantMatch: true},
		{name: "dashboard skipped", input: "PowerDashboard", wantMatch: false},
		{name: "empty", input: "", wantMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CanonicalSheet(tt.input)
			if ok != tt.wantMatch {
				t.Fatalf("CanonicalSheet(%q) match = %v, want %v", tt.input, ok, tt.wantMatch)
			}
			if ok && got != tt.want {
				t.Errorf("CanonicalSheet(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// buildWorkbook creates an in-memory XLSX with the given sheets.
// Each sheet's first row slice is the header.
func buildWorkbook(t *testing.T, sheets map[string][][]interface{}) []byte {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()

	first := true
	for name, rows := range sheets {
		if first {
			// Reuse the default sheet for the first table
			if err := wb.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("rename default sheet: %v", err)
			}
			first = false
		} else {
			if _, err := wb.NewSheet(name); err != nil {
				t.Fatalf("new sheet %q: %v", name, err)
			}
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := wb.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestParse(t *testing.T) {
	data := buildWorkbook(t, map[string][][]interface{}{
		"03_Component": {
			{" ComponentID ", "ComponentName", "ComponentRarity"},
			{"1", "Scrap", "Common"},
			{"2", "Wire"}, // ragged row, missing rarity
		},
		"PowerDashboard": {
			{"junk"},
		},
	})

	tables, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(tables) != 1 {
		t.Fatalf("expected 1 recognized table, got %d", len(tables))
	}

	comp := tables[0]
	if comp.Name != SheetComponent {
		t.Errorf("table name = %q, want %q", comp.Name, SheetComponent)
	}

	// Headers are trimmed
	if comp.Columns[0] != "ComponentID" {
		t.Errorf("column[0] = %q, want %q", comp.Columns[0], "ComponentID")
	}

	if len(comp.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(comp.Rows))
	}

	// Ragged rows are padded to header width
	if len(comp.Rows[1]) != len(comp.Columns) {
		t.Errorf("row 1 width = %d, want %d", len(comp.Rows[1]), len(comp.Columns))
	}
	if comp.Cell(1, 2) != "" {
		t.Errorf("padded cell = %q, want empty", comp.Cell(1, 2))
	}
	if comp.Cell(0, 1) != "Scrap" {
		t.Errorf("Cell(0,1) = %q, want %q", comp.Cell(0, 1), "Scrap")
	}
}

func TestFetcher_Load(t *testing.T) {
	data := buildWorkbook(t, map[string][][]interface{}{
		"02_Location": {
			{"LocationID", "LocationName"},
			{"L1", "Dam Battlegrounds"},
		},
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL, srv.Client())
	tables, err := f.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(tables) != 1 || tables[0].Name != SheetLocation {
		t.Fatalf("unexpected tables: %+v", tables)
	}
	if tables[0].Cell(0, 1) != "Dam Battlegrounds" {
		t.Errorf("Cell(0,1) = %q, want %q", tables[0].Cell(0, 1), "Dam Battlegrounds")
	}
}

func TestFetcher_Load_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL, srv.Client())
	if _, err := f.Load(context.Background()); err == nil {
		t.Fatal("Load() expected error for 404 response")
	}
}

func TestFetcher_Load_SizeLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 2048))
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL, srv.Client())
	f.MaxBytes = 1024
	if _, err := f.Load(context.Background()); err == nil {
		t.Fatal("Load() expected error for oversized workbook")
	}
}

package sheet

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultMaxBytes caps the workbook download when the caller does not set one.
const DefaultMaxBytes = 25 << 20

// Fetcher downloads and parses the source workbook.
type Fetcher struct {
	// URL is the direct-download location of the XLSX workbook.
	URL string

	// Client is the HTTP client used for the download. Timeouts belong to
	// the client; the fetch itself honors ctx cancellation.
	Client *http.Client

	// MaxBytes caps the accepted response size. Zero means DefaultMaxBytes.
	MaxBytes int64
}

// NewFetcher returns a Fetcher for the given URL using the provided client.
// A nil client falls back to http.DefaultClient.
func NewFetcher(url string, client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{URL: url, Client: client}
}

// Load downloads the workbook and parses every recognized sheet into a Table.
// Sheets whose names do not map to one of the six relations are skipped.
func (f *Fetcher) Load(ctx context.Context) ([]Table, error) {
	data, err := f.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// fetch performs the HTTP GET and returns the raw workbook bytes.
func (f *Fetcher) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build workbook request: %w", err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch workbook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch workbook: unexpected status %s", resp.Status)
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read workbook body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("workbook exceeds size limit of %d bytes", limit)
	}

	return data, nil
}

// Parse reads an XLSX workbook from memory and returns its recognized sheets
// as raw tables. The first row of each sheet is treated as the header; header
// cells are whitespace-trimmed and rows are padded to the header width so
// every Table row is rectangular.
func Parse(data []byte) ([]Table, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	var tables []Table
	for _, name := range wb.GetSheetList() {
		canonical, ok := CanonicalSheet(name)
		if !ok {
			continue
		}

		rows, err := wb.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		if len(rows) == 0 {
			tables = append(tables, Table{Name: canonical})
			continue
		}

		columns := make([]string, len(rows[0]))
		for i, c := range rows[0] {
			columns[i] = strings.TrimSpace(c)
		}

		body := make([][]string, 0, len(rows)-1)
		for _, raw := range rows[1:] {
			row := make([]string, len(columns))
			copy(row, raw)
			body = append(body, row)
		}

		tables = append(tables, Table{Name: canonical, Columns: columns, Rows: body})
	}

	return tables, nil
}

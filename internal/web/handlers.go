package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/arclabs/componentdb/internal/catalog"
	"github.com/arclabs/componentdb/internal/logging"
)

// CatalogProvider supplies catalog snapshots. Implemented by
// *catalog.SnapshotCache.
type CatalogProvider interface {
	Get(ctx context.Context) (*catalog.Snapshot, error)
	Refresh(ctx context.Context) (*catalog.Snapshot, error)
}

// componentsResponse is the browse endpoint's payload: the filtered view plus
// the snapshot it was computed from.
type componentsResponse struct {
	SnapshotID string                  `json:"snapshotId"`
	LoadedAt   time.Time               `json:"loadedAt"`
	Count      int                     `json:"count"`
	Records    []catalog.DisplayRecord `json:"records"`
}

// snapshotMeta describes a snapshot without its records.
type snapshotMeta struct {
	SnapshotID string    `json:"snapshotId"`
	LoadedAt   time.Time `json:"loadedAt"`
	Components int       `json:"components"`
}

// handleIndex serves the embedded browser page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "missing index page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleComponents returns the filtered DisplayRecord set with its row count.
func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	snap, err := s.catalog.Get(r.Context())
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}

	records := parseFilter(r).Apply(snap)

	writeJSON(w, componentsResponse{
		SnapshotID: snap.ID,
		LoadedAt:   snap.LoadedAt,
		Count:      len(records),
		Records:    records,
	})
}

// handleFacets returns the distinct values for the UI's filter controls.
func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	snap, err := s.catalog.Get(r.Context())
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}
	writeJSON(w, snap.Facets)
}

// handleExport streams the filtered view as a CSV attachment.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snap, err := s.catalog.Get(r.Context())
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}

	records := parseFilter(r).Apply(snap)

	filename := fmt.Sprintf("components_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := catalog.WriteCSV(w, records); err != nil {
		// Headers are already sent; log and give up on this response
		logging.FromContext(r.Context()).Error("csv export failed", "error", err)
	}
}

// handleRefresh invalidates the cached snapshot and rebuilds it.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.catalog.Refresh(r.Context())
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("manual refresh",
		"snapshot_id", snap.ID, "components", len(snap.Records))

	writeJSON(w, snapshotMeta{
		SnapshotID: snap.ID,
		LoadedAt:   snap.LoadedAt,
		Components: len(snap.Records),
	})
}

// writeCatalogError maps pipeline failures to HTTP statuses: a workbook
// schema problem is the caller-fixable 422, everything else (network, parse)
// is a 502 from the upstream source.
func (s *Server) writeCatalogError(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Error("catalog unavailable", "error", err)

	var se *catalog.SchemaError
	if errors.As(err, &se) {
		writeError(w, http.StatusUnprocessableEntity, se.Error())
		return
	}
	writeError(w, http.StatusBadGateway, "component data source unavailable")
}

// parseFilter extracts the filter specification from query parameters.
// Absent parameters impose no constraint.
func parseFilter(r *http.Request) catalog.Filter {
	q := r.URL.Query()
	return catalog.Filter{
		Rarity:              q.Get("rarity"),
		Location:            q.Get("location"),
		UsedIn:              q.Get("usedIn"),
		DismantlesTo:        q.Get("dismantlesTo"),
		NameSearch:          q.Get("q"),
		HideUnknownLocation: parseBoolParam(q.Get("hideUnknown")),
	}
}

// parseBoolParam parses a boolean query parameter, defaulting to false.
func parseBoolParam(v string) bool {
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	return b
}

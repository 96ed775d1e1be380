package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/qu4rkn3t/NEOGuard/internal/catalog"
	"github.com/qu4rkn3t/NEOGuard/internal/metrics"
	"github.com/qu4rkn3t/NEOGuard/internal/risk"
	"github.com/qu4rkn3t/NEOGuard/internal/tle"
	"github.com/qu4rkn3t/NEOGuard/internal/trajectory"
)

const (
	defaultCatalogLimit = 25
	maxCatalogLimit     = 200
)

// handleTLE resolves one catalog id to its TLE record.
// GET /api/v1/tle/{id}
func (s *Server) handleTLE(w http.ResponseWriter, r *http.Request) {
	noradID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || noradID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid catalog id")
		return
	}

	data, err := s.fetcher.FetchByNorad(r.Context(), noradID)
	if err != nil {
		metrics.IncFetch("error")
		s.logger.Warn("upstream TLE fetch failed", "norad_id", noradID, "error", err)
		writeError(w, http.StatusBadGateway, "upstream catalog error")
		return
	}
	metrics.IncFetch("ok")

	records, err := s.parseRecords(data)
	if err != nil || len(records) == 0 {
		writeError(w, http.StatusNotFound, "no TLE found for catalog id")
		return
	}

	writeJSON(w, http.StatusOK, catalog.TLEResponse{
		Count:   len(records),
		Records: records,
	})
}

// handleDebrisCatalog returns up to limit records from a named debris group.
// GET /api/v1/debris/catalog?name=fengyun1c&limit=25
func (s *Server) handleDebrisCatalog(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing name parameter")
		return
	}

	limit := defaultCatalogLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxCatalogLimit {
			writeError(w, http.StatusBadRequest, "invalid limit parameter, must be 1-200")
			return
		}
		limit = n
	}

	group := strings.ToLower(name)
	data, err := s.fetcher.FetchGroup(r.Context(), group)
	if err != nil {
		if strings.Contains(err.Error(), "unknown catalog") {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		metrics.IncFetch("error")
		s.logger.Warn("upstream catalog fetch failed", "group", name, "error", err)

		// Fall back to the newest on-disk snapshot for the group, if any.
		if s.diskCache != nil {
			if cached, ts, cacheErr := s.diskCache.LoadLatest(group); cacheErr == nil {
				s.logger.Info("serving catalog from disk snapshot",
					"group", group,
					"snapshot_age_seconds", int(time.Since(ts).Seconds()))
				s.writeCatalog(w, cached, limit)
				return
			}
		}
		writeError(w, http.StatusBadGateway, "failed to load catalog")
		return
	}
	metrics.IncFetch("ok")

	// Best-effort write-through so restarts can serve the last known catalog.
	if s.diskCache != nil {
		if err := s.diskCache.Write(group, data, time.Now()); err != nil {
			s.logger.Warn("catalog cache write failed", "error", err)
		}
	}

	s.writeCatalog(w, data, limit)
}

// writeCatalog parses raw 3LE text and writes up to limit records.
func (s *Server) writeCatalog(w http.ResponseWriter, data []byte, limit int) {
	records, err := s.parseRecords(data)
	if err != nil {
		writeError(w, http.StatusBadGateway, "malformed catalog data")
		return
	}
	if len(records) > limit {
		records = records[:limit]
	}

	writeJSON(w, http.StatusOK, catalog.TLEResponse{
		Count:   len(records),
		Records: records,
	})
}

// handlePropagate generates samples for a single TLE.
// POST /api/v1/propagate
func (s *Server) handlePropagate(w http.ResponseWriter, r *http.Request) {
	samples, ok := s.propagateRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, catalog.PropagateResponse{
		States: catalog.FromSamples(samples),
	})
}

// handlePredict generates predicted samples for a single TLE. With no
// learned corrector installed the prediction source is plain SGP4.
// POST /api/v1/predict
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	samples, ok := s.propagateRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, catalog.PredictResponse{
		States: catalog.FromSamples(samples),
		Source: "sgp4",
	})
}

// propagateRequest decodes a propagate/predict body and runs the sampler,
// consulting the prediction cache keyed by catalog id and horizon.
func (s *Server) propagateRequest(w http.ResponseWriter, r *http.Request) ([]trajectory.Sample, bool) {
	var req catalog.PropagateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if req.Line1 == "" || req.Line2 == "" {
		writeError(w, http.StatusBadRequest, "line1 and line2 are required")
		return nil, false
	}
	minutes := catalog.ClampMinutes(req.Minutes)

	noradID := noradFromLine1(req.Line1)
	if s.predCache != nil && noradID > 0 {
		if samples := s.predCache.Get(noradID, minutes); samples != nil {
			return samples, true
		}
	}

	start := time.Now()
	samples, skipped, err := s.sampler.Samples(req.Line1, req.Line2, minutes)
	if err != nil {
		metrics.IncPropagationErrors()
		writeError(w, http.StatusUnprocessableEntity, "propagation failed: "+err.Error())
		return nil, false
	}
	metrics.RecordPropagation(time.Since(start), len(samples))
	if skipped > 0 {
		s.logger.Warn("sgp4 skipped samples", "norad_id", noradID, "skipped", skipped)
	}

	if s.predCache != nil && noradID > 0 {
		s.predCache.Put(noradID, minutes, samples)
	}
	return samples, true
}

// handleBatchPropagate samples many records in one call via the worker pool.
// POST /api/v1/propagate/batch
func (s *Server) handleBatchPropagate(w http.ResponseWriter, r *http.Request) {
	var req catalog.BatchPropagateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Records) == 0 {
		writeError(w, http.StatusBadRequest, "no records")
		return
	}
	minutes := catalog.ClampMinutes(req.Minutes)

	records := make([]tle.Record, 0, len(req.Records))
	for _, rec := range req.Records {
		records = append(records, tle.Record{
			Name:    rec.Name,
			NoradID: rec.NoradID,
			Line1:   rec.Line1,
			Line2:   rec.Line2,
		})
	}

	start := time.Now()
	results := s.pool.SampleBatch(r.Context(), records, minutes)

	resp := catalog.BatchPropagateResponse{
		Trajectories: make([]catalog.BatchTrajectory, 0, len(results)),
	}
	var total int
	for _, res := range results {
		bt := catalog.BatchTrajectory{
			Name:    res.Record.Name,
			NoradID: res.Record.NoradID,
		}
		if res.Err != nil {
			bt.Error = res.Err.Error()
		} else {
			bt.States = catalog.FromSamples(res.Samples)
			total += len(res.Samples)
		}
		resp.Trajectories = append(resp.Trajectories, bt)
	}
	metrics.RecordPropagation(time.Since(start), total)

	writeJSON(w, http.StatusOK, resp)
}

// handleRisk scores close approaches between the reference debris
// trajectory and each target.
// POST /api/v1/risk
func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	var req catalog.RiskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Debris.States) == 0 {
		writeError(w, http.StatusBadRequest, "debris trajectory has no states")
		return
	}
	if req.ThresholdKm <= 0 {
		writeError(w, http.StatusBadRequest, "threshold_km must be positive")
		return
	}

	targets := make([]risk.Target, 0, len(req.Targets))
	for _, tgt := range req.Targets {
		targets = append(targets, risk.Target{
			Name:    tgt.Name,
			Samples: catalog.ToSamples(tgt.States),
		})
	}

	approaches := risk.Assess(catalog.ToSamples(req.Debris.States), targets, req.ThresholdKm)

	writeJSON(w, http.StatusOK, catalog.RiskResponse{Approaches: approaches})
}

// parseRecords converts raw catalog text to wire records, tolerating the
// name-less two-line form CelesTrak returns for some CATNR queries.
func (s *Server) parseRecords(data []byte) ([]catalog.TLERecord, error) {
	text := normalizeTLEText(data)
	parsed, err := tle.Parse(strings.NewReader(text), s.logger)
	if err != nil {
		return nil, err
	}

	records := make([]catalog.TLERecord, 0, len(parsed))
	for _, p := range parsed {
		records = append(records, catalog.TLERecord{
			Name:    p.Name,
			NoradID: p.NoradID,
			Line1:   p.Line1,
			Line2:   p.Line2,
		})
	}
	return records, nil
}

// normalizeTLEText inserts a placeholder name line when the text begins
// directly with line 1 of a record.
func normalizeTLEText(data []byte) string {
	trimmed := bytes.TrimLeft(data, "\r\n \t")
	if bytes.HasPrefix(trimmed, []byte("1 ")) {
		return "UNKNOWN\n" + string(trimmed)
	}
	return string(data)
}

// noradFromLine1 extracts the catalog number from line 1 cols 3-7, or 0 when
// malformed.
func noradFromLine1(line1 string) int {
	if len(line1) < 7 {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(line1[2:7]))
	if err != nil {
		return 0
	}
	return n
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sigplot/app"
	"sigplot/domain/core"
	"sigplot/domain/observation"
	"sigplot/domain/significance"
	"sigplot/internal/errors"
	"sigplot/internal/report"
)

const maxBodyBytes = 8 << 20

// analysisBody is the request shape shared by every analysis endpoint.
// Observations come as wide series, long rows, or both (appended in that
// order). Bar and line settings are merged onto the server defaults.
type analysisBody struct {
	Strategy string               `json:"strategy"`
	Series   []observation.Series `json:"series"`
	Rows     []observation.Row    `json:"rows"`
	Bar      json.RawMessage      `json:"bar,omitempty"`
	Line     json.RawMessage      `json:"line,omitempty"`
	Baseline string               `json:"baseline,omitempty"`
}

type batchBody struct {
	Chart    string         `json:"chart"`
	Requests []analysisBody `json:"requests"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "persistent": s.service.Persistent()})
}

func (s *Server) handleSignificance(w http.ResponseWriter, r *http.Request) {
	s.analyze(w, r, app.ChartNone)
}

func (s *Server) handleBarChart(w http.ResponseWriter, r *http.Request) {
	s.analyze(w, r, app.ChartBar)
}

func (s *Server) handleLineChart(w http.ResponseWriter, r *http.Request) {
	s.analyze(w, r, app.ChartLine)
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request, kind app.ChartKind) {
	var body analysisBody
	if err := decode(w, r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	req, err := s.toRequest(body, kind)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp, err := s.service.Analyze(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var body batchBody
	if err := decode(w, r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	kind, err := app.ParseChartKind(body.Chart)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(body.Requests) == 0 {
		s.writeError(w, errors.InvalidInput("batch has no requests"))
		return
	}

	reqs := make([]app.AnalysisRequest, len(body.Requests))
	for i, b := range body.Requests {
		if reqs[i], err = s.toRequest(b, kind); err != nil {
			s.writeError(w, errors.Wrapf(err, "request %d", i))
			return
		}
	}
	resps, err := s.service.AnalyzeBatch(r.Context(), reqs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"responses": resps})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var body analysisBody
	if err := decode(w, r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	req, err := s.toRequest(body, app.ChartNone)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp, err := s.service.Analyze(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(report.Markdown(resp.Result)))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(report.HTML(resp.Result))
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	recs, err := s.service.List(r.Context(), limit, offset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"analyses": recs})
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseAnalysisID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, errors.InvalidInput(err.Error()))
		return
	}
	rec, err := s.service.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// toRequest validates a body and merges chart settings onto the defaults.
func (s *Server) toRequest(body analysisBody, kind app.ChartKind) (app.AnalysisRequest, error) {
	var strategy significance.Strategy
	if body.Strategy != "" {
		st, err := significance.ParseStrategy(body.Strategy)
		if err != nil {
			return app.AnalysisRequest{}, err
		}
		strategy = st
	}
	if len(body.Series) == 0 && len(body.Rows) == 0 {
		return app.AnalysisRequest{}, errors.InvalidInput("request has no series or rows")
	}

	set := observation.FromSeries(body.Series)
	for _, row := range body.Rows {
		set.Add(row.Group, row.Category, row.Value)
	}

	req := app.AnalysisRequest{
		Observations: set,
		Strategy:     strategy,
		Chart:        kind,
		Baseline:     observation.Label(body.Baseline),
	}
	switch kind {
	case app.ChartBar:
		cfg := s.settings.Bar.Clone()
		if len(body.Bar) > 0 {
			if err := json.Unmarshal(body.Bar, &cfg); err != nil {
				return app.AnalysisRequest{}, errors.InvalidInput(fmt.Sprintf("bar settings: %v", err))
			}
		}
		req.Bar = &cfg
	case app.ChartLine:
		cfg := s.settings.Line.Clone()
		if len(body.Line) > 0 {
			if err := json.Unmarshal(body.Line, &cfg); err != nil {
				return app.AnalysisRequest{}, errors.InvalidInput(fmt.Sprintf("line settings: %v", err))
			}
		}
		req.Line = &cfg
	}
	return req, nil
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.InvalidInput(fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	appErr := errors.FromDomain(err)
	code := errors.GetCode(appErr)
	status := errors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "err", err)
	}
	writeJSON(w, status, errorBody{Code: code, Message: appErr.Error()})
}

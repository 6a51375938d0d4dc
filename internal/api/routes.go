// Package api exposes a planning session over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/philipobrien-sdm/StratOS/internal/analysis"
	"github.com/philipobrien-sdm/StratOS/internal/history"
	"github.com/philipobrien-sdm/StratOS/internal/project"
	"github.com/philipobrien-sdm/StratOS/internal/report"
	"github.com/philipobrien-sdm/StratOS/internal/session"
)

// maxBodyBytes bounds request bodies; imported documents are the largest.
const maxBodyBytes = 4 << 20

// RegisterRoutes mounts the session endpoints under /api on the given router.
// Version numbers in paths are 1-based.
func RegisterRoutes(r chi.Router, s *session.Session) {
	h := &handler{s: s}
	r.Route("/api", func(r chi.Router) {
		r.Route("/inputs", func(r chi.Router) {
			r.Get("/", h.getInputs)
			r.Put("/", h.replaceInputs)
			r.Put("/organization", h.setOrganization)
			r.Post("/sample", h.loadSample)
			r.Post("/import", h.importText)
			r.Post("/{list}", h.addRecord)
			r.Put("/{list}/{id}", h.updateRecord)
			r.Delete("/{list}/{id}", h.removeRecord)
		})

		r.Post("/analysis", h.runAnalysis)
		r.Get("/analysis", h.getAnalysis)

		r.Route("/versions", func(r chi.Router) {
			r.Get("/", h.listVersions)
			r.Get("/current", h.currentVersion)
			r.Get("/{n}", h.getVersion)
			r.Post("/{n}/load", h.loadVersion)
			r.Get("/{n}/diff/{b}", h.diff)
			r.Get("/{n}/report", h.report)
		})

		r.Post("/adopt/mitigation", h.adoptMitigation)
		r.Post("/adopt/strategy", h.adoptStrategy)

		r.Post("/plan", h.generatePlan)
		r.Get("/plan", h.getPlan)
	})
}

type handler struct {
	s *session.Session
}

// versionList is the body of GET /api/versions.
type versionList struct {
	Versions []history.Summary `json:"versions"`
	// Current is the 1-based number of the current version, 0 when empty.
	Current int `json:"current"`
}

type organizationRequest struct {
	Organization string `json:"organization"`
}

type importRequest struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

type importResponse struct {
	IDs []string `json:"ids"`
}

type mitigationRequest struct {
	// Risk is adopted as given; when it is nil RiskID is looked up in the
	// current analysis.
	Risk       *project.KnownRisk `json:"risk,omitempty"`
	RiskID     string             `json:"riskId,omitempty"`
	Mitigation string             `json:"mitigation"`
}

type strategyRequest struct {
	StakeholderID string `json:"stakeholderId"`
	Strategy      string `json:"strategy"`
}

type planRequest struct {
	Target string `json:"target"`
}

type diffResponse struct {
	From int    `json:"from"`
	To   int    `json:"to"`
	Diff string `json:"diff"`
}

func (h *handler) getInputs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.s.Inputs())
}

func (h *handler) replaceInputs(w http.ResponseWriter, r *http.Request) {
	in := project.New()
	if !decode(w, r, in) {
		return
	}
	if err := h.s.ReplaceInputs(r.Context(), in); err != nil {
		writeSessionError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.s.Inputs())
}

func (h *handler) setOrganization(w http.ResponseWriter, r *http.Request) {
	var req organizationRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.s.SetOrganization(r.Context(), req.Organization); err != nil {
		writeSessionError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.s.Inputs())
}

func (h *handler) loadSample(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.s.LoadSample(r.Context()))
}

func (h *handler) importText(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	ids, err := h.s.ImportText(r.Context(), req.Category, req.Text)
	if err != nil {
		writeSessionError(w, err, http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{IDs: ids})
}

func (h *handler) addRecord(w http.ResponseWriter, r *http.Request) {
	list, err := project.ParseList(chi.URLParam(r, "list"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := h.s.AddRecord(r.Context(), list)
	if err != nil {
		writeSessionError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *handler) updateRecord(w http.ResponseWriter, r *http.Request) {
	list, err := project.ParseList(chi.URLParam(r, "list"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id := chi.URLParam(r, "id")

	var apply func(in *project.Inputs) error
	switch list {
	case project.ListGoals:
		var g project.Goal
		if !decode(w, r, &g) {
			return
		}
		g.ID = id
		apply = func(in *project.Inputs) error { return in.UpdateGoal(g) }
	case project.ListStakeholders:
		var st project.Stakeholder
		if !decode(w, r, &st) {
			return
		}
		st.ID = id
		apply = func(in *project.Inputs) error { return in.UpdateStakeholder(st) }
	case project.ListDeliverables:
		var d project.Deliverable
		if !decode(w, r, &d) {
			return
		}
		d.ID = id
		apply = func(in *project.Inputs) error { return in.UpdateDeliverable(d) }
	case project.ListRisks:
		var kr project.KnownRisk
		if !decode(w, r, &kr) {
			return
		}
		kr.ID = id
		apply = func(in *project.Inputs) error { return in.UpdateRisk(kr) }
	}

	if err := h.s.Edit(r.Context(), string(list)+"/"+id, apply); err != nil {
		writeSessionError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.s.Inputs())
}

func (h *handler) removeRecord(w http.ResponseWriter, r *http.Request) {
	list, err := project.ParseList(chi.URLParam(r, "list"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.s.RemoveRecord(r.Context(), list, chi.URLParam(r, "id")); err != nil {
		writeSessionError(w, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) runAnalysis(w http.ResponseWriter, r *http.Request) {
	v, err := h.s.RunAnalysis(r.Context())
	if err != nil {
		writeSessionError(w, err, http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *handler) getAnalysis(w http.ResponseWriter, r *http.Request) {
	v, err := h.s.CurrentVersion()
	if err != nil {
		writeSessionError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, v.Analysis)
}

func (h *handler) listVersions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, versionList{
		Versions: h.s.Versions(),
		Current:  h.s.CurrentIndex() + 1,
	})
}

func (h *handler) currentVersion(w http.ResponseWriter, r *http.Request) {
	v, err := h.s.CurrentVersion()
	if err != nil {
		writeSessionError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *handler) getVersion(w http.ResponseWriter, r *http.Request) {
	idx, ok := versionIndex(w, r, "n")
	if !ok {
		return
	}
	v, err := h.s.Version(idx)
	if err != nil {
		writeSessionError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *handler) loadVersion(w http.ResponseWriter, r *http.Request) {
	idx, ok := versionIndex(w, r, "n")
	if !ok {
		return
	}
	in, err := h.s.LoadVersion(r.Context(), idx)
	if err != nil {
		writeSessionError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (h *handler) diff(w http.ResponseWriter, r *http.Request) {
	a, ok := versionIndex(w, r, "n")
	if !ok {
		return
	}
	b, ok := versionIndex(w, r, "b")
	if !ok {
		return
	}
	d, err := h.s.Diff(a, b)
	if err != nil {
		writeSessionError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, diffResponse{From: a + 1, To: b + 1, Diff: d})
}

func (h *handler) report(w http.ResponseWriter, r *http.Request) {
	idx, ok := versionIndex(w, r, "n")
	if !ok {
		return
	}
	v, err := h.s.Version(idx)
	if err != nil {
		writeSessionError(w, err, http.StatusInternalServerError)
		return
	}

	md, err := report.Compose(h.s, v)
	if err != nil {
		writeSessionError(w, err, http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("format") == "html" {
		page, err := report.HTML(report.Title(v), md)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(page))
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(md))
}

func (h *handler) adoptMitigation(w http.ResponseWriter, r *http.Request) {
	var req mitigationRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Mitigation) == "" {
		writeError(w, http.StatusBadRequest, "mitigation is required")
		return
	}
	if req.Risk != nil {
		writeJSON(w, http.StatusOK, h.s.AdoptMitigation(r.Context(), *req.Risk, req.Mitigation))
		return
	}
	if req.RiskID == "" {
		writeError(w, http.StatusBadRequest, "risk or riskId is required")
		return
	}
	out, err := h.s.AdoptSuggestedMitigation(r.Context(), req.RiskID, req.Mitigation)
	if err != nil {
		writeSessionError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) adoptStrategy(w http.ResponseWriter, r *http.Request) {
	var req strategyRequest
	if !decode(w, r, &req) {
		return
	}
	if req.StakeholderID == "" || strings.TrimSpace(req.Strategy) == "" {
		writeError(w, http.StatusBadRequest, "stakeholderId and strategy are required")
		return
	}
	writeJSON(w, http.StatusOK, h.s.AdoptStrategy(r.Context(), req.StakeholderID, req.Strategy))
}

func (h *handler) generatePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if !decode(w, r, &req) {
		return
	}
	plan, err := h.s.GenerateActionPlan(r.Context(), req.Target)
	if err != nil {
		writeSessionError(w, err, http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *handler) getPlan(w http.ResponseWriter, r *http.Request) {
	plan := h.s.ActionPlan()
	if plan == nil {
		writeError(w, http.StatusNotFound, "no action plan has been generated")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func versionIndex(w http.ResponseWriter, r *http.Request, param string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, param))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid version number %q", chi.URLParam(r, param)))
		return 0, false
	}
	return n - 1, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// statusFor maps session errors to HTTP status codes. Errors it does not
// recognize get fallback.
func statusFor(err error, fallback int) int {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.Is(err, analysis.ErrInvalidCategory), errors.Is(err, project.ErrInvalidInputs):
		return http.StatusBadRequest
	case errors.Is(err, history.ErrEmptyHistory), errors.Is(err, analysis.ErrPrecondition):
		return http.StatusConflict
	case errors.Is(err, history.ErrOutOfRange), errors.Is(err, project.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, analysis.ErrEmptyResponse), errors.Is(err, analysis.ErrMalformedResponse):
		return http.StatusBadGateway
	}
	return fallback
}

func writeSessionError(w http.ResponseWriter, err error, fallback int) {
	writeError(w, statusFor(err, fallback), err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

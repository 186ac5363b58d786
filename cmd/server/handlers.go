package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Simplici0/quotedoc/internal/document"
	"github.com/Simplici0/quotedoc/internal/generator"
	"github.com/Simplici0/quotedoc/internal/history"
	"github.com/Simplici0/quotedoc/internal/paginate"
	"github.com/Simplici0/quotedoc/internal/pricing"
	"github.com/Simplici0/quotedoc/internal/quote"
	"github.com/Simplici0/quotedoc/internal/settings"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type estimateRequest struct {
	Params   pricing.ProjectParameters `json:"params"`
	Settings json.RawMessage           `json:"settings,omitempty"`
}

type estimateResponse struct {
	Estimate pricing.Range `json:"estimate"`
}

type layoutRequest struct {
	document.Request
	Settings json.RawMessage `json:"settings,omitempty"`
}

type pageView struct {
	Number     int              `json:"number"`
	Kind       paginate.Kind    `json:"kind"`
	Items      []quote.LineItem `json:"items"`
	ShowTotals bool             `json:"showTotals"`
}

type layoutResponse struct {
	ClientName      string                 `json:"clientName"`
	Title           string                 `json:"title"`
	SettingsVersion int                    `json:"settingsVersion"`
	Estimate        pricing.Range          `json:"estimate"`
	Totals          quote.Totals           `json:"totals"`
	TotalPages      int                    `json:"totalPages"`
	Pages           []pageView             `json:"pages"`
	PriceMenu       []string               `json:"priceMenu"`
	CustomFields    []settings.CustomField `json:"customFields"`
	TotalsOverflow  bool                   `json:"totalsOverflow"`
}

type quotesResponse struct {
	Query  string           `json:"query"`
	Quotes []history.Record `json:"quotes"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// draftSettings merges an optional settings override over the defaults.
func draftSettings(raw json.RawMessage) (*settings.Settings, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	s, err := settings.Merge(raw)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	valid, err := s.auth.validateCredentials(email, password)
	if err != nil {
		s.log.Error("authentication error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "authentication error")
		return
	}
	if !valid {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	s.auth.setSessionCookie(w, email)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	current, err := s.settings.Get(r.Context())
	if err != nil {
		s.log.Error("failed to load pricing settings", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load pricing settings")
		return
	}
	writeJSON(w, http.StatusOK, current)
}

func (s *server) handleSettingsPut(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	next, err := settings.Merge(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := s.settings.Save(r.Context(), next)
	if errors.Is(err, settings.ErrInvalid) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.log.Error("failed to save pricing settings", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save pricing settings")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	draft, err := draftSettings(req.Settings)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	est, err := s.gen.Estimate(r.Context(), req.Params, draft)
	if err != nil {
		s.log.Error("estimate failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "estimate failed")
		return
	}
	writeJSON(w, http.StatusOK, estimateResponse{Estimate: est})
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	draft, err := draftSettings(req.Settings)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := s.gen.Layout(r.Context(), req.Request, draft)
	if err != nil {
		s.log.Error("layout failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "layout failed")
		return
	}
	writeJSON(w, http.StatusOK, newLayoutResponse(doc))
}

func newLayoutResponse(doc document.Document) layoutResponse {
	resp := layoutResponse{
		ClientName:      doc.ClientName,
		Title:           doc.Title,
		SettingsVersion: doc.SettingsVersion,
		Estimate:        doc.Estimate,
		Totals:          doc.Totals,
		TotalPages:      doc.TotalPages(),
		Pages:           make([]pageView, 0, len(doc.Pages)),
		PriceMenu:       doc.PriceMenu,
		CustomFields:    doc.CustomFields,
		TotalsOverflow:  doc.TotalsOverflow,
	}
	for _, p := range doc.Pages {
		resp.Pages = append(resp.Pages, pageView{
			Number:     p.Number,
			Kind:       p.Kind,
			Items:      p.Items,
			ShowTotals: p.ShowTotals,
		})
	}
	return resp
}

func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req document.Request
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	ctx := r.Context()
	if s.exportTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.exportTimeout)
		defer cancel()
	}

	art, err := s.gen.Export(ctx, req)
	switch {
	case errors.Is(err, generator.ErrNoExporter):
		writeError(w, http.StatusServiceUnavailable, "export is not available")
		return
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "export timed out")
		return
	case err != nil:
		s.log.Error("export failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": art.Record.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(art.Result.Len()))
	w.Header().Set("X-Quote-ID", art.Record.PublicID)
	w.WriteHeader(http.StatusOK)
	if _, err := art.Result.WriteTo(w); err != nil {
		s.log.Warn("failed to write export response", zap.Error(err))
	}
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	quotes, err := s.gen.History.List(r.Context(), query)
	if err != nil {
		s.log.Error("failed to load quotes", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load quotes")
		return
	}

	writeJSON(w, http.StatusOK, quotesResponse{
		Query:  query,
		Quotes: quotes,
	})
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Simplici0/quotedoc/internal/db"
	"github.com/Simplici0/quotedoc/internal/document"
	"github.com/Simplici0/quotedoc/internal/export"
	"github.com/Simplici0/quotedoc/internal/generator"
	"github.com/Simplici0/quotedoc/internal/history"
	"github.com/Simplici0/quotedoc/internal/migrations"
	"github.com/Simplici0/quotedoc/internal/seed"
	"github.com/Simplici0/quotedoc/internal/settings"
	"github.com/Simplici0/quotedoc/internal/storage"
)

const (
	testAdminEmail    = "admin@quotedoc.test"
	testAdminPassword = "12345"
)

type blankRasterizer struct{}

func (blankRasterizer) Rasterize(context.Context, string) ([]byte, error) {
	var buf bytes.Buffer
	err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 6)))
	return buf.Bytes(), err
}

func newTestServer(t *testing.T) *server {
	t.Helper()

	database, err := db.Open(db.Memory)
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := migrations.Up(database); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	if _, err := seed.Run(database, seed.Config{AdminEmail: testAdminEmail, AdminPassword: testAdminPassword}); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	sink, err := storage.NewLocalSink(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	store := settings.NewStore(database, nil)
	return &server{
		auth:     newAuthService(database, "test-secret"),
		db:       database,
		settings: store,
		gen: &generator.Generator{
			Settings: store,
			Exporter: export.NewExporter(blankRasterizer{}, nil),
			Sink:     sink,
			History:  history.NewRepo(database),
			Prefix:   "quote",
			Options:  document.DefaultOptions(),
		},
		log:           zap.NewNop(),
		exportTimeout: 5 * time.Second,
	}
}

func (s *server) do(t *testing.T, method, path string, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: s.auth.createSessionValue(testAdminEmail)})
	}
	rr := httptest.NewRecorder()
	s.routes().ServeHTTP(rr, req)
	return rr
}

func TestRoutesRequireSession(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/quotes", "/admin/settings"} {
		rr := srv.do(t, http.MethodGet, path, "", false)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("GET %s: expected status 401, got %d", path, rr.Code)
		}
	}

	rr := srv.do(t, http.MethodGet, "/healthz", "", false)
	if rr.Code != http.StatusOK {
		t.Fatalf("healthz: expected status 200, got %d", rr.Code)
	}
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name     string
		password string
		want     int
	}{
		{"valid", testAdminPassword, http.StatusNoContent},
		{"wrong password", "nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{}
			form.Set("email", testAdminEmail)
			form.Set("password", tt.password)

			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rr := httptest.NewRecorder()
			srv.routes().ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Fatalf("expected status %d, got %d", tt.want, rr.Code)
			}
			gotCookie := false
			for _, c := range rr.Result().Cookies() {
				if c.Name == sessionCookieName && c.Value != "" {
					gotCookie = true
				}
			}
			if gotCookie != (tt.want == http.StatusNoContent) {
				t.Fatalf("session cookie set=%v for status %d", gotCookie, rr.Code)
			}
		})
	}
}

func TestVerifySessionValueRejectsTampering(t *testing.T) {
	auth := newAuthService(nil, "secret")
	value := auth.createSessionValue(testAdminEmail)

	if email, ok := auth.verifySessionValue(value); !ok || email != testAdminEmail {
		t.Fatalf("expected valid session, got %q %v", email, ok)
	}
	if _, ok := auth.verifySessionValue("x" + value); ok {
		t.Fatal("expected tampered payload to be rejected")
	}
	if _, ok := newAuthService(nil, "other").verifySessionValue(value); ok {
		t.Fatal("expected foreign signature to be rejected")
	}
}

func TestSettingsPut(t *testing.T) {
	srv := newTestServer(t)

	rr := srv.do(t, http.MethodPut, "/admin/settings", `{"vatPercent": 150}`, true)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = srv.do(t, http.MethodPut, "/admin/settings", `{"vatPercent": 19}`, true)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var saved settings.Settings
	if err := json.Unmarshal(rr.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if saved.Version != 2 || saved.VATPercent != 19 {
		t.Fatalf("unexpected saved settings: version=%d vat=%v", saved.Version, saved.VATPercent)
	}

	rr = srv.do(t, http.MethodGet, "/admin/settings", "", true)
	if !strings.Contains(rr.Body.String(), `"vatPercent":19`) {
		t.Fatalf("expected stored VAT, got %s", rr.Body.String())
	}
}

func TestEstimate(t *testing.T) {
	srv := newTestServer(t)

	body := `{"params": {"blocks": {"min": 15, "max": 30}, "style": "fancy"}}`
	rr := srv.do(t, http.MethodPost, "/quotes/estimate", body, true)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp estimateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Estimate.Min != 600000 || resp.Estimate.Max != 720000 {
		t.Fatalf("unexpected estimate %+v", resp.Estimate)
	}
}

func TestEstimateRejectsUnknownNote(t *testing.T) {
	srv := newTestServer(t)

	body := `{"params": {"blocks": {"min": 1, "max": 5}, "notes": ["seo"]}}`
	rr := srv.do(t, http.MethodPost, "/quotes/estimate", body, true)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestLayout(t *testing.T) {
	srv := newTestServer(t)

	body := `{
		"clientName": "Tienda Luna",
		"params": {"blocks": {"min": 5, "max": 5}, "style": "normal", "features": ["board"]},
		"manualItems": [
			{"description": "Logo refresh", "type": "fixed", "unitPrice": 150000},
			{"description": "   ", "type": "fixed", "unitPrice": 1}
		]
	}`
	rr := srv.do(t, http.MethodPost, "/quotes/layout", body, true)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp layoutResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.TotalPages != 1 || len(resp.Pages) != 1 || !resp.Pages[0].ShowTotals {
		t.Fatalf("unexpected pages %+v", resp.Pages)
	}
	items := resp.Pages[0].Items
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[2].Description != "Logo refresh" {
		t.Fatalf("manual item should follow generated items, got %q", items[2].Description)
	}
	// 200,000 pages + 100,000 board + 150,000 manual.
	if resp.Totals.Subtotal.Min != 450000 {
		t.Fatalf("unexpected subtotal %+v", resp.Totals.Subtotal)
	}
}

func TestLayoutRejectsBadItems(t *testing.T) {
	srv := newTestServer(t)

	for _, item := range []string{
		`{"description": "x", "type": "bogus"}`,
		`{"description": "x", "type": "text", "unitPrice": 5}`,
		`{"description": "x", "type": "fixed", "unitPrice": 5, "total": 5}`,
	} {
		body := `{"params": {"blocks": {"min": 1, "max": 1}}, "manualItems": [` + item + `]}`
		rr := srv.do(t, http.MethodPost, "/quotes/layout", body, true)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("item %s: expected status 400, got %d", item, rr.Code)
		}
	}
}

func TestExportReturnsPDFAndRecordsQuote(t *testing.T) {
	srv := newTestServer(t)

	body := `{
		"clientName": "Tienda Luna",
		"title": "Online store",
		"issuedAt": "2026-03-05T09:00:00Z",
		"params": {"blocks": {"min": 5, "max": 10}, "style": "normal"}
	}`
	rr := srv.do(t, http.MethodPost, "/quotes/export", body, true)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", ct)
	}
	if !strings.Contains(rr.Header().Get("Content-Disposition"), "quote_Tienda_Luna_20260305.pdf") {
		t.Fatalf("unexpected disposition %q", rr.Header().Get("Content-Disposition"))
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF-")) {
		t.Fatal("body is not a PDF")
	}
	id := rr.Header().Get("X-Quote-ID")
	if id == "" {
		t.Fatal("missing X-Quote-ID header")
	}

	rr = srv.do(t, http.MethodGet, "/quotes?q=Luna", "", true)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var list quotesResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Quotes) != 1 || list.Quotes[0].PublicID != id {
		t.Fatalf("unexpected quotes %+v", list.Quotes)
	}
}

func TestExportUnavailableWithoutBrowser(t *testing.T) {
	srv := newTestServer(t)
	srv.gen.Exporter = nil

	rr := srv.do(t, http.MethodPost, "/quotes/export", `{"params": {}}`, true)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"joinfeed/internal/platform/config"
	phttp "joinfeed/internal/platform/net/http"
	"joinfeed/internal/services/fresh/domain"
	freshmod "joinfeed/internal/services/fresh/module"
)

type fakeReader struct {
	fresh  domain.FreshPayload
	status domain.StatusPayload
}

func (f *fakeReader) Fresh(context.Context) domain.FreshPayload   { return f.fresh }
func (f *fakeReader) Status(context.Context) domain.StatusPayload { return f.status }

type fakeDebug struct{}

func (fakeDebug) Extract(_ context.Context, text string) domain.ExtractResult {
	if strings.Contains(text, "AbCdEfGh12345678") {
		return domain.ExtractResult{Found: 1, Identifiers: []string{"AbCdEfGh12345678"}}
	}
	return domain.ExtractResult{Found: 0, Identifiers: []string{}}
}

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()
	reader := &fakeReader{
		fresh: domain.FreshPayload{
			Success:   true,
			Count:     1,
			Items:     []domain.Item{{Identifier: "AbCdEfGh12345678", AgeSeconds: 3, Source: "relay"}},
			Timestamp: 1756400000000,
		},
		status: domain.StatusPayload{Instance: "test", Mode: "lazy"},
	}
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	Mount(r, Options{
		Config: config.New(),
		Fresh:  freshmod.Ports{Reader: reader, Debug: fakeDebug{}},
	})
	return mux
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestAPI_Fresh(t *testing.T) {
	h := newTestAPI(t)
	rec := get(t, h, "/fresh")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-cache, no-store, must-revalidate" {
		t.Fatalf("Cache-Control = %q", cc)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, leaked := body["status_code"]; leaked {
		t.Fatalf("feed response must not carry the envelope: %s", rec.Body.String())
	}
	if body["success"] != true || body["count"] != float64(1) {
		t.Fatalf("body = %s", rec.Body.String())
	}
	items := body["items"].([]any)
	first := items[0].(map[string]any)
	if first["identifier"] != "AbCdEfGh12345678" {
		t.Fatalf("items[0] = %v", first)
	}
}

func TestAPI_Health(t *testing.T) {
	h := newTestAPI(t)
	rec := get(t, h, "/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		OK        bool  `json:"ok"`
		Timestamp int64 `json:"timestamp"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.OK || body.Timestamp == 0 {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestAPI_Status(t *testing.T) {
	h := newTestAPI(t)
	rec := get(t, h, "/status")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body domain.StatusPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Instance != "test" || body.Mode != "lazy" {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestAPI_DebugExtract(t *testing.T) {
	h := newTestAPI(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/debug/extract",
		strings.NewReader(`{"text":"Job ID: AbCdEfGh12345678"}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}
	var body domain.ExtractResult
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Found != 1 || body.Identifiers[0] != "AbCdEfGh12345678" {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestAPI_DebugExtractRejectsMissingText(t *testing.T) {
	h := newTestAPI(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/debug/extract", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for missing text", rec.Code)
	}
}

func TestAPI_NotFoundListsEndpoints(t *testing.T) {
	h := newTestAPI(t)
	rec := get(t, h, "/definitely/not/here")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Error     string   `json:"error"`
		Endpoints []string `json:"endpoints"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "not found" || len(body.Endpoints) == 0 {
		t.Fatalf("body = %s", rec.Body.String())
	}
	found := false
	for _, e := range body.Endpoints {
		if e == "/fresh" {
			found = true
		}
	}
	if !found {
		t.Fatalf("endpoint catalog missing /fresh: %v", body.Endpoints)
	}
}

func TestAPI_MetaEndpoints(t *testing.T) {
	h := newTestAPI(t)

	for _, path := range []string{"/meta/ready", "/meta/version", "/meta/service"} {
		rec := get(t, h, path)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d body %s", path, rec.Code, rec.Body.String())
		}
	}
}

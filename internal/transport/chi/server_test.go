package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/kbsearch/internal/domain"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/hit"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/request"
	healthuc "github.com/kailas-cloud/kbsearch/internal/usecase/health"
)

type fakeSearcher struct {
	hits []hit.Hit
	err  error
	got  *request.Request
}

func (f *fakeSearcher) Search(_ context.Context, req *request.Request) ([]hit.Hit, error) {
	f.got = req
	return f.hits, f.err
}

type fakeHealth struct {
	report healthuc.Report
}

func (f *fakeHealth) Check(context.Context) healthuc.Report { return f.report }

func newTestRouter(s Searcher, h HealthChecker) http.Handler {
	r := chi.NewRouter()
	r.Use(Recoverer(zap.NewNop()))
	NewServer(s, h, zap.NewNop()).Register(r)
	return r
}

func postSearch(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

func TestSearch_OK(t *testing.T) {
	s := &fakeSearcher{hits: []hit.Hit{
		hit.New("k1", "Ramps", "Ramp at gate A", 0.91,
			map[string]any{hit.MetaChunkIndex: 0}, hit.KnowledgeBase),
	}}
	rr := postSearch(t, newTestRouter(s, &fakeHealth{}),
		`{"query":"wheelchair ramp","topK":3,"organizationId":"org-1","useHybrid":false}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	var resp SearchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(resp.Results))
	}
	got := resp.Results[0]
	if got.KnowledgeID != "k1" || got.Title != "Ramps" || got.Provenance != "knowledge-base" {
		t.Errorf("unexpected hit: %+v", got)
	}
	if got.Score != 0.91 {
		t.Errorf("score = %v, want 0.91", got.Score)
	}

	if s.got.TopK() != 3 {
		t.Errorf("topK = %d, want 3", s.got.TopK())
	}
	if s.got.Hybrid() {
		t.Error("useHybrid=false must reach the service")
	}
	if org := s.got.Scope().OrganizationID; org == nil || *org != "org-1" {
		t.Errorf("organization scope = %v, want org-1", org)
	}
	if s.got.Scope().EventID != nil {
		t.Error("absent eventId must mean no event restriction")
	}
}

func TestSearch_Defaults(t *testing.T) {
	s := &fakeSearcher{}
	rr := postSearch(t, newTestRouter(s, &fakeHealth{}), `{"query":"parking","eventId":""}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !s.got.Hybrid() {
		t.Error("hybrid must default to true")
	}
	if s.got.TopK() != request.DefaultTopK {
		t.Errorf("topK = %d, want %d", s.got.TopK(), request.DefaultTopK)
	}
	if s.got.Scope().EventID != nil {
		t.Error("empty eventId must mean no event restriction")
	}

	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(resp["results"]) != "[]" {
		t.Errorf("results = %s, want []", resp["results"])
	}
}

func TestSearch_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		code ErrorCode
	}{
		{"malformed json", `{"query":`, ErrorCodeBadRequest},
		{"unknown field", `{"query":"x","limit":3}`, ErrorCodeBadRequest},
		{"empty query", `{"query":"   "}`, ErrorCodeValidationFailed},
		{"missing query", `{}`, ErrorCodeValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &fakeSearcher{}
			rr := postSearch(t, newTestRouter(s, &fakeHealth{}), tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
			}
			if resp := decodeError(t, rr); resp.Code != tt.code {
				t.Errorf("code = %q, want %q", resp.Code, tt.code)
			}
			if s.got != nil {
				t.Error("service must not be called for an invalid request")
			}
		})
	}
}

func TestSearch_DomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   ErrorCode
	}{
		{"canceled", domain.Canceled(context.Canceled), http.StatusRequestTimeout, ErrorCodeRequestCanceled},
		{"keyword failure", fmt.Errorf("%w: connection reset", domain.ErrKeywordQuery),
			http.StatusServiceUnavailable, ErrorCodeSearchUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, ErrorCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postSearch(t, newTestRouter(&fakeSearcher{err: tt.err}, &fakeHealth{}), `{"query":"q"}`)
			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
			resp := decodeError(t, rr)
			if resp.Code != tt.code {
				t.Errorf("code = %q, want %q", resp.Code, tt.code)
			}
			if strings.Contains(resp.Message, "connection reset") || strings.Contains(resp.Message, "boom") {
				t.Errorf("message leaks internals: %q", resp.Message)
			}
		})
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name   string
		status healthuc.Status
		want   int
	}{
		{"healthy", healthuc.Healthy, http.StatusOK},
		{"degraded", healthuc.Degraded, http.StatusOK},
		{"unhealthy", healthuc.Unhealthy, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &fakeHealth{report: healthuc.Report{
				Status: tt.status,
				Checks: map[string]healthuc.CheckResult{healthuc.ComponentDatabase: healthuc.CheckOK},
			}}
			req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
			rr := httptest.NewRecorder()
			newTestRouter(&fakeSearcher{}, h).ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Fatalf("status = %d, want %d", rr.Code, tt.want)
			}
			var resp HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != string(tt.status) {
				t.Errorf("status = %q, want %q", resp.Status, tt.status)
			}
			if resp.Checks[healthuc.ComponentDatabase] != "ok" {
				t.Errorf("checks = %v", resp.Checks)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rr := httptest.NewRecorder()
	newTestRouter(&fakeSearcher{}, &fakeHealth{}).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !strings.Contains(rr.Body.String(), "go_goroutines") {
		t.Error("expected default go collector output")
	}
}

type panicSearcher struct{}

func (panicSearcher) Search(context.Context, *request.Request) ([]hit.Hit, error) {
	panic("unexpected")
}

func TestRecoverer(t *testing.T) {
	rr := postSearch(t, newTestRouter(panicSearcher{}, &fakeHealth{}), `{"query":"q"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if resp := decodeError(t, rr); resp.Code != ErrorCodeInternalError {
		t.Errorf("code = %q, want %q", resp.Code, ErrorCodeInternalError)
	}
}

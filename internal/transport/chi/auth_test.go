package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serveAuth(keys []string, path, header string) *httptest.ResponseRecorder {
	handler := BearerAuthMiddleware(keys)(okHandler())
	req := httptest.NewRequest(http.MethodPost, path, http.NoBody)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestAuthMiddleware_NoKeys_PassThrough(t *testing.T) {
	for _, keys := range [][]string{nil, {"", ""}} {
		rr := serveAuth(keys, "/v1/search", "")
		if rr.Code != http.StatusOK {
			t.Errorf("keys %q: got %d, want %d", keys, rr.Code, http.StatusOK)
		}
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
		msg    string
	}{
		{"missing header", "", "missing authorization header"},
		{"basic scheme", "Basic c2VjcmV0", "authorization header must use Bearer scheme"},
		{"wrong key", "Bearer wrong", "invalid api key"},
		{"empty token", "Bearer ", "invalid api key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serveAuth([]string{"secret"}, "/v1/search", tt.header)
			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("got %d, want %d", rr.Code, http.StatusUnauthorized)
			}
			var resp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if resp.Code != ErrorCodeUnauthorized {
				t.Errorf("code = %q, want %q", resp.Code, ErrorCodeUnauthorized)
			}
			if resp.Message != tt.msg {
				t.Errorf("message = %q, want %q", resp.Message, tt.msg)
			}
		})
	}
}

func TestAuthMiddleware_ValidKey(t *testing.T) {
	keys := []string{"key-a", "key-b"}
	for _, k := range keys {
		rr := serveAuth(keys, "/v1/search", "Bearer "+k)
		if rr.Code != http.StatusOK {
			t.Errorf("key %q: got %d, want %d", k, rr.Code, http.StatusOK)
		}
	}
}

func TestAuthMiddleware_PublicPaths(t *testing.T) {
	for _, path := range []string{"/health", "/metrics"} {
		rr := serveAuth([]string{"secret"}, path, "")
		if rr.Code != http.StatusOK {
			t.Errorf("%s: got %d, want %d", path, rr.Code, http.StatusOK)
		}
	}
}

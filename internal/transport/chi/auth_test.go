package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func authProtected(keys []string) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return BearerAuthMiddleware(keys)(ok)
}

func doGet(h http.Handler, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBearerAuth_DisabledWithoutKeys(t *testing.T) {
	h := authProtected(nil)
	if rec := doGet(h, "/api/v1/articles/search", ""); rec.Code != http.StatusOK {
		t.Errorf("expected pass-through, got %d", rec.Code)
	}
}

func TestBearerAuth_ValidKey(t *testing.T) {
	h := authProtected([]string{"secret"})
	if rec := doGet(h, "/api/v1/articles/search", "Bearer secret"); rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestBearerAuth_Rejections(t *testing.T) {
	h := authProtected([]string{"secret"})

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic secret",
		"wrong key":      "Bearer nope",
	}
	for name, header := range cases {
		if rec := doGet(h, "/api/v1/articles/search", header); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", name, rec.Code)
		}
	}
}

func TestBearerAuth_ExemptPaths(t *testing.T) {
	h := authProtected([]string{"secret"})

	for _, path := range []string{"/health", "/metrics"} {
		if rec := doGet(h, path, ""); rec.Code != http.StatusOK {
			t.Errorf("%s: expected exemption, got %d", path, rec.Code)
		}
	}
}

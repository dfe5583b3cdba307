package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/casa80eventos/casa80-backend/pkg/config"
)

func testConfig(env string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: env},
		JWT: config.JWTConfig{Secret: "test-secret", Issuer: "casa80-test", ExpirationMinutes: 5},
	}
}

func TestHealthLive(t *testing.T) {
	router := NewRouter(Deps{Config: testConfig("test")})

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := NewRouter(Deps{Config: testConfig("test")})

	paths := []string{
		"/api/v1/products",
		"/api/v1/events",
		"/api/v1/clients",
		"/api/v1/dashboard/stats",
		"/api/v1/inventory/damages",
		"/api/v1/exports/events",
		"/api/admin/v1/users",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s, got %d", path, rec.Code)
		}
	}
}

func TestDebugRoutesHiddenInProduction(t *testing.T) {
	prod := NewRouter(Deps{Config: testConfig("prod")})
	req := httptest.NewRequest(http.MethodPost, "/api/debug/seed", nil)
	rec := httptest.NewRecorder()
	prod.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 in production, got %d", rec.Code)
	}

	dev := NewRouter(Deps{Config: testConfig("dev")})
	rec = httptest.NewRecorder()
	dev.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/debug/seed", nil))
	if rec.Code == http.StatusNotFound {
		t.Fatalf("expected debug route registered outside production, got 404")
	}
}

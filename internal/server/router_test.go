package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"invoicely/internal/models"
)

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Client{}, &models.Product{}, &models.Invoice{}, &models.LineItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db)
}

func TestHealthEndpoints(t *testing.T) {
	h := setupRouter(t)

	for _, path := range []string{"/health", "/healthz"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, w.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode: %v", path, err)
		}
		if body["status"] != "ok" {
			t.Fatalf("%s: status = %q", path, body["status"])
		}
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := setupRouter(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodDelete, "/invoices"},
		{http.MethodPost, "/invoices/get"},
		{http.MethodGet, "/invoices/transition"},
		{http.MethodPut, "/clients"},
		{http.MethodPost, "/products"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s: expected 405 got %d", tt.method, tt.path, w.Code)
		}
		if allow := w.Header().Get("Allow"); allow == "" {
			t.Fatalf("%s %s: missing Allow header", tt.method, tt.path)
		}
	}
}

func TestRoutesServeJSON(t *testing.T) {
	h := setupRouter(t)

	for _, path := range []string{"/invoices", "/clients", "/products"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d body=%s", path, w.Code, w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Fatalf("%s: content-type = %q", path, ct)
		}
		var body struct {
			Items []json.RawMessage `json:"items"`
			Total int               `json:"total"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode: %v", path, err)
		}
		if body.Total != 0 || len(body.Items) != 0 {
			t.Fatalf("%s: expected empty collection, got %s", path, w.Body.String())
		}
	}
}

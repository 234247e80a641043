package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"invoicely/internal/currency"
	"invoicely/internal/models"
	"invoicely/internal/services"
	"invoicely/internal/store"
)

func setupInvoiceHandler(t *testing.T) (*InvoiceHandler, *store.Store) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Client{}, &models.Product{}, &models.Invoice{}, &models.LineItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	st := store.New(db)
	return NewInvoiceHandler(services.NewInvoiceService(st), st), st
}

func submittableInvoice(number string) models.Invoice {
	inv := models.NewInvoice(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	inv.Title = "June retainer"
	inv.Number = number
	inv.Client = models.Client{ID: "client-1", Name: "Acme", Email: "billing@acme.test", Phone: "123456789"}
	item := models.NewLineItem(models.ItemTypeService, currency.USD)
	item.Description = "Consulting"
	item.SetPrice(10)
	item.SetQuantity(3)
	inv.Services = []models.LineItem{item}
	inv.Subtotal = 30
	inv.TaxTotal = 0
	inv.Total = 30
	return inv
}

func postInvoice(t *testing.T, h *InvoiceHandler, inv models.Invoice) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(inv)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/invoices", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	return w
}

func TestInvoiceCreateAndGetJSON(t *testing.T) {
	h, _ := setupInvoiceHandler(t)

	w := postInvoice(t, h, submittableInvoice("INV151234"))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created models.Invoice
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("missing id in response: %s", w.Body.String())
	}

	getReq := httptest.NewRequest(http.MethodGet, "/invoices/get?id="+created.ID, nil)
	getW := httptest.NewRecorder()
	h.Get(getW, getReq)
	if getW.Code != http.StatusOK {
		t.Fatalf("get expected 200 got %d body=%s", getW.Code, getW.Body.String())
	}
	var got models.Invoice
	if err := json.Unmarshal(getW.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode get: %v", err)
	}
	if got.Number != "INV151234" || len(got.Services) != 1 {
		t.Fatalf("unexpected invoice: %+v", got)
	}
}

func TestInvoiceCreateRejectsInvalid(t *testing.T) {
	h, st := setupInvoiceHandler(t)

	inv := submittableInvoice("INV151234")
	inv.Title = ""
	inv.Total = 999 // breaks the total cross-check too

	w := postInvoice(t, h, inv)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Error   string           `json:"error"`
		Details []map[string]any `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "validation_failed" {
		t.Fatalf("error = %q, want validation_failed", resp.Error)
	}
	if len(resp.Details) < 2 {
		t.Fatalf("expected issues for title and total, got %v", resp.Details)
	}

	// the gate is atomic: nothing reached the store
	invs, err := st.FetchInvoices(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(invs) != 0 {
		t.Fatalf("rejected invoice was persisted: %d rows", len(invs))
	}
}

func TestInvoiceListWithBucketFilter(t *testing.T) {
	h, _ := setupInvoiceHandler(t)

	numbers := map[string]models.Status{
		"INV151111": models.StatusDraft,
		"INV152222": models.StatusSent,
		"INV153333": models.StatusPaid,
	}
	for number, status := range numbers {
		inv := submittableInvoice(number)
		inv.Status = status
		if w := postInvoice(t, h, inv); w.Code != http.StatusCreated {
			t.Fatalf("seed %s: %d body=%s", number, w.Code, w.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/invoices?bucket=unpaid", nil)
	w := httptest.NewRecorder()
	h.List(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var list struct {
		Items []models.Invoice `json:"items"`
		Total int              `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Total != 1 || len(list.Items) != 1 || list.Items[0].Number != "INV152222" {
		t.Fatalf("unexpected list: %s", w.Body.String())
	}
}

func TestInvoiceListRejectsBadFilter(t *testing.T) {
	h, _ := setupInvoiceHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/invoices?bucket=bogus&min_total=abc", nil)
	w := httptest.NewRecorder()
	h.List(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestInvoiceTransition(t *testing.T) {
	h, _ := setupInvoiceHandler(t)

	w := postInvoice(t, h, submittableInvoice("INV151234"))
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d", w.Code)
	}
	var created models.Invoice
	_ = json.Unmarshal(w.Body.Bytes(), &created)

	// draft -> sent is always legal
	req := httptest.NewRequest(http.MethodPost, "/invoices/transition?id="+created.ID+"&to=sent", nil)
	tw := httptest.NewRecorder()
	h.Transition(tw, req)
	if tw.Code != http.StatusOK {
		t.Fatalf("transition expected 200 got %d body=%s", tw.Code, tw.Body.String())
	}
	var after models.Invoice
	if err := json.Unmarshal(tw.Body.Bytes(), &after); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if after.Status != models.StatusSent {
		t.Fatalf("status = %s, want sent", after.Status)
	}

	// sent -> draft is never legal
	badReq := httptest.NewRequest(http.MethodPost, "/invoices/transition?id="+created.ID+"&to=draft", nil)
	bw := httptest.NewRecorder()
	h.Transition(bw, badReq)
	if bw.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d body=%s", bw.Code, bw.Body.String())
	}

	// unknown target status is a client error, not a conflict
	unkReq := httptest.NewRequest(http.MethodPost, "/invoices/transition?id="+created.ID+"&to=frozen", nil)
	uw := httptest.NewRecorder()
	h.Transition(uw, unkReq)
	if uw.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", uw.Code)
	}
}

func TestInvoiceNumberEndpoint(t *testing.T) {
	h, _ := setupInvoiceHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/invoices/number", nil)
	w := httptest.NewRecorder()
	h.Number(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp["number"]) < 8 || resp["number"][:3] != "INV" {
		t.Fatalf("unexpected number %q", resp["number"])
	}
}

package services

import (
	"strings"
	"testing"
	"time"

	"invoicely/internal/models"
	"invoicely/internal/validation"
)

func validClient() models.Client {
	return models.Client{ID: "c-1", Name: "ClientCo", Email: "billing@clientco.test", Phone: "0123456789"}
}

// validInvoice builds a document that passes the whole gate.
func validInvoice(t *testing.T) models.Invoice {
	t.Helper()
	svc := NewInvoiceService(nil)
	inv := models.NewInvoice(time.Now())
	inv.Title = "June retainer"
	inv.Number = "INV151234"
	inv.Client = validClient()
	inv.Services = []models.LineItem{usdItem(10, 3)}
	inv.TaxRate = 10
	inv.Discount = 5
	svc.Recalculate(&inv)
	return inv
}

func hasIssue(issues []validation.Issue, path string) bool {
	for _, is := range issues {
		if is.Path == path {
			return true
		}
	}
	return false
}

func TestValidate_ValidInvoice(t *testing.T) {
	svc := NewInvoiceService(nil)
	inv := validInvoice(t)
	if issues := svc.Validate(&inv); len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
}

func TestValidate_AccumulatesAcrossFields(t *testing.T) {
	svc := NewInvoiceService(nil)
	inv := validInvoice(t)
	inv.Client.ID = ""     // no client selected
	inv.Subtotal += 10     // stale subtotal
	issues := svc.Validate(&inv)

	// Both problems must surface; the validator never stops at the first.
	if !hasIssue(issues, "client") {
		t.Errorf("missing client issue: %+v", issues)
	}
	if !hasIssue(issues, "subtotal") {
		t.Errorf("missing subtotal issue: %+v", issues)
	}
	if len(issues) < 2 {
		t.Fatalf("expected at least 2 issues, got %d", len(issues))
	}
}

func TestValidate_DerivedTotalCrossChecks(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Invoice)
		path   string
	}{
		{"stale subtotal", func(inv *models.Invoice) { inv.Subtotal += 0.02 }, "subtotal"},
		{"stale tax", func(inv *models.Invoice) { inv.TaxTotal += 1 }, "taxTotal"},
		{"stale total", func(inv *models.Invoice) { inv.Total -= 0.5 }, "total"},
	}
	svc := NewInvoiceService(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := validInvoice(t)
			tt.mutate(&inv)
			issues := svc.Validate(&inv)
			if !hasIssue(issues, tt.path) {
				t.Fatalf("expected %s issue, got %+v", tt.path, issues)
			}
		})
	}
}

func TestValidate_ToleranceOnTotals(t *testing.T) {
	svc := NewInvoiceService(nil)
	inv := validInvoice(t)
	inv.Subtotal += 0.009 // inside the 0.01 window
	if issues := svc.Validate(&inv); hasIssue(issues, "subtotal") {
		t.Fatalf("drift within tolerance should pass, got %+v", issues)
	}
}

func TestValidate_LineItems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.LineItem)
		path   string
	}{
		{"usd price below floor", func(li *models.LineItem) { li.SetPrice(0.05) }, "services[0].price"},
		{"missing description", func(li *models.LineItem) { li.Description = "" }, "services[0].description"},
		{"zero quantity", func(li *models.LineItem) { li.SetQuantity(0) }, "services[0].quantity"},
		{"product-backed item without product", func(li *models.LineItem) { li.Type = models.ItemTypeItem }, "services[0].productId"},
		{"amount drifts from price times quantity", func(li *models.LineItem) { li.Amount += 0.001 }, "services[0].amount"},
	}
	svc := NewInvoiceService(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := validInvoice(t)
			tt.mutate(&inv.Services[0])
			svc.Recalculate(&inv)
			issues := svc.Validate(&inv)
			if !hasIssue(issues, tt.path) {
				t.Fatalf("expected issue at %s, got %+v", tt.path, issues)
			}
		})
	}
}

func TestValidate_EGPPriceFloor(t *testing.T) {
	svc := NewInvoiceService(nil)
	inv := validInvoice(t)
	inv.Services = []models.LineItem{egpItem(4.5, 1)}
	svc.Recalculate(&inv)
	issues := svc.Validate(&inv)
	if !hasIssue(issues, "services[0].price") {
		t.Fatalf("4.5 EGP is below the 5 EGP floor, got %+v", issues)
	}

	inv.Services = []models.LineItem{egpItem(5, 1)}
	svc.Recalculate(&inv)
	if issues := svc.Validate(&inv); hasIssue(issues, "services[0].price") {
		t.Fatalf("5 EGP should pass the floor, got %+v", issues)
	}
}

func TestValidate_RequiresLineItems(t *testing.T) {
	svc := NewInvoiceService(nil)
	inv := validInvoice(t)
	inv.Services = nil
	svc.Recalculate(&inv)
	issues := svc.Validate(&inv)
	if !hasIssue(issues, "services") {
		t.Fatalf("expected services issue, got %+v", issues)
	}
}

func TestValidate_ClientContactFields(t *testing.T) {
	svc := NewInvoiceService(nil)
	inv := validInvoice(t)
	inv.Client.Email = "not-an-email"
	inv.Client.Phone = "123"
	issues := svc.Validate(&inv)
	if !hasIssue(issues, "client.email") || !hasIssue(issues, "client.phone") {
		t.Fatalf("expected client.email and client.phone issues, got %+v", issues)
	}
}

func TestValidate_StructuralFields(t *testing.T) {
	svc := NewInvoiceService(nil)
	inv := validInvoice(t)
	inv.Title = "  "
	inv.Number = ""
	inv.TaxRate = 120
	issues := svc.Validate(&inv)
	for _, path := range []string{"title", "number", "taxRate"} {
		if !hasIssue(issues, path) {
			t.Errorf("expected %s issue, got %+v", path, issues)
		}
	}
}

func TestValidate_IssueMessagesNamePaths(t *testing.T) {
	svc := NewInvoiceService(nil)
	inv := validInvoice(t)
	inv.Services = append(inv.Services, egpItem(4, 2))
	svc.Recalculate(&inv)
	issues := svc.Validate(&inv)
	if len(issues) != 1 {
		t.Fatalf("expected exactly the price issue, got %+v", issues)
	}
	if issues[0].Path != "services[1].price" || !strings.Contains(issues[0].Message, "EGP") {
		t.Fatalf("unexpected issue %+v", issues[0])
	}
}

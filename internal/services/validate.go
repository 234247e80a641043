package services

import (
	"fmt"
	"math"

	"invoicely/internal/currency"
	"invoicely/internal/models"
	"invoicely/internal/validation"
)

// amountTolerance is the slack allowed on the derived-total
// cross-checks. Line-item amounts get no tolerance at all.
const amountTolerance = 0.01

// Per-currency unit price floors.
var minPrice = map[currency.Code]float64{
	currency.USD: 0.1,
	currency.EGP: 5,
}

// Validate checks the whole document and returns every issue found, in
// field order: structural fields, each line item, the client, then the
// three derived-total cross-checks. Nothing short-circuits; an invoice
// missing a client and carrying a stale subtotal reports both.
func (s *InvoiceService) Validate(inv *models.Invoice) []validation.Issue {
	var issues validation.Issues

	validation.Required(&issues, "title", inv.Title, "Title is required")
	validation.Required(&issues, "number", inv.Number, "Invoice number is required")
	if inv.Date.IsZero() {
		issues.Add("date", "Date is required")
	}
	if inv.DueDate.IsZero() {
		issues.Add("dueDate", "Due date is required")
	}
	if !inv.Status.Valid() {
		issues.Addf("status", "Unknown status %q", inv.Status)
	}
	if !inv.Currency.Valid() {
		issues.Addf("currency", "Unsupported currency %q", inv.Currency)
	}
	validation.RangeFloat(&issues, "taxRate", inv.TaxRate, 0, 100, "Tax rate must be between 0 and 100")
	validation.MinFloat(&issues, "discount", inv.Discount, 0, "Discount must not be negative")
	if inv.DiscountType != models.DiscountFixed && inv.DiscountType != models.DiscountPercentage {
		issues.Addf("discountType", "Unknown discount type %q", inv.DiscountType)
	}

	if len(inv.Services) == 0 {
		issues.Add("services", "At least one service or item is required")
	}
	for i, item := range inv.Services {
		validateLineItem(&issues, i, item)
	}

	validateClient(&issues, inv.Client)

	s.validateTotals(&issues, inv)

	return issues
}

// validateLineItem applies the per-row rules: description, quantity,
// per-currency price floor, a product reference on product-backed rows,
// and the exact amount identity.
func validateLineItem(issues *validation.Issues, i int, item models.LineItem) {
	path := func(field string) string { return fmt.Sprintf("services[%d].%s", i, field) }

	if item.Type != models.ItemTypeService && item.Type != models.ItemTypeItem {
		issues.Addf(path("type"), "Unknown line item type %q", item.Type)
	}
	validation.Required(issues, path("description"), item.Description, "Description is required")
	validation.MinInt(issues, path("quantity"), item.Quantity, 1, "Quantity must be at least 1")
	if !item.Currency.Valid() {
		issues.Addf(path("currency"), "Unsupported currency %q", item.Currency)
	} else if item.Price < minPrice[item.Currency] {
		issues.Addf(path("price"), "Price must be at least %g %s", minPrice[item.Currency], item.Currency)
	}
	if item.Type == models.ItemTypeItem && item.ProductID == "" {
		issues.Add(path("productId"), "Product must be selected for items")
	}
	if item.Amount != item.Price*float64(item.Quantity) {
		issues.Add(path("amount"), "Amount must equal price × quantity")
	}
}

// validateClient mirrors the client sub-schema. Presence of a selected
// client is the invoice-level invariant; the contact fields only get
// checked once a client is attached.
func validateClient(issues *validation.Issues, c models.Client) {
	if !c.Selected() {
		issues.Add("client", "Please select a client")
		return
	}
	validation.Required(issues, "client.name", c.Name, "Client name is required")
	validation.Email(issues, "client.email", c.Email, "Invalid email")
	validation.MinLen(issues, "client.phone", c.Phone, 6, "Phone must contain at least 6 digits")
}

// validateTotals re-derives the three totals and reports each mismatch
// independently, 0.01 tolerance apiece.
func (s *InvoiceService) validateTotals(issues *validation.Issues, inv *models.Invoice) {
	var subtotal float64
	for _, item := range inv.Services {
		subtotal += currency.Convert(item.Amount, item.Currency, inv.Currency)
	}
	if math.Abs(inv.Subtotal-subtotal) > amountTolerance {
		issues.Addf("subtotal", "Subtotal (%g) doesn't match sum of services (%g)", inv.Subtotal, subtotal)
	}

	expectedTax := inv.Subtotal * inv.TaxRate / 100
	if math.Abs(inv.TaxTotal-expectedTax) > amountTolerance {
		issues.Addf("taxTotal", "Tax total (%g) doesn't match calculated tax (%g)", inv.TaxTotal, expectedTax)
	}

	expectedTotal := inv.Subtotal + inv.TaxTotal - discountAmount(inv, inv.Subtotal)
	if math.Abs(inv.Total-expectedTotal) > amountTolerance {
		issues.Addf("total", "Total (%g) doesn't match calculated total (%g)", inv.Total, expectedTotal)
	}
}

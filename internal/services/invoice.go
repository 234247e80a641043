// Package services holds the invoice engine: derived-total
// computation, document validation, the submit gate in front of the
// persistence collaborator, and invoice-number generation.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"invoicely/internal/currency"
	"invoicely/internal/logger"
	"invoicely/internal/models"
)

// InvoiceService encapsulates invoice business logic in front of an
// InvoiceStore. The computation methods are pure; only the gate
// methods touch the store.
type InvoiceService struct {
	store InvoiceStore
	log   zerolog.Logger
}

func NewInvoiceService(store InvoiceStore) *InvoiceService {
	return &InvoiceService{
		store: store,
		log:   logger.WithComponent("invoice-service"),
	}
}

// ComputeTotals derives subtotal, tax total and total from the line
// items plus the invoice-level tax rate, discount and currency. Item
// amounts in a foreign currency are normalized into the invoice
// currency first. Summation is a plain left-to-right fold; with the
// fixed rate table it is order-insensitive within floating tolerance.
func (s *InvoiceService) ComputeTotals(inv *models.Invoice) (subtotal, taxTotal, total float64) {
	if inv == nil {
		return 0, 0, 0
	}
	for _, item := range inv.Services {
		subtotal += currency.Convert(item.Amount, item.Currency, inv.Currency)
	}
	taxTotal = subtotal * inv.TaxRate / 100
	total = subtotal + taxTotal - discountAmount(inv, subtotal)
	return subtotal, taxTotal, total
}

// Recalculate writes the derived totals back onto the invoice. Every
// mutation of the inputs (items, currency, tax rate, discount) must be
// followed by a Recalculate before the totals are read again.
func (s *InvoiceService) Recalculate(inv *models.Invoice) {
	inv.Subtotal, inv.TaxTotal, inv.Total = s.ComputeTotals(inv)
}

func discountAmount(inv *models.Invoice, subtotal float64) float64 {
	if inv.DiscountType == models.DiscountPercentage {
		return subtotal * inv.Discount / 100
	}
	return inv.Discount
}

// List returns the full invoice collection.
func (s *InvoiceService) List(ctx context.Context) ([]models.Invoice, error) {
	return s.store.FetchInvoices(ctx)
}

// Get loads one invoice; ErrNotFound when the id is unknown.
func (s *InvoiceService) Get(ctx context.Context, id string) (*models.Invoice, error) {
	return s.store.GetInvoice(ctx, id)
}

// Create validates the invoice as submitted and persists it only when
// the issue list comes back empty. A *ValidationError means nothing
// was written.
func (s *InvoiceService) Create(ctx context.Context, inv *models.Invoice) error {
	if issues := s.Validate(inv); len(issues) > 0 {
		s.log.Warn().Int("issues", len(issues)).Str("number", inv.Number).
			Msg("invoice rejected by submit gate")
		return &ValidationError{Issues: issues}
	}
	if inv.Status == "" {
		inv.Status = models.StatusDraft
	}
	if err := s.store.CreateInvoice(ctx, inv); err != nil {
		return fmt.Errorf("create invoice: %w", err)
	}
	s.log.Info().Str("id", inv.ID).Str("number", inv.Number).Msg("invoice created")
	return nil
}

// Update replays the submit gate for an existing invoice and persists
// all or nothing.
func (s *InvoiceService) Update(ctx context.Context, inv *models.Invoice) error {
	if issues := s.Validate(inv); len(issues) > 0 {
		s.log.Warn().Int("issues", len(issues)).Str("id", inv.ID).
			Msg("invoice update rejected by submit gate")
		return &ValidationError{Issues: issues}
	}
	if _, err := s.store.GetInvoice(ctx, inv.ID); err != nil {
		return err
	}
	if err := s.store.UpdateInvoice(ctx, inv); err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// Transition applies a lifecycle change to a stored invoice. On an
// illegal transition the stored status stays untouched and the error
// wraps models.ErrInvalidTransition.
func (s *InvoiceService) Transition(ctx context.Context, id string, to models.Status, now time.Time) (*models.Invoice, error) {
	inv, err := s.store.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	from := inv.Status
	if err := inv.Transition(to, now); err != nil {
		return nil, err
	}
	if err := s.store.UpdateInvoice(ctx, inv); err != nil {
		return nil, fmt.Errorf("persist transition: %w", err)
	}
	s.log.Info().Str("id", id).Str("from", string(from)).Str("to", string(to)).
		Msg("invoice status changed")
	return inv, nil
}

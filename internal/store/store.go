// Package store is the GORM-backed persistence collaborator. It maps
// storage errors onto the service taxonomy (ErrNotFound, wrapped store
// failures) so nothing above it imports gorm.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"invoicely/internal/models"
	"invoicely/internal/services"
)

// Store implements every collaborator interface of the services
// package over one gorm connection.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{db: db} }

// FetchInvoices returns the full collection, newest first, with line
// items loaded.
func (s *Store) FetchInvoices(ctx context.Context) ([]models.Invoice, error) {
	var invs []models.Invoice
	if err := s.db.WithContext(ctx).Preload("Services").Order("created_at desc").Find(&invs).Error; err != nil {
		return nil, fmt.Errorf("fetch invoices: %w", err)
	}
	return invs, nil
}

func (s *Store) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.WithContext(ctx).Preload("Services").First(&inv, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invoice %s: %w", id, services.ErrNotFound)
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// CreateInvoice assigns the id and creation timestamp and persists the
// invoice and its line items in one transaction.
func (s *Store) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = inv.CreatedAt
	for i := range inv.Services {
		inv.Services[i].InvoiceID = inv.ID
	}
	if err := s.db.WithContext(ctx).Create(inv).Error; err != nil {
		return fmt.Errorf("create invoice: %w", err)
	}
	return nil
}

// UpdateInvoice rewrites the invoice row and replaces its line items
// wholesale; the items have no identity of their own outside the
// document.
func (s *Store) UpdateInvoice(ctx context.Context, inv *models.Invoice) error {
	inv.UpdatedAt = time.Now()
	for i := range inv.Services {
		inv.Services[i].InvoiceID = inv.ID
		inv.Services[i].ID = 0
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", inv.ID).Delete(&models.LineItem{}).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Invoice{}).Where("id = ?", inv.ID).
			Select("*").Omit("id", "created_at", "Services").Updates(inv)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return services.ErrNotFound
		}
		if len(inv.Services) > 0 {
			if err := tx.Create(&inv.Services).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return fmt.Errorf("invoice %s: %w", inv.ID, services.ErrNotFound)
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// CheckNumberUnique reports whether no stored invoice carries the
// candidate number.
func (s *Store) CheckNumberUnique(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Invoice{}).Where("number = ?", number).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check invoice number: %w", err)
	}
	return count == 0, nil
}

func (s *Store) FetchClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := s.db.WithContext(ctx).Order("name").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("fetch clients: %w", err)
	}
	return clients, nil
}

// CreateClient assigns the id and persists the client; a temp client
// saved here stops being temp.
func (s *Store) CreateClient(ctx context.Context, c *models.Client) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.IsTemp = false
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

func (s *Store) FetchProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("name").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	return products, nil
}

package services

import (
	"context"

	"invoicely/internal/models"
)

// The persistence collaborator is consumed through these interfaces so
// the engine stays independent of the storage layer; internal/store
// provides the GORM implementation and tests use in-memory fakes.

// InvoiceStore is the invoice side of the persistence collaborator.
type InvoiceStore interface {
	FetchInvoices(ctx context.Context) ([]models.Invoice, error)
	GetInvoice(ctx context.Context, id string) (*models.Invoice, error)
	// CreateInvoice assigns the id and creation timestamp.
	CreateInvoice(ctx context.Context, inv *models.Invoice) error
	UpdateInvoice(ctx context.Context, inv *models.Invoice) error
}

// ClientStore exposes the client collection.
type ClientStore interface {
	FetchClients(ctx context.Context) ([]models.Client, error)
	// CreateClient assigns the id.
	CreateClient(ctx context.Context, c *models.Client) error
}

// ProductStore exposes the product catalog.
type ProductStore interface {
	FetchProducts(ctx context.Context) ([]models.Product, error)
}

// NumberChecker answers invoice-number uniqueness probes.
type NumberChecker interface {
	CheckNumberUnique(ctx context.Context, number string) (bool, error)
}

package models

import (
	"time"

	"invoicely/internal/currency"
)

// DiscountType selects how Invoice.Discount is interpreted.
type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

// ItemType distinguishes free-form service rows from product-backed rows.
type ItemType string

const (
	ItemTypeService ItemType = "service"
	ItemTypeItem    ItemType = "item"
)

// LineItem is one billable row of an invoice. Amount is derived and
// must always equal Price × Quantity; the Set* helpers keep it that way.
type LineItem struct {
	ID          uint          `gorm:"primaryKey" json:"-"`
	InvoiceID   string        `gorm:"size:36;index" json:"-"`
	Type        ItemType      `gorm:"size:10;not null" json:"type"`
	Description string        `gorm:"not null" json:"description"`
	Price       float64       `gorm:"not null" json:"price"`
	Quantity    int           `gorm:"not null" json:"quantity"`
	Currency    currency.Code `gorm:"size:3;not null" json:"currency"`
	// ProductID references the catalog product; required when Type is "item".
	ProductID string  `gorm:"size:36" json:"productId,omitempty"`
	Amount    float64 `gorm:"not null" json:"amount"`
}

// NewLineItem returns a row with the entry-form defaults: the minimum
// USD price, a single unit, and the amount already consistent.
func NewLineItem(t ItemType, cur currency.Code) LineItem {
	li := LineItem{Type: t, Price: 0.1, Quantity: 1, Currency: cur}
	li.recalc()
	return li
}

// SetPrice updates the unit price and re-derives the amount.
func (li *LineItem) SetPrice(price float64) {
	li.Price = price
	li.recalc()
}

// SetQuantity updates the quantity and re-derives the amount.
func (li *LineItem) SetQuantity(qty int) {
	li.Quantity = qty
	li.recalc()
}

// ChangeCurrency re-prices the row in the new currency: the unit price
// is converted, then the amount is re-derived from the converted price
// and the unchanged quantity. The raw amount is never converted
// directly; the price stays the authoritative input.
func (li *LineItem) ChangeCurrency(to currency.Code) {
	li.Price = currency.Convert(li.Price, li.Currency, to)
	li.Currency = to
	li.recalc()
}

func (li *LineItem) recalc() {
	li.Amount = li.Price * float64(li.Quantity)
}

// Invoice is the aggregate document. Subtotal, TaxTotal and Total are
// derived from the line items plus the invoice-level rate, discount and
// currency; they are recomputed eagerly on every edit and cross-checked
// again at submit time.
type Invoice struct {
	ID      string    `gorm:"size:36" json:"id,omitempty"`
	Title   string    `gorm:"not null" json:"title"`
	Number  string    `gorm:"uniqueIndex;not null" json:"number"`
	Date    time.Time `gorm:"not null" json:"date"`
	DueDate time.Time `gorm:"not null" json:"dueDate"`
	Status  Status    `gorm:"size:12;not null;default:'draft'" json:"status"`
	// Client is a snapshot, not a reference (see Client).
	Client       Client        `gorm:"serializer:json" json:"client"`
	Services     []LineItem    `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"services"`
	Notes        string        `json:"notes,omitempty"`
	Currency     currency.Code `gorm:"size:3;not null;default:'USD'" json:"currency"`
	TaxRate      float64       `gorm:"not null;default:0" json:"taxRate"`
	Discount     float64       `gorm:"not null;default:0" json:"discount"`
	DiscountType DiscountType  `gorm:"size:10;not null;default:'fixed'" json:"discountType"`
	Subtotal     float64       `gorm:"not null" json:"subtotal"`
	TaxTotal     float64       `gorm:"not null" json:"taxTotal"`
	Total        float64       `gorm:"not null" json:"total"`
	CreatedAt    time.Time     `json:"createdAt,omitempty"`
	UpdatedAt    time.Time     `json:"updatedAt,omitempty"`
}

// DefaultDueDays is how far a fresh invoice's due date sits past its
// issue date.
const DefaultDueDays = 3

// NewInvoice returns a draft invoice with today's issue date, the
// default due date, and zeroed derived totals.
func NewInvoice(now time.Time) Invoice {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return Invoice{
		Status:       StatusDraft,
		Date:         day,
		DueDate:      day.AddDate(0, 0, DefaultDueDays),
		Currency:     currency.USD,
		DiscountType: DiscountFixed,
	}
}

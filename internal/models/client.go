package models

import "time"

// Client entity. Invoices embed a denormalized snapshot of the client
// taken at invoice-creation time, so edits to the client record never
// rewrite history on already issued invoices.
type Client struct {
	ID      string `gorm:"size:36" json:"id"`
	Name    string `gorm:"not null;index" json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
	LogoURL string `json:"logoUrl,omitempty"`
	// IsTemp marks a client created inline while editing an invoice and
	// not yet persisted to the client store.
	IsTemp    bool      `gorm:"-" json:"isTemp,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Selected reports whether a client has actually been chosen; an empty
// id is the "no client selected" sentinel.
func (c Client) Selected() bool { return c.ID != "" }

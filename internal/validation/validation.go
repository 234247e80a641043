// Package validation collects field-level issues into an ordered list
// so callers can surface every problem at once instead of stopping at
// the first. It is deliberately free of transport or form framework
// dependencies; handlers and services share the same contract.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
)

// Issue points at a single invalid field (or cross-field relation) by
// path, e.g. "client.email" or "services[2].price".
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Issues accumulates problems in the order they were found.
type Issues []Issue

func (is Issues) Empty() bool { return len(is) == 0 }

// Add appends an issue for path.
func (is *Issues) Add(path, message string) {
	*is = append(*is, Issue{Path: path, Message: message})
}

// Addf appends an issue with a formatted message.
func (is *Issues) Addf(path, format string, args ...any) {
	is.Add(path, fmt.Sprintf(format, args...))
}

// Basic validators

func Required(is *Issues, path, value, message string) {
	if strings.TrimSpace(value) == "" {
		is.Add(path, message)
	}
}

func MinFloat(is *Issues, path string, value, minVal float64, message string) {
	if value < minVal {
		is.Add(path, message)
	}
}

func RangeFloat(is *Issues, path string, value, minVal, maxVal float64, message string) {
	if value < minVal || value > maxVal {
		is.Add(path, message)
	}
}

func MinInt(is *Issues, path string, value, minVal int, message string) {
	if value < minVal {
		is.Add(path, message)
	}
}

func MinLen(is *Issues, path, value string, minLen int, message string) {
	if len(strings.TrimSpace(value)) < minLen {
		is.Add(path, message)
	}
}

func Email(is *Issues, path, value, message string) {
	if _, err := mail.ParseAddress(value); err != nil {
		is.Add(path, message)
	}
}

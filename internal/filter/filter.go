// Package filter narrows an invoice collection by a coarse status
// bucket plus a set of compound ad-hoc filters. Both layers apply with
// AND semantics and the whole result is recomputed on every call; the
// collection is small enough that nothing incremental is needed.
package filter

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"invoicely/internal/models"
)

// Bucket is the coarse top-level grouping. Exactly one bucket is
// active at a time.
type Bucket string

const (
	BucketAll    Bucket = "all"
	BucketPaid   Bucket = "paid"
	BucketUnpaid Bucket = "unpaid"
	BucketDraft  Bucket = "draft"
)

// unpaidStatuses are the states the "unpaid" bucket collects.
var unpaidStatuses = []models.Status{models.StatusPending, models.StatusSent, models.StatusOverdue}

// Match reports whether an invoice status falls into the bucket.
func (b Bucket) Match(s models.Status) bool {
	switch b {
	case BucketAll, "":
		return true
	case BucketUnpaid:
		for _, u := range unpaidStatuses {
			if s == u {
				return true
			}
		}
		return false
	default:
		return s == models.Status(b)
	}
}

// Apply returns the invoices whose status falls into the bucket.
func (b Bucket) Apply(invoices []models.Invoice) []models.Invoice {
	out := make([]models.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if b.Match(inv.Status) {
			out = append(out, inv)
		}
	}
	return out
}

// Kind tags an advanced filter variant.
type Kind string

const (
	KindStatus    Kind = "status"
	KindClient    Kind = "client"
	KindIssueDate Kind = "issueDate"
	KindDueDate   Kind = "dueDate"
	KindAmount    Kind = "amount"
)

// DateRange is an inclusive date window; nil ends are open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

func (r DateRange) contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// AmountRange is an inclusive total window; nil ends are open.
type AmountRange struct {
	Min *float64
	Max *float64
}

func (r AmountRange) contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// Filter is one advanced criterion. Kind discriminates which value
// field is meaningful; the constructors keep the pairing straight.
type Filter struct {
	ID    string
	Kind  Kind
	Label string

	Statuses []models.Status // KindStatus
	Client   string          // KindClient: case-insensitive substring on client name
	Dates    DateRange       // KindIssueDate, KindDueDate
	Amount   AmountRange     // KindAmount
}

func newFilter(kind Kind) Filter {
	return Filter{ID: uuid.NewString(), Kind: kind}
}

// StatusFilter matches invoices whose status is in the given set.
func StatusFilter(statuses ...models.Status) Filter {
	f := newFilter(KindStatus)
	f.Statuses = statuses
	return f
}

// ClientFilter matches invoices whose client name contains the query,
// case-insensitively.
func ClientFilter(name string) Filter {
	f := newFilter(KindClient)
	f.Client = name
	return f
}

// IssueDateFilter matches invoices issued inside the range.
func IssueDateFilter(r DateRange) Filter {
	f := newFilter(KindIssueDate)
	f.Dates = r
	return f
}

// DueDateFilter matches invoices due inside the range.
func DueDateFilter(r DateRange) Filter {
	f := newFilter(KindDueDate)
	f.Dates = r
	return f
}

// AmountFilter matches invoices whose total is inside the range.
func AmountFilter(r AmountRange) Filter {
	f := newFilter(KindAmount)
	f.Amount = r
	return f
}

// Match reports whether the invoice passes this one filter. A filter
// with an empty value (no statuses, blank client name, fully open
// range) passes everything.
func (f Filter) Match(inv models.Invoice) bool {
	switch f.Kind {
	case KindStatus:
		if len(f.Statuses) == 0 {
			return true
		}
		for _, s := range f.Statuses {
			if inv.Status == s {
				return true
			}
		}
		return false
	case KindClient:
		if f.Client == "" {
			return true
		}
		return strings.Contains(strings.ToLower(inv.Client.Name), strings.ToLower(f.Client))
	case KindIssueDate:
		return f.Dates.contains(inv.Date)
	case KindDueDate:
		return f.Dates.contains(inv.DueDate)
	case KindAmount:
		return f.Amount.contains(inv.Total)
	}
	return true
}

// Set holds the active advanced filters, at most one per kind. The
// operations mirror a command reducer: add (replacing any existing
// filter of the same kind in place), update by id, remove by id or
// kind, and reset.
type Set struct {
	filters []Filter
}

// NewSet builds a set from initial filters, applying the
// replace-same-kind rule and minting ids where missing.
func NewSet(initial ...Filter) *Set {
	s := &Set{}
	for _, f := range initial {
		s.Add(f)
	}
	return s
}

// Filters returns the active filters in insertion order.
func (s *Set) Filters() []Filter {
	out := make([]Filter, len(s.filters))
	copy(out, s.filters)
	return out
}

func (s *Set) Len() int { return len(s.filters) }

// Add inserts f, replacing any existing filter of the same kind at its
// position rather than appending a duplicate criterion.
func (s *Set) Add(f Filter) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	for i, existing := range s.filters {
		if existing.Kind == f.Kind {
			s.filters[i] = f
			return
		}
	}
	s.filters = append(s.filters, f)
}

// Update rewrites the value of the filter with the given id, keeping
// its id and kind. Reports whether a filter was found.
func (s *Set) Update(id string, f Filter) bool {
	for i := range s.filters {
		if s.filters[i].ID == id {
			f.ID = s.filters[i].ID
			f.Kind = s.filters[i].Kind
			s.filters[i] = f
			return true
		}
	}
	return false
}

// Remove drops the filter with the given id.
func (s *Set) Remove(id string) {
	for i := range s.filters {
		if s.filters[i].ID == id {
			s.filters = append(s.filters[:i], s.filters[i+1:]...)
			return
		}
	}
}

// RemoveKind drops every filter of the given kind.
func (s *Set) RemoveKind(kind Kind) {
	kept := s.filters[:0]
	for _, f := range s.filters {
		if f.Kind != kind {
			kept = append(kept, f)
		}
	}
	s.filters = kept
}

// Reset clears the set.
func (s *Set) Reset() { s.filters = nil }

// ByKind returns the active filter of a kind, if any.
func (s *Set) ByKind(kind Kind) (Filter, bool) {
	for _, f := range s.filters {
		if f.Kind == kind {
			return f, true
		}
	}
	return Filter{}, false
}

// Apply returns the invoices passing every active filter.
func (s *Set) Apply(invoices []models.Invoice) []models.Invoice {
	out := make([]models.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if s.match(inv) {
			out = append(out, inv)
		}
	}
	return out
}

func (s *Set) match(inv models.Invoice) bool {
	for _, f := range s.filters {
		if !f.Match(inv) {
			return false
		}
	}
	return true
}

// Query combines the bucket with the advanced set. The two layers are
// independent and both narrow the result; the advanced status filter
// gets no special casing against the bucket.
type Query struct {
	Bucket   Bucket
	Advanced *Set
}

// Apply produces a fresh filtered slice; calling it again restarts the
// computation over current inputs.
func (q Query) Apply(invoices []models.Invoice) []models.Invoice {
	result := q.Bucket.Apply(invoices)
	if q.Advanced != nil {
		result = q.Advanced.Apply(result)
	}
	return result
}

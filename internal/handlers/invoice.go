package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"invoicely/internal/filter"
	"invoicely/internal/httpx"
	"invoicely/internal/models"
	"invoicely/internal/services"
)

// InvoiceHandler serves the invoice collection: list (with filtering),
// create/update behind the submit gate, status transitions, and
// number generation.
type InvoiceHandler struct {
	Svc     *services.InvoiceService
	Checker services.NumberChecker
}

func NewInvoiceHandler(svc *services.InvoiceService, checker services.NumberChecker) *InvoiceHandler {
	return &InvoiceHandler{Svc: svc, Checker: checker}
}

// List: GET /invoices
//
// The whole collection is fetched and filtered in memory by the filter
// engine; the query string carries the bucket plus at most one
// advanced filter per kind (bucket, status, client, issued_from,
// issued_to, due_from, due_to, min_total, max_total).
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	invs, err := h.Svc.List(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_invoices", nil)
		return
	}
	query, issues := queryFromRequest(r)
	if len(issues) > 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_filter", issues)
		return
	}
	result := query.Apply(invs)
	httpx.JSON(w, http.StatusOK, map[string]any{"items": result, "total": len(result)})
}

func queryFromRequest(r *http.Request) (filter.Query, []string) {
	q := r.URL.Query()
	var issues []string

	bucket := filter.Bucket(q.Get("bucket"))
	switch bucket {
	case "", filter.BucketAll, filter.BucketPaid, filter.BucketUnpaid, filter.BucketDraft:
	default:
		issues = append(issues, "unknown bucket "+string(bucket))
	}

	set := filter.NewSet()
	if v := q.Get("status"); v != "" {
		var statuses []models.Status
		for _, raw := range strings.Split(v, ",") {
			s := models.Status(strings.TrimSpace(raw))
			if !s.Valid() {
				issues = append(issues, "unknown status "+string(s))
				continue
			}
			statuses = append(statuses, s)
		}
		set.Add(filter.StatusFilter(statuses...))
	}
	if v := q.Get("client"); v != "" {
		set.Add(filter.ClientFilter(v))
	}
	if r, ok := dateRange(q.Get("issued_from"), q.Get("issued_to"), &issues); ok {
		set.Add(filter.IssueDateFilter(r))
	}
	if r, ok := dateRange(q.Get("due_from"), q.Get("due_to"), &issues); ok {
		set.Add(filter.DueDateFilter(r))
	}
	if r, ok := amountRange(q.Get("min_total"), q.Get("max_total"), &issues); ok {
		set.Add(filter.AmountFilter(r))
	}
	return filter.Query{Bucket: bucket, Advanced: set}, issues
}

func dateRange(from, to string, issues *[]string) (filter.DateRange, bool) {
	var r filter.DateRange
	if from == "" && to == "" {
		return r, false
	}
	parse := func(raw, name string) *time.Time {
		if raw == "" {
			return nil
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			*issues = append(*issues, "invalid "+name+" date")
			return nil
		}
		return &t
	}
	r.Start = parse(from, "from")
	r.End = parse(to, "to")
	return r, r.Start != nil || r.End != nil
}

func amountRange(minRaw, maxRaw string, issues *[]string) (filter.AmountRange, bool) {
	var r filter.AmountRange
	if minRaw == "" && maxRaw == "" {
		return r, false
	}
	parse := func(raw, name string) *float64 {
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			*issues = append(*issues, "invalid "+name+" amount")
			return nil
		}
		return &v
	}
	r.Min = parse(minRaw, "min_total")
	r.Max = parse(maxRaw, "max_total")
	return r, r.Min != nil || r.Max != nil
}

// Get: GET /invoices/get?id=...
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	inv, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

// Create: POST /invoices – body is the full document including derived
// totals; the submit gate validates it atomically before anything is
// persisted.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var inv models.Invoice
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if err := h.Svc.Create(r.Context(), &inv); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

// Update: PUT/POST /invoices/update – same gate as Create.
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var inv models.Invoice
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if inv.ID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	if err := h.Svc.Update(r.Context(), &inv); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

// Transition: POST /invoices/transition?id=...&to=...
func (h *InvoiceHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	to := models.Status(r.URL.Query().Get("to"))
	if id == "" || to == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id_or_status", nil)
		return
	}
	if !to.Valid() {
		httpx.JSONError(w, http.StatusBadRequest, "unknown_status", nil)
		return
	}
	inv, err := h.Svc.Transition(r.Context(), id, to, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

// Number: GET /invoices/number – generates a number that is unique at
// the time of the check. The request context bounds the retry loop.
func (h *InvoiceHandler) Number(w http.ResponseWriter, r *http.Request) {
	// Bound the suspend-until-unique loop; without this a contended
	// number space could spin forever.
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	number, err := services.GenerateNumber(ctx, h.Checker)
	if err != nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "number_generation_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"number": number})
}

func writeServiceError(w http.ResponseWriter, err error) {
	if ve, ok := services.AsValidationError(err); ok {
		httpx.JSONValidation(w, ve.Issues)
		return
	}
	if errors.Is(err, services.ErrNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if errors.Is(err, models.ErrInvalidTransition) {
		httpx.JSONError(w, http.StatusConflict, "invalid_transition", nil)
		return
	}
	httpx.JSONError(w, http.StatusInternalServerError, "storage_error", nil)
}

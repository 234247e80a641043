package handlers

import (
	"net/http"

	"invoicely/internal/httpx"
	"invoicely/internal/services"
)

// ProductHandler serves the read-only product catalog backing
// product-type line items.
type ProductHandler struct {
	Store services.ProductStore
}

func NewProductHandler(store services.ProductStore) *ProductHandler {
	return &ProductHandler{Store: store}
}

// List: GET /products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.FetchProducts(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_products", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": products, "total": len(products)})
}

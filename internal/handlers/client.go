package handlers

import (
	"encoding/json"
	"net/http"

	"invoicely/internal/httpx"
	"invoicely/internal/models"
	"invoicely/internal/services"
	"invoicely/internal/validation"
)

// ClientHandler serves the client directory.
type ClientHandler struct {
	Store services.ClientStore
}

func NewClientHandler(store services.ClientStore) *ClientHandler {
	return &ClientHandler{Store: store}
}

// List: GET /clients
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Store.FetchClients(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_clients", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": clients, "total": len(clients)})
}

// Create: POST /clients – persists a client (typically one entered
// inline while editing an invoice) and returns it with its assigned id.
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var c models.Client
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	var issues validation.Issues
	validation.Required(&issues, "name", c.Name, "Client name is required")
	validation.Email(&issues, "email", c.Email, "Invalid email")
	validation.MinLen(&issues, "phone", c.Phone, 6, "Phone must contain at least 6 digits")
	if !issues.Empty() {
		httpx.JSONValidation(w, issues)
		return
	}
	c.ID = "" // the store assigns ids
	if err := h.Store.CreateClient(r.Context(), &c); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_client", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

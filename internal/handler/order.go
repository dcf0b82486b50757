package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/minidex/internal/domain"
	"github.com/efreitasn/minidex/internal/service"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	exchangeSvc *service.ExchangeService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(exchangeSvc *service.ExchangeService) *OrderHandler {
	return &OrderHandler{exchangeSvc: exchangeSvc}
}

// makeOrderRequest is the JSON request body for POST /orders.
type makeOrderRequest struct {
	Creator       string `json:"creator"`
	AssetWanted   string `json:"asset_wanted"`
	AmountWanted  int64  `json:"amount_wanted"`
	AssetOffered  string `json:"asset_offered"`
	AmountOffered int64  `json:"amount_offered"`
}

// fillOrderRequest is the JSON request body for POST /orders/{id}/fill.
type fillOrderRequest struct {
	Account string `json:"account"`
}

// orderResponse is a single order in JSON responses.
type orderResponse struct {
	ID            uint64 `json:"id"`
	Creator       string `json:"creator"`
	AssetWanted   string `json:"asset_wanted"`
	AmountWanted  int64  `json:"amount_wanted"`
	AssetOffered  string `json:"asset_offered"`
	AmountOffered int64  `json:"amount_offered"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}

// orderListResponse is the JSON response for GET /accounts/{account}/orders.
type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Total  int             `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

// orderRangeResponse is the JSON response for GET /orders.
type orderRangeResponse struct {
	Orders []orderResponse `json:"orders"`
	Total  int             `json:"total"`
	After  uint64          `json:"after"`
	Limit  int             `json:"limit"`
}

// tradeResponse is the JSON response for POST /orders/{id}/fill.
type tradeResponse struct {
	ID            uint64 `json:"id"`
	Creator       string `json:"creator"`
	AssetWanted   string `json:"asset_wanted"`
	AmountWanted  int64  `json:"amount_wanted"`
	AssetOffered  string `json:"asset_offered"`
	AmountOffered int64  `json:"amount_offered"`
	Filler        string `json:"filler"`
	Fee           int64  `json:"fee"`
	At            string `json:"at"`
}

// MakeOrder handles POST /orders.
func (h *OrderHandler) MakeOrder(w http.ResponseWriter, r *http.Request) {
	var req makeOrderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	assetWanted, verr := domain.ParseAsset(req.AssetWanted)
	if verr != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", "asset_wanted: "+verr.Error())
		return
	}
	assetOffered, verr := domain.ParseAsset(req.AssetOffered)
	if verr != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", "asset_offered: "+verr.Error())
		return
	}

	ev, err := h.exchangeSvc.MakeOrder(service.MakeOrderRequest{
		Creator:       req.Creator,
		AssetWanted:   assetWanted,
		AmountWanted:  req.AmountWanted,
		AssetOffered:  assetOffered,
		AmountOffered: req.AmountOffered,
	})
	if err != nil {
		mapExchangeError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, orderResponse{
		ID:            ev.ID,
		Creator:       ev.Creator,
		AssetWanted:   ev.AssetWanted.String(),
		AmountWanted:  ev.AmountWanted,
		AssetOffered:  ev.AssetOffered.String(),
		AmountOffered: ev.AmountOffered,
		Status:        "open",
		CreatedAt:     ev.At.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

// GetOrder handles GET /orders/{id}.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	order, err := h.exchangeSvc.GetOrder(id)
	if err != nil {
		mapExchangeError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildOrderResponse(order))
}

// ListOrders handles GET /orders.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var after uint64
	if a := r.URL.Query().Get("after"); a != "" {
		var err error
		after, err = strconv.ParseUint(a, 10, 64)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "after must be a valid order id")
			return
		}
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		var err error
		limit, err = strconv.Atoi(l)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "limit must be a valid integer")
			return
		}
	}

	orders, total, err := h.exchangeSvc.ListOrders(after, limit)
	if err != nil {
		mapExchangeError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, orderRangeResponse{
		Orders: buildOrderResponses(orders),
		Total:  total,
		After:  after,
		Limit:  limit,
	})
}

// CancelOrder handles DELETE /orders/{id}.
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	account := r.URL.Query().Get("account")
	if account == "" {
		WriteError(w, http.StatusBadRequest, "validation_error", "account query parameter is required")
		return
	}

	ev, err := h.exchangeSvc.CancelOrder(account, id)
	if err != nil {
		mapExchangeError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, orderResponse{
		ID:            ev.ID,
		Creator:       ev.Creator,
		AssetWanted:   ev.AssetWanted.String(),
		AmountWanted:  ev.AmountWanted,
		AssetOffered:  ev.AssetOffered.String(),
		AmountOffered: ev.AmountOffered,
		Status:        "cancelled",
		CreatedAt:     ev.At.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

// FillOrder handles POST /orders/{id}/fill.
func (h *OrderHandler) FillOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	var req fillOrderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Account == "" {
		WriteError(w, http.StatusBadRequest, "validation_error", "account is required")
		return
	}

	ev, err := h.exchangeSvc.FillOrder(req.Account, id)
	if err != nil {
		mapExchangeError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, tradeResponse{
		ID:            ev.ID,
		Creator:       ev.Creator,
		AssetWanted:   ev.AssetWanted.String(),
		AmountWanted:  ev.AmountWanted,
		AssetOffered:  ev.AssetOffered.String(),
		AmountOffered: ev.AmountOffered,
		Filler:        ev.Filler,
		Fee:           ev.Fee,
		At:            ev.At.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

// parseOrderID extracts and parses the {id} URL parameter. Writes a 400
// response and returns false on failure.
func parseOrderID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		WriteError(w, http.StatusBadRequest, "validation_error", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// buildOrderResponse converts a domain order to its response form.
func buildOrderResponse(o domain.Order) orderResponse {
	status := "open"
	switch {
	case o.Filled:
		status = "filled"
	case o.Cancelled:
		status = "cancelled"
	}

	return orderResponse{
		ID:            o.ID,
		Creator:       o.Creator,
		AssetWanted:   o.AssetWanted.String(),
		AmountWanted:  o.AmountWanted,
		AssetOffered:  o.AssetOffered.String(),
		AmountOffered: o.AmountOffered,
		Status:        status,
		CreatedAt:     o.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// buildOrderResponses converts domain orders to response orders.
func buildOrderResponses(orders []domain.Order) []orderResponse {
	result := make([]orderResponse, len(orders))
	for i, o := range orders {
		result[i] = buildOrderResponse(o)
	}
	return result
}

// mapExchangeError maps domain errors to HTTP responses for exchange
// endpoints. Transfer failures surface as 502 because the failing party is
// the custodian, not this service.
func mapExchangeError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidAsset):
		WriteError(w, http.StatusBadRequest, "invalid_asset", err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		WriteError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		WriteError(w, http.StatusForbidden, "unauthorized", err.Error())
	case errors.Is(err, domain.ErrAlreadyFinalized):
		WriteError(w, http.StatusConflict, "order_finalized", err.Error())
	case errors.Is(err, domain.ErrInsufficientBalance):
		WriteError(w, http.StatusConflict, "insufficient_balance", err.Error())
	case errors.Is(err, domain.ErrOverflow):
		WriteError(w, http.StatusConflict, "amount_overflow", err.Error())
	case errors.Is(err, domain.ErrTransferFailed):
		WriteError(w, http.StatusBadGateway, "transfer_failed", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

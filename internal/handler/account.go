package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/minidex/internal/domain"
	"github.com/efreitasn/minidex/internal/service"
)

// AccountHandler handles HTTP requests for account endpoints.
type AccountHandler struct {
	exchangeSvc *service.ExchangeService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(exchangeSvc *service.ExchangeService) *AccountHandler {
	return &AccountHandler{exchangeSvc: exchangeSvc}
}

// movementRequest is the JSON request body for deposits and withdrawals.
type movementRequest struct {
	Asset  string `json:"asset"`
	Amount int64  `json:"amount"`
}

// movementResponse is the JSON response for deposits and withdrawals.
type movementResponse struct {
	Asset   string `json:"asset"`
	Account string `json:"account"`
	Amount  int64  `json:"amount"`
	Balance int64  `json:"balance"`
	At      string `json:"at"`
}

// balanceResponse is the JSON response for GET /accounts/{account}/balances/{asset}.
type balanceResponse struct {
	Asset   string `json:"asset"`
	Account string `json:"account"`
	Balance int64  `json:"balance"`
}

// Deposit handles POST /accounts/{account}/deposits.
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")

	var req movementRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	asset, verr := domain.ParseAsset(req.Asset)
	if verr != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", verr.Error())
		return
	}

	ev, err := h.exchangeSvc.Deposit(r.Context(), account, asset, req.Amount)
	if err != nil {
		mapExchangeError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, movementResponse{
		Asset:   ev.Asset.String(),
		Account: ev.Account,
		Amount:  ev.Amount,
		Balance: ev.Balance,
		At:      ev.At.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

// Withdraw handles POST /accounts/{account}/withdrawals.
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")

	var req movementRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	asset, verr := domain.ParseAsset(req.Asset)
	if verr != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", verr.Error())
		return
	}

	ev, err := h.exchangeSvc.Withdraw(r.Context(), account, asset, req.Amount)
	if err != nil {
		mapExchangeError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, movementResponse{
		Asset:   ev.Asset.String(),
		Account: ev.Account,
		Amount:  ev.Amount,
		Balance: ev.Balance,
		At:      ev.At.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

// GetBalance handles GET /accounts/{account}/balances/{asset}.
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")

	asset, verr := domain.ParseAsset(chi.URLParam(r, "asset"))
	if verr != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", verr.Error())
		return
	}

	WriteJSON(w, http.StatusOK, balanceResponse{
		Asset:   asset.String(),
		Account: account,
		Balance: h.exchangeSvc.BalanceOf(asset, account),
	})
}

// ListOrders handles GET /accounts/{account}/orders.
func (h *AccountHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		var err error
		page, err = strconv.Atoi(p)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "page must be a valid integer")
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

	orders, total, err := h.exchangeSvc.ListOrdersByCreator(account, page, limit)
	if err != nil {
		mapExchangeError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, orderListResponse{
		Orders: buildOrderResponses(orders),
		Total:  total,
		Page:   page,
		Limit:  limit,
	})
}

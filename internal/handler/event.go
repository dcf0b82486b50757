package handler

import (
	"net/http"
	"strconv"

	"github.com/efreitasn/minidex/internal/journal"
	"github.com/efreitasn/minidex/internal/service"
)

// EventHandler handles HTTP requests for the event journal.
type EventHandler struct {
	exchangeSvc *service.ExchangeService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(exchangeSvc *service.ExchangeService) *EventHandler {
	return &EventHandler{exchangeSvc: exchangeSvc}
}

// eventListResponse is the JSON response for GET /events.
type eventListResponse struct {
	Events []journal.Envelope `json:"events"`
	After  uint64             `json:"after"`
	Limit  int                `json:"limit"`
}

// List handles GET /events. Events are returned in sequence order starting
// after the given sequence number.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	var after uint64
	if a := r.URL.Query().Get("after"); a != "" {
		var err error
		after, err = strconv.ParseUint(a, 10, 64)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "after must be a valid sequence number")
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

	events, err := h.exchangeSvc.Events(after, limit)
	if err != nil {
		mapExchangeError(w, err)
		return
	}
	if events == nil {
		events = []journal.Envelope{}
	}

	WriteJSON(w, http.StatusOK, eventListResponse{
		Events: events,
		After:  after,
		Limit:  limit,
	})
}

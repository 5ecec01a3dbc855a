package handler

import (
	"context"
	"net/http"

	"github.com/Shivanand-hulikatti/flight-booking/internal/model"
	"github.com/Shivanand-hulikatti/flight-booking/internal/search"
	"github.com/Shivanand-hulikatti/flight-booking/internal/validation"
)

// ListAirports handles GET /flights/airports
func (h *Handler) ListAirports(w http.ResponseWriter, r *http.Request) {
	airports := h.airports.Airports()
	if airports == nil {
		airports = []model.Airport{}
	}
	writeJSON(w, http.StatusOK, airports)
}

// SearchFlights handles POST /flights/search
// A failed search answers 400 with the search state carrying the message.
func (h *Handler) SearchFlights(w http.ResponseWriter, r *http.Request) {
	var st search.State
	ok := submitForm(h, w, r, "search", validation.DefaultSearch(), h.val.Search,
		func(ctx context.Context, v validation.SearchValues) error {
			st = h.search.SearchFlights(detach(ctx), v.Params())
			return nil
		})
	if !ok {
		return
	}
	status := http.StatusOK
	if st.Error != "" {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, searchResponse(st))
}

// GetFlights handles GET /flights
func (h *Handler) GetFlights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, searchResponse(h.search.State()))
}

// ClearFlights handles DELETE /flights
func (h *Handler) ClearFlights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, searchResponse(h.search.ClearFlights()))
}

// ResetSearchError handles POST /flights/reset-error
func (h *Handler) ResetSearchError(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, searchResponse(h.search.ResetError()))
}

// searchResponse returns an empty array rather than null for better client
// compatibility.
func searchResponse(st search.State) search.State {
	if st.Flights == nil {
		st.Flights = []model.Flight{}
	}
	return st
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/flight-booking/internal/booking"
	"github.com/Shivanand-hulikatti/flight-booking/internal/model"
	"github.com/Shivanand-hulikatti/flight-booking/internal/validation"
)

type selectFlightRequest struct {
	FlightID *string `json:"flightId"`
}

type paymentResponse struct {
	BookingReference string        `json:"bookingReference"`
	Booking          booking.State `json:"booking"`
}

// GetBooking handles GET /booking
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.booking.State())
}

// ResetBooking handles DELETE /booking
func (h *Handler) ResetBooking(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.booking.ResetBooking())
}

// SelectOutbound handles PUT /booking/outbound
// The flight must be part of the current search results.
func (h *Handler) SelectOutbound(w http.ResponseWriter, r *http.Request) {
	var req selectFlightRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.FlightID == nil || *req.FlightID == "" {
		writeError(w, http.StatusBadRequest, "flightId is required")
		return
	}
	f, ok := h.search.Flight(*req.FlightID)
	if !ok {
		writeError(w, http.StatusNotFound, "flight not found")
		return
	}
	writeJSON(w, http.StatusOK, h.booking.SelectOutboundFlight(f))
}

// SelectReturn handles PUT /booking/return
// A null flightId removes the return flight. Selecting one needs a round-trip
// search.
func (h *Handler) SelectReturn(w http.ResponseWriter, r *http.Request) {
	var req selectFlightRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.FlightID == nil {
		writeJSON(w, http.StatusOK, h.booking.SelectReturnFlight(nil))
		return
	}
	if p := h.search.State().Params; p == nil || !p.RoundTrip() {
		writeError(w, http.StatusConflict, "return flight requires a round-trip search")
		return
	}
	f, ok := h.search.Flight(*req.FlightID)
	if !ok {
		writeError(w, http.StatusNotFound, "flight not found")
		return
	}
	writeJSON(w, http.StatusOK, h.booking.SelectReturnFlight(&f))
}

// SubmitPassengers handles POST /booking/passengers
// Stores the contact details and replaces the passenger list with the
// submitted one.
func (h *Handler) SubmitPassengers(w http.ResponseWriter, r *http.Request) {
	if h.booking.State().OutboundFlight == nil {
		writeError(w, http.StatusConflict, "select a flight first")
		return
	}

	n := 1
	if p := h.search.State().Params; p != nil {
		n = p.Passengers
	}
	var st booking.State
	ok := submitForm(h, w, r, "passengers", validation.NewPassengerForm(n), h.val.Passengers,
		func(_ context.Context, v validation.PassengerFormValues) error {
			h.booking.SetContactDetails(v.Email, v.Phone)
			ins := make([]booking.PassengerInput, len(v.Passengers))
			for i, p := range v.Passengers {
				ins[i] = passengerInput(p)
			}
			st = h.booking.ReplacePassengers(ins)
			return nil
		})
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func passengerInput(p validation.PassengerValues) booking.PassengerInput {
	in := booking.PassengerInput{
		Type:           p.Type,
		Title:          p.Title,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		DateOfBirth:    p.DateOfBirth,
		Nationality:    p.Nationality,
		PassportNumber: p.PassportNumber,
		PassportExpiry: p.PassportExpiry,
	}
	if in.Type == "" {
		in.Type = model.PassengerAdult
	}
	if in.Title == "" {
		in.Title = "Mr"
	}
	return in
}

func (h *Handler) hasPassenger(id string) bool {
	return slices.ContainsFunc(h.booking.State().Passengers, func(p model.Passenger) bool {
		return p.ID == id
	})
}

// UpdatePassenger handles PATCH /booking/passengers/{id}
func (h *Handler) UpdatePassenger(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch booking.PassengerPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if !h.hasPassenger(id) {
		writeError(w, http.StatusNotFound, "passenger not found")
		return
	}
	writeJSON(w, http.StatusOK, h.booking.UpdatePassenger(id, patch))
}

// RemovePassenger handles DELETE /booking/passengers/{id}
func (h *Handler) RemovePassenger(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.hasPassenger(id) {
		writeError(w, http.StatusNotFound, "passenger not found")
		return
	}
	writeJSON(w, http.StatusOK, h.booking.RemovePassenger(id))
}

// SetContactDetails handles PUT /booking/contact
func (h *Handler) SetContactDetails(w http.ResponseWriter, r *http.Request) {
	if h.booking.State().OutboundFlight == nil {
		writeError(w, http.StatusConflict, "select a flight first")
		return
	}
	var st booking.State
	ok := submitForm(h, w, r, "contact", validation.ContactValues{}, h.val.Contact,
		func(_ context.Context, v validation.ContactValues) error {
			st = h.booking.SetContactDetails(v.Email, v.Phone)
			return nil
		})
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// SubmitPayment handles POST /booking/payment
// Validates the card form and completes the booking.
func (h *Handler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	if b := h.booking.State(); b.OutboundFlight == nil || len(b.Passengers) == 0 || b.ContactDetails == nil {
		writeError(w, http.StatusConflict, "booking needs a flight, passengers and contact details")
		return
	}

	var (
		ref string
		err error
	)
	ok := submitForm(h, w, r, "payment", validation.PaymentValues{}, h.val.Payment,
		func(ctx context.Context, _ validation.PaymentValues) error {
			ref, err = h.booking.CompleteBooking(detach(ctx))
			return err
		})
	if !ok {
		return
	}

	switch {
	case errors.Is(err, booking.ErrAlreadyCompleted):
		writeError(w, http.StatusConflict, "booking already completed")
	case err != nil:
		writeError(w, http.StatusBadGateway, "Payment failed. Please try again.")
	default:
		writeJSON(w, http.StatusCreated, paymentResponse{BookingReference: ref, Booking: h.booking.State()})
	}
}

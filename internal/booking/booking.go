// Package booking holds the booking being assembled: selected flights,
// passengers, contact details and, once paid, the booking reference.
package booking

import (
	"github.com/Shivanand-hulikatti/flight-booking/internal/model"
)

// State is the booking in progress. TotalPrice is derived from the selected
// flights only; flight prices already cover every passenger.
type State struct {
	OutboundFlight   *model.Flight         `json:"outboundFlight"`
	ReturnFlight     *model.Flight         `json:"returnFlight"`
	Passengers       []model.Passenger     `json:"passengers"`
	ContactDetails   *model.ContactDetails `json:"contactDetails"`
	TotalPrice       float64               `json:"totalPrice"`
	BookingReference string                `json:"bookingReference,omitempty"`
}

// Request is the snapshot sent to the completion service.
func (s State) Request() model.BookingRequest {
	return model.BookingRequest{
		OutboundFlight: s.OutboundFlight,
		ReturnFlight:   s.ReturnFlight,
		Passengers:     append([]model.Passenger(nil), s.Passengers...),
		ContactDetails: s.ContactDetails,
		TotalPrice:     s.TotalPrice,
	}
}

// PassengerPatch lists the passenger fields to overwrite; nil fields are
// left as they are.
type PassengerPatch struct {
	Type           *model.PassengerType `json:"type"`
	Title          *string              `json:"title"`
	FirstName      *string              `json:"firstName"`
	LastName       *string              `json:"lastName"`
	DateOfBirth    *string              `json:"dateOfBirth"`
	Nationality    *string              `json:"nationality"`
	PassportNumber *string              `json:"passportNumber"`
	PassportExpiry *string              `json:"passportExpiry"`
}

func (p PassengerPatch) apply(dst model.Passenger) model.Passenger {
	if p.Type != nil {
		dst.Type = *p.Type
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&dst.Title, p.Title)
	set(&dst.FirstName, p.FirstName)
	set(&dst.LastName, p.LastName)
	set(&dst.DateOfBirth, p.DateOfBirth)
	set(&dst.Nationality, p.Nationality)
	set(&dst.PassportNumber, p.PassportNumber)
	set(&dst.PassportExpiry, p.PassportExpiry)
	return dst
}

// ─── Commands ─────────────────────────────────────────────────────────────────

// Command is one of the booking transitions below.
type Command interface {
	commandName() string
}

type OutboundSelected struct{ Flight model.Flight }

// ReturnSelected sets or, with a nil Flight, clears the return leg.
type ReturnSelected struct{ Flight *model.Flight }

// PassengerAdded appends a passenger whose ID is already assigned.
type PassengerAdded struct{ Passenger model.Passenger }

type PassengerUpdated struct {
	ID    string
	Patch PassengerPatch
}

type PassengerRemoved struct{ ID string }

// PassengersReplaced swaps the whole passenger list in one step.
type PassengersReplaced struct{ Passengers []model.Passenger }

type ContactDetailsSet struct{ Details model.ContactDetails }

type BookingCompleted struct{ Reference string }

type BookingReset struct{}

func (OutboundSelected) commandName() string   { return "outbound_selected" }
func (ReturnSelected) commandName() string     { return "return_selected" }
func (PassengerAdded) commandName() string     { return "passenger_added" }
func (PassengerUpdated) commandName() string   { return "passenger_updated" }
func (PassengerRemoved) commandName() string   { return "passenger_removed" }
func (PassengersReplaced) commandName() string { return "passengers_replaced" }
func (ContactDetailsSet) commandName() string  { return "contact_details_set" }
func (BookingCompleted) commandName() string   { return "booking_completed" }
func (BookingReset) commandName() string       { return "booking_reset" }

// Reduce applies c to s. Passenger slices are always copied, never modified
// in place.
func Reduce(s State, c Command) State {
	switch c := c.(type) {
	case OutboundSelected:
		f := c.Flight
		s.OutboundFlight = &f
		s.TotalPrice = totalPrice(s)
	case ReturnSelected:
		if c.Flight == nil {
			s.ReturnFlight = nil
		} else {
			f := *c.Flight
			s.ReturnFlight = &f
		}
		s.TotalPrice = totalPrice(s)
	case PassengerAdded:
		ps := make([]model.Passenger, len(s.Passengers), len(s.Passengers)+1)
		copy(ps, s.Passengers)
		s.Passengers = append(ps, c.Passenger)
	case PassengerUpdated:
		ps := make([]model.Passenger, len(s.Passengers))
		for i, p := range s.Passengers {
			if p.ID == c.ID {
				p = c.Patch.apply(p)
			}
			ps[i] = p
		}
		s.Passengers = ps
	case PassengerRemoved:
		ps := make([]model.Passenger, 0, len(s.Passengers))
		for _, p := range s.Passengers {
			if p.ID != c.ID {
				ps = append(ps, p)
			}
		}
		s.Passengers = ps
	case PassengersReplaced:
		s.Passengers = append([]model.Passenger{}, c.Passengers...)
	case ContactDetailsSet:
		d := c.Details
		s.ContactDetails = &d
	case BookingCompleted:
		if s.BookingReference == "" {
			s.BookingReference = c.Reference
		}
	case BookingReset:
		return initialState()
	}
	return s
}

func totalPrice(s State) float64 {
	var total float64
	if s.OutboundFlight != nil {
		total += s.OutboundFlight.Price.Amount
	}
	if s.ReturnFlight != nil {
		total += s.ReturnFlight.Price.Amount
	}
	return total
}

func initialState() State {
	return State{Passengers: []model.Passenger{}}
}

// Package model defines the core domain types for the flight booking system.
package model

// User is an authenticated traveller.
type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// CabinClass is the travel class requested in a search and offered by a flight.
type CabinClass string

const (
	CabinEconomy  CabinClass = "economy"
	CabinPremium  CabinClass = "premium"
	CabinBusiness CabinClass = "business"
	CabinFirst    CabinClass = "first"
)

// Valid reports whether c is one of the known cabin classes.
func (c CabinClass) Valid() bool {
	switch c {
	case CabinEconomy, CabinPremium, CabinBusiness, CabinFirst:
		return true
	}
	return false
}

// Airport identifies a departure or arrival airport by IATA code.
type Airport struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// Airline operating a flight.
type Airline struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// FlightEndpoint is one end of a flight leg.
type FlightEndpoint struct {
	Airport  Airport `json:"airport"`
	Time     string  `json:"time"` // RFC 3339
	Terminal string  `json:"terminal"`
}

// Price is an amount in a given currency. Amount already covers every
// passenger of the search that produced the flight.
type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Flight is a single bookable flight returned by a search.
type Flight struct {
	ID             string         `json:"id"`
	Airline        Airline        `json:"airline"`
	FlightNumber   string         `json:"flightNumber"`
	Departure      FlightEndpoint `json:"departure"`
	Arrival        FlightEndpoint `json:"arrival"`
	Duration       string         `json:"duration"`
	Price          Price          `json:"price"`
	SeatsAvailable int            `json:"seatsAvailable"`
	CabinClass     CabinClass     `json:"cabinClass"`
}

// FlightSearchParams describes one flight search request.
type FlightSearchParams struct {
	From       string     `json:"from"`
	To         string     `json:"to"`
	DepartDate string     `json:"departDate"` // YYYY-MM-DD
	ReturnDate string     `json:"returnDate,omitempty"`
	Passengers int        `json:"passengers"`
	CabinClass CabinClass `json:"cabinClass"`
}

// RoundTrip reports whether the search asked for a return leg.
func (p FlightSearchParams) RoundTrip() bool {
	return p.ReturnDate != ""
}

// PassengerType is the age band of a passenger.
type PassengerType string

const (
	PassengerAdult  PassengerType = "adult"
	PassengerChild  PassengerType = "child"
	PassengerInfant PassengerType = "infant"
)

// Passenger travelling on a booking.
type Passenger struct {
	ID             string        `json:"id"`
	Type           PassengerType `json:"type"`
	Title          string        `json:"title"`
	FirstName      string        `json:"firstName"`
	LastName       string        `json:"lastName"`
	DateOfBirth    string        `json:"dateOfBirth"`
	Nationality    string        `json:"nationality"`
	PassportNumber string        `json:"passportNumber,omitempty"`
	PassportExpiry string        `json:"passportExpiry,omitempty"`
}

// ContactDetails for the lead booker.
type ContactDetails struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// BookingRequest is the snapshot of a booking sent for completion.
type BookingRequest struct {
	OutboundFlight *Flight         `json:"outboundFlight"`
	ReturnFlight   *Flight         `json:"returnFlight"`
	Passengers     []Passenger     `json:"passengers"`
	ContactDetails *ContactDetails `json:"contactDetails"`
	TotalPrice     float64         `json:"totalPrice"`
}

// SessionMarker is the persisted proof of a session: an opaque token plus the
// serialized user it was issued for.
type SessionMarker struct {
	Token    string
	UserData string
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

package service

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/Shivanand-hulikatti/flight-booking/internal/model"
)

const airlineLogo = "https://images.unsplash.com/photo-1464037866556-6812c9d1c72e?auto=format&fit=crop&w=50&h=50"

var airlines = []model.Airline{
	{Code: "BA", Name: "British Airways", Logo: airlineLogo},
	{Code: "AF", Name: "Air France", Logo: airlineLogo},
	{Code: "LH", Name: "Lufthansa", Logo: airlineLogo},
	{Code: "EK", Name: "Emirates", Logo: airlineLogo},
}

// airports in display order.
var airports = []model.Airport{
	{Code: "LHR", Name: "Heathrow Airport", City: "London", Country: "United Kingdom"},
	{Code: "CDG", Name: "Charles de Gaulle Airport", City: "Paris", Country: "France"},
	{Code: "FRA", Name: "Frankfurt Airport", City: "Frankfurt", Country: "Germany"},
	{Code: "JFK", Name: "John F. Kennedy Airport", City: "New York", Country: "United States"},
	{Code: "LAX", Name: "Los Angeles International Airport", City: "Los Angeles", Country: "United States"},
	{Code: "DXB", Name: "Dubai International Airport", City: "Dubai", Country: "United Arab Emirates"},
}

var basePrices = map[model.CabinClass]float64{
	model.CabinEconomy:  100,
	model.CabinPremium:  300,
	model.CabinBusiness: 600,
	model.CabinFirst:    1200,
}

// FlightService generates random flights between known airports.
type FlightService struct {
	delay time.Duration
	rng   *lockedRand
}

// NewFlightService constructs a FlightService.
func NewFlightService(delay time.Duration) *FlightService {
	return &FlightService{delay: delay, rng: newLockedRand(rand.Uint64())}
}

// Airports lists the airports searches may use.
func (s *FlightService) Airports() []model.Airport {
	out := make([]model.Airport, len(airports))
	copy(out, airports)
	return out
}

func findAirport(code string) (model.Airport, bool) {
	for _, a := range airports {
		if a.Code == code {
			return a, true
		}
	}
	return model.Airport{}, false
}

// Search returns 5 to 10 flights sorted by price. Prices already cover every
// passenger in p.
func (s *FlightService) Search(ctx context.Context, p model.FlightSearchParams) ([]model.Flight, error) {
	if err := wait(ctx, s.delay); err != nil {
		return nil, err
	}

	from, ok1 := findAirport(p.From)
	to, ok2 := findAirport(p.To)
	if !ok1 || !ok2 {
		return nil, ErrInvalidAirports
	}
	day, err := time.Parse(time.DateOnly, p.DepartDate)
	if err != nil {
		return nil, fmt.Errorf("parse departure date: %w", err)
	}
	passengers := max(p.Passengers, 1)
	base := basePrices[p.CabinClass]

	n := s.rng.IntN(6) + 5
	flights := make([]model.Flight, 0, n)
	for i := range n {
		airline := airlines[s.rng.IntN(len(airlines))]

		depart := day.Add(time.Duration(s.rng.IntN(24))*time.Hour +
			time.Duration(s.rng.IntN(4)*15)*time.Minute)
		hours, minutes := s.rng.IntN(8)+1, s.rng.IntN(4)*15
		arrive := depart.Add(time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute)

		variation := s.rng.Float64()*0.3 + 0.85
		price := math.Round(base*variation) * float64(passengers)

		flights = append(flights, model.Flight{
			ID:           fmt.Sprintf("FLIGHT-%d", i+1),
			Airline:      airline,
			FlightNumber: fmt.Sprintf("%s%d", airline.Code, s.rng.IntN(1000)+100),
			Departure: model.FlightEndpoint{
				Airport:  from,
				Time:     depart.Format(time.RFC3339),
				Terminal: fmt.Sprintf("T%d", s.rng.IntN(5)+1),
			},
			Arrival: model.FlightEndpoint{
				Airport:  to,
				Time:     arrive.Format(time.RFC3339),
				Terminal: fmt.Sprintf("T%d", s.rng.IntN(5)+1),
			},
			Duration:       fmt.Sprintf("%dh %dm", hours, minutes),
			Price:          model.Price{Amount: price, Currency: "USD"},
			SeatsAvailable: s.rng.IntN(50) + 1,
			CabinClass:     p.CabinClass,
		})
	}

	sort.SliceStable(flights, func(i, j int) bool {
		return flights[i].Price.Amount < flights[j].Price.Amount
	})
	return flights, nil
}

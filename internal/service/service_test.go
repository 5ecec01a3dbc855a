package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/flight-booking/internal/model"
)

func TestAuthService_Login(t *testing.T) {
	s := NewAuthService(0)

	u, err := s.Login(context.Background(), "test@example.com", "password")
	require.NoError(t, err)
	assert.Equal(t, "Test User", u.Name)
	assert.Equal(t, "1", u.ID)

	_, err = s.Login(context.Background(), "test@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "Invalid credentials", err.Error())
}

func TestAuthService_Register(t *testing.T) {
	s := NewAuthService(0)

	a, err := s.Register(context.Background(), "Ada", "ada@example.com", "password1")
	require.NoError(t, err)
	b, err := s.Register(context.Background(), "Ada", "ada@example.com", "password1")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "Ada", a.Name)

	_, err = s.Register(context.Background(), "", "ada@example.com", "password1")
	assert.ErrorIs(t, err, ErrRegistrationFailed)
}

func TestAuthService_honoursCancellation(t *testing.T) {
	s := NewAuthService(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Login(ctx, "test@example.com", "password")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFlightService_Search(t *testing.T) {
	s := NewFlightService(0)
	s.rng = newLockedRand(42)

	params := model.FlightSearchParams{
		From: "LHR", To: "JFK", DepartDate: "2026-11-01",
		Passengers: 2, CabinClass: model.CabinBusiness,
	}
	flights, err := s.Search(context.Background(), params)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(flights), 5)
	require.LessOrEqual(t, len(flights), 10)
	for i, f := range flights {
		if i > 0 {
			assert.LessOrEqual(t, flights[i-1].Price.Amount, f.Price.Amount)
		}
		assert.Equal(t, "LHR", f.Departure.Airport.Code)
		assert.Equal(t, "JFK", f.Arrival.Airport.Code)
		assert.Equal(t, model.CabinBusiness, f.CabinClass)
		// 600 * [0.85, 1.15], rounded, times two passengers.
		assert.GreaterOrEqual(t, f.Price.Amount, 1020.0)
		assert.LessOrEqual(t, f.Price.Amount, 1380.0)
		assert.Zero(t, int(f.Price.Amount)%2)

		dep, err := time.Parse(time.RFC3339, f.Departure.Time)
		require.NoError(t, err)
		arr, err := time.Parse(time.RFC3339, f.Arrival.Time)
		require.NoError(t, err)
		assert.True(t, arr.After(dep))
		assert.Equal(t, "2026-11-01", dep.Format(time.DateOnly))
	}
}

func TestFlightService_Search_unknownAirport(t *testing.T) {
	_, err := NewFlightService(0).Search(context.Background(), model.FlightSearchParams{
		From: "LHR", To: "XXX", DepartDate: "2026-11-01", Passengers: 1, CabinClass: model.CabinEconomy,
	})
	assert.ErrorIs(t, err, ErrInvalidAirports)
	assert.Equal(t, "Invalid airports selected", err.Error())
}

func TestFlightService_Airports(t *testing.T) {
	s := NewFlightService(0)
	got := s.Airports()
	require.Len(t, got, 6)

	got[0].Code = "ZZZ"
	assert.Equal(t, "LHR", s.Airports()[0].Code)
}

func TestBookingService_Complete(t *testing.T) {
	s := NewBookingService(0)

	ref, err := s.Complete(context.Background(), model.BookingRequest{OutboundFlight: &model.Flight{ID: "F1"}})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^SKY\d{4}$`), ref)

	_, err = s.Complete(context.Background(), model.BookingRequest{})
	assert.ErrorIs(t, err, ErrIncompleteBooking)
}

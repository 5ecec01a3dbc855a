package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Shivanand-hulikatti/flight-booking/internal/model"
	"github.com/Shivanand-hulikatti/flight-booking/internal/service"
)

type searchFunc func(ctx context.Context, p model.FlightSearchParams) ([]model.Flight, error)

func (f searchFunc) Search(ctx context.Context, p model.FlightSearchParams) ([]model.Flight, error) {
	return f(ctx, p)
}

func flight(id string, amount float64) model.Flight {
	return model.Flight{ID: id, Price: model.Price{Amount: amount, Currency: "USD"}}
}

var params = model.FlightSearchParams{
	From: "LHR", To: "CDG", DepartDate: "2026-11-01", Passengers: 1, CabinClass: model.CabinEconomy,
}

func TestReduce(t *testing.T) {
	s := Reduce(State{Error: "boom", Flights: []model.Flight{flight("old", 1)}}, SearchStarted{Params: params})
	assert.True(t, s.IsLoading)
	assert.Empty(t, s.Error)
	assert.Equal(t, &params, s.Params)

	s = Reduce(s, SearchFailed{Message: "nope"})
	assert.False(t, s.IsLoading)
	assert.Empty(t, s.Flights)
	assert.Equal(t, "nope", s.Error)

	s = Reduce(s, FlightsCleared{})
	assert.Nil(t, s.Params)
	assert.Equal(t, "nope", s.Error, "clearing leaves the error alone")
}

func TestStore_SearchFlights_sortsByPrice(t *testing.T) {
	unsorted := searchFunc(func(context.Context, model.FlightSearchParams) ([]model.Flight, error) {
		return []model.Flight{flight("a", 300), flight("b", 100), flight("c", 200), flight("d", 100)}, nil
	})
	s := New(unsorted, zaptest.NewLogger(t))

	st := s.SearchFlights(context.Background(), params)

	assert.False(t, st.IsLoading)
	assert.Empty(t, st.Error)
	var ids []string
	for _, f := range st.Flights {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []string{"b", "d", "c", "a"}, ids)
}

func TestStore_SearchFlights_mockService(t *testing.T) {
	s := New(service.NewFlightService(0), zaptest.NewLogger(t))

	st := s.SearchFlights(context.Background(), params)

	require.NotEmpty(t, st.Flights)
	for i := 1; i < len(st.Flights); i++ {
		assert.LessOrEqual(t, st.Flights[i-1].Price.Amount, st.Flights[i].Price.Amount)
	}
	assert.False(t, st.IsLoading)
}

func TestStore_SearchFlights_failure(t *testing.T) {
	s := New(service.NewFlightService(0), zaptest.NewLogger(t))
	s.SearchFlights(context.Background(), params)

	bad := params
	bad.To = "XXX"
	st := s.SearchFlights(context.Background(), bad)

	assert.Empty(t, st.Flights)
	assert.Equal(t, "Invalid airports selected", st.Error)
	assert.False(t, st.IsLoading)
	assert.Equal(t, "XXX", st.Params.To)

	assert.Empty(t, s.ResetError().Error)
}

func TestStore_SearchFlights_staleResultDropped(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	calls := 0
	gated := searchFunc(func(_ context.Context, p model.FlightSearchParams) ([]model.Flight, error) {
		calls++
		if calls == 1 {
			close(firstStarted)
			<-releaseFirst
			return []model.Flight{flight("stale", 1)}, nil
		}
		return []model.Flight{flight("fresh", 2)}, nil
	})
	s := New(gated, zaptest.NewLogger(t))

	done := make(chan State)
	go func() { done <- s.SearchFlights(context.Background(), params) }()
	<-firstStarted

	second := s.SearchFlights(context.Background(), params)
	require.Equal(t, "fresh", second.Flights[0].ID)

	close(releaseFirst)
	<-done

	st := s.State()
	require.Len(t, st.Flights, 1)
	assert.Equal(t, "fresh", st.Flights[0].ID)
}

func TestStore_ClearFlights(t *testing.T) {
	s := New(searchFunc(func(context.Context, model.FlightSearchParams) ([]model.Flight, error) {
		return nil, errors.New("down")
	}), zaptest.NewLogger(t))
	s.SearchFlights(context.Background(), params)

	st := s.ClearFlights()

	assert.Nil(t, st.Params)
	assert.Empty(t, st.Flights)
	assert.Equal(t, "down", st.Error)
}

func TestStore_Flight(t *testing.T) {
	s := New(searchFunc(func(context.Context, model.FlightSearchParams) ([]model.Flight, error) {
		return []model.Flight{flight("F1", 100), flight("F2", 200)}, nil
	}), zaptest.NewLogger(t))
	s.SearchFlights(context.Background(), params)

	f, ok := s.Flight("F2")
	require.True(t, ok)
	assert.Equal(t, 200.0, f.Price.Amount)

	_, ok = s.Flight("F9")
	assert.False(t, ok)
}

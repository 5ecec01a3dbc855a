// Package search holds the current flight search and its results.
package search

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/flight-booking/internal/metrics"
	"github.com/Shivanand-hulikatti/flight-booking/internal/model"
	"github.com/Shivanand-hulikatti/flight-booking/internal/reducer"
)

// State is the latest search. Flights are ascending by price.
type State struct {
	Params    *model.FlightSearchParams `json:"params"`
	Flights   []model.Flight            `json:"flights"`
	IsLoading bool                      `json:"isLoading"`
	Error     string                    `json:"error,omitempty"`
}

// Command is one of the search transitions below.
type Command interface {
	commandName() string
}

type SearchStarted struct{ Params model.FlightSearchParams }

type SearchSucceeded struct{ Flights []model.Flight }

type SearchFailed struct{ Message string }

type FlightsCleared struct{}

type ErrorReset struct{}

func (SearchStarted) commandName() string   { return "search_started" }
func (SearchSucceeded) commandName() string { return "search_succeeded" }
func (SearchFailed) commandName() string    { return "search_failed" }
func (FlightsCleared) commandName() string  { return "flights_cleared" }
func (ErrorReset) commandName() string      { return "error_reset" }

// Reduce applies c to s.
func Reduce(s State, c Command) State {
	switch c := c.(type) {
	case SearchStarted:
		p := c.Params
		s.Params = &p
		s.IsLoading = true
		s.Error = ""
	case SearchSucceeded:
		s.Flights = c.Flights
		s.IsLoading = false
	case SearchFailed:
		s.Flights = nil
		s.IsLoading = false
		s.Error = c.Message
	case FlightsCleared:
		s.Flights = nil
		s.Params = nil
	case ErrorReset:
		s.Error = ""
	}
	return s
}

// Searcher is the external flight search service.
type Searcher interface {
	Search(ctx context.Context, p model.FlightSearchParams) ([]model.Flight, error)
}

// Store is the process-wide search state.
type Store struct {
	state    *reducer.Store[State, Command]
	searcher Searcher
	log      *zap.Logger
}

// New constructs an empty search store.
func New(searcher Searcher, log *zap.Logger) *Store {
	return &Store{
		state: reducer.New(State{}, Reduce, reducer.WithDispatchHook[State](func(c Command) {
			metrics.RecordCommand("search", c.commandName())
		})),
		searcher: searcher,
		log:      log.Named("search"),
	}
}

// State returns the current search.
func (s *Store) State() State { return s.state.State() }

// Subscribe registers fn for every search change.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) { return s.state.Subscribe(fn) }

// SearchFlights runs a search. Only the most recently started search may
// commit its result; earlier ones are dropped when they resolve.
func (s *Store) SearchFlights(ctx context.Context, p model.FlightSearchParams) State {
	ticket, _ := s.state.BeginWith(SearchStarted{Params: p})

	start := time.Now()
	flights, err := s.searcher.Search(ctx, p)
	metrics.RecordExternalCall("flights", start, err)

	var c Command
	if err != nil {
		c = SearchFailed{Message: err.Error()}
	} else {
		c = SearchSucceeded{Flights: sortByPrice(flights)}
	}

	st, ok := s.state.DispatchIf(ticket, c)
	if !ok {
		metrics.RecordStale("search", "search_flights")
		s.log.Debug("dropping stale search result", zap.String("from", p.From), zap.String("to", p.To))
		return st
	}
	if err != nil {
		s.log.Info("flight search failed", zap.Error(err))
	} else {
		s.log.Info("flight search done",
			zap.String("from", p.From), zap.String("to", p.To), zap.Int("results", len(flights)))
	}
	return st
}

// ClearFlights empties the results and params. A search in flight still
// commits when it resolves.
func (s *Store) ClearFlights() State { return s.state.Dispatch(FlightsCleared{}) }

// ResetError clears State.Error.
func (s *Store) ResetError() State { return s.state.Dispatch(ErrorReset{}) }

// Flight returns the flight with id from the current results.
func (s *Store) Flight(id string) (model.Flight, bool) {
	for _, f := range s.state.State().Flights {
		if f.ID == id {
			return f, true
		}
	}
	return model.Flight{}, false
}

func sortByPrice(in []model.Flight) []model.Flight {
	out := make([]model.Flight, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Price.Amount < out[j].Price.Amount
	})
	return out
}

package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/flight-booking/internal/metrics"
	"github.com/Shivanand-hulikatti/flight-booking/internal/model"
	"github.com/Shivanand-hulikatti/flight-booking/internal/reducer"
)

var (
	// ErrCompletionFailed is the only error callers see from a failed
	// completion; the cause is logged.
	ErrCompletionFailed = errors.New("booking could not be completed")

	// ErrAlreadyCompleted is returned when the booking already has a reference.
	ErrAlreadyCompleted = errors.New("booking already completed")
)

// Completer is the external booking finalization service.
type Completer interface {
	Complete(ctx context.Context, req model.BookingRequest) (string, error)
}

// PassengerInput is a passenger before it is given an id.
type PassengerInput struct {
	Type           model.PassengerType
	Title          string
	FirstName      string
	LastName       string
	DateOfBirth    string
	Nationality    string
	PassportNumber string
	PassportExpiry string
}

// Store is the process-wide booking.
type Store struct {
	state     *reducer.Store[State, Command]
	completer Completer
	log       *zap.Logger
}

// New constructs an empty booking store.
func New(completer Completer, log *zap.Logger) *Store {
	return &Store{
		state: reducer.New(initialState(), Reduce, reducer.WithDispatchHook[State](func(c Command) {
			metrics.RecordCommand("booking", c.commandName())
		})),
		completer: completer,
		log:       log.Named("booking"),
	}
}

// State returns the current booking.
func (s *Store) State() State { return s.state.State() }

// Subscribe registers fn for every booking change.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) { return s.state.Subscribe(fn) }

func (s *Store) SelectOutboundFlight(f model.Flight) State {
	return s.state.Dispatch(OutboundSelected{Flight: f})
}

// SelectReturnFlight sets the return leg; nil removes it.
func (s *Store) SelectReturnFlight(f *model.Flight) State {
	return s.state.Dispatch(ReturnSelected{Flight: f})
}

// AddPassenger appends in as a new passenger with a generated id.
func (s *Store) AddPassenger(in PassengerInput) model.Passenger {
	p := in.passenger()
	s.state.Dispatch(PassengerAdded{Passenger: p})
	return p
}

// ReplacePassengers swaps the passenger list for ins, each with a fresh id.
func (s *Store) ReplacePassengers(ins []PassengerInput) State {
	ps := make([]model.Passenger, len(ins))
	for i, in := range ins {
		ps[i] = in.passenger()
	}
	return s.state.Dispatch(PassengersReplaced{Passengers: ps})
}

func (in PassengerInput) passenger() model.Passenger {
	return model.Passenger{
		ID:             uuid.NewString(),
		Type:           in.Type,
		Title:          in.Title,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		DateOfBirth:    in.DateOfBirth,
		Nationality:    in.Nationality,
		PassportNumber: in.PassportNumber,
		PassportExpiry: in.PassportExpiry,
	}
}

// UpdatePassenger merges patch into the passenger with id. Unknown ids are
// ignored.
func (s *Store) UpdatePassenger(id string, patch PassengerPatch) State {
	return s.state.Dispatch(PassengerUpdated{ID: id, Patch: patch})
}

func (s *Store) RemovePassenger(id string) State {
	return s.state.Dispatch(PassengerRemoved{ID: id})
}

// SetContactDetails replaces the contact details.
func (s *Store) SetContactDetails(email, phone string) State {
	return s.state.Dispatch(ContactDetailsSet{Details: model.ContactDetails{Email: email, Phone: phone}})
}

// CompleteBooking sends the current booking for completion and stores the
// returned reference. A reset while the call is outstanding discards its
// result.
func (s *Store) CompleteBooking(ctx context.Context) (string, error) {
	ticket, snapshot := s.state.BeginRead()
	if snapshot.BookingReference != "" {
		return "", ErrAlreadyCompleted
	}

	start := time.Now()
	ref, err := s.completer.Complete(ctx, snapshot.Request())
	metrics.RecordExternalCall("booking", start, err)
	if err != nil {
		s.log.Error("complete booking", zap.Error(err))
		return "", ErrCompletionFailed
	}

	st, ok := s.state.DispatchIf(ticket, BookingCompleted{Reference: ref})
	if !ok {
		metrics.RecordStale("booking", "complete_booking")
		s.log.Warn("booking reset during completion, dropping reference", zap.String("reference", ref))
		return "", ErrCompletionFailed
	}
	if st.BookingReference != ref {
		return "", ErrAlreadyCompleted
	}
	s.log.Info("booking completed", zap.String("reference", ref), zap.Float64("total", st.TotalPrice))
	return ref, nil
}

// ResetBooking returns to the empty booking and discards any reference.
func (s *Store) ResetBooking() State {
	return s.state.InvalidateWith(BookingReset{})
}

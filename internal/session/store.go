package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/flight-booking/internal/metrics"
	"github.com/Shivanand-hulikatti/flight-booking/internal/model"
	"github.com/Shivanand-hulikatti/flight-booking/internal/reducer"
	"github.com/Shivanand-hulikatti/flight-booking/internal/repository"
)

// Authenticator is the external auth service.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (model.User, error)
	Register(ctx context.Context, name, email, password string) (model.User, error)
}

// MarkerStore persists the session marker. Load returns
// repository.ErrNotFound when no marker exists.
type MarkerStore interface {
	Load(ctx context.Context) (model.SessionMarker, error)
	Save(ctx context.Context, m model.SessionMarker) error
	Clear(ctx context.Context) error
}

// Store is the process-wide session.
type Store struct {
	state   *reducer.Store[State, Command]
	auth    Authenticator
	markers MarkerStore
	tokens  *Tokens
	log     *zap.Logger

	// mmu serializes the ticket check and Save in persist with the Clear in
	// Logout.
	mmu sync.Mutex
}

// New builds the session store and restores a persisted session if the
// marker is valid. An invalid marker is cleared.
func New(ctx context.Context, auth Authenticator, markers MarkerStore, tokens *Tokens, log *zap.Logger) *Store {
	s := &Store{
		state: reducer.New(State{}, Reduce, reducer.WithDispatchHook[State](func(c Command) {
			metrics.RecordCommand("session", c.commandName())
		})),
		auth:    auth,
		markers: markers,
		tokens:  tokens,
		log:     log.Named("session"),
	}
	s.restore(ctx)
	return s
}

func (s *Store) restore(ctx context.Context) {
	m, err := s.markers.Load(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return
	}
	if err != nil {
		s.log.Warn("load session marker", zap.Error(err))
		return
	}

	var u model.User
	if err := json.Unmarshal([]byte(m.UserData), &u); err != nil || u.ID == "" {
		s.discard(ctx, "malformed user data")
		return
	}
	if err := s.tokens.Verify(m.Token, u.ID); err != nil {
		s.discard(ctx, err.Error())
		return
	}

	s.state.Dispatch(Restored{User: u})
	s.log.Info("session restored", zap.String("user_id", u.ID))
}

func (s *Store) discard(ctx context.Context, reason string) {
	s.log.Debug("discarding session marker", zap.String("reason", reason))
	if err := s.markers.Clear(ctx); err != nil {
		s.log.Warn("clear session marker", zap.Error(err))
	}
}

// State returns the current session.
func (s *Store) State() State { return s.state.State() }

// Subscribe registers fn for every session change.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) { return s.state.Subscribe(fn) }

// Login authenticates with email and password. Failures end up in
// State.Error; the returned state is the one after this call.
func (s *Store) Login(ctx context.Context, email, password string) State {
	return s.authenticate(ctx, "login", func(ctx context.Context) (model.User, error) {
		return s.auth.Login(ctx, email, password)
	})
}

// Register creates an account and logs it in.
func (s *Store) Register(ctx context.Context, name, email, password string) State {
	return s.authenticate(ctx, "register", func(ctx context.Context) (model.User, error) {
		return s.auth.Register(ctx, name, email, password)
	})
}

func (s *Store) authenticate(ctx context.Context, op string, call func(context.Context) (model.User, error)) State {
	ticket, _ := s.state.BeginWith(AuthStarted{})

	start := time.Now()
	u, err := call(ctx)
	metrics.RecordExternalCall("auth", start, err)

	if err != nil {
		st, ok := s.state.DispatchIf(ticket, AuthFailed{Message: err.Error()})
		if !ok {
			s.stale(op)
		}
		return st
	}

	st, ok := s.state.DispatchIf(ticket, AuthSucceeded{User: u})
	if !ok {
		s.stale(op)
		return st
	}
	s.persist(ctx, ticket, u)
	s.log.Info("authenticated", zap.String("op", op), zap.String("user_id", u.ID))
	return st
}

// persist saves the marker for u unless ticket went stale after the commit.
func (s *Store) persist(ctx context.Context, ticket reducer.Ticket, u model.User) {
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		s.log.Error("issue session token", zap.Error(err))
		return
	}
	data, err := json.Marshal(u)
	if err != nil {
		s.log.Error("encode session user", zap.Error(err))
		return
	}

	s.mmu.Lock()
	defer s.mmu.Unlock()
	if !s.state.Current(ticket) {
		s.log.Debug("session ended before marker was saved", zap.String("user_id", u.ID))
		return
	}
	if err := s.markers.Save(ctx, model.SessionMarker{Token: token, UserData: string(data)}); err != nil {
		s.log.Error("save session marker", zap.Error(err))
	}
}

func (s *Store) stale(op string) {
	metrics.RecordStale("session", op)
	s.log.Debug("dropping stale auth result", zap.String("op", op))
}

// Logout clears the marker and returns to the unauthenticated state. Any
// login still in flight is ignored when it completes.
func (s *Store) Logout(ctx context.Context) State {
	st := s.state.InvalidateWith(LoggedOut{})

	s.mmu.Lock()
	defer s.mmu.Unlock()
	if err := s.markers.Clear(ctx); err != nil {
		s.log.Warn("clear session marker", zap.Error(err))
	}
	return st
}

// ResetError clears State.Error.
func (s *Store) ResetError() State { return s.state.Dispatch(ErrorReset{}) }

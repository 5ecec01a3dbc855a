package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Shivanand-hulikatti/flight-booking/internal/model"
	"github.com/Shivanand-hulikatti/flight-booking/internal/repository"
	"github.com/Shivanand-hulikatti/flight-booking/internal/service"
)

// gatedAuth blocks every call until release is closed.
type gatedAuth struct {
	started chan struct{}
	release chan struct{}
	user    model.User
}

func (g *gatedAuth) Login(ctx context.Context, _, _ string) (model.User, error) {
	g.started <- struct{}{}
	<-g.release
	return g.user, nil
}

func (g *gatedAuth) Register(ctx context.Context, _, _, _ string) (model.User, error) {
	return g.Login(ctx, "", "")
}

type failingMarkers struct{ *repository.MemoryMarkerStore }

func (failingMarkers) Save(context.Context, model.SessionMarker) error {
	return errors.New("disk full")
}

func newStore(t *testing.T, auth Authenticator, markers MarkerStore) *Store {
	t.Helper()
	return New(context.Background(), auth, markers, NewTokens("test-secret", time.Hour), zaptest.NewLogger(t))
}

func TestReduce(t *testing.T) {
	u := model.User{ID: "1", Name: "Test User"}

	s := Reduce(State{Error: "old"}, AuthStarted{})
	assert.Equal(t, State{IsLoading: true}, s)

	s = Reduce(s, AuthSucceeded{User: u})
	assert.Equal(t, State{User: &u, IsAuthenticated: true}, s)

	s = Reduce(State{IsLoading: true}, AuthFailed{Message: "Invalid credentials"})
	assert.Equal(t, State{Error: "Invalid credentials"}, s)

	s = Reduce(s, ErrorReset{})
	assert.Equal(t, State{}, s)

	s = Reduce(State{User: &u, IsAuthenticated: true, IsLoading: true}, AuthFailed{Message: "Invalid credentials"})
	assert.Equal(t, State{User: &u, IsAuthenticated: true, Error: "Invalid credentials"}, s)

	s = Reduce(State{User: &u, IsAuthenticated: true}, LoggedOut{})
	assert.Equal(t, State{}, s)
}

func TestStore_Login_demoAccount(t *testing.T) {
	markers := repository.NewMemoryMarkerStore(time.Hour)
	s := newStore(t, service.NewAuthService(0), markers)

	st := s.Login(context.Background(), "test@example.com", "password")

	require.NotNil(t, st.User)
	assert.Equal(t, "Test User", st.User.Name)
	assert.True(t, st.IsAuthenticated)
	assert.False(t, st.IsLoading)
	assert.Empty(t, st.Error)

	m, err := markers.Load(context.Background())
	require.NoError(t, err)
	var saved model.User
	require.NoError(t, json.Unmarshal([]byte(m.UserData), &saved))
	assert.Equal(t, *st.User, saved)
}

func TestStore_Login_invalidCredentials(t *testing.T) {
	markers := repository.NewMemoryMarkerStore(time.Hour)
	s := newStore(t, service.NewAuthService(0), markers)

	st := s.Login(context.Background(), "test@example.com", "nope")

	assert.Nil(t, st.User)
	assert.False(t, st.IsAuthenticated)
	assert.False(t, st.IsLoading)
	assert.Equal(t, "Invalid credentials", st.Error)
	_, err := markers.Load(context.Background())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.Empty(t, s.ResetError().Error)
}

func TestStore_Register(t *testing.T) {
	s := newStore(t, service.NewAuthService(0), repository.NewMemoryMarkerStore(time.Hour))

	st := s.Register(context.Background(), "Ada", "ada@example.com", "password1")
	require.True(t, st.IsAuthenticated)
	assert.Equal(t, "ada@example.com", st.User.Email)

	st = s.Register(context.Background(), "", "", "")
	assert.Equal(t, "Registration failed", st.Error)
	assert.False(t, st.IsLoading)
	require.NotNil(t, st.User)
	assert.Equal(t, "ada@example.com", st.User.Email)
}

func TestStore_failedLoginKeepsExistingSession(t *testing.T) {
	markers := repository.NewMemoryMarkerStore(time.Hour)
	s := newStore(t, service.NewAuthService(0), markers)
	s.Login(context.Background(), "test@example.com", "password")

	st := s.Login(context.Background(), "test@example.com", "wrong")

	assert.Equal(t, "Invalid credentials", st.Error)
	assert.True(t, st.IsAuthenticated)
	require.NotNil(t, st.User)
	assert.Equal(t, "1", st.User.ID)

	// The marker still matches the in-memory session.
	restored := newStore(t, nil, markers)
	assert.Equal(t, st.User, restored.State().User)
	assert.True(t, restored.State().IsAuthenticated)
}

func TestStore_rehydratesFromMarker(t *testing.T) {
	markers := repository.NewMemoryMarkerStore(time.Hour)
	first := newStore(t, service.NewAuthService(0), markers)
	first.Login(context.Background(), "test@example.com", "password")

	// The auth service must not be consulted again.
	second := newStore(t, nil, markers)

	st := second.State()
	require.True(t, st.IsAuthenticated)
	assert.Equal(t, "Test User", st.User.Name)
}

func TestStore_malformedMarkerIsCleared(t *testing.T) {
	tests := []struct {
		name   string
		marker func(t *testing.T) model.SessionMarker
	}{
		{"bad user json", func(*testing.T) model.SessionMarker {
			return model.SessionMarker{Token: "x", UserData: "{not json"}
		}},
		{"forged token", func(*testing.T) model.SessionMarker {
			return model.SessionMarker{Token: "forged", UserData: `{"id":"1","name":"Test User"}`}
		}},
		{"token for another user", func(t *testing.T) model.SessionMarker {
			tok, err := NewTokens("test-secret", time.Hour).Issue("2")
			require.NoError(t, err)
			return model.SessionMarker{Token: tok, UserData: `{"id":"1","name":"Test User"}`}
		}},
		{"token signed with another secret", func(t *testing.T) model.SessionMarker {
			tok, err := NewTokens("other-secret", time.Hour).Issue("1")
			require.NoError(t, err)
			return model.SessionMarker{Token: tok, UserData: `{"id":"1","name":"Test User"}`}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			markers := repository.NewMemoryMarkerStore(time.Hour)
			require.NoError(t, markers.Save(context.Background(), tt.marker(t)))

			s := newStore(t, nil, markers)

			assert.False(t, s.State().IsAuthenticated)
			assert.Empty(t, s.State().Error)
			_, err := markers.Load(context.Background())
			assert.ErrorIs(t, err, repository.ErrNotFound)
		})
	}
}

func TestStore_Logout(t *testing.T) {
	markers := repository.NewMemoryMarkerStore(time.Hour)
	s := newStore(t, service.NewAuthService(0), markers)
	s.Login(context.Background(), "test@example.com", "password")

	st := s.Logout(context.Background())

	assert.Equal(t, State{}, st)
	_, err := markers.Load(context.Background())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_loginResolvingAfterLogoutIsDropped(t *testing.T) {
	auth := &gatedAuth{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		user:    model.User{ID: "1", Name: "Test User"},
	}
	markers := repository.NewMemoryMarkerStore(time.Hour)
	s := newStore(t, auth, markers)

	done := make(chan State)
	go func() { done <- s.Login(context.Background(), "a", "b") }()
	<-auth.started
	assert.True(t, s.State().IsLoading)

	s.Logout(context.Background())
	close(auth.release)
	<-done

	assert.Equal(t, State{}, s.State())
	_, err := markers.Load(context.Background())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_logoutRightAfterCommitLeavesNoMarker(t *testing.T) {
	markers := repository.NewMemoryMarkerStore(time.Hour)
	s := newStore(t, service.NewAuthService(0), markers)

	var once sync.Once
	unsubscribe := s.Subscribe(func(st State) {
		if st.IsAuthenticated {
			once.Do(func() { s.Logout(context.Background()) })
		}
	})
	defer unsubscribe()

	s.Login(context.Background(), "test@example.com", "password")

	assert.Equal(t, State{}, s.State())
	_, err := markers.Load(context.Background())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	restored := newStore(t, nil, markers)
	assert.False(t, restored.State().IsAuthenticated)
}

func TestStore_persistFailureStillAuthenticates(t *testing.T) {
	s := newStore(t, service.NewAuthService(0), failingMarkers{repository.NewMemoryMarkerStore(time.Hour)})

	st := s.Login(context.Background(), "test@example.com", "password")

	assert.True(t, st.IsAuthenticated)
}

func TestStore_Subscribe(t *testing.T) {
	s := newStore(t, service.NewAuthService(0), repository.NewMemoryMarkerStore(time.Hour))
	var seen []State
	unsubscribe := s.Subscribe(func(st State) { seen = append(seen, st) })
	defer unsubscribe()

	s.Login(context.Background(), "test@example.com", "password")

	require.Len(t, seen, 2)
	assert.True(t, seen[0].IsLoading)
	assert.True(t, seen[1].IsAuthenticated)
}

func TestTokens(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	tok, err := tokens.Issue("1")
	require.NoError(t, err)

	assert.NoError(t, tokens.Verify(tok, "1"))
	assert.ErrorIs(t, tokens.Verify(tok, "2"), ErrInvalidToken)

	tokens.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	assert.ErrorIs(t, tokens.Verify(tok, "1"), ErrInvalidToken)
}

package repository

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/Shivanand-hulikatti/flight-booking/internal/model"
)

const (
	tokenKey = "auth_token"
	userKey  = "user"
)

// MemoryMarkerStore keeps the marker in process memory. It lives as long as
// the process and is the default backend.
type MemoryMarkerStore struct {
	c   *cache.Cache
	ttl time.Duration
}

// NewMemoryMarkerStore constructs a MemoryMarkerStore whose entries expire
// after ttl.
func NewMemoryMarkerStore(ttl time.Duration) *MemoryMarkerStore {
	return &MemoryMarkerStore{c: cache.New(ttl, 10*time.Minute), ttl: ttl}
}

// Load returns the marker, or ErrNotFound unless both halves are present.
func (r *MemoryMarkerStore) Load(context.Context) (model.SessionMarker, error) {
	token, ok1 := r.c.Get(tokenKey)
	user, ok2 := r.c.Get(userKey)
	if !ok1 || !ok2 {
		return model.SessionMarker{}, ErrNotFound
	}
	return model.SessionMarker{Token: token.(string), UserData: user.(string)}, nil
}

// Save stores the marker.
func (r *MemoryMarkerStore) Save(_ context.Context, m model.SessionMarker) error {
	r.c.Set(tokenKey, m.Token, r.ttl)
	r.c.Set(userKey, m.UserData, r.ttl)
	return nil
}

// Clear removes the marker.
func (r *MemoryMarkerStore) Clear(context.Context) error {
	r.c.Delete(tokenKey)
	r.c.Delete(userKey)
	return nil
}

package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mezshop/shop-api/pkg/helpers"
)

// Record is what the store holds per session: only the user id, never the
// user document, so a stale or deleted user can't leak through the session.
type Record struct {
	SID           string
	UserID        string
	Authenticated bool
}

// Manager keeps server-side sessions in Redis hashes under a TTL. The client
// only ever sees the opaque session id.
type Manager struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewManager(rdb *redis.Client, ttl time.Duration) *Manager {
	return &Manager{rdb: rdb, ttl: ttl}
}

func key(sid string) string { return "shop:session:" + sid }

func newSID() (string, error) {
	return helpers.GenerateToken(helpers.ResetTokenBytes)
}

// Create starts an anonymous session.
func (m *Manager) Create(ctx context.Context) (string, error) {
	sid, err := newSID()
	if err != nil {
		return "", err
	}
	pipe := m.rdb.Pipeline()
	pipe.HSet(ctx, key(sid), map[string]any{
		"user_id":       "",
		"authenticated": 0,
		"created_at":    time.Now().UTC().Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key(sid), m.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return sid, nil
}

// Login binds userID to a brand-new session id and destroys the previous
// session. Regenerating the id on privilege change prevents fixation.
func (m *Manager) Login(ctx context.Context, oldSID, userID string) (string, error) {
	sid, err := newSID()
	if err != nil {
		return "", err
	}
	pipe := m.rdb.Pipeline()
	if oldSID != "" {
		pipe.Del(ctx, key(oldSID))
	}
	pipe.HSet(ctx, key(sid), map[string]any{
		"user_id":       userID,
		"authenticated": 1,
		"created_at":    time.Now().UTC().Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key(sid), m.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return sid, nil
}

// Logout destroys the session record entirely. Destroying an unknown or
// already-destroyed session is not an error.
func (m *Manager) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return m.rdb.Del(ctx, key(sid)).Err()
}

// Get returns the session record, or nil when the session does not exist
// (expired, destroyed, or never created).
func (m *Manager) Get(ctx context.Context, sid string) (*Record, error) {
	if sid == "" {
		return nil, nil
	}
	data, err := m.rdb.HGetAll(ctx, key(sid)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &Record{
		SID:           sid,
		UserID:        data["user_id"],
		Authenticated: data["authenticated"] == "1",
	}, nil
}

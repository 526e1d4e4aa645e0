package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mezshop/shop-api/internal/domain/entity"
	"github.com/mezshop/shop-api/internal/domain/repository"
	"github.com/mezshop/shop-api/internal/session"
	"github.com/mezshop/shop-api/pkg/helpers"
)

type staticUserRepo struct {
	user *entity.User
}

func (r *staticUserRepo) Create(context.Context, *entity.User) error { return nil }
func (r *staticUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if r.user != nil && r.user.ID == id {
		return r.user, nil
	}
	return nil, repository.ErrNotFound
}
func (r *staticUserRepo) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, repository.ErrNotFound
}
func (r *staticUserRepo) GetByResetToken(context.Context, string, time.Time) (*entity.User, error) {
	return nil, repository.ErrNotFound
}
func (r *staticUserRepo) SetResetToken(context.Context, string, string, time.Time) error {
	return nil
}
func (r *staticUserRepo) UpdatePasswordByResetToken(context.Context, string, string, string, time.Time) error {
	return nil
}

func newGuardedRouter(t *testing.T, repo repository.UserRepository) (*gin.Engine, *session.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	sessions := session.NewManager(rdb, time.Hour)

	r := gin.New()
	r.Use(CurrentUser(sessions, repo))
	r.GET("/me", RequireUser(), func(c *gin.Context) {
		u, _ := UserFrom(c)
		c.String(http.StatusOK, u.Email)
	})
	return r, sessions
}

func doGet(r *gin.Engine, sid string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: helpers.SessionCookieName, Value: sid})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireUser_NoCookie(t *testing.T) {
	r, _ := newGuardedRouter(t, &staticUserRepo{})
	w := doGet(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireUser_UnknownSession(t *testing.T) {
	r, _ := newGuardedRouter(t, &staticUserRepo{})
	w := doGet(r, "stale-session-id")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireUser_AnonymousSession(t *testing.T) {
	repo := &staticUserRepo{}
	r, sessions := newGuardedRouter(t, repo)

	sid, err := sessions.Create(context.Background())
	require.NoError(t, err)

	w := doGet(r, sid)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "anonymous sessions do not pass the guard")
}

func TestRequireUser_AuthenticatedSession(t *testing.T) {
	repo := &staticUserRepo{user: &entity.User{ID: "user-1", Email: "ada@example.com"}}
	r, sessions := newGuardedRouter(t, repo)

	sid, err := sessions.Login(context.Background(), "", "user-1")
	require.NoError(t, err)

	w := doGet(r, sid)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ada@example.com", w.Body.String())
}

func TestRequireUser_VanishedUser(t *testing.T) {
	// The session is live but the user row is gone; must read as logged out.
	repo := &staticUserRepo{}
	r, sessions := newGuardedRouter(t, repo)

	sid, err := sessions.Login(context.Background(), "", "deleted-user")
	require.NoError(t, err)

	w := doGet(r, sid)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireUser_AfterLogout(t *testing.T) {
	repo := &staticUserRepo{user: &entity.User{ID: "user-1", Email: "ada@example.com"}}
	r, sessions := newGuardedRouter(t, repo)

	ctx := context.Background()
	sid, err := sessions.Login(ctx, "", "user-1")
	require.NoError(t, err)
	require.NoError(t, sessions.Logout(ctx, sid))

	w := doGet(r, sid)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

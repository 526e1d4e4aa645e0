package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mezshop/shop-api/internal/domain/entity"
	"github.com/mezshop/shop-api/internal/domain/repository"
	"github.com/mezshop/shop-api/internal/session"
	"github.com/mezshop/shop-api/pkg/helpers"
	"github.com/mezshop/shop-api/pkg/response"
)

const (
	CtxUserIDKey = "userID"
	CtxUserKey   = "currentUser"
	CtxSIDKey    = "sessionID"
)

// CurrentUser resolves the session cookie and, for authenticated sessions,
// loads the user from the credential store before any handler runs. It never
// aborts: a missing session, an expired session, or a vanished user all just
// mean "not logged in". Guarding is RequireUser's job.
func CurrentUser(sessions *session.Manager, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(helpers.SessionCookieName)
		if err != nil || sid == "" {
			c.Next()
			return
		}
		c.Set(CtxSIDKey, sid)

		rec, err := sessions.Get(c.Request.Context(), sid)
		if err != nil || rec == nil || !rec.Authenticated || rec.UserID == "" {
			c.Next()
			return
		}

		u, err := users.GetByID(c.Request.Context(), rec.UserID)
		if err != nil || u == nil {
			// user deleted since login: treat as unauthenticated
			c.Next()
			return
		}
		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserKey, u)
		c.Next()
	}
}

// RequireUser aborts with 401 unless CurrentUser resolved an authenticated
// user for this request.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserFrom(c); !ok {
			response.AbortError(c, http.StatusUnauthorized, "login required", nil)
			return
		}
		c.Next()
	}
}

// UserFrom returns the user resolved for this request, if any.
func UserFrom(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok
}

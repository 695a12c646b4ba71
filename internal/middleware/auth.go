package middleware

import (
	"errors"
	"net/http"

	"github.com/pranavanil47/prowlerdash/internal/auth"
	"github.com/pranavanil47/prowlerdash/internal/models"
	"github.com/pranavanil47/prowlerdash/internal/util"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// RequireSession resolves the session cookie to a user and puts the
// user into the request context. Requests without a valid, unexpired
// session get a 401.
func RequireSession(sessions *auth.Sessions, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || id == "" {
			util.Error(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}

		user, err := sessions.Lookup(id)
		if err != nil {
			if errors.Is(err, auth.ErrNoSession) {
				util.Error(c, http.StatusUnauthorized, "session expired, please log in again")
			} else {
				util.InternalError(c, err)
			}
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireAdmin gates a route group on the admin role. Must run after
// RequireSession; an authenticated non-admin gets a 403.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			util.Error(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		if !user.IsAdmin() {
			util.Error(c, http.StatusForbidden, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user RequireSession stored on the context.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

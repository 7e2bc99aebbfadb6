package middleware

import (
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

// UserContextKey is the echo context key the acting user's id is stored under.
const UserContextKey = "uid"

const sessionName = "parley_session"

// Auth protects routes that require an authenticated acting user. The user
// id is read from the server-side session and stored on the echo context for
// downstream handlers.
func Auth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := session.Get(sessionName, c)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
			}

			uid, ok := sess.Values["uid"].(string)
			if !ok || uid == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
			}

			c.Set(UserContextKey, uid)
			return next(c)
		}
	}
}

// ActingUID returns the authenticated user's id from the echo context, or
// the empty string when the request is unauthenticated.
func ActingUID(c echo.Context) string {
	uid, _ := c.Get(UserContextKey).(string)
	return uid
}

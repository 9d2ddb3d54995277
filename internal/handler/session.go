package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/excel_intelligence/internal/logger"
	"github.com/locvowork/excel_intelligence/internal/session"
)

const sessionContextKey = "session_id"

// SessionMiddleware resolves the session cookie, issuing a new id when the
// cookie is absent or malformed, and tags the request logger with it.
func SessionMiddleware(store *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if cookie, err := c.Cookie(session.CookieName); err == nil && session.ValidID(cookie.Value) {
				id = cookie.Value
			} else {
				id = session.NewID()
				c.SetCookie(&http.Cookie{
					Name:     session.CookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			store.Touch(id)
			c.Set(sessionContextKey, id)

			req := c.Request()
			ctx := logger.WithLogger(req.Context(), map[string]interface{}{"session": id})
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

func sessionID(c echo.Context) string {
	id, _ := c.Get(sessionContextKey).(string)
	return id
}

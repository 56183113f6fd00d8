package middleware

import (
	"context"
	"errors"
	"net/http"

	"mcredit-backend/internal/domain/user"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SessionCookie carries the server-side session id.
const SessionCookie = "sid"

const actorKey = "actor"

// Authenticator resolves a session id to the caller.
type Authenticator interface {
	Authenticate(ctx context.Context, sid string) (*user.Actor, error)
}

// LoadSession attaches the caller to the context when the cookie names a live
// session. Anonymous requests pass through untouched.
func LoadSession(a Authenticator, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(SessionCookie)
			if err != nil || ck.Value == "" {
				return next(c)
			}
			actor, err := a.Authenticate(c.Request().Context(), ck.Value)
			switch {
			case err == nil:
				SetActor(c, actor)
			case errors.Is(err, user.ErrUnauthenticated):
			default:
				log.Error("session lookup failed", zap.Error(err))
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "session store unavailable"})
			}
			return next(c)
		}
	}
}

func SetActor(c echo.Context, a *user.Actor) { c.Set(actorKey, a) }

// ActorFrom returns the authenticated caller or nil.
func ActorFrom(c echo.Context) *user.Actor {
	a, _ := c.Get(actorKey).(*user.Actor)
	return a
}

func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ActorFrom(c) == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
			}
			return next(c)
		}
	}
}

// RequireRole implies RequireAuth.
func RequireRole(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			a := ActorFrom(c)
			if a == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
			}
			for _, r := range roles {
				if a.Role == r {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Insufficient permissions"})
		}
	}
}

package middleware

import (
	"oj/internal/domain/entity"
	domainerrors "oj/internal/domain/errors"
	"oj/internal/domain/service"
	"oj/internal/usecase"

	"github.com/labstack/echo/v4"
)

// SessionCookieName is the cookie the signed session identifier travels in.
const SessionCookieName = "sid"

const contextKeyUser = "currentUser"

// SessionMiddleware authenticates requests by the sid cookie.
type SessionMiddleware struct {
	codec  service.SessionCodec
	authUC usecase.AuthUsecase
}

// NewSessionMiddleware is the constructor for SessionMiddleware.
func NewSessionMiddleware(codec service.SessionCodec, authUC usecase.AuthUsecase) *SessionMiddleware {
	return &SessionMiddleware{codec: codec, authUC: authUC}
}

// Authenticate validates the session cookie and resolves the current user.
// A missing cookie, a bad signature, an expired session and an unknown
// subject are all the same unauthenticated failure.
func (m *SessionMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			return domainerrors.ErrUnauthenticated.WrapMessage("missing session cookie")
		}

		claims, err := m.codec.Decode(cookie.Value)
		if err != nil {
			return err
		}

		user, err := m.authUC.WhoAmI(c.Request().Context(), claims.Email)
		if err != nil {
			return err
		}

		SetCurrentUser(c, user)

		return next(c)
	}
}

// SetCurrentUser stores the resolved user on the request context.
func SetCurrentUser(c echo.Context, user *entity.User) {
	c.Set(contextKeyUser, user)
}

// CurrentUser returns the user resolved by Authenticate, or nil outside an
// authenticated route.
func CurrentUser(c echo.Context) *entity.User {
	user, _ := c.Get(contextKeyUser).(*entity.User)

	return user
}

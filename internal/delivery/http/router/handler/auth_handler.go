// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"

	"oj/config"
	"oj/internal/delivery/http/middleware"
	domainerrors "oj/internal/domain/errors"
	"oj/internal/domain/service"
	"oj/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for the passwordless sign-in handlers.
type AuthHandler struct {
	uc    usecase.AuthUsecase
	codec service.SessionCodec
	cfg   *config.Config
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, codec service.SessionCodec, cfg *config.Config) *AuthHandler {
	return &AuthHandler{uc: uc, codec: codec, cfg: cfg}
}

// RequestLinkRequest is the request-link payload.
type RequestLinkRequest struct {
	Email        string `json:"email" validate:"required"`
	CaptchaToken string `json:"captchaToken"`
}

// RequestLinkResponse reports a successful link request. MagicLink is only
// present outside production.
type RequestLinkResponse struct {
	Sent      bool   `json:"sent"`
	MagicLink string `json:"magicLink,omitempty"`
}

// VerifyRequest is the token-redemption payload for the POST form.
type VerifyRequest struct {
	Token string `json:"token"`
}

// RequestLink handles the magic-link request.
func (h *AuthHandler) RequestLink(c echo.Context) error {
	var req RequestLinkRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrInvalidArgument.WithDetails("malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	out, err := h.uc.RequestLink(c.Request().Context(), usecase.RequestLinkInput{
		Email:        req.Email,
		CaptchaToken: req.CaptchaToken,
		IP:           c.RealIP(),
		UserAgent:    c.Request().UserAgent(),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, RequestLinkResponse{
		Sent:      true,
		MagicLink: out.MagicLink,
	})
}

// Verify redeems a token from either the POST body or the link's query
// string, and sets the session cookie on success.
func (h *AuthHandler) Verify(c echo.Context) error {
	var req VerifyRequest
	if c.Request().Method == http.MethodPost {
		if err := c.Bind(&req); err != nil {
			return domainerrors.ErrInvalidArgument.WithDetails("malformed request body")
		}
	}
	if req.Token == "" {
		req.Token = c.QueryParam("token")
	}

	out, err := h.uc.Verify(c.Request().Context(), usecase.VerifyInput{
		Token:     req.Token,
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	c.SetCookie(h.sessionCookie(out.SessionID, int(h.codec.TTL().Seconds())))

	return c.JSON(http.StatusOK, toUserResponse(out.User))
}

// Logout clears the session cookie. The session is not required to be
// valid; a decodable cookie only enriches the audit entry.
func (h *AuthHandler) Logout(c echo.Context) error {
	var email string
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if claims, err := h.codec.Decode(cookie.Value); err == nil {
			email = claims.Email
		}
	}

	if err := h.uc.Logout(c.Request().Context(), usecase.LogoutInput{
		Email:     email,
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}); err != nil {
		return errors.WithStack(err)
	}

	c.SetCookie(h.sessionCookie("", -1))

	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cfg.Mode().IsProduction(),
	}
}

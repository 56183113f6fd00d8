package http

import (
	"net/http"
	"time"

	"mcredit-backend/internal/adapter/middleware"
	"mcredit-backend/internal/usecase/auth"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthHandler struct {
	uc     *auth.Usecase
	ttl    time.Duration
	secure bool
	log    *zap.Logger
}

func NewAuthHandler(uc *auth.Usecase, sessionTTL time.Duration, secureCookie bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, ttl: sessionTTL, secure: secureCookie, log: log}
}

type registerReq struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,bcryptlen"`
	FullName string `json:"fullName" validate:"required,min=2,max=120"`
	Mobile   string `json:"mobile" validate:"omitempty,mobile"`
	Role     string `json:"role" validate:"omitempty,oneof=customer agent admin"`
}

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, h.log, err)
	}
	usr, err := h.uc.Register(c.Request().Context(), middleware.ActorFrom(c), auth.RegisterInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"user": usr})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, h.log, err)
	}
	usr, sess, err := h.uc.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.SetCookie(h.cookie(sess.ID, int(h.ttl.Seconds())))
	return c.JSON(http.StatusOK, map[string]any{"user": usr})
}

func (h *AuthHandler) Me(c echo.Context) error {
	usr, err := h.uc.Me(c.Request().Context(), *middleware.ActorFrom(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"user": usr})
}

// Logout is safe to call without a session.
func (h *AuthHandler) Logout(c echo.Context) error {
	if ck, err := c.Cookie(middleware.SessionCookie); err == nil {
		if err := h.uc.Logout(c.Request().Context(), ck.Value); err != nil {
			return writeError(c, h.log, err)
		}
	}
	c.SetCookie(h.cookie("", -1))
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (h *AuthHandler) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

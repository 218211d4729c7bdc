package user

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hfvoice/hfvoice/internal/platform/auth"
)

type Handler struct {
	svc       *Service
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewHandler(svc *Service, jwtSecret []byte, tokenTTL time.Duration) *Handler {
	return &Handler{svc: svc, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/auth/login", h.Login)
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid login payload")
	}

	u, err := h.svc.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	token, err := auth.MintToken(h.jwtSecret, u.ID, u.Username, u.IsAdmin, h.tokenTTL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not issue token")
	}
	return c.JSON(http.StatusOK, loginResponse{
		Token:    token,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
	})
}
